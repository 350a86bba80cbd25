package useragent

import (
	"math/rand"
	"sync"
	"time"
)

// Default is sent when no rotation pool is configured.
const Default = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Rotator hands out browser user agents for caption requests.
type Rotator struct {
	agents []string
	mu     sync.Mutex
	rnd    *rand.Rand
}

func NewRotator(agents ...string) *Rotator {
	if len(agents) == 0 {
		agents = []string{
			Default,
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		}
	}
	return &Rotator{
		agents: agents,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns a random user agent from the pool.
func (r *Rotator) Next() string {
	if r == nil || len(r.agents) == 0 {
		return Default
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.agents[r.rnd.Intn(len(r.agents))]
}
