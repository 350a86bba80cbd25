package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/user/reel-locator/pkg/useragent"
)

// Runner executes a command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs real processes.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, truncate(stderr.String(), 256))
	}
	return stdout.Bytes(), nil
}

// Variant selects the extra flags passed to yt-dlp.
type Variant int

const (
	Basic Variant = iota
	WithUserAgent
	WithBrowserCookies
)

func (v Variant) String() string {
	switch v {
	case WithUserAgent:
		return "ytdlp_user_agent"
	case WithBrowserCookies:
		return "ytdlp_cookies"
	default:
		return "ytdlp_basic"
	}
}

// Strategy reads a reel description from yt-dlp's metadata dump.
type Strategy struct {
	binary  string
	variant Variant
	timeout time.Duration
	runner  Runner
	agents  *useragent.Rotator
}

func NewStrategy(binary string, variant Variant, timeout time.Duration, runner Runner, agents *useragent.Rotator) *Strategy {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Strategy{binary: binary, variant: variant, timeout: timeout, runner: runner, agents: agents}
}

// Strategies returns the three variants in the order they are tried.
func Strategies(binary string, timeout time.Duration, runner Runner, agents *useragent.Rotator) []*Strategy {
	return []*Strategy{
		NewStrategy(binary, Basic, timeout, runner, agents),
		NewStrategy(binary, WithUserAgent, timeout, runner, agents),
		NewStrategy(binary, WithBrowserCookies, timeout, runner, agents),
	}
}

func (s *Strategy) Name() string { return s.variant.String() }

// Args builds the yt-dlp argument list for reelURL.
func (s *Strategy) Args(reelURL string) []string {
	args := []string{"--dump-json", "--no-download", "--ignore-errors"}
	switch s.variant {
	case WithUserAgent:
		args = append(args, "--user-agent", s.agents.Next())
	case WithBrowserCookies:
		args = append(args, "--cookies-from-browser", "chrome")
	}
	return append(args, reelURL)
}

func (s *Strategy) FetchCaption(ctx context.Context, reelURL string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := s.runner.Run(ctx, s.binary, s.Args(reelURL)...)
	if err != nil {
		return "", err
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return "", nil
	}

	// With --ignore-errors yt-dlp may print several objects; the first one is the reel.
	var info struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(bytes.NewReader(out)).Decode(&info); err != nil {
		return "", fmt.Errorf("decode yt-dlp output: %w", err)
	}
	return info.Description, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
