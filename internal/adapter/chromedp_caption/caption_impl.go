package chromedp_caption

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/reel-locator/internal/adapter/embed"
	"github.com/user/reel-locator/pkg/useragent"
)

type allocator struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// ChromedpCaption renders the embed page in headless Chrome and parses the result.
type ChromedpCaption struct {
	pool    chan allocator
	timeout time.Duration
	agents  *useragent.Rotator
	logger  *zap.Logger
}

// NewChromedpCaption starts poolSize browser allocators. Browsers are launched lazily
// on first use by chromedp.
func NewChromedpCaption(poolSize int, pageLoadTimeout time.Duration, agents *useragent.Rotator, logger *zap.Logger) *ChromedpCaption {
	if poolSize < 1 {
		poolSize = 1
	}
	pool := make(chan allocator, poolSize)
	for i := 0; i < poolSize; i++ {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
		ctx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
		pool <- allocator{ctx: ctx, cancel: cancel}
	}

	return &ChromedpCaption{
		pool:    pool,
		timeout: pageLoadTimeout,
		agents:  agents,
		logger:  logger,
	}
}

func (c *ChromedpCaption) Name() string { return "headless_embed" }

// FetchCaption waits for a free allocator, then navigates to the embed page.
func (c *ChromedpCaption) FetchCaption(ctx context.Context, reelURL string) (string, error) {
	var alloc allocator
	select {
	case alloc = <-c.pool:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { c.pool <- alloc }()

	taskCtx, cancel := chromedp.NewContext(alloc.ctx)
	defer cancel()

	taskCtx, cancel = context.WithTimeout(taskCtx, c.timeout)
	defer cancel()

	// Abort the render when the caller goes away.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	headers := network.Headers{}
	for k, v := range embed.Headers(c.agents.Next()) {
		headers[k] = v
	}

	embedURL := embed.EmbedURL(reelURL)
	start := time.Now()
	var html string
	err := chromedp.Run(taskCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(headers),
		chromedp.Navigate(embedURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		c.logger.Warn("Headless render failed", zap.String("url", embedURL), zap.Error(err))
		return "", err
	}
	c.logger.Debug("Rendered embed page",
		zap.String("url", embedURL),
		zap.Duration("elapsed", time.Since(start)),
	)
	return embed.ParseCaption(html)
}

// Close shuts down every browser in the pool.
func (c *ChromedpCaption) Close() {
	for {
		select {
		case alloc := <-c.pool:
			alloc.cancel()
		default:
			return
		}
	}
}
