package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/tauraamui/signclips/pkg/log"
	"github.com/tauraamui/xerror"
)

// Browser renders pages which build their content with javascript.
type Browser interface {
	Navigate(url string) error
	HTML() (string, error)
	// ClickNth clicks the nth element matching selector.
	ClickNth(selector string, n int) error
	Close() error
}

type ChromeOptions struct {
	Headless bool
	// ExecPath overrides the chrome binary lookup when set.
	ExecPath string
	// PageWait is how long to let a page settle after navigating or clicking.
	PageWait time.Duration
}

type chromeBrowser struct {
	ctx       context.Context
	cancel    context.CancelFunc
	pageWait  time.Duration
	closeOnce sync.Once
}

var runChrome = func(ctx context.Context, actions ...chromedp.Action) error {
	return chromedp.Run(ctx, actions...)
}

func NewChromeBrowser(ctx context.Context, opts ChromeOptions) (Browser, error) {
	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
	)
	if len(opts.ExecPath) > 0 {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Debug))

	b := &chromeBrowser{
		ctx: browserCtx,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
		pageWait: opts.PageWait,
	}

	// an empty run starts the browser process
	if err := runChrome(browserCtx); err != nil {
		b.cancel()
		return nil, xerror.Errorf("unable to start browser: %w", err)
	}

	return b, nil
}

func (b *chromeBrowser) Navigate(url string) error {
	log.Debug("Navigating to [%s]", url)
	if err := runChrome(b.ctx, chromedp.Navigate(url), chromedp.Sleep(b.pageWait)); err != nil {
		return xerror.Errorf("unable to navigate to [%s]: %w", url, err)
	}
	return nil
}

func (b *chromeBrowser) HTML() (string, error) {
	var html string
	if err := runChrome(b.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", xerror.Errorf("unable to read page html: %w", err)
	}
	return html, nil
}

func (b *chromeBrowser) ClickNth(selector string, n int) error {
	var clicked bool
	script := fmt.Sprintf(
		`(() => { const els = document.querySelectorAll(%q); if (%d >= els.length) { return false; } els[%d].click(); return true; })()`,
		selector, n, n,
	)
	if err := runChrome(b.ctx, chromedp.Evaluate(script, &clicked), chromedp.Sleep(b.pageWait)); err != nil {
		return xerror.Errorf("unable to click [%s] #%d: %w", selector, n, err)
	}
	if !clicked {
		return xerror.Errorf("no element [%s] #%d to click", selector, n)
	}
	return nil
}

func (b *chromeBrowser) Close() error {
	b.closeOnce.Do(func() {
		log.Debug("Closing browser")
		b.cancel()
	})
	return nil
}
