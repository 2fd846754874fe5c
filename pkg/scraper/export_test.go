package scraper

import (
	"context"

	"github.com/chromedp/chromedp"
)

func OverloadRunChrome(overload func(ctx context.Context, actions ...chromedp.Action) error) func() {
	runChromeRef := runChrome
	runChrome = overload
	return func() { runChrome = runChromeRef }
}
