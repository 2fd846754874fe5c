package scraper

import (
	"context"
	"errors"

	"github.com/tauraamui/signclips/pkg/log"
)

// Scrape walks every page of the dictionary starting at url, collecting
// entries until the last page is reached. Any failure along the way ends
// pagination and the entries gathered so far are returned. The browser
// is always closed.
func Scrape(ctx context.Context, b Browser, url string) []Entry {
	defer func() {
		if err := b.Close(); err != nil {
			log.Error("unable to close browser: %v", err)
		}
	}()

	entries := []Entry{}
	if err := b.Navigate(url); err != nil {
		log.Error("%v", err)
		return entries
	}

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			log.Warn("Scraping cancelled on page %d: %v", page, err)
			return entries
		}

		html, err := b.HTML()
		if err != nil {
			log.Error("%v", err)
			return entries
		}

		found, err := ExtractEntries(html)
		if err != nil {
			log.Error("%v", err)
			return entries
		}
		entries = append(entries, found...)
		log.Info("Page %d: collected %d entries (%d total)", page, len(found), len(entries))

		next, err := NextPageIndex(html)
		if err != nil {
			if errors.Is(err, ErrLastPage) {
				log.Info("Finished scraping after %d pages", page)
			} else {
				log.Warn("Stopping after page %d: %v", page, err)
			}
			return entries
		}

		if err := b.ClickNth(pageButtonSelector, next); err != nil {
			log.Error("%v", err)
			return entries
		}
	}
}
