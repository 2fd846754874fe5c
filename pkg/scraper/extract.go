package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tauraamui/xerror"
)

const (
	textSelector       = "p.t-a-center.f-s-18.f-f-Lato-Black.mb-0"
	thumbnailSelector  = "img.m-w-100"
	pageButtonSelector = "button.btn.mx-1.btn-sm"
	activePageClass    = "btn-info"
)

var (
	ErrNoActivePage = xerror.New("no active page button found")
	ErrLastPage     = xerror.New("no more pages to visit")
)

// Entry is a single dictionary word paired with the relative
// link to its sign video.
type Entry struct {
	Text  string
	Video string
}

func parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, xerror.Errorf("unable to parse page html: %w", err)
	}
	return doc, nil
}

// ExtractEntries pairs each word on a dictionary page with its video. The
// first thumbnail on the page is not a dictionary entry and is skipped.
func ExtractEntries(html string) ([]Entry, error) {
	doc, err := parse(html)
	if err != nil {
		return nil, err
	}

	texts := doc.Find(textSelector).Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Text())
	})
	thumbs := doc.Find(thumbnailSelector).Map(func(_ int, s *goquery.Selection) string {
		return s.AttrOr("src", "")
	})
	if len(thumbs) > 0 {
		thumbs = thumbs[1:]
	}

	n := len(texts)
	if len(thumbs) < n {
		n = len(thumbs)
	}

	entries := make([]Entry, n)
	for i := 0; i < n; i++ {
		entries[i] = Entry{Text: texts[i], Video: VideoLink(thumbs[i])}
	}
	return entries, nil
}

// VideoLink rewrites a thumbnail image path into the path of the video it previews.
func VideoLink(thumb string) string {
	link := strings.ReplaceAll(thumb, "thumbs", "videos")
	return strings.ReplaceAll(link, ".png", ".mp4?autoplay=true")
}

// NextPageIndex returns the position, among the pagination buttons, of
// the button following the currently active one.
func NextPageIndex(html string) (int, error) {
	doc, err := parse(html)
	if err != nil {
		return -1, err
	}

	buttons := doc.Find(pageButtonSelector)
	active := -1
	buttons.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if s.HasClass(activePageClass) {
			active = i
			return false
		}
		return true
	})

	if active < 0 {
		return -1, ErrNoActivePage
	}
	if active+1 >= buttons.Length() {
		return -1, ErrLastPage
	}
	return active + 1, nil
}
