package dictionary

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/tauraamui/signclips/pkg/scraper"
	"github.com/tauraamui/xerror"
)

var (
	rawHeader       = []string{"Text", "Video"}
	processedHeader = []string{"Text", "Video URL", "Region", "Label"}

	regionPattern = regexp.MustCompile(`/videos/D\d{4}([BTN])\.mp4`)
)

var ErrUnexpectedHeader = xerror.New("unexpected csv header")

// Row is a processed dictionary entry, its label combines the
// word with the region the sign is used in.
type Row struct {
	Text     string
	VideoURL string
	Region   string
	Label    string
}

func WriteCSV(w io.Writer, entries []scraper.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rawHeader); err != nil {
		return xerror.Errorf("unable to write csv header: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Text, e.Video}); err != nil {
			return xerror.Errorf("unable to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadCSV(r io.Reader) ([]scraper.Entry, error) {
	records, err := readRecords(r, rawHeader)
	if err != nil {
		return nil, err
	}

	entries := make([]scraper.Entry, len(records))
	for i, rec := range records {
		entries[i] = scraper.Entry{Text: rec[0], Video: rec[1]}
	}
	return entries, nil
}

func readRecords(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, xerror.Errorf("unable to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, xerror.Errorf("%w: file is empty", ErrUnexpectedHeader)
	}
	if !equalFields(records[0], header) {
		return nil, xerror.Errorf("%w: want %v, got %v", ErrUnexpectedHeader, header, records[0])
	}

	rows := records[1:]
	for i, rec := range rows {
		if len(rec) != len(header) {
			return nil, xerror.Errorf("unable to read csv: record %d has %d fields, want %d", i+1, len(rec), len(header))
		}
	}
	return rows, nil
}

func equalFields(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Load reads either a scraped table, which it processes against baseURL,
// or a table which has already been processed. processed reports which.
func Load(content []byte, baseURL string) (rows []Row, processed bool, err error) {
	entries, err := ReadCSV(bytes.NewReader(content))
	if err == nil {
		return Process(entries, baseURL), false, nil
	}
	if !errors.Is(err, ErrUnexpectedHeader) {
		return nil, false, err
	}

	rows, perr := ReadProcessedCSV(bytes.NewReader(content))
	if perr != nil {
		if errors.Is(perr, ErrUnexpectedHeader) {
			return nil, false, err
		}
		return nil, false, perr
	}
	return rows, true, nil
}

// Region extracts the single letter region code (B, T or N) from a video
// URL, empty when the URL does not follow the dictionary naming.
func Region(videoURL string) string {
	match := regionPattern.FindStringSubmatch(videoURL)
	if match == nil {
		return ""
	}
	return match[1]
}

func Label(text, region string) string {
	return strings.ReplaceAll(text, " ", "_") + region
}

// Process resolves each entry's video against baseURL, derives its region
// and label, and orders the result by text.
func Process(entries []scraper.Entry, baseURL string) []Row {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		videoURL := baseURL + e.Video
		region := Region(videoURL)
		rows[i] = Row{
			Text:     e.Text,
			VideoURL: videoURL,
			Region:   region,
			Label:    Label(e.Text, region),
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Text < rows[j].Text
	})
	return rows
}

func WriteProcessedCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(processedHeader); err != nil {
		return xerror.Errorf("unable to write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Text, r.VideoURL, r.Region, r.Label}); err != nil {
			return xerror.Errorf("unable to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadProcessedCSV(r io.Reader) ([]Row, error) {
	records, err := readRecords(r, processedHeader)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = Row{Text: rec[0], VideoURL: rec[1], Region: rec[2], Label: rec[3]}
	}
	return rows, nil
}
