package dictionary_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/signclips/pkg/dictionary"
	"github.com/tauraamui/signclips/pkg/scraper"
)

const baseURL = "https://qipedc.moet.gov.vn"

func TestWriteCSVWritesHeaderAndRows(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	is.NoErr(dictionary.WriteCSV(&buf, []scraper.Entry{
		{Text: "xin chào", Video: "/videos/D0001B.mp4?autoplay=true"},
		{Text: "a, b", Video: "/videos/D0002N.mp4?autoplay=true"},
	}))
	is.Equal(buf.String(), "Text,Video\n"+
		"xin chào,/videos/D0001B.mp4?autoplay=true\n"+
		"\"a, b\",/videos/D0002N.mp4?autoplay=true\n")
}

func TestReadCSVReadsWhatWriteCSVWrote(t *testing.T) {
	is := is.New(t)
	entries := []scraper.Entry{{Text: "một", Video: "/videos/D0003T.mp4"}}
	var buf bytes.Buffer
	is.NoErr(dictionary.WriteCSV(&buf, entries))

	read, err := dictionary.ReadCSV(&buf)
	is.NoErr(err)
	is.Equal(read, entries)
}

func TestReadCSVRejectsWrongHeader(t *testing.T) {
	is := is.New(t)
	_, err := dictionary.ReadCSV(strings.NewReader("Word,Link\na,b\n"))
	is.True(errors.Is(err, dictionary.ErrUnexpectedHeader))

	_, err = dictionary.ReadCSV(strings.NewReader(""))
	is.True(errors.Is(err, dictionary.ErrUnexpectedHeader))
}

func TestReadCSVRejectsProcessedTableByHeader(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	is.NoErr(dictionary.WriteProcessedCSV(&buf, []dictionary.Row{
		{Text: "cảm ơn", VideoURL: baseURL + "/videos/D0005T.mp4", Region: "T", Label: "cảm_ơnT"},
	}))

	_, err := dictionary.ReadCSV(&buf)
	is.True(errors.Is(err, dictionary.ErrUnexpectedHeader))
}

func TestReadCSVRejectsRowOfWrongWidth(t *testing.T) {
	is := is.New(t)
	_, err := dictionary.ReadCSV(strings.NewReader("Text,Video\nxin chào,/videos/D0001B.mp4,extra\n"))
	is.True(err != nil)
	is.True(!errors.Is(err, dictionary.ErrUnexpectedHeader))
	is.Equal(err.Error(), "unable to read csv: record 1 has 3 fields, want 2")
}

func TestLoadProcessesScrapedTable(t *testing.T) {
	is := is.New(t)
	rows, processed, err := dictionary.Load([]byte("Text,Video\nxin chào,/videos/D0001B.mp4\n"), baseURL)
	is.NoErr(err)
	is.True(!processed)
	is.Equal(rows, []dictionary.Row{
		{Text: "xin chào", VideoURL: baseURL + "/videos/D0001B.mp4", Region: "B", Label: "xin_chàoB"},
	})
}

func TestLoadRecognisesProcessedTable(t *testing.T) {
	is := is.New(t)
	want := []dictionary.Row{{Text: "cảm ơn", VideoURL: baseURL + "/videos/D0005T.mp4", Region: "T", Label: "cảm_ơnT"}}
	var buf bytes.Buffer
	is.NoErr(dictionary.WriteProcessedCSV(&buf, want))

	rows, processed, err := dictionary.Load(buf.Bytes(), baseURL)
	is.NoErr(err)
	is.True(processed)
	is.Equal(rows, want)
}

func TestLoadRejectsUnknownTable(t *testing.T) {
	is := is.New(t)
	_, _, err := dictionary.Load([]byte("Word,Link\na,b\n"), baseURL)
	is.True(errors.Is(err, dictionary.ErrUnexpectedHeader))
	is.Equal(err.Error(), "unexpected csv header: want [Text Video], got [Word Link]")
}

func TestRegion(t *testing.T) {
	is := is.New(t)
	is.Equal(dictionary.Region(baseURL+"/videos/D0001B.mp4?autoplay=true"), "B")
	is.Equal(dictionary.Region(baseURL+"/videos/D1234T.mp4"), "T")
	is.Equal(dictionary.Region(baseURL+"/videos/D0099N.mp4"), "N")
	is.Equal(dictionary.Region(baseURL+"/videos/D0001X.mp4"), "")
	is.Equal(dictionary.Region(baseURL+"/videos/W0001B.mp4"), "")
}

func TestProcessBuildsURLRegionAndLabelSortedByText(t *testing.T) {
	is := is.New(t)
	rows := dictionary.Process([]scraper.Entry{
		{Text: "xin chào", Video: "/videos/D0001B.mp4?autoplay=true"},
		{Text: "bạn", Video: "/videos/other.mp4?autoplay=true"},
		{Text: "bạn", Video: "/videos/D0002N.mp4?autoplay=true"},
	}, baseURL)

	is.Equal(rows, []dictionary.Row{
		{Text: "bạn", VideoURL: baseURL + "/videos/other.mp4?autoplay=true", Region: "", Label: "bạn"},
		{Text: "bạn", VideoURL: baseURL + "/videos/D0002N.mp4?autoplay=true", Region: "N", Label: "bạnN"},
		{Text: "xin chào", VideoURL: baseURL + "/videos/D0001B.mp4?autoplay=true", Region: "B", Label: "xin_chàoB"},
	})
}

func TestProcessedCSVRoundTrip(t *testing.T) {
	is := is.New(t)
	rows := []dictionary.Row{{Text: "cảm ơn", VideoURL: baseURL + "/videos/D0005T.mp4", Region: "T", Label: "cảm_ơnT"}}

	var buf bytes.Buffer
	is.NoErr(dictionary.WriteProcessedCSV(&buf, rows))
	is.True(strings.HasPrefix(buf.String(), "Text,Video URL,Region,Label\n"))

	read, err := dictionary.ReadProcessedCSV(&buf)
	is.NoErr(err)
	is.Equal(read, rows)
}
