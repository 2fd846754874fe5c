package configdef

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tauraamui/xerror"
	"gopkg.in/dealancer/validate.v2"
)

type Sampling struct {
	NumFrames int `json:"num_frames" yaml:"num_frames" validate:"gte=1"`
	FrameStep int `json:"frame_step" yaml:"frame_step" validate:"gte=1"`
}

type Dataset struct {
	Dir       string `json:"dir" yaml:"dir"`
	Extension string `json:"extension" yaml:"extension"`
	ExportDir string `json:"export_dir" yaml:"export_dir"`
	// Scale multiplies exported pixel values, zero leaves them as decoded.
	Scale float32 `json:"scale" yaml:"scale"`
}

type Scraper struct {
	URL             string `json:"url" yaml:"url"`
	BaseURL         string `json:"base_url" yaml:"base_url"`
	Headless        bool   `json:"headless" yaml:"headless"`
	ExecPath        string `json:"exec_path" yaml:"exec_path"`
	PageWaitSeconds int    `json:"page_wait_seconds" yaml:"page_wait_seconds" validate:"gte=0 & lte=60"`
	CSVPath         string `json:"csv_path" yaml:"csv_path"`
}

type Values struct {
	VideoBackend string   `json:"video_backend" yaml:"video_backend"`
	Sampling     Sampling `json:"sampling" yaml:"sampling"`
	Dataset      Dataset  `json:"dataset" yaml:"dataset"`
	Scraper      Scraper  `json:"scraper" yaml:"scraper"`
}

// RunValidate applies the struct tag rules first, then the checks
// which cannot be expressed as tags.
func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	return v.Validate()
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if ext := v.Dataset.Extension; len(ext) > 0 && !strings.HasPrefix(ext, ".") {
		return xerror.Errorf(validationErrorHeader, fmt.Errorf("dataset extension %q must start with '.'", ext))
	}
	if v.Dataset.Scale < 0 {
		return xerror.Errorf(validationErrorHeader, fmt.Errorf("dataset scale %v must not be negative", v.Dataset.Scale))
	}
	for _, addr := range []string{v.Scraper.URL, v.Scraper.BaseURL} {
		if len(addr) == 0 {
			continue
		}
		if !isAbsoluteURL(addr) {
			return xerror.Errorf(validationErrorHeader, fmt.Errorf("scraper address %q must be an absolute URL", addr))
		}
	}
	return nil
}

func isAbsoluteURL(addr string) bool {
	u, err := url.Parse(addr)
	if err != nil {
		return false
	}
	return u.IsAbs() && len(u.Host) > 0
}
