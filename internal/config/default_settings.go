package config

import "github.com/tauraamui/signclips/pkg/configdef"

type defaultSettingKey uint

const (
	SAMPLING        defaultSettingKey = 0x0
	DATASETEXT      defaultSettingKey = 0x1
	SCRAPERURL      defaultSettingKey = 0x2
	SCRAPERBASEURL  defaultSettingKey = 0x3
	SCRAPERPAGEWAIT defaultSettingKey = 0x4
	SCRAPERCSVPATH  defaultSettingKey = 0x5
)

var defaultSettings = map[defaultSettingKey]interface{}{
	SAMPLING:        configdef.Sampling{NumFrames: 13, FrameStep: 4},
	DATASETEXT:      ".mp4",
	SCRAPERURL:      "https://qipedc.moet.gov.vn/dictionary",
	SCRAPERBASEURL:  "https://qipedc.moet.gov.vn",
	SCRAPERPAGEWAIT: 2,
	SCRAPERCSVPATH:  "text_video_data.csv",
}

func defaultValues() configdef.Values {
	return configdef.Values{
		Sampling: defaultSettings[SAMPLING].(configdef.Sampling),
		Dataset: configdef.Dataset{
			Extension: defaultSettings[DATASETEXT].(string),
		},
		Scraper: configdef.Scraper{
			URL:             defaultSettings[SCRAPERURL].(string),
			BaseURL:         defaultSettings[SCRAPERBASEURL].(string),
			Headless:        true,
			PageWaitSeconds: defaultSettings[SCRAPERPAGEWAIT].(int),
			CSVPath:         defaultSettings[SCRAPERCSVPATH].(string),
		},
	}
}

// applyDefaults fills in zero valued fields only, anything the
// file sets explicitly (including invalid values) is left alone.
func applyDefaults(values *configdef.Values) {
	defaults := defaultValues()
	if values.Sampling.NumFrames == 0 {
		values.Sampling.NumFrames = defaults.Sampling.NumFrames
	}
	if values.Sampling.FrameStep == 0 {
		values.Sampling.FrameStep = defaults.Sampling.FrameStep
	}
	if len(values.Dataset.Extension) == 0 {
		values.Dataset.Extension = defaults.Dataset.Extension
	}
	if len(values.Scraper.URL) == 0 {
		values.Scraper.URL = defaults.Scraper.URL
	}
	if len(values.Scraper.BaseURL) == 0 {
		values.Scraper.BaseURL = defaults.Scraper.BaseURL
	}
	if values.Scraper.PageWaitSeconds == 0 {
		values.Scraper.PageWaitSeconds = defaults.Scraper.PageWaitSeconds
	}
	if len(values.Scraper.CSVPath) == 0 {
		values.Scraper.CSVPath = defaults.Scraper.CSVPath
	}
}
