package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/tauraamui/signclips/pkg/configdef"
	db "github.com/tauraamui/signclips/pkg/database"
	"github.com/tauraamui/signclips/pkg/database/dbconn"
	"github.com/tauraamui/signclips/pkg/database/models"
	"github.com/tauraamui/signclips/pkg/database/repos"
	"github.com/tauraamui/signclips/pkg/dataset"
	"github.com/tauraamui/signclips/pkg/dictionary"
	"github.com/tauraamui/signclips/pkg/log"
	"github.com/tauraamui/signclips/pkg/numpy"
	"github.com/tauraamui/signclips/pkg/sampler"
	"github.com/tauraamui/signclips/pkg/scraper"
	"github.com/tauraamui/signclips/pkg/video/videobackend"
	"github.com/tauraamui/signclips/pkg/video/videoclip"
	"github.com/tauraamui/xerror"
	"gorm.io/gorm"
)

const usage = "Usage: signclips setup | remove-setup | sample <video> [out.npy] | dataset [dir] [out] | scrape [csv] | process [csv] | lookup <label> | list"

var fs afero.Fs = afero.NewOsFs()

var connectDB = db.Connect

var newBrowser = func(ctx context.Context, s configdef.Scraper) (scraper.Browser, error) {
	return scraper.NewChromeBrowser(ctx, scraper.ChromeOptions{
		Headless: s.Headless,
		ExecPath: s.ExecPath,
		PageWait: time.Duration(s.PageWaitSeconds) * time.Second,
	})
}

type App struct {
	Resolver      configdef.Resolver
	Creator       configdef.Creator
	Backend       videobackend.Backend
	// ExportWorkers is how many videos the dataset command samples at once.
	ExportWorkers int
}

func (app App) Manage(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return usage, nil
	}

	command, args := args[0], args[1:]
	switch command {
	case "setup":
		return app.Setup()
	case "remove-setup":
		return app.RemoveSetup()
	case "sample":
		return app.Sample(ctx, args)
	case "dataset":
		return app.Dataset(ctx, args)
	case "scrape":
		return app.Scrape(ctx, args)
	case "process":
		return app.Process(args)
	case "lookup":
		return app.Lookup(args)
	case "list":
		return app.List()
	default:
		return usage, nil
	}
}

// Setup writes the default config and creates the local DB.
func (app App) Setup() (string, error) {
	log.Info("Setting up signclips...")

	err := app.Creator.Create()
	if err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	err = db.Setup()
	if err != nil {
		if !errors.Is(err, db.ErrDBAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	return "Setup successful...", nil
}

func (app App) RemoveSetup() (string, error) {
	log.Info("Removing setup for signclips...")
	err := db.Destroy()
	if err != nil {
		log.Error("unable to delete database file: %s", err.Error())
	}

	return "Removing setup successful...", nil
}

func (app App) resolveConfig() (configdef.Values, error) {
	cfg, err := app.Resolver.Resolve()
	if err != nil {
		return configdef.Values{}, xerror.Errorf("unable to load config (has setup been run?): %w", err)
	}
	return cfg, nil
}

func (app App) backend(cfg configdef.Values) videobackend.Backend {
	if app.Backend != nil {
		return app.Backend
	}
	return videobackend.Resolve(cfg.VideoBackend)
}

func (app App) Sample(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return usage, nil
	}
	cfg, err := app.resolveConfig()
	if err != nil {
		return "", err
	}

	path := args[0]
	clip, err := sampler.New(app.backend(cfg)).SampleFile(ctx, path, sampler.FromValues(cfg.Sampling))
	if err != nil {
		return "", err
	}

	status := fmt.Sprintf("Sampled [%s] as %s: shape %v", path, dataset.Label(path), clip.Shape())
	if len(args) < 2 {
		return status, nil
	}

	file, err := fs.Create(args[1])
	if err != nil {
		return "", xerror.Errorf("unable to create [%s]: %w", args[1], err)
	}
	defer file.Close()
	if err := numpy.WriteFloat32(file, clip.Data(), clip.Shape()); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s, written to [%s]", status, args[1]), nil
}

func (app App) Dataset(ctx context.Context, args []string) (string, error) {
	cfg, err := app.resolveConfig()
	if err != nil {
		return "", err
	}

	dir, outDir := cfg.Dataset.Dir, cfg.Dataset.ExportDir
	if len(args) > 0 {
		dir = args[0]
	}
	if len(args) > 1 {
		outDir = args[1]
	}
	if len(dir) == 0 {
		return usage, nil
	}
	if len(outDir) == 0 {
		outDir = filepath.Join(dir, "clips")
	}

	opts := dataset.Options{
		Extension: cfg.Dataset.Extension,
		Sampling:  sampler.FromValues(cfg.Sampling),
	}
	if cfg.Dataset.Scale > 0 {
		opts.Transform = videoclip.Scale(cfg.Dataset.Scale)
	}

	ds, err := dataset.New(dir, app.backend(cfg), opts)
	if err != nil {
		return "", err
	}

	written, err := ds.ExportConcurrently(ctx, outDir, app.ExportWorkers)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Exported %d of %d videos to [%s]", len(written), ds.Len(), outDir), nil
}

func (app App) csvPath(cfg configdef.Values, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Scraper.CSVPath
}

func (app App) Scrape(ctx context.Context, args []string) (string, error) {
	cfg, err := app.resolveConfig()
	if err != nil {
		return "", err
	}
	path := app.csvPath(cfg, args)

	browser, err := newBrowser(ctx, cfg.Scraper)
	if err != nil {
		return "", err
	}

	entries := scraper.Scrape(ctx, browser, cfg.Scraper.URL)

	file, err := fs.Create(path)
	if err != nil {
		return "", xerror.Errorf("unable to create [%s]: %w", path, err)
	}
	defer file.Close()
	if err := dictionary.WriteCSV(file, entries); err != nil {
		return "", err
	}

	return fmt.Sprintf("Saved %d text-video pairs to [%s]", len(entries), path), nil
}

// Process stores every row of the table at path not yet known by label,
// then replaces a scraped table with its processed form. A table which
// has already been processed is left as it is.
func (app App) Process(args []string) (string, error) {
	cfg, err := app.resolveConfig()
	if err != nil {
		return "", err
	}
	path := app.csvPath(cfg, args)

	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", xerror.Errorf("unable to read [%s]: %w", path, err)
	}
	rows, processed, err := dictionary.Load(raw, cfg.Scraper.BaseURL)
	if err != nil {
		return "", err
	}

	conn, err := connectDB()
	if err != nil {
		return "", err
	}
	stored, err := storeRows(conn, rows)
	if err != nil {
		return "", err
	}

	if !processed {
		if err := replaceWithProcessed(path, rows); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("Processed %d rows in [%s], stored %d new entries", len(rows), path, stored), nil
}

// replaceWithProcessed writes next to path first so a failed write
// never leaves the scraped table half overwritten.
func replaceWithProcessed(path string, rows []dictionary.Row) error {
	tmp := path + ".tmp"
	file, err := fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return xerror.Errorf("unable to open [%s]: %w", tmp, err)
	}

	if err := dictionary.WriteProcessedCSV(file, rows); err != nil {
		file.Close()
		fs.Remove(tmp)
		return err
	}
	if err := file.Close(); err != nil {
		fs.Remove(tmp)
		return xerror.Errorf("unable to close [%s]: %w", tmp, err)
	}

	if err := fs.Rename(tmp, path); err != nil {
		fs.Remove(tmp)
		return xerror.Errorf("unable to replace [%s]: %w", path, err)
	}
	return nil
}

func storeRows(conn dbconn.GormWrapper, rows []dictionary.Row) (int, error) {
	repo := repos.EntryRepository{DB: conn}
	stored := 0
	for _, r := range rows {
		_, err := repo.FindByLabel(r.Label)
		if err == nil {
			log.Debug("Entry %s already stored, skipping", r.Label)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return stored, err
		}

		if err := repo.Create(&models.Entry{
			Text: r.Text, VideoURL: r.VideoURL, Region: r.Region, Label: r.Label,
		}); err != nil {
			return stored, xerror.Errorf("unable to store entry %s: %w", r.Label, err)
		}
		stored++
	}
	return stored, nil
}

func (app App) Lookup(args []string) (string, error) {
	if len(args) == 0 {
		return usage, nil
	}

	conn, err := connectDB()
	if err != nil {
		return "", err
	}

	repo := repos.EntryRepository{DB: conn}
	entry, err := repo.FindByLabel(args[0])
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s (%s): %s", entry.Text, entry.Label, entry.VideoURL), nil
}

// List prints every stored entry ordered by text, one per line.
func (app App) List() (string, error) {
	conn, err := connectDB()
	if err != nil {
		return "", err
	}

	repo := repos.EntryRepository{DB: conn}
	entries, err := repo.All()
	if err != nil {
		return "", err
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%s (%s): %s", e.Text, e.Label, e.VideoURL)
	}
	return fmt.Sprintf("%d stored entries\n%s", len(entries), strings.Join(lines, "\n")), nil
}
