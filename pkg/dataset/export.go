package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/tauraamui/signclips/pkg/log"
	"github.com/tauraamui/signclips/pkg/process"
	"github.com/tauraamui/signclips/pkg/sampler"
	"github.com/tauraamui/xerror"
)

type exportResult struct {
	idx  int
	path string
	err  error
}

// ExportConcurrently behaves like Export but samples up to workers videos
// at once, each through its own video source.
func (d *Dataset) ExportConcurrently(ctx context.Context, outDir string, workers int) ([]string, error) {
	if workers <= 1 {
		return d.Export(ctx, outDir)
	}
	if err := fs.MkdirAll(outDir, os.ModePerm|os.ModeDir); err != nil {
		return nil, xerror.Errorf("unable to create export dir [%s]: %w", outDir, err)
	}

	jobs := make(chan int, len(d.paths))
	for i := range d.paths {
		jobs <- i
	}
	close(jobs)

	results := make(chan exportResult)
	proc := process.New(process.Settings{
		WaitForShutdownMsg: "Stopping export workers...",
		Process:            exportClipsProcess(d, outDir, jobs, results, workers),
	})
	proc.Start(ctx)
	go func() {
		proc.Wait()
		close(results)
	}()

	var firstErr error
	done := []exportResult{}
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
				proc.Stop()
			}
			continue
		}
		if len(r.path) > 0 {
			done = append(done, r)
		}
	}

	sort.Slice(done, func(i, j int) bool { return done[i].idx < done[j].idx })
	written := make([]string, len(done))
	for i, r := range done {
		written[i] = r.path
	}

	if firstErr == nil {
		firstErr = ctx.Err()
	}
	return written, firstErr
}

func exportClipsProcess(
	d *Dataset, outDir string, jobs <-chan int, results chan<- exportResult, workers int,
) func(context.Context) []chan interface{} {
	return func(ctx context.Context) []chan interface{} {
		signals := make([]chan interface{}, workers)
		for w := range signals {
			stopped := make(chan interface{})
			signals[w] = stopped
			go func() {
				defer close(stopped)
				for idx := range jobs {
					if ctx.Err() != nil {
						return
					}
					results <- exportOne(ctx, d, outDir, idx)
				}
			}()
		}
		return signals
	}
}

func exportOne(ctx context.Context, d *Dataset, outDir string, idx int) exportResult {
	clip, label, err := d.Item(ctx, idx)
	if err != nil {
		if errors.Is(err, sampler.ErrEmptySource) {
			log.Warn("Skipping [%s]: %v", d.paths[idx], err)
			return exportResult{idx: idx}
		}
		return exportResult{idx: idx, err: err}
	}

	outPath := filepath.Join(outDir, label+".npy")
	if err := writeClip(outPath, clip); err != nil {
		return exportResult{idx: idx, err: err}
	}
	log.Info("Exported [%s] to [%s]", d.paths[idx], outPath)
	return exportResult{idx: idx, path: outPath}
}
