package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/tauraamui/signclips/pkg/log"
	"github.com/tauraamui/signclips/pkg/numpy"
	"github.com/tauraamui/signclips/pkg/sampler"
	"github.com/tauraamui/signclips/pkg/video/videobackend"
	"github.com/tauraamui/signclips/pkg/video/videoclip"
	"github.com/tauraamui/xerror"
)

const DefaultExtension = ".mp4"

var fs afero.Fs = afero.NewOsFs()

var ErrIndexOutOfRange = xerror.New("dataset index out of range")

type Options struct {
	// Extension selects which files in the directory are videos,
	// defaults to .mp4 when empty.
	Extension string
	Sampling  sampler.Config
	// Transform is applied to every sampled clip before it is returned.
	Transform videoclip.Transform
}

// Dataset is an indexable collection of labelled videos in a single
// directory, each item is sampled on demand.
type Dataset struct {
	dir     string
	paths   []string
	opts    Options
	sampler sampler.Sampler
}

func New(dir string, backend videobackend.Backend, opts Options) (*Dataset, error) {
	if len(opts.Extension) == 0 {
		opts.Extension = DefaultExtension
	}
	if err := opts.Sampling.Validate(); err != nil {
		return nil, err
	}

	paths, err := listVideos(dir, opts.Extension)
	if err != nil {
		return nil, err
	}
	log.Debug("Found %d videos in [%s]", len(paths), dir)

	return &Dataset{
		dir:     dir,
		paths:   paths,
		opts:    opts,
		sampler: sampler.New(backend),
	}, nil
}

func listVideos(dir, ext string) ([]string, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, xerror.Errorf("unable to list videos in [%s]: %w", dir, err)
	}

	paths := []string{}
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, info.Name()))
	}
	sort.Strings(paths)

	return paths, nil
}

// Label derives an item label from its file name with the extension stripped.
func Label(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (d *Dataset) Len() int {
	return len(d.paths)
}

func (d *Dataset) Path(idx int) string {
	return d.paths[idx]
}

func (d *Dataset) Labels() []string {
	labels := make([]string, len(d.paths))
	for i, p := range d.paths {
		labels[i] = Label(p)
	}
	return labels
}

// Item samples the video at idx and returns its clip with the
// configured transform applied, along with its label.
func (d *Dataset) Item(ctx context.Context, idx int) (videoclip.Clip, string, error) {
	if idx < 0 || idx >= len(d.paths) {
		return videoclip.Clip{}, "", xerror.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, idx, len(d.paths))
	}

	path := d.paths[idx]
	clip, err := d.sampler.SampleFile(ctx, path, d.opts.Sampling)
	if err != nil {
		return videoclip.Clip{}, "", err
	}

	if d.opts.Transform != nil {
		clip = d.opts.Transform(clip)
	}

	return clip, Label(path), nil
}

// Export samples every item and writes it to outDir as <label>.npy.
// Videos without a single usable frame are skipped.
func (d *Dataset) Export(ctx context.Context, outDir string) ([]string, error) {
	if err := fs.MkdirAll(outDir, os.ModePerm|os.ModeDir); err != nil {
		return nil, xerror.Errorf("unable to create export dir [%s]: %w", outDir, err)
	}

	written := []string{}
	for i := 0; i < d.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		clip, label, err := d.Item(ctx, i)
		if err != nil {
			if errors.Is(err, sampler.ErrEmptySource) {
				log.Warn("Skipping [%s]: %v", d.paths[i], err)
				continue
			}
			return written, err
		}

		outPath := filepath.Join(outDir, label+".npy")
		if err := writeClip(outPath, clip); err != nil {
			return written, err
		}
		log.Info("Exported [%s] to [%s]", d.paths[i], outPath)
		written = append(written, outPath)
	}

	return written, nil
}

func writeClip(path string, clip videoclip.Clip) error {
	file, err := fs.Create(path)
	if err != nil {
		return xerror.Errorf("error creating npy file: %w", err)
	}
	defer file.Close()

	return numpy.WriteFloat32(file, clip.Data(), clip.Shape())
}
