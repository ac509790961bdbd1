package compose

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	zipwalk "ttxr/archive"
	"ttxr/isd"
	"ttxr/layout"
	"ttxr/render"
	"ttxr/state"
)

// frameSource is one caption document of a sequence: its path relative to
// the sequence root, loadable content, and an optional resolver for image
// references.
type frameSource struct {
	name    string
	open    func() ([]byte, error)
	resolve resolveFunc
}

// processFile renders a single caption document as a one-file sequence.
func processFile(ctx context.Context, path, dst string, log *zap.Logger) error {
	return renderSequence(ctx, filepath.Base(path), []frameSource{fileSource(path, filepath.Base(path))}, dst, log)
}

// processDir walks the directory tree finding caption documents and renders
// them as one sequence in natural name order. Archives found along the way
// are rendered as sequences of their own.
func processDir(ctx context.Context, dir, dst string, log *zap.Logger) error {
	var (
		sources  []frameSource
		archives []string
	)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		if isCaptionFile(path) {
			rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
			sources = append(sources, fileSource(path, rel))
			return nil
		}

		archive, err := isArchiveFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if archive {
			archives = append(archives, path)
			return nil
		}
		log.Debug("Skipping file, not recognized as caption document or archive", zap.String("file", path))
		return nil
	})
	if err != nil {
		return err
	}

	for _, path := range archives {
		if err := processArchive(ctx, path, "", dst, log); err != nil {
			log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
		}
	}

	if len(sources) == 0 {
		if len(archives) == 0 {
			log.Debug("Nothing to process", zap.String("dir", dir))
		}
		return nil
	}

	sortSources(sources)
	return renderSequence(ctx, filepath.Base(dir), sources, dst, log)
}

// processArchive renders caption documents found inside a zip archive under
// pathIn as one sequence. Entries are read while the archive is open;
// image references cannot be resolved from archived sources.
func processArchive(ctx context.Context, path, pathIn, dst string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	var sources []frameSource
	err := zipwalk.Walk(path, captionExts, env.CodePage, func(archive, name string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !strings.HasPrefix(name, pathIn) {
			return nil
		}

		r, err := f.Open()
		if err != nil {
			log.Warn("Skipping file in archive",
				zap.String("archive", archive), zap.String("path", name), zap.Error(err))
			return nil
		}
		defer r.Close()

		data, err := io.ReadAll(r)
		if err != nil {
			log.Warn("Skipping file in archive",
				zap.String("archive", archive), zap.String("path", name), zap.Error(err))
			return nil
		}
		sources = append(sources, frameSource{
			name: name,
			open: func() ([]byte, error) { return data, nil },
		})
		return nil
	})
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		log.Debug("Nothing to process", zap.String("archive", path))
		return nil
	}

	sortSources(sources)
	return renderSequence(ctx, filepath.Base(path), sources, dst, log)
}

func fileSource(path, name string) frameSource {
	dir := filepath.Dir(path)
	return frameSource{
		name: name,
		open: func() ([]byte, error) { return os.ReadFile(path) },
		resolve: func(src string) ([]byte, error) {
			if filepath.IsAbs(src) {
				return os.ReadFile(src)
			}
			return os.ReadFile(filepath.Join(dir, src))
		},
	}
}

// sortSources orders frame sources the way a human numbers frames: "2"
// before "10".
func sortSources(sources []frameSource) {
	sort.Slice(sources, func(i, j int) bool {
		return natural.Less(sources[i].name, sources[j].name)
	})
}

// renderSequence renders all sources in order, threading roll-up state from
// frame to frame, and hands snapshots to the output writer.
func renderSequence(ctx context.Context, label string, sources []frameSource, dst string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	log.Info("Sequence starting", zap.String("sequence", label), zap.Int("documents", len(sources)))
	defer func(start time.Time) {
		// NOTE: we render many frames per run, a single bad document should
		// not take the whole sequence down.
		if r := recover(); r != nil {
			log.Error("Sequence ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("render panic: %v", r)
		} else {
			log.Info("Sequence completed", zap.Duration("elapsed", time.Since(start)))
		}
	}(time.Now())

	opts := buildOptions(&env.Cfg.Document, env.Stylesheet, log)
	host := layout.New(log)
	renderer := render.New(host, opts, log)

	var bundle *bundleWriter
	var files *dirWriter
	if env.Format.Bundled() {
		var err error
		if bundle, err = newBundleWriter(buildBundlePath(dst, label), env.Overwrite, log); err != nil {
			return err
		}
	} else {
		files = newDirWriter(env.Overwrite, log)
	}

	var (
		prev     render.FrameState
		frameNum int
		errs     error
	)
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, err)
			break
		}

		data, err := src.open()
		if err != nil {
			log.Error("Unable to read caption document", zap.String("file", src.name), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		seq, err := isd.Parse(bytes.NewReader(data), log)
		if err != nil {
			log.Error("Unable to parse caption document", zap.String("file", src.name), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}

		for _, doc := range seq.Documents {
			frame, err := renderer.RenderISD(doc, prev)
			if err != nil {
				log.Error("Unable to render frame",
					zap.String("file", src.name), zap.Int("frame", frameNum), zap.Error(err))
				errs = multierr.Append(errs, err)
				continue
			}
			prev = frame.State

			title := fmt.Sprintf("%s [%.3f - %.3f]", label, doc.Begin, doc.End)
			snapshot, err := snapshotXHTML(frame, host, title, src.resolve, log)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("unable to serialize frame %d: %w", frameNum, err))
				continue
			}

			if bundle != nil {
				name := buildFramePath("", src.name, frameNum, doc, seq.Lang, env)
				err = bundle.WriteFrame(name, snapshot, doc.Begin, doc.End)
			} else {
				err = files.Write(buildFramePath(dst, src.name, frameNum, doc, seq.Lang, env), snapshot)
			}
			if err != nil {
				errs = multierr.Append(errs, err)
			}

			if env.Rpt != nil {
				env.Rpt.StoreData(fmt.Sprintf("frames/%05d-tree.txt", frameNum),
					[]byte(render.DumpTree(frame.Root, host)))
			}
			frameNum++
		}
	}

	if bundle != nil {
		errs = multierr.Append(errs, bundle.Close())
	} else {
		errs = multierr.Append(errs, files.Close())
	}
	return errs
}
