package compose

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	fixzip "github.com/hidez8891/zip"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"ttxr/misc"
)

// frameWriter receives finished frame snapshots of one sequence.
type frameWriter interface {
	Write(name string, data []byte) error
	Close() error
}

// dirWriter writes each frame as a file under the destination directory.
type dirWriter struct {
	overwrite bool
	log       *zap.Logger
}

func newDirWriter(overwrite bool, log *zap.Logger) *dirWriter {
	return &dirWriter{overwrite: overwrite, log: log}
}

func (w *dirWriter) Write(name string, data []byte) error {
	if _, err := os.Stat(name); err == nil {
		if !w.overwrite {
			return fmt.Errorf("output file already exists: %s", name)
		}
		w.log.Warn("Overwriting existing file", zap.String("file", name))
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return os.WriteFile(name, data, 0644)
}

func (w *dirWriter) Close() error { return nil }

type bundleEntry struct {
	Name  string
	Begin float64
	End   float64
}

// bundleWriter collects frames into a single zip. Frames are written to a
// temporary archive first; on Close the archive gains a manifest and is
// rewritten without data descriptors so strict readers accept it.
type bundleWriter struct {
	dst       string
	overwrite bool
	log       *zap.Logger

	tmpName string
	f       *os.File
	zw      *zip.Writer
	entries []bundleEntry
}

func newBundleWriter(dst string, overwrite bool, log *zap.Logger) (*bundleWriter, error) {
	if _, err := os.Stat(dst); err == nil {
		if !overwrite {
			return nil, fmt.Errorf("output file already exists: %s", dst)
		}
		log.Warn("Overwriting existing file", zap.String("file", dst))
		if err = os.Remove(dst); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	} else if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return nil, fmt.Errorf("unable to create output directory: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(dst), ".bundle-*.zip")
	if err != nil {
		return nil, fmt.Errorf("unable to create temporary bundle: %w", err)
	}
	return &bundleWriter{
		dst:       dst,
		overwrite: overwrite,
		log:       log,
		tmpName:   f.Name(),
		f:         f,
		zw:        zip.NewWriter(f),
	}, nil
}

// WriteFrame stores one frame with its timing for the manifest.
func (w *bundleWriter) WriteFrame(name string, data []byte, begin, end float64) error {
	if err := w.Write(name, data); err != nil {
		return err
	}
	w.entries = append(w.entries, bundleEntry{Name: name, Begin: begin, End: end})
	return nil
}

func (w *bundleWriter) Write(name string, data []byte) error {
	ew, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:     filepath.ToSlash(name),
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("unable to create bundle entry (%s): %w", name, err)
	}
	if _, err = ew.Write(data); err != nil {
		return fmt.Errorf("unable to write bundle entry (%s): %w", name, err)
	}
	return nil
}

func (w *bundleWriter) Close() (err error) {
	defer func() {
		err = multierr.Append(err, os.Remove(w.tmpName))
	}()

	manifest, merr := w.manifest()
	if merr != nil {
		err = multierr.Append(err, merr)
	} else {
		err = multierr.Append(err, w.Write("manifest.xml", manifest))
	}
	err = multierr.Append(err, w.zw.Close())
	err = multierr.Append(err, w.f.Close())
	if err != nil {
		return err
	}

	if err = copyZipWithoutDataDescriptors(w.tmpName, w.dst); err != nil {
		return err
	}
	w.log.Debug("Bundle written", zap.String("file", w.dst), zap.Int("frames", len(w.entries)))
	return nil
}

// manifest describes bundle contents: one entry per frame with its timing.
func (w *bundleWriter) manifest() ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("bundle")
	root.CreateAttr("id", uuid.NewString())
	root.CreateAttr("generator", misc.GetAppName()+" "+misc.GetVersion())

	for _, e := range w.entries {
		frame := root.CreateElement("frame")
		frame.CreateAttr("href", e.Name)
		frame.CreateAttr("begin", fmt.Sprintf("%.3f", e.Begin))
		frame.CreateAttr("end", fmt.Sprintf("%.3f", e.End))
	}
	doc.Indent(2)
	return doc.WriteToBytes()
}

func copyZipWithoutDataDescriptors(from, to string) error {

	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	defer w.Close()

	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		// copy zip entry
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	return nil
}
