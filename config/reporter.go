package config

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/multierr"

	"ttxr/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,path_toslash,assure_dir_exists_for_file" validate:"required,filepath"`
}

type reportEntry struct {
	path    string // file on disk to pick up during finalize, empty for data entries
	data    []byte // inline data, used when path is empty
	created time.Time
}

// Report accumulates debug artifacts during the run and packs them into
// a single zip when closed. All methods are safe on a nil receiver so
// callers do not need to check if reporting was requested.
type Report struct {
	fname   string
	entries map[string]reportEntry
}

// Prepare creates debug reporter.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	if conf == nil || len(conf.Destination) == 0 {
		return nil, nil
	}
	return &Report{
		fname:   conf.Destination,
		entries: make(map[string]reportEntry),
	}, nil
}

// Name returns file name of the report file.
func (r *Report) Name() string {
	if r == nil {
		return ""
	}
	return r.fname
}

// Store associates name in the report with a file on disk. The file is
// read when the report is finalized, so it should outlive the run.
func (r *Report) Store(name, path string) {
	if r == nil || len(name) == 0 || len(path) == 0 {
		return
	}
	r.entries[name] = reportEntry{path: path, created: time.Now()}
}

// StoreData associates name in the report with a copy of data.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil || len(name) == 0 {
		return
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	r.entries[name] = reportEntry{data: buf, created: time.Now()}
}

// Close finalizes the report, creating zip archive with all stored entries.
func (r *Report) Close() (err error) {
	if r == nil {
		return nil
	}

	var f *os.File
	if f, err = os.Create(r.fname); err != nil {
		return fmt.Errorf("unable to create report file (%s): %w", r.fname, err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	w := zip.NewWriter(f)
	defer func() {
		err = multierr.Append(err, w.Close())
	}()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var manifest strings.Builder
	fmt.Fprintf(&manifest, "%s %s (%s) report\n\n", misc.GetAppName(), misc.GetVersion(), misc.GetGitHash())

	for _, name := range names {
		entry := r.entries[name]
		fmt.Fprintf(&manifest, "%s\t%s\n", entry.created.Format(time.RFC3339), name)
		if err = storeEntry(w, name, entry); err != nil {
			return fmt.Errorf("unable to store report entry (%s): %w", name, err)
		}
	}

	var mw io.Writer
	if mw, err = w.CreateHeader(&zip.FileHeader{Name: "MANIFEST", Method: zip.Deflate, Modified: time.Now()}); err != nil {
		return fmt.Errorf("unable to create report manifest: %w", err)
	}
	if _, err = mw.Write([]byte(manifest.String())); err != nil {
		return fmt.Errorf("unable to write report manifest: %w", err)
	}
	return nil
}

func storeEntry(w *zip.Writer, name string, entry reportEntry) error {
	ew, err := w.CreateHeader(&zip.FileHeader{Name: filepath.ToSlash(name), Method: zip.Deflate, Modified: entry.created})
	if err != nil {
		return err
	}
	if len(entry.path) == 0 {
		_, err = ew.Write(entry.data)
		return err
	}
	f, err := os.Open(entry.path)
	if err != nil {
		// entry may legitimately be gone (temp file cleanup) - note it in the archive instead of failing
		_, werr := fmt.Fprintf(ew, "unable to read source file (%s): %v\n", entry.path, err)
		return werr
	}
	defer f.Close()
	_, err = io.Copy(ew, f)
	return err
}
