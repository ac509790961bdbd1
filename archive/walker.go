// Package archive builds Walk abstraction on top of "archive/zip".
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/encoding"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to
// Walk, name is the decoded entry name and file is the zip.File structure
// for the entry. If an error is returned, processing stops.
type WalkFunc func(archive, name string, file *zip.File) error

// Walk walks all files in the archive whose name carries one of the
// extensions (lower case, with dot), calling walkFn for each of them.
// Entry names not flagged as UTF-8 are decoded with enc when it is not
// nil. Entries with path traversal components ("..") or absolute paths
// terminate the walk.
func Walk(archive string, exts []string, enc encoding.Encoding, walkFn WalkFunc) error {

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name, err := entryName(f, enc)
		if err != nil {
			return fmt.Errorf("zip entry %q: %w", f.FileHeader.Name, err)
		}
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || !hasExt(name, exts) {
			continue
		}
		if err := walkFn(archive, name, f); err != nil {
			return err
		}
	}
	return nil
}

func entryName(f *zip.File, enc encoding.Encoding) (string, error) {
	name := f.FileHeader.Name
	if f.NonUTF8 && enc != nil {
		decoded, err := enc.NewDecoder().String(name)
		if err != nil {
			return "", fmt.Errorf("unable to decode entry name: %w", err)
		}
		name = decoded
	}
	return name, nil
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
