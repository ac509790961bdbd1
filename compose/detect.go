package compose

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// captionExts are the file extensions recognized as caption documents.
var captionExts = []string{".xml", ".ttml"}

// isCaptionFile reports whether the path looks like a caption document.
// Content is validated later by the parser.
func isCaptionFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range captionExts {
		if ext == e {
			return true
		}
	}
	return false
}

// isArchiveFile reports whether the file is a zip archive, by magic bytes
// rather than extension.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, 262)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return false, err
	}

	t, err := filetype.Match(head[:n])
	if err != nil {
		return false, err
	}
	return t == matchers.TypeZip, nil
}
