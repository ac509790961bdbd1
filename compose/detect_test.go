package compose

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestIsCaptionFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"frame.xml", true},
		{"frame.XML", true},
		{"show.ttml", true},
		{filepath.Join("some", "dir", "show.TTML"), true},
		{"show.txt", false},
		{"xml", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := isCaptionFile(tc.path); got != tc.want {
			t.Errorf("isCaptionFile(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestIsArchiveFile(t *testing.T) {
	dir := t.TempDir()

	archive := filepath.Join(dir, "captions.bin")
	f, err := os.Create(archive)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("frame.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("<isd/>")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	ok, err := isArchiveFile(archive)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("zip content not recognized, extension must not matter")
	}

	plain := filepath.Join(dir, "frame.zip")
	if err := os.WriteFile(plain, []byte("<isd/>"), 0644); err != nil {
		t.Fatal(err)
	}
	ok, err = isArchiveFile(plain)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("plain xml taken for an archive because of its extension")
	}

	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if ok, err := isArchiveFile(empty); err != nil || ok {
		t.Errorf("empty file: ok=%v err=%v", ok, err)
	}

	if _, err := isArchiveFile(filepath.Join(dir, "missing")); err == nil {
		t.Error("missing file produced no error")
	}
}
