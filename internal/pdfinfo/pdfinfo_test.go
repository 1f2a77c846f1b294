package pdfinfo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInspect_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.pdf")
	if err := os.WriteFile(path, []byte("plain text, not a pdf"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Inspect(path); err == nil {
		t.Fatal("expected error for non-PDF content")
	}
}

func TestInspect_MissingFile(t *testing.T) {
	if _, err := Inspect(filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestInfo_Summary(t *testing.T) {
	if got := (Info{Pages: 1, Words: 12}).Summary(); got != "1 page, 12 words" {
		t.Errorf("Summary = %q", got)
	}
	if got := (Info{Pages: 3, Words: 431}).Summary(); got != "3 pages, 431 words" {
		t.Errorf("Summary = %q", got)
	}
}
