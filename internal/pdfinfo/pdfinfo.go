// Package pdfinfo reads basic facts about a local resume PDF. It never gates
// submission; the analysis service is the only judge of the file.
package pdfinfo

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Info summarizes a PDF.
type Info struct {
	Path      string
	Pages     int
	Words     int
	Extracted int // pages whose text could be extracted
}

// Summary is a short human-readable description, e.g. "2 pages, 431 words".
func (i Info) Summary() string {
	pages := "pages"
	if i.Pages == 1 {
		pages = "page"
	}
	return fmt.Sprintf("%d %s, %d words", i.Pages, pages, i.Words)
}

// Inspect opens the PDF at path and counts its pages and extractable words.
// Pages that fail text extraction are skipped.
func Inspect(path string) (Info, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	info := Info{Path: path, Pages: r.NumPage()}
	for i := 1; i <= info.Pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		info.Extracted++
		info.Words += len(strings.Fields(text))
	}
	return info, nil
}
