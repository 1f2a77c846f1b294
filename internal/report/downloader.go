// Package report saves generated feedback reports to disk.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/amishk599/resumefit/internal/model"
	"github.com/amishk599/resumefit/internal/render"
)

// Downloader fetches reports through a link builder and writes them into dir.
type Downloader struct {
	fetcher model.ReportFetcher
	linkFor func(reportPath string) string
	dir     string
	logger  *slog.Logger
}

// NewDownloader creates a downloader. linkFor turns a report path returned
// by the service into a download URL, normally a render.Renderer's DownloadURL.
func NewDownloader(fetcher model.ReportFetcher, linkFor func(string) string, dir string, logger *slog.Logger) *Downloader {
	return &Downloader{
		fetcher: fetcher,
		linkFor: linkFor,
		dir:     dir,
		logger:  logger,
	}
}

// Download fetches the report for reportPath and returns where it was saved.
// The file is written under a temporary name and renamed once complete.
func (d *Downloader) Download(ctx context.Context, reportPath string) (string, error) {
	name := render.Basename(reportPath)
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("report path %q has no file name", reportPath)
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	url := d.linkFor(reportPath)
	tmp, err := os.CreateTemp(d.dir, "."+name+".*.part")
	if err != nil {
		return "", fmt.Errorf("create temp report file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := d.fetcher.FetchReport(ctx, url, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}

	dest := filepath.Join(d.dir, name)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}

	d.logger.Info("report downloaded", "url", url, "path", dest, "bytes", n)
	return dest, nil
}
