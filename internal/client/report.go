package client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/amishk599/resumefit/internal/model"
)

// Ensure ReportClient implements model.ReportFetcher.
var _ model.ReportFetcher = (*ReportClient)(nil)

// ReportClient downloads generated feedback reports.
type ReportClient struct {
	client *http.Client
}

// NewReportClient creates a report client using the given HTTP client.
func NewReportClient(client *http.Client) *ReportClient {
	return &ReportClient{client: client}
}

// FetchReport GETs url and copies the body into w. Non-200 responses are
// returned as *model.HTTPError so retry logic can classify them.
func (c *ReportClient) FetchReport(ctx context.Context, url string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("report fetch %s: %w", url, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("report fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, httpError(resp)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("report fetch %s: %w", url, err)
	}
	return n, nil
}
