package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"contentstore/internal/spool"
)

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Fetcher retrieves asset bytes for a resolved URI.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL) (*FetchResult, error)
}

// FetchResult holds a spooled response body and its declared Content-Type.
// Close must be called to release the spool file.
type FetchResult struct {
	ContentType string
	Size        int64

	spool *os.File
}

// Body returns the spooled payload.
func (r *FetchResult) Body() io.ReadSeeker {
	return r.spool
}

// Rewind positions the body at its start.
func (r *FetchResult) Rewind() error {
	_, err := r.spool.Seek(0, io.SeekStart)
	return err
}

// Close removes the spool file.
func (r *FetchResult) Close() error {
	if r == nil || r.spool == nil {
		return nil
	}
	name := r.spool.Name()
	closeErr := r.spool.Close()
	r.spool = nil
	if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return closeErr
}

// HTTPFetcher fetches assets with GET requests and spools the bodies to disk.
type HTTPFetcher struct {
	client    HTTPDoer
	userAgent string
	spoolDir  string
}

// NewHTTPFetcher builds a fetcher. An empty spoolDir uses os.TempDir.
func NewHTTPFetcher(client HTTPDoer, userAgent, spoolDir string) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{client: client, userAgent: strings.TrimSpace(userAgent), spoolDir: spoolDir}
}

// Fetch GETs u. Transport errors and non-2xx responses become
// AssetLoadFailedError.
func (f *HTTPFetcher) Fetch(ctx context.Context, u *url.URL) (*FetchResult, error) {
	asset := u.String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset, nil)
	if err != nil {
		return nil, &AssetLoadFailedError{Asset: asset, Reason: err.Error(), Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &AssetLoadFailedError{Asset: asset, Reason: transportReason(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &AssetLoadFailedError{Asset: asset, Reason: statusReason(resp), Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	spool, err := os.CreateTemp(f.spoolDir, spool.FilePattern)
	if err != nil {
		return nil, &AssetLoadFailedError{Asset: asset, Reason: err.Error(), Err: err}
	}
	result := &FetchResult{
		ContentType: strings.Join(resp.Header.Values("Content-Type"), ", "),
		spool:       spool,
	}
	size, err := io.Copy(spool, resp.Body)
	if err == nil {
		err = result.Rewind()
	}
	if err != nil {
		_ = result.Close()
		return nil, &AssetLoadFailedError{Asset: asset, Reason: transportReason(err), Err: err}
	}
	result.Size = size
	return result, nil
}

func statusReason(resp *http.Response) string {
	if status := strings.TrimSpace(resp.Status); status != "" && status != fmt.Sprint(resp.StatusCode) {
		return status
	}
	return strings.TrimSpace(fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
}

func transportReason(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}
