// Package netx holds the direct-to-storage transfer helper. The byte
// transfer happens entirely outside the authenticated API path: the client
// PUTs the media file straight to a presigned URL.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// UploadFileToPresignedURL streams the file at path to the presigned URL
// with a single HTTP PUT. Any non-2xx response is reported as an error with
// the response body included for diagnostics.
func UploadFileToPresignedURL(ctx context.Context, client *http.Client, url string, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open media file: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat media file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, f)
	if err != nil {
		return err
	}
	req.ContentLength = fi.Size()
	req.Header.Set("Content-Type", "application/octet-stream")

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
