package client

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
)

// ProgressSink receives fractional upload progress in [0,100].
type ProgressSink interface {
	Report(percent float64)
}

// ProgressFunc adapts a plain function to ProgressSink. A nil function is
// a no-op sink.
type ProgressFunc func(percent float64)

func (f ProgressFunc) Report(percent float64) {
	if f != nil {
		f(percent)
	}
}

// ObjectUploader puts raw file bytes at a presigned destination.
type ObjectUploader interface {
	Upload(ctx context.Context, target *UploadTarget, body io.Reader, size int64, contentType string, progress ProgressSink) error
}

// StorageUploader implements ObjectUploader with a single HTTP PUT to the
// presigned URL. The URL is pre-authorized, so no credentials are attached;
// extra headers beyond the signed set would invalidate the signature.
type StorageUploader struct {
	httpClient *http.Client
}

// NewStorageUploader creates an uploader. Pass nil to use a default client
// with no overall timeout — large media uploads can legitimately run for a
// long time, and the transport's own failure reporting bounds hung
// connections.
func NewStorageUploader(httpClient *http.Client) *StorageUploader {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &StorageUploader{httpClient: httpClient}
}

// Upload streams the file to storage in one PUT, reporting cumulative
// progress as bytes leave the reader. Failed transfers are not retried or
// resumed; the caller decides whether to resubmit.
func (u *StorageUploader) Upload(ctx context.Context, target *UploadTarget, body io.Reader, size int64, contentType string, progress ProgressSink) error {
	reader := &progressReader{r: body, total: size, sink: progress}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target.UploadURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)
	// The processed output is served publicly later, so the object must be
	// readable by the eventual consumer.
	req.Header.Set("x-amz-acl", "public-read")

	log.Printf("[Storage] → PUT %s (%d bytes, %s)", target.ObjectName, size, contentType)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		log.Printf("[Storage] ✗ upload of %s failed: %v", target.ObjectName, err)
		return WrapError(KindTransportFailed, "a network error occurred during the file upload", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[Storage] ✗ upload of %s rejected with status %d", target.ObjectName, resp.StatusCode)
		return NewError(KindTransportFailed, fmt.Sprintf("upload to cloud storage failed with status: %d", resp.StatusCode))
	}

	log.Printf("[Storage] ← %d PUT %s", resp.StatusCode, target.ObjectName)

	if progress != nil {
		progress.Report(100)
	}
	return nil
}

// progressReader reports cumulative bytes sent as a percentage on every
// Read. Reads are sequential within one request, so reported values are
// non-decreasing.
type progressReader struct {
	r     io.Reader
	total int64
	sent  int64
	sink  ProgressSink
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.sent += int64(n)
		if pr.sink != nil && pr.total > 0 {
			percent := float64(pr.sent) / float64(pr.total) * 100
			if percent > 100 {
				percent = 100
			}
			pr.sink.Report(percent)
		}
	}
	return n, err
}

var _ ObjectUploader = (*StorageUploader)(nil)
