package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/podcasteditor/cli/internal/auth"
	"github.com/podcasteditor/cli/internal/model"
)

// Backend defines the PodcastEditor API operations the pipeline needs.
type Backend interface {
	GenerateUploadURL(ctx context.Context, filename string) (*UploadTarget, error)
	StartProcessing(ctx context.Context, objectName string, options model.ProcessingOptions) (string, error)
	GetJobStatus(ctx context.Context, jobID string, mediaType model.FileType) (*model.Job, error)
}

// UploadTarget names a one-time write destination in remote storage. It is
// consumed once by the uploader and discarded.
type UploadTarget struct {
	UploadURL  string `json:"upload_url"`
	ObjectName string `json:"object_name"`
}

// APIClient implements Backend against the PodcastEditor HTTP API.
type APIClient struct {
	httpClient *http.Client
	baseURL    string
	tokens     auth.TokenSource
}

// NewAPIClient creates a backend API client. The timeout applies per call;
// it covers presign and start-processing, and bounds each individual poll.
func NewAPIClient(baseURL string, timeout time.Duration, tokens auth.TokenSource) *APIClient {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &APIClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		tokens:     tokens,
	}
}

type startProcessingRequest struct {
	ObjectName string                  `json:"object_name"`
	Options    model.ProcessingOptions `json:"options"`
}

type startProcessingResponse struct {
	JobID string `json:"job_id"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// GenerateUploadURL asks the backend for a presigned upload destination for
// the named file.
func (c *APIClient) GenerateUploadURL(ctx context.Context, filename string) (*UploadTarget, error) {
	endpoint := "/generate-upload-url?filename=" + url.QueryEscape(filename)
	var target UploadTarget
	if err := c.get(ctx, endpoint, KindUpstreamRequestFailed, "could not get upload URL", &target); err != nil {
		return nil, err
	}
	return &target, nil
}

// StartProcessing enqueues asynchronous processing of an uploaded object
// and returns the backend-assigned job id. The object name is forwarded
// exactly as the presign call issued it.
func (c *APIClient) StartProcessing(ctx context.Context, objectName string, options model.ProcessingOptions) (string, error) {
	req := startProcessingRequest{ObjectName: objectName, Options: options}
	var resp startProcessingResponse
	if err := c.post(ctx, "/process-file", req, KindUpstreamRequestFailed, "processing request failed", &resp); err != nil {
		return "", err
	}
	return resp.JobID, nil
}

// GetJobStatus fetches one status snapshot of a processing job.
func (c *APIClient) GetJobStatus(ctx context.Context, jobID string, mediaType model.FileType) (*model.Job, error) {
	endpoint := fmt.Sprintf("/process-status/%s?media_type=%s", url.PathEscape(jobID), url.QueryEscape(string(mediaType)))
	var job model.Job
	if err := c.get(ctx, endpoint, KindPollingTransportFailed, "status check failed", &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// post sends a POST request with JSON body
func (c *APIClient) post(ctx context.Context, endpoint string, body interface{}, kind Kind, message string, result interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.doRequest(req, kind, message, result)
}

// get sends a GET request and parses the JSON response
func (c *APIClient) get(ctx context.Context, endpoint string, kind Kind, message string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.doRequest(req, kind, message, result)
}

// doRequest attaches auth, executes the request and parses the response.
// Errors surface as typed pipeline errors of the given kind; non-success
// responses carry the backend's detail text when present.
func (c *APIClient) doRequest(req *http.Request, kind Kind, message string, result interface{}) error {
	token, err := c.tokens.Token()
	if err != nil {
		return WrapError(KindAuthenticationMissing, "authentication token not found", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if id := requestIDFrom(req.Context()); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	log.Printf("[PodcastEditor API] → %s %s", req.Method, req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[PodcastEditor API] ✗ %s %s — request failed: %v", req.Method, req.URL.String(), err)
		return WrapError(kind, message, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return WrapError(kind, message, fmt.Errorf("failed to read response: %w", err))
	}

	log.Printf("[PodcastEditor API] ← %d %s %s", resp.StatusCode, req.Method, req.URL.String())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := extractDetail(respBody)
		if detail == "" {
			detail = fmt.Sprintf("backend returned status %d", resp.StatusCode)
		}
		return NewError(kind, fmt.Sprintf("%s: %s", message, detail))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return WrapError(kind, message, fmt.Errorf("failed to unmarshal response: %w", err))
	}

	return nil
}

// extractDetail pulls the human-readable detail string out of an error
// response body, returning "" when the body isn't the expected JSON shape.
func extractDetail(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return ""
	}
	return er.Detail
}

var _ Backend = (*APIClient)(nil)
