package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/podcasteditor/cli/internal/auth"
	"github.com/podcasteditor/cli/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*APIClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAPIClient(srv.URL, 5*time.Second, auth.StaticTokenSource("test-token")), srv
}

func TestGenerateUploadURL(t *testing.T) {
	var gotPath, gotAuth, gotFilename string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotFilename = r.URL.Query().Get("filename")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"upload_url":  "https://storage.example/put?sig=abc",
			"object_name": "uploads/ep 07.mp3",
		})
	})

	target, err := c.GenerateUploadURL(context.Background(), "ep 07.mp3")
	if err != nil {
		t.Fatalf("GenerateUploadURL() error: %v", err)
	}

	if gotPath != "/generate-upload-url" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotFilename != "ep 07.mp3" {
		t.Errorf("filename = %q", gotFilename)
	}
	if target.UploadURL != "https://storage.example/put?sig=abc" {
		t.Errorf("UploadURL = %q", target.UploadURL)
	}
	if target.ObjectName != "uploads/ep 07.mp3" {
		t.Errorf("ObjectName = %q", target.ObjectName)
	}
}

func TestGenerateUploadURLSurfacesUpstreamDetail(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "quota exceeded"})
	})

	_, err := c.GenerateUploadURL(context.Background(), "episode.mp3")
	if !IsKind(err, KindUpstreamRequestFailed) {
		t.Fatalf("expected UpstreamRequestFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error %q does not contain upstream detail", err.Error())
	}
}

func TestGenerateUploadURLGenericMessageWhenDetailMissing(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>gateway error</html>"))
	})

	_, err := c.GenerateUploadURL(context.Background(), "episode.mp3")
	if !IsKind(err, KindUpstreamRequestFailed) {
		t.Fatalf("expected UpstreamRequestFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error %q does not name the status", err.Error())
	}
}

func TestMissingTokenFailsWithoutNetworkCall(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer srv.Close()

	c := NewAPIClient(srv.URL, 5*time.Second, auth.StaticTokenSource(""))
	_, err := c.GenerateUploadURL(context.Background(), "episode.mp3")
	if !IsKind(err, KindAuthenticationMissing) {
		t.Fatalf("expected AuthenticationMissing, got %v", err)
	}
	if hits != 0 {
		t.Errorf("server hits = %d, want 0", hits)
	}
}

func TestStartProcessing(t *testing.T) {
	var gotBody startProcessingRequest
	var gotMethod, gotRequestID string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotRequestID = r.Header.Get("X-Request-ID")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"job_id": "job_123"})
	})

	ctx := WithRequestID(context.Background(), "req-42")
	jobID, err := c.StartProcessing(ctx, "uploads/ep 07.mp3", model.ProcessingOptions{Denoise: true, Summarize: true})
	if err != nil {
		t.Fatalf("StartProcessing() error: %v", err)
	}

	if jobID != "job_123" {
		t.Errorf("jobID = %q", jobID)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %q", gotMethod)
	}
	if gotRequestID != "req-42" {
		t.Errorf("X-Request-ID = %q", gotRequestID)
	}
	if gotBody.ObjectName != "uploads/ep 07.mp3" {
		t.Errorf("object_name = %q, must match presign output byte-for-byte", gotBody.ObjectName)
	}
	if !gotBody.Options.Denoise || gotBody.Options.RemoveFillers || !gotBody.Options.Summarize {
		t.Errorf("options = %+v", gotBody.Options)
	}
}

func TestGetJobStatus(t *testing.T) {
	var gotPath, gotMediaType string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMediaType = r.URL.Query().Get("media_type")
		_ = json.NewEncoder(w).Encode(model.Job{
			JobID:     "job_123",
			Status:    model.JobStatusCompleted,
			PublicURL: "https://example/out.mp4",
			Summary:   "two hosts argue about microphones",
		})
	})

	job, err := c.GetJobStatus(context.Background(), "job_123", model.FileTypeVideo)
	if err != nil {
		t.Fatalf("GetJobStatus() error: %v", err)
	}

	if gotPath != "/process-status/job_123" {
		t.Errorf("path = %q", gotPath)
	}
	if gotMediaType != "video" {
		t.Errorf("media_type = %q", gotMediaType)
	}
	if job.Status != model.JobStatusCompleted || job.PublicURL != "https://example/out.mp4" {
		t.Errorf("job = %+v", job)
	}
}

func TestGetJobStatusTransportFailureIsTyped(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := c.GetJobStatus(context.Background(), "job_123", model.FileTypeAudio)
	if !IsKind(err, KindPollingTransportFailed) {
		t.Fatalf("expected PollingTransportFailed, got %v", err)
	}
}

func TestGetJobStatusNonSuccessIsPollingFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "status backend unavailable"})
	})

	_, err := c.GetJobStatus(context.Background(), "job_123", model.FileTypeAudio)
	if !IsKind(err, KindPollingTransportFailed) {
		t.Fatalf("expected PollingTransportFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "status backend unavailable") {
		t.Errorf("error %q does not carry upstream detail", err.Error())
	}
}
