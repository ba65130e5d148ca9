package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/podcasteditor/cli/internal/auth"
	"github.com/podcasteditor/cli/internal/client"
	"github.com/podcasteditor/cli/internal/model"
)

// Pipeline orchestrates the upload-and-process workflow: presign, direct
// upload to storage, start processing, then poll until a terminal status.
// Each invocation is independent; the pipeline holds no per-run state.
type Pipeline struct {
	backend  client.Backend
	uploader client.ObjectUploader
	tokens   auth.TokenSource
	validate *validator.Validate
}

// NewPipeline creates a pipeline over the given collaborators.
func NewPipeline(backend client.Backend, uploader client.ObjectUploader, tokens auth.TokenSource) *Pipeline {
	return &Pipeline{
		backend:  backend,
		uploader: uploader,
		tokens:   tokens,
		validate: validator.New(),
	}
}

// Request describes one upload-and-process invocation. Options are passed
// through to the backend unmodified. Size-limit policy is the caller's to
// enforce before invoking Run.
type Request struct {
	FileName    string         `validate:"required"`
	Content     io.Reader      `validate:"required"`
	Size        int64          `validate:"gt=0"`
	ContentType string         `validate:"required"`
	FileType    model.FileType `validate:"required,oneof=audio video"`
	Options     model.ProcessingOptions

	// OnUploadProgress receives the byte-transfer percentage in [0,100];
	// blending it into overall pipeline progress is the caller's concern.
	OnUploadProgress client.ProgressSink
	// OnProcessingUpdate receives the raw backend status on every
	// non-terminal poll tick.
	OnProcessingUpdate func(model.StatusUpdate)

	PollInterval time.Duration
	PollBudget   time.Duration
}

// Result is the terminal outcome of a successful run.
type Result struct {
	JobID     string
	Status    model.JobStatus
	PublicURL string
	Summary   string
}

// Run executes the four stages in strict sequence. A failure at any stage
// aborts the whole run with a typed error and no further network activity;
// resubmission is the caller's decision.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if err := p.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	// Fail fast when no credential is available; no network call is made.
	if _, err := p.tokens.Token(); err != nil {
		return nil, client.WrapError(client.KindAuthenticationMissing, "authentication token not found", err)
	}

	ctx = client.WithRequestID(ctx, uuid.New().String())

	log.Printf("[Pipeline] Requesting upload URL for %q", req.FileName)
	target, err := p.backend.GenerateUploadURL(ctx, req.FileName)
	if err != nil {
		return nil, err
	}

	log.Printf("[Pipeline] Uploading %q as %s (%d bytes)", req.FileName, target.ObjectName, req.Size)
	if err := p.uploader.Upload(ctx, target, req.Content, req.Size, req.ContentType, req.OnUploadProgress); err != nil {
		return nil, err
	}

	// The object name travels to start-processing exactly as presign
	// issued it.
	jobID, err := p.backend.StartProcessing(ctx, target.ObjectName, req.Options)
	if err != nil {
		return nil, err
	}

	opts := PollOptions{
		Interval: req.PollInterval,
		Budget:   req.PollBudget,
		OnUpdate: req.OnProcessingUpdate,
	}
	log.Printf("[Pipeline] Job %s queued, polling every %v (max %d checks)", jobID, opts.interval(), opts.MaxPolls())

	job, err := WaitForJob(ctx, p.backend, jobID, req.FileType, opts)
	if err != nil {
		return nil, err
	}

	return &Result{
		JobID:     jobID,
		Status:    job.Status,
		PublicURL: job.PublicURL,
		Summary:   job.Summary,
	}, nil
}
