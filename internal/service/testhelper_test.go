package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/podcasteditor/cli/internal/client"
	"github.com/podcasteditor/cli/internal/model"
)

// fakeBackend scripts backend responses and records call order and counts.
type fakeBackend struct {
	mu sync.Mutex

	target     *client.UploadTarget
	presignErr error

	jobID    string
	startErr error

	// statuses is consumed one per poll; the last entry repeats once the
	// script runs out.
	statuses  []*model.Job
	statusErr error

	// statusByJob, when set, answers polls from the job id instead of the
	// script. Used to exercise independent concurrent invocations.
	statusByJob func(jobID string) *model.Job

	calls         []string
	presignCalls  int
	uploadCalls   int
	startCalls    int
	statusCalls   int
	startedObject string
}

func (f *fakeBackend) GenerateUploadURL(ctx context.Context, filename string) (*client.UploadTarget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presignCalls++
	f.calls = append(f.calls, "presign")
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	if f.target != nil {
		return f.target, nil
	}
	return &client.UploadTarget{UploadURL: "https://storage.example/put", ObjectName: "uploads/" + filename}, nil
}

func (f *fakeBackend) StartProcessing(ctx context.Context, objectName string, options model.ProcessingOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startCalls++
	f.calls = append(f.calls, "start")
	f.startedObject = objectName
	if f.startErr != nil {
		return "", f.startErr
	}
	if f.jobID != "" {
		return f.jobID, nil
	}
	return fmt.Sprintf("job_%d", f.startCalls), nil
}

func (f *fakeBackend) GetJobStatus(ctx context.Context, jobID string, mediaType model.FileType) (*model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	f.calls = append(f.calls, "status")
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if f.statusByJob != nil {
		return f.statusByJob(jobID), nil
	}
	i := f.statusCalls - 1
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	return f.statuses[i], nil
}

func (f *fakeBackend) snapshot() (presign, start, status int, calls []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presignCalls, f.startCalls, f.statusCalls, append([]string(nil), f.calls...)
}

var _ client.Backend = (*fakeBackend)(nil)

// fakeUploader records upload invocations and optionally fails or drives
// the progress sink.
type fakeUploader struct {
	mu sync.Mutex

	err      error
	percents []float64

	calls       int
	target      *client.UploadTarget
	size        int64
	contentType string
}

func (f *fakeUploader) Upload(ctx context.Context, target *client.UploadTarget, body io.Reader, size int64, contentType string, progress client.ProgressSink) error {
	f.mu.Lock()
	f.calls++
	f.target = target
	f.size = size
	f.contentType = contentType
	err := f.err
	percents := f.percents
	f.mu.Unlock()
	if err != nil {
		return err
	}
	if progress != nil {
		for _, p := range percents {
			progress.Report(p)
		}
	}
	return nil
}

var _ client.ObjectUploader = (*fakeUploader)(nil)
