package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/podcasteditor/cli/internal/client"
	"github.com/podcasteditor/cli/internal/model"
)

const (
	// DefaultPollInterval matches the normal preset; media processing is a
	// multi-minute operation and aggressive polling only loads the backend.
	DefaultPollInterval = 30 * time.Second
	// DefaultPollBudget caps one polling run even if the backend never
	// reaches a terminal status.
	DefaultPollBudget = time.Hour
)

// PollDecision is the outcome of inspecting one job status snapshot.
type PollDecision int

const (
	PollContinue PollDecision = iota
	PollResolve
	PollReject
)

// Evaluate classifies one status snapshot. Terminal statuses resolve or
// reject the run; every other label — including ones this client has never
// seen — means keep waiting. The decision is pure so any scheduler can
// drive it.
func Evaluate(job *model.Job) (PollDecision, error) {
	switch job.Status {
	case model.JobStatusCompleted:
		return PollResolve, nil
	case model.JobStatusFailed:
		detail := job.ErrorDetail
		if detail == "" {
			detail = "processing failed"
		}
		return PollReject, client.NewError(client.KindJobFailed, detail)
	default:
		return PollContinue, nil
	}
}

// PollOptions tunes the polling loop. Zero values fall back to the
// defaults above.
type PollOptions struct {
	Interval time.Duration
	Budget   time.Duration
	OnUpdate func(model.StatusUpdate)
}

func (o PollOptions) interval() time.Duration {
	if o.Interval > 0 {
		return o.Interval
	}
	return DefaultPollInterval
}

// MaxPolls is the tick ceiling derived from the interval and the overall
// budget; it is always at least one.
func (o PollOptions) MaxPolls() int {
	budget := o.Budget
	if budget <= 0 {
		budget = DefaultPollBudget
	}
	n := int(budget / o.interval())
	if n < 1 {
		n = 1
	}
	return n
}

// WaitForJob polls the job on a fixed interval until a terminal status, the
// poll ceiling, or context cancellation. The first query fires one full
// interval after the job was created, and ticks never overlap: the next
// interval starts only after the previous response has been handled, so a
// slow response makes the following tick late rather than concurrent.
func WaitForJob(ctx context.Context, backend client.Backend, jobID string, mediaType model.FileType, opts PollOptions) (*model.Job, error) {
	interval := opts.interval()
	maxPolls := opts.MaxPolls()

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for attempt := 1; attempt <= maxPolls; attempt++ {
		select {
		case <-ctx.Done():
			log.Printf("[Pipeline] Poll (job=%s) — cancelled", jobID)
			return nil, ctx.Err()
		case <-timer.C:
		}

		job, err := backend.GetJobStatus(ctx, jobID, mediaType)
		if err != nil {
			log.Printf("[Pipeline] Poll #%d (job=%s) — error: %v", attempt, jobID, err)
			return nil, err
		}

		log.Printf("[Pipeline] Poll #%d (job=%s) — status: %s", attempt, jobID, job.Status)

		decision, derr := Evaluate(job)
		switch decision {
		case PollResolve:
			return job, nil
		case PollReject:
			return nil, derr
		}

		if opts.OnUpdate != nil {
			opts.OnUpdate(model.StatusUpdate{JobID: jobID, Status: job.Status})
		}

		timer.Reset(interval)
	}

	return nil, client.NewError(client.KindTimeout,
		fmt.Sprintf("processing timed out after %d status checks (%v apart)", maxPolls, interval))
}
