package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/podcasteditor/cli/internal/model"
)

func newStatusCmd() *cobra.Command {
	var mediaType string

	cmd := &cobra.Command{
		Use:   "status <job-id>",
		Short: "Get the status of a processing job by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(args[0], mediaType)
		},
	}

	cmd.Flags().StringVar(&mediaType, "type", "audio", "Media type of the job: audio or video")

	return cmd
}

func runStatus(jobID, mediaType string) error {
	ft := model.FileType(mediaType)
	if ft != model.FileTypeAudio && ft != model.FileTypeVideo {
		return fmt.Errorf("invalid media type: %q", mediaType)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	job, err := newBackend().GetJobStatus(ctx, jobID, ft)
	if err != nil {
		return err
	}

	fmt.Printf("Job ID: %s\n", job.JobID)
	fmt.Printf("Status: %s\n", job.Status)
	if job.PublicURL != "" {
		fmt.Printf("Public URL: %s\n", job.PublicURL)
	}
	if job.Summary != "" {
		fmt.Printf("Summary: %s\n", job.Summary)
	}
	if job.ErrorDetail != "" {
		fmt.Printf("Error: %s\n", job.ErrorDetail)
	}

	return nil
}
