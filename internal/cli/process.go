package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/spf13/cobra"

	"github.com/podcasteditor/cli/internal/client"
	"github.com/podcasteditor/cli/internal/config"
	"github.com/podcasteditor/cli/internal/model"
	"github.com/podcasteditor/cli/internal/service"
)

func newProcessCmd() *cobra.Command {
	var (
		opts   model.ProcessingOptions
		preset string
	)

	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Upload a media file and wait for processing to finish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(args[0], opts, preset)
		},
	}

	cmd.Flags().BoolVar(&opts.Denoise, "denoise", false, "Remove background noise")
	cmd.Flags().BoolVar(&opts.RemoveFillers, "remove-fillers", false, "Cut filler words")
	cmd.Flags().BoolVar(&opts.Summarize, "summarize", false, "Generate a text summary")
	cmd.Flags().StringVar(&preset, "interval", "", "Polling interval preset: fast, normal, slow, very_slow")

	return cmd
}

func runProcess(path string, opts model.ProcessingOptions, preset string) error {
	fileType := model.DetectFileType(path)
	if fileType == "" {
		return fmt.Errorf("unsupported file type: %q", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() > cfg.Upload.MaxBytes() {
		return fmt.Errorf("file is %d MB, the limit is %d MB", info.Size()/(1024*1024), cfg.Upload.MaxSizeMB)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	polling := cfg.Polling
	if preset != "" {
		if _, ok := config.PollingPresets[preset]; !ok {
			return fmt.Errorf("unknown interval preset: %q", preset)
		}
		polling.Preset = preset
	}

	// Ctrl-C tears the poller down; no callbacks fire afterwards.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pw := progress.NewWriter()
	pw.SetTrackerLength(40)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	tracker := &progress.Tracker{
		Message: "Uploading " + filepath.Base(path),
		Total:   100,
	}
	pw.AppendTracker(tracker)
	go pw.Render()

	pipeline := service.NewPipeline(newBackend(), client.NewStorageUploader(nil), newTokenSource())

	result, err := pipeline.Run(ctx, service.Request{
		FileName:    filepath.Base(path),
		Content:     f,
		Size:        info.Size(),
		ContentType: contentType,
		FileType:    fileType,
		Options:     opts,
		OnUploadProgress: client.ProgressFunc(func(percent float64) {
			tracker.SetValue(int64(percent))
			if percent >= 100 {
				tracker.MarkAsDone()
			}
		}),
		OnProcessingUpdate: func(u model.StatusUpdate) {
			fmt.Printf("job %s: %s\n", u.JobID, u.Status)
		},
		PollInterval: polling.Interval(),
		PollBudget:   polling.Budget(),
	})
	pw.Stop()
	if err != nil {
		return err
	}

	rows := [][]string{
		{"Job ID", result.JobID},
		{"Status", string(result.Status)},
		{"Public URL", result.PublicURL},
	}
	if result.Summary != "" {
		rows = append(rows, []string{"Summary", result.Summary})
	}
	fmt.Println(renderTable([]string{"Field", "Value"}, rows))
	return nil
}
