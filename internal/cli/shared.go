package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/Arthurvroum/odoo-ci/internal/enterprise"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

func withSpinner(ctx context.Context, desc string) (stop func()) {
	spinner := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				spinner.Finish()
				return
			default:
				spinner.Add(1)
				time.Sleep(100 * time.Millisecond)
			}
		}
	}()
	return func() {
		close(done)
		spinner.Finish()
	}
}

// enterpriseEvents renders the core's stage and progress callbacks with
// progressbar; the pipeline itself stays presentation-free.
func enterpriseEvents() enterprise.Events {
	var bar *progressbar.ProgressBar

	return enterprise.Events{
		Stage: func(stage enterprise.Stage) {
			bar = nil
			switch stage {
			case enterprise.StageCacheHit:
				fmt.Printf("%s Using cached enterprise archive\n", green("✓"))
			case enterprise.StageResolving:
				fmt.Printf("%s Resolving enterprise download URL...\n", cyan("→"))
			}
		},
		Download: func(current, total int64) {
			if bar == nil {
				bar = progressbar.DefaultBytes(total, "Downloading enterprise archive")
			}
			bar.Set64(current)
		},
		Extract: func(current, total int64) {
			if bar == nil {
				bar = progressbar.NewOptions64(total,
					progressbar.OptionSetDescription("Extracting enterprise archive"),
					progressbar.OptionClearOnFinish(),
				)
			}
			bar.Set64(current)
		},
	}
}

func formatSize(bytes int64) string {
	const (
		KB = 1 << 10
		MB = 1 << 20
		GB = 1 << 30
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
