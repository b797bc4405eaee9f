package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/crucial707/printdesk/internal/report"
	"github.com/robfig/cron/v3"
)

// Renderer produces a rendered audit report and its file name.
type Renderer interface {
	Render(ctx context.Context, format string) ([]byte, error)
	Filename(format string, now time.Time) string
}

// ReportJob writes the PDF and XLSX audit reports into Dir.
type ReportJob struct {
	Reports Renderer
	Dir     string
	Timeout time.Duration
	Now     func() time.Time
}

// Run renders both formats and writes them. A failure in one format does not
// stop the other; all failures are returned joined.
func (j *ReportJob) Run(ctx context.Context) error {
	if err := os.MkdirAll(j.Dir, 0o755); err != nil {
		return fmt.Errorf("report dir: %w", err)
	}
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	at := now()

	var errs []error
	for _, format := range []string{report.FormatPDF, report.FormatXLSX} {
		out, err := j.Reports.Render(ctx, format)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		path := filepath.Join(j.Dir, j.Reports.Filename(format, at))
		if err := writeFileAtomic(path, out); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", path, err))
			continue
		}
		slog.Info("audit report written", "path", path, "bytes", len(out))
	}
	return errors.Join(errs...)
}

// writeFileAtomic writes to a temp file in the same directory and renames it
// into place, so readers never see a half-written report.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Scheduler runs a ReportJob on a cron schedule.
type Scheduler struct {
	cron *cron.Cron
}

// Start schedules job at expr (standard 5-field cron or descriptors like "@daily")
// evaluated in loc. Overlapping runs are skipped.
func Start(expr string, loc *time.Location, job *ReportJob) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	logger := cronLogger{}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	timeout := job.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	_, err := c.AddFunc(expr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := job.Run(ctx); err != nil {
			slog.Error("scheduled audit report failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid report schedule %q: %w", expr, err)
	}

	c.Start()
	slog.Info("audit report scheduler started", "cron", expr, "dir", job.Dir, "timezone", loc.String())
	return &Scheduler{cron: c}, nil
}

// Stop prevents new runs and waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// cronLogger adapts cron's logger to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
