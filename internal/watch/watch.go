// Package watch periodically drains an inbox directory of schedule files,
// writing one JSON and one ICS result per configured name to an outbox.
package watch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"shiftcal/internal/config"
	"shiftcal/internal/ics"
	appLog "shiftcal/internal/log"
	"shiftcal/internal/model"
	"shiftcal/internal/pipeline"
)

const (
	doneDir   = "done"
	failedDir = "failed"
)

// Result counts what one pass did with the inbox.
type Result struct {
	Processed int
	Failed    int
}

// Watcher processes inbox files on a cron schedule.
type Watcher struct {
	cfg  *config.Config
	pipe *pipeline.Pipeline
	now  func() time.Time

	// mu serializes passes.
	mu sync.Mutex
}

// New constructs a Watcher.
func New(cfg *config.Config, pipe *pipeline.Pipeline) *Watcher {
	return &Watcher{
		cfg:  cfg,
		pipe: pipe,
		now:  time.Now,
	}
}

// Run performs one pass immediately, then one per cfg.Watch.Schedule tick
// until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	logger := cronLogger{}
	c := cron.New(
		cron.WithLocation(w.cfg.Location()),
		cron.WithLogger(logger),
		cron.WithChain(cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(w.cfg.Watch.Schedule, func() { w.tick(ctx) }); err != nil {
		return fmt.Errorf("watch schedule %q: %w", w.cfg.Watch.Schedule, err)
	}

	appLog.Info("inbox watcher started",
		"inbox", w.cfg.Watch.Inbox,
		"outbox", w.cfg.Watch.Outbox,
		"schedule", w.cfg.Watch.Schedule,
		"names", len(w.cfg.Watch.Names),
	)
	w.tick(ctx)

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	appLog.Info("inbox watcher stopped")
	return nil
}

func (w *Watcher) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	res, err := w.RunOnce(ctx)
	if err != nil {
		appLog.Error("inbox pass failed", err)
		return
	}
	if res.Processed > 0 || res.Failed > 0 {
		appLog.Info("inbox pass completed", "processed", res.Processed, "failed", res.Failed)
	}
}

// RunOnce processes every *.json and *.xlsx file currently in the inbox.
// A file that cannot be loaded or has no schedule structure is moved to
// inbox/failed; all others go to inbox/done once their results are written.
func (w *Watcher) RunOnce(ctx context.Context) (Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var res Result
	if len(w.cfg.Watch.Names) == 0 {
		appLog.Info("inbox watcher has no names configured; skipping pass")
		return res, nil
	}
	if err := os.MkdirAll(w.cfg.Watch.Inbox, 0o755); err != nil {
		return res, err
	}
	if err := os.MkdirAll(w.cfg.Watch.Outbox, 0o755); err != nil {
		return res, err
	}

	files, err := w.pending()
	if err != nil {
		return res, err
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := w.processFile(ctx, path); err != nil {
			appLog.Error("inbox file failed", err, "file", filepath.Base(path))
			res.Failed++
			if mvErr := moveTo(path, filepath.Join(w.cfg.Watch.Inbox, failedDir)); mvErr != nil {
				return res, mvErr
			}
			continue
		}
		res.Processed++
		if err := moveTo(path, filepath.Join(w.cfg.Watch.Inbox, doneDir)); err != nil {
			return res, err
		}
	}
	return res, nil
}

// pending lists inbox files in name order.
func (w *Watcher) pending() ([]string, error) {
	entries, err := os.ReadDir(w.cfg.Watch.Inbox)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		kind, err := pipeline.KindOf(e.Name())
		if err != nil || kind == pipeline.KindImage {
			continue
		}
		files = append(files, filepath.Join(w.cfg.Watch.Inbox, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func (w *Watcher) processFile(ctx context.Context, path string) error {
	g, err := w.pipe.LoadGrid(ctx, path, "")
	if err != nil {
		return err
	}

	year := w.cfg.EffectiveYear(w.now())
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for _, name := range w.cfg.Watch.Names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		records, err := w.pipe.Extract(g, name, year)
		if err != nil {
			return err
		}
		if err := w.writeResults(base, name, records); err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) writeResults(base, name string, records []model.ScheduleRecord) error {
	stem := filepath.Join(w.cfg.Watch.Outbox, base+"."+fileSafe(name))

	if records == nil {
		records = []model.ScheduleRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(stem+".json", append(data, '\n'), 0o644); err != nil {
		return err
	}

	if len(records) == 0 {
		return nil
	}
	body, err := ics.Export(records, ics.ExportOptions{
		Location:     w.cfg.Location(),
		CalendarName: name,
		Stamp:        w.now(),
	})
	if errors.Is(err, ics.ErrNothingToExport) {
		return nil
	}
	if err != nil {
		return err
	}
	return os.WriteFile(stem+".ics", []byte(body), 0o644)
}

func moveTo(path, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.Rename(path, filepath.Join(dir, filepath.Base(path)))
}

var unsafeName = strings.NewReplacer("/", "_", `\`, "_")

func fileSafe(name string) string {
	return unsafeName.Replace(strings.TrimSpace(name))
}

// cronLogger routes cron's own logging through the application logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	appLog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	appLog.Error("cron: "+msg, err, keysAndValues...)
}
