package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"guanago/internal/domain"
	"guanago/internal/utils"

	"github.com/robfig/cron/v3"
)

// Warmable is refreshed on a schedule.
type Warmable interface {
	Warm(ctx context.Context) error
}

// Warmer keeps the catalog cache hot so visitors rarely wait on Airtable.
type Warmer struct {
	target  Warmable
	timeout time.Duration
	cron    *cron.Cron

	mu      sync.Mutex
	lastRun time.Time
	lastErr error
}

// NewWarmer parses spec ("@every 10m", "*/5 * * * *").
func NewWarmer(spec string, target Warmable, timeout time.Duration) (*Warmer, error) {
	if timeout <= 0 {
		timeout = time.Minute
	}
	w := &Warmer{
		target:  target,
		timeout: timeout,
		cron:    cron.New(cron.WithLocation(utils.Bogota)),
	}
	if _, err := w.cron.AddFunc(spec, func() { _ = w.RunOnce(context.Background()) }); err != nil {
		return nil, domain.ValidationError{Field: "CACHE_WARM_SPEC", Msg: err.Error()}
	}
	return w, nil
}

func (w *Warmer) Start() { w.cron.Start() }

// Stop waits for a running job to finish or ctx to expire.
func (w *Warmer) Stop(ctx context.Context) {
	done := w.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (w *Warmer) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	err := w.target.Warm(ctx)

	w.mu.Lock()
	w.lastRun, w.lastErr = start, err
	w.mu.Unlock()

	if err != nil {
		utils.LogEvent("", "warmer", "failed", fmt.Sprintf("took=%s err=%v", time.Since(start).Round(time.Millisecond), err))
		return err
	}
	utils.LogEvent("", "warmer", "done", fmt.Sprintf("took=%s", time.Since(start).Round(time.Millisecond)))
	return nil
}

// Last reports when the previous run started and how it ended.
func (w *Warmer) Last() (time.Time, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastRun, w.lastErr
}
