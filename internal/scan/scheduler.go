package scan

import (
	"context"
	"errors"
	"iter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/L1nMay/cidrscan/internal/model"
	"github.com/L1nMay/cidrscan/internal/probe"
	"github.com/L1nMay/cidrscan/internal/report"
)

// DetailDeadline is recorded for targets that were never started because the
// scan deadline passed.
const DetailDeadline = "scan deadline exceeded"

// Scheduler runs probes over a target stream with at most Workers in flight.
type Scheduler struct {
	Workers int
	Timeout time.Duration

	// Deadline bounds the whole scan when positive.
	Deadline time.Duration

	Prober *probe.Prober

	// OnOutcome is called after each outcome is recorded. It runs on worker
	// goroutines and must be safe for concurrent use.
	OnOutcome func(model.Target, model.Outcome)
}

// Run probes every target exactly once and records the outcomes in c. Targets
// are admitted in stream order, one whenever a worker is free. Once the scan
// is cancelled or its deadline passes, the remaining targets are recorded as
// errors without being dialed. Run closes c when every target has an outcome;
// a non-nil error means the collector rejected a record and c is left open.
func (s *Scheduler) Run(ctx context.Context, targets iter.Seq[model.Target], c *report.Collector) error {
	if s.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Deadline)
		defer cancel()
	}

	workers := s.Workers
	if workers <= 0 {
		workers = 1
	}
	prober := s.Prober
	if prober == nil {
		prober = probe.New(nil)
	}

	record := func(t model.Target, o model.Outcome) error {
		if err := c.Record(t, o); err != nil {
			return err
		}
		if s.OnOutcome != nil {
			s.OnOutcome(t, o)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	// unbuffered: a target leaves the stream only when a worker takes it
	jobs := make(chan model.Target)

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for t := range jobs {
				var out model.Outcome
				if gctx.Err() != nil {
					out = model.Failed(skipDetail(gctx))
				} else {
					out = prober.Probe(gctx, t, s.Timeout)
				}
				if err := record(t, out); err != nil {
					return err
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		for t := range targets {
			if gctx.Err() == nil {
				select {
				case jobs <- t:
					continue
				case <-gctx.Done():
				}
			}
			if err := record(t, model.Failed(skipDetail(gctx))); err != nil {
				return err
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	c.Close()
	return nil
}

func skipDetail(ctx context.Context) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return DetailDeadline
	}
	return probe.DetailCancelled
}
