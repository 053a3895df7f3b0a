package scan

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/L1nMay/cidrscan/internal/config"
	"github.com/L1nMay/cidrscan/internal/envdetect"
	"github.com/L1nMay/cidrscan/internal/logger"
	"github.com/L1nMay/cidrscan/internal/model"
	"github.com/L1nMay/cidrscan/internal/probe"
	"github.com/L1nMay/cidrscan/internal/report"
	"github.com/L1nMay/cidrscan/internal/target"
)

type Runner struct {
	cfg  *config.Config
	dial probe.DialFunc
	mu   sync.Mutex

	muCancel cancelState
	hub      *Hub

	localNets func() ([]envdetect.Network, error)
}

func NewRunner(cfg *config.Config) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Runner{cfg: cfg, hub: NewHub(), localNets: envdetect.DetectLocalNetworks}
}

// SetDialer replaces the dialer used by probes. Nil restores the default.
func (r *Runner) SetDialer(dial probe.DialFunc) {
	r.dial = dial
}

// RunOnce scans hosts (CIDR) on ports. An empty ports string selects the
// configured default. Invalid input fails before any probe is sent. Only one
// scan runs at a time per Runner.
//
// Cancelling ctx, calling CancelRunning or passing the configured scan
// deadline ends the scan early; the returned report is still complete, with
// the unfinished targets recorded as errors.
func (r *Runner) RunOnce(ctx context.Context, hosts, ports string) (*model.ScanRun, *report.Report, error) {
	plan, err := r.Plan(hosts, ports)
	if err != nil {
		return nil, nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	r.setCancel(cancel)
	defer r.clearCancel()

	total := int64(-1)
	if plan.Targets.IsInt64() {
		total = plan.Targets.Int64()
	}

	run := &model.ScanRun{
		ID:           uuid.NewString(),
		StartedAt:    time.Now().UTC(),
		Hosts:        plan.CIDR.String(),
		PortsSpec:    plan.PortsSpec,
		TargetsCount: int(total),
		Workers:      plan.Workers,
		Timeout:      plan.Timeout,
		Notes:        plan.Reason,
	}

	logger.Infof("scan %s started: hosts=%s ports=%d targets=%s workers=%d timeout=%s (%s)",
		run.ID, run.Hosts, plan.Ports.Len(), plan.Targets, plan.Workers, plan.Timeout, plan.Reason)
	r.hub.Publish(newProgress(0, total, "Scan started"))

	var done atomic.Int64
	sched := &Scheduler{
		Workers:  plan.Workers,
		Timeout:  plan.Timeout,
		Deadline: plan.Deadline,
		Prober:   probe.New(r.dial),
		OnOutcome: func(t model.Target, o model.Outcome) {
			n := done.Add(1)
			if o.Status == model.StatusOpen {
				logger.Debugf("open %s", t)
			}
			r.hub.Publish(newProgress(n, total, ""))
		},
	}

	collector := report.NewCollector()
	err = sched.Run(ctx, target.Expand(plan.CIDR, plan.Ports), collector)
	rep := collector.Finalize()

	run.FinishedAt = time.Now().UTC()
	run.Complete = rep.Complete()
	run.Open = rep.Count(model.StatusOpen)
	run.Closed = rep.Count(model.StatusClosed)
	run.TimedOut = rep.Count(model.StatusTimeout)
	run.Errors = rep.Count(model.StatusError)

	if err != nil {
		logger.Errorf("scan %s aborted: %v", run.ID, err)
		r.hub.Publish(newProgress(done.Load(), total, err.Error()))
		return run, rep, err
	}

	msg := "Scan finished"
	if ctx.Err() != nil {
		msg = "Scan stopped early"
	}
	logger.Infof("scan %s finished: open=%d closed=%d timeout=%d errors=%d duration=%s",
		run.ID, run.Open, run.Closed, run.TimedOut, run.Errors, run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	r.hub.Publish(newProgress(done.Load(), total, msg))

	return run, rep, nil
}
