// Package probe performs a single TCP connect attempt and classifies the
// result as open, closed, timeout or error.
package probe

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/L1nMay/cidrscan/internal/model"
)

// DetailCancelled is the error detail recorded for probes abandoned because
// the scan was cancelled or ran past its deadline.
const DetailCancelled = "cancelled"

// DialFunc matches net.Dialer.DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

type Prober struct {
	dial DialFunc
}

// New returns a Prober using dial, or a plain net.Dialer when dial is nil.
func New(dial DialFunc) *Prober {
	if dial == nil {
		d := &net.Dialer{KeepAlive: -1}
		dial = d.DialContext
	}
	return &Prober{dial: dial}
}

// Probe dials target once. The attempt is bounded by timeout; ctx only
// abandons it early. An open connection is closed without sending or reading
// anything.
func (p *Prober) Probe(ctx context.Context, target model.Target, timeout time.Duration) model.Outcome {
	if ctx.Err() != nil {
		return model.Failed(DetailCancelled)
	}
	if timeout <= 0 {
		return model.Failed("probe timeout must be positive")
	}

	start := time.Now()
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := p.dial(probeCtx, "tcp", target.Address())
	if err == nil {
		_ = conn.Close()
		return model.Open()
	}

	switch {
	case isRefused(err):
		return model.Closed()
	case ctx.Err() != nil:
		return model.Failed(DetailCancelled)
	case probeCtx.Err() != nil:
		return model.Timeout()
	case isTimeout(err) && time.Since(start) >= timeout:
		return model.Timeout()
	}
	// a transport timeout before our own deadline is not a Timeout outcome
	return model.Failed(err.Error())
}

func isRefused(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	// some platforms only surface the text
	return strings.Contains(err.Error(), "connection refused")
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
