package scan

import (
	"context"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// fakeNet is an in-memory network. Addresses in open accept, everything else
// is refused when refuse is set, or silently dropped otherwise.
type fakeNet struct {
	open   map[string]bool
	refuse bool
	delay  time.Duration

	dials       atomic.Int64
	inflight    atomic.Int64
	maxInflight atomic.Int64

	mu     sync.Mutex
	dialed map[string]int
}

func newFakeNet(open ...string) *fakeNet {
	f := &fakeNet{open: make(map[string]bool), dialed: make(map[string]int)}
	for _, a := range open {
		f.open[a] = true
	}
	return f
}

func (f *fakeNet) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	f.dials.Add(1)
	f.mu.Lock()
	f.dialed[address]++
	f.mu.Unlock()

	cur := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		max := f.maxInflight.Load()
		if cur <= max || f.maxInflight.CompareAndSwap(max, cur) {
			break
		}
	}

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, &net.OpError{Op: "dial", Net: network, Err: ctx.Err()}
		}
	}

	if f.open[address] {
		client, server := net.Pipe()
		_ = server.Close()
		return client, nil
	}
	if f.refuse {
		return nil, &net.OpError{Op: "dial", Net: network, Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}
	}
	<-ctx.Done()
	return nil, &net.OpError{Op: "dial", Net: network, Err: ctx.Err()}
}

func (f *fakeNet) dialCount(address string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dialed[address]
}
