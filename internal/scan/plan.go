package scan

import (
	"errors"
	"fmt"
	"math/big"
	"net/netip"
	"strings"
	"time"

	"github.com/L1nMay/cidrscan/internal/logger"
	"github.com/L1nMay/cidrscan/internal/target"
)

// ScanPlan is a validated scan request. Building it touches no network.
type ScanPlan struct {
	CIDR      target.CIDRBlock
	Ports     target.PortSet
	PortsSpec string
	Targets   *big.Int

	Workers  int
	Timeout  time.Duration
	Deadline time.Duration
	Reason   string
}

// Plan validates hosts and ports against the runner's config. Malformed input
// fails here, wrapping target.ErrInvalidCidr or target.ErrInvalidPort.
func (r *Runner) Plan(hosts, ports string) (*ScanPlan, error) {
	var opts []target.Option
	if r.cfg.ExcludeNetworkBroadcast {
		opts = append(opts, target.WithoutNetworkBroadcast())
	}
	if len(r.cfg.Exclude) > 0 {
		excl := make([]netip.Prefix, 0, len(r.cfg.Exclude))
		for _, e := range r.cfg.Exclude {
			p, err := target.ParsePrefix(e)
			if err != nil {
				return nil, fmt.Errorf("exclude %q: %w", e, err)
			}
			excl = append(excl, p)
		}
		opts = append(opts, target.Excluding(excl...))
	}

	hosts, err := r.resolveHosts(hosts)
	if err != nil {
		return nil, err
	}
	cidr, err := target.ParseCIDR(hosts, opts...)
	if err != nil {
		return nil, err
	}

	spec := resolvePorts(ports, r.cfg.Ports)
	ps, err := target.ParsePorts(spec)
	if err != nil {
		return nil, err
	}

	total := target.TargetCount(cidr, ps)

	// no point in more workers than targets
	workers := r.cfg.Workers
	if total.IsInt64() && total.Int64() < int64(workers) {
		workers = int(total.Int64())
	}
	if workers < 1 {
		workers = 1
	}

	reason := fmt.Sprintf("network %s (%s hosts)", cidr, cidr.Size())
	if cidr.Size().Cmp(big.NewInt(1)) == 0 {
		reason = "single host"
	}

	return &ScanPlan{
		CIDR:      cidr,
		Ports:     ps,
		PortsSpec: spec,
		Targets:   total,
		Workers:   workers,
		Timeout:   r.cfg.Timeout(),
		Deadline:  r.cfg.ScanDeadline(),
		Reason:    reason,
	}, nil
}

// resolveHosts maps the "local" keyword to the first IPv4 network attached to
// this machine. Anything else is returned unchanged.
func (r *Runner) resolveHosts(hosts string) (string, error) {
	if !strings.EqualFold(strings.TrimSpace(hosts), "local") {
		return hosts, nil
	}
	nets, err := r.localNets()
	if err != nil {
		return "", fmt.Errorf("detect local networks: %w", err)
	}
	if len(nets) == 0 {
		return "", errors.New("no local IPv4 network found")
	}
	n := nets[0]
	logger.Infof("using local network %s on %s (src %s)", n.Prefix, n.Interface, n.SrcIP)
	return n.Prefix.String(), nil
}
