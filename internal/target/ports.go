package target

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidPort = errors.New("invalid port")

const (
	minPort = 1
	maxPort = 65535
)

// PortSet is an ordered, duplicate-free list of ports. Iteration follows the
// order in which ports first appeared in the parsed spec.
type PortSet struct {
	ports []uint16
}

// ParsePorts parses a comma-separated port spec. Supported tokens:
//   - single: "22"
//   - range: "8000-8100"
//   - everything: "-"
//
// Empty tokens ("80,,443", "80,") are rejected.
func ParsePorts(spec string) (PortSet, error) {
	if strings.TrimSpace(spec) == "" {
		return PortSet{}, fmt.Errorf("%w: empty port list", ErrInvalidPort)
	}

	seen := make(map[uint16]struct{})
	var out []uint16
	add := func(p int) {
		if _, ok := seen[uint16(p)]; ok {
			return
		}
		seen[uint16(p)] = struct{}{}
		out = append(out, uint16(p))
	}

	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return PortSet{}, fmt.Errorf("%w: empty token in %q", ErrInvalidPort, spec)
		}

		if tok == "-" {
			for p := minPort; p <= maxPort; p++ {
				add(p)
			}
			continue
		}

		if lo, hi, ok := strings.Cut(tok, "-"); ok {
			start, err := parsePort(lo)
			if err != nil {
				return PortSet{}, fmt.Errorf("range %q: %w", tok, err)
			}
			end, err := parsePort(hi)
			if err != nil {
				return PortSet{}, fmt.Errorf("range %q: %w", tok, err)
			}
			if start > end {
				return PortSet{}, fmt.Errorf("%w: range start greater than end: %s", ErrInvalidPort, tok)
			}
			for p := start; p <= end; p++ {
				add(p)
			}
			continue
		}

		p, err := parsePort(tok)
		if err != nil {
			return PortSet{}, err
		}
		add(p)
	}

	return PortSet{ports: out}, nil
}

func parsePort(s string) (int, error) {
	s = strings.TrimSpace(s)
	if !isDigits(s) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidPort, s)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < minPort || n > maxPort {
		return 0, fmt.Errorf("%w: %s not in %d..%d", ErrInvalidPort, s, minPort, maxPort)
	}
	return n, nil
}

func (p PortSet) Len() int {
	return len(p.ports)
}

// Ports returns a copy of the ports in iteration order.
func (p PortSet) Ports() []uint16 {
	out := make([]uint16, len(p.ports))
	copy(out, p.ports)
	return out
}

func (p PortSet) Contains(port uint16) bool {
	for _, v := range p.ports {
		if v == port {
			return true
		}
	}
	return false
}

// String renders the set as a comma-separated list of single ports that
// ParsePorts turns back into an equal set.
func (p PortSet) String() string {
	var b strings.Builder
	for i, v := range p.ports {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(v)))
	}
	return b.String()
}
