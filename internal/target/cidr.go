package target

import (
	"errors"
	"fmt"
	"iter"
	"math/big"
	"net/netip"
	"strconv"
	"strings"

	"go4.org/netipx"
)

var ErrInvalidCidr = errors.New("invalid cidr")

// CIDRBlock is a parsed host specification. The zero value holds no hosts.
// By default every address of the block is a host, network and broadcast
// addresses included.
type CIDRBlock struct {
	prefix netip.Prefix
	set    *netipx.IPSet
}

type Option func(*options)

type options struct {
	dropEdges bool
	exclude   []netip.Prefix
}

// WithoutNetworkBroadcast drops the first and last address of IPv4 blocks
// wider than /31.
func WithoutNetworkBroadcast() Option {
	return func(o *options) { o.dropEdges = true }
}

// Excluding removes the given prefixes from the expansion.
func Excluding(prefixes ...netip.Prefix) Option {
	return func(o *options) { o.exclude = append(o.exclude, prefixes...) }
}

// ParseCIDR parses "a.b.c.d/n", an IPv6 prefix, or a bare address (a single
// host). Host bits of the base address are masked off.
func ParseCIDR(s string, opts ...Option) (CIDRBlock, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	prefix, err := ParsePrefix(s)
	if err != nil {
		return CIDRBlock{}, err
	}

	rng := netipx.RangeOfPrefix(prefix)
	if o.dropEdges && prefix.Addr().Is4() && prefix.Bits() <= 30 {
		rng = netipx.IPRangeFrom(rng.From().Next(), rng.To().Prev())
	}

	var b netipx.IPSetBuilder
	b.AddRange(rng)
	for _, p := range o.exclude {
		b.RemovePrefix(p)
	}
	set, err := b.IPSet()
	if err != nil {
		return CIDRBlock{}, fmt.Errorf("%w: %v", ErrInvalidCidr, err)
	}

	return CIDRBlock{prefix: prefix, set: set}, nil
}

// ParsePrefix parses a CIDR or a bare address (a single-host prefix) and masks
// the host bits. Errors wrap ErrInvalidCidr.
func ParsePrefix(s string) (netip.Prefix, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return netip.Prefix{}, fmt.Errorf("%w: missing address", ErrInvalidCidr)
	}

	addrPart, bitsPart, hasBits := strings.Cut(s, "/")
	addr, err := netip.ParseAddr(addrPart)
	if err != nil || addr.Zone() != "" {
		return netip.Prefix{}, fmt.Errorf("%w: bad address %q", ErrInvalidCidr, addrPart)
	}
	if !hasBits {
		return netip.PrefixFrom(addr, addr.BitLen()), nil
	}

	if !isDigits(bitsPart) {
		return netip.Prefix{}, fmt.Errorf("%w: bad prefix length %q", ErrInvalidCidr, bitsPart)
	}
	bits, err := strconv.Atoi(bitsPart)
	if err != nil || bits > addr.BitLen() {
		family := "IPv4"
		if !addr.Is4() {
			family = "IPv6"
		}
		return netip.Prefix{}, fmt.Errorf("%w: prefix length %s out of range for %s (0-%d)",
			ErrInvalidCidr, bitsPart, family, addr.BitLen())
	}

	return netip.PrefixFrom(addr, bits).Masked(), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (c CIDRBlock) Prefix() netip.Prefix {
	return c.prefix
}

func (c CIDRBlock) String() string {
	return c.prefix.String()
}

func (c CIDRBlock) Contains(addr netip.Addr) bool {
	return c.set != nil && c.set.Contains(addr)
}

// Hosts yields the host addresses in ascending order. The sequence can be
// ranged over any number of times.
func (c CIDRBlock) Hosts() iter.Seq[netip.Addr] {
	return func(yield func(netip.Addr) bool) {
		if c.set == nil {
			return
		}
		for _, r := range c.set.Ranges() {
			for a := r.From(); ; a = a.Next() {
				if !yield(a) {
					return
				}
				if a == r.To() {
					break
				}
			}
		}
	}
}

// Size returns the number of hosts. It is exact for any prefix, including
// IPv6 blocks that do not fit in 64 bits.
func (c CIDRBlock) Size() *big.Int {
	total := new(big.Int)
	if c.set == nil {
		return total
	}
	for _, r := range c.set.Ranges() {
		from := new(big.Int).SetBytes(r.From().AsSlice())
		to := new(big.Int).SetBytes(r.To().AsSlice())
		total.Add(total, to.Sub(to, from))
		total.Add(total, big.NewInt(1))
	}
	return total
}
