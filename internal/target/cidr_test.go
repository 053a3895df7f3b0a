package target

import (
	"errors"
	"math/big"
	"net/netip"
	"reflect"
	"testing"
)

func hostsOf(t *testing.T, c CIDRBlock) []string {
	t.Helper()
	var out []string
	for h := range c.Hosts() {
		out = append(out, h.String())
	}
	return out
}

func TestParseCIDR_Expansion(t *testing.T) {
	cases := map[string][]string{
		"192.168.1.1":    {"192.168.1.1"},
		"192.168.1.1/32": {"192.168.1.1"},
		"192.168.1.1/31": {"192.168.1.0", "192.168.1.1"},
		"192.168.1.2/31": {"192.168.1.2", "192.168.1.3"},
		"192.168.1.1/30": {"192.168.1.0", "192.168.1.1", "192.168.1.2", "192.168.1.3"},
		"10.0.0.0/30":    {"10.0.0.0", "10.0.0.1", "10.0.0.2", "10.0.0.3"},
		"2001:db8::/126": {"2001:db8::", "2001:db8::1", "2001:db8::2", "2001:db8::3"},
	}
	for spec, want := range cases {
		t.Run(spec, func(t *testing.T) {
			c, err := ParseCIDR(spec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := hostsOf(t, c); !reflect.DeepEqual(got, want) {
				t.Fatalf("got %v want %v", got, want)
			}
		})
	}
}

func TestParseCIDR_SizeMatchesPrefix(t *testing.T) {
	cases := []struct {
		spec string
		bits int
	}{
		{"10.1.2.3/32", 32},
		{"10.1.2.3/24", 32},
		{"10.1.2.3/16", 32},
		{"10.0.0.0/8", 32},
		{"0.0.0.0/0", 32},
		{"fd00::1/120", 128},
		{"fd00::/64", 128},
		{"::/0", 128},
	}
	for _, tc := range cases {
		t.Run(tc.spec, func(t *testing.T) {
			c, err := ParseCIDR(tc.spec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := new(big.Int).Lsh(big.NewInt(1), uint(tc.bits-c.Prefix().Bits()))
			if got := c.Size(); got.Cmp(want) != 0 {
				t.Fatalf("size: got %s want %s", got, want)
			}
		})
	}
}

func TestParseCIDR_HostsAreUnique(t *testing.T) {
	c, err := ParseCIDR("172.16.5.77/22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := make(map[netip.Addr]struct{})
	prev := netip.Addr{}
	for h := range c.Hosts() {
		if _, dup := seen[h]; dup {
			t.Fatalf("duplicate host %s", h)
		}
		if prev.IsValid() && !prev.Less(h) {
			t.Fatalf("hosts not ascending: %s then %s", prev, h)
		}
		seen[h] = struct{}{}
		prev = h
	}
	if len(seen) != 1024 {
		t.Fatalf("got %d hosts want 1024", len(seen))
	}
}

func TestParseCIDR_Invalid(t *testing.T) {
	cases := []string{
		"",
		"192.168.1.1/33",
		"192.168.1.1/-1",
		"192.168.1.1/",
		"192.168.1.1/abc",
		"192.168.1/24",
		"not-an-ip",
		"2001:db8::/129",
		"fe80::1%eth0/64",
		"10.0.0.0/8/8",
	}
	for _, spec := range cases {
		t.Run(spec, func(t *testing.T) {
			_, err := ParseCIDR(spec)
			if !errors.Is(err, ErrInvalidCidr) {
				t.Fatalf("expected ErrInvalidCidr for %q, got %v", spec, err)
			}
		})
	}
}

func TestParseCIDR_WithoutNetworkBroadcast(t *testing.T) {
	c, err := ParseCIDR("10.0.0.0/29", WithoutNetworkBroadcast())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4", "10.0.0.5", "10.0.0.6"}
	if got := hostsOf(t, c); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}

	// /31 and /32 have no network or broadcast address to drop.
	for _, spec := range []string{"10.0.0.0/31", "10.0.0.9/32"} {
		full, _ := ParseCIDR(spec)
		trimmed, err := ParseCIDR(spec, WithoutNetworkBroadcast())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if full.Size().Cmp(trimmed.Size()) != 0 {
			t.Fatalf("%s: option changed size %s -> %s", spec, full.Size(), trimmed.Size())
		}
	}
}

func TestParseCIDR_Excluding(t *testing.T) {
	c, err := ParseCIDR("10.0.0.0/29",
		Excluding(netip.MustParsePrefix("10.0.0.2/31"), netip.MustParsePrefix("10.0.0.7/32")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"10.0.0.0", "10.0.0.1", "10.0.0.4", "10.0.0.5", "10.0.0.6"}
	if got := hostsOf(t, c); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if c.Size().Int64() != 5 {
		t.Fatalf("size: got %s want 5", c.Size())
	}
	if c.Contains(netip.MustParseAddr("10.0.0.3")) {
		t.Fatalf("excluded address reported as contained")
	}
}

func TestCIDRBlock_ZeroValue(t *testing.T) {
	var c CIDRBlock
	if n := len(hostsOf(t, c)); n != 0 {
		t.Fatalf("zero block yielded %d hosts", n)
	}
	if c.Size().Sign() != 0 {
		t.Fatalf("zero block size %s", c.Size())
	}
}
