package envdetect

import (
	"net"
	"net/netip"
	"testing"
)

func TestNetworksFromAddrs(t *testing.T) {
	addrs := []net.Addr{
		&net.IPNet{IP: net.ParseIP("192.168.1.23"), Mask: net.CIDRMask(24, 32)},
		&net.IPNet{IP: net.ParseIP("10.1.2.3"), Mask: net.CIDRMask(104, 128)},
		&net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)},
		&net.IPNet{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)},
		&net.IPAddr{IP: net.ParseIP("172.16.0.1")},
	}

	got := networksFromAddrs("eth0", addrs)
	want := []Network{
		{Interface: "eth0", Prefix: netip.MustParsePrefix("192.168.1.0/24"), SrcIP: netip.MustParseAddr("192.168.1.23")},
		{Interface: "eth0", Prefix: netip.MustParsePrefix("10.0.0.0/8"), SrcIP: netip.MustParseAddr("10.1.2.3")},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("network %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestDetectLocalNetworks_NoLoopback(t *testing.T) {
	nets, err := DetectLocalNetworks()
	if err != nil {
		t.Skipf("interfaces unavailable: %v", err)
	}
	for _, n := range nets {
		if n.SrcIP.IsLoopback() || !n.Prefix.Contains(n.SrcIP) {
			t.Fatalf("unexpected network %+v", n)
		}
	}
}
