package envdetect

import (
	"fmt"
	"net"
	"net/netip"
)

// Network is an IPv4 network attached to a local interface.
type Network struct {
	Interface string       `json:"interface"`
	Prefix    netip.Prefix `json:"cidr"`
	SrcIP     netip.Addr   `json:"src_ip"`
}

// DetectLocalNetworks lists the IPv4 networks of all interfaces that are up,
// skipping loopback. Order follows the system's interface order.
func DetectLocalNetworks() ([]Network, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}

	var nets []Network
	for _, ifc := range ifaces {
		if ifc.Flags&net.FlagUp == 0 || ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := ifc.Addrs()
		if err != nil {
			continue
		}
		nets = append(nets, networksFromAddrs(ifc.Name, addrs)...)
	}
	return nets, nil
}

func networksFromAddrs(name string, addrs []net.Addr) []Network {
	var nets []Network
	for _, a := range addrs {
		ipn, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		ip, ok := netip.AddrFromSlice(ipn.IP)
		if !ok {
			continue
		}
		ip = ip.Unmap()
		if !ip.Is4() || ip.IsLoopback() {
			continue
		}

		ones, bits := ipn.Mask.Size()
		switch bits {
		case 32:
		case 128:
			// v4 address carried with a v4-in-v6 mask
			ones -= 96
		default:
			continue
		}
		if ones < 0 || ones > 32 {
			continue
		}

		nets = append(nets, Network{
			Interface: name,
			Prefix:    netip.PrefixFrom(ip, ones).Masked(),
			SrcIP:     ip,
		})
	}
	return nets
}
