package target

import (
	"iter"
	"math/big"

	"github.com/L1nMay/cidrscan/internal/model"
)

// Expand yields every (host, port) pair of the block and port set, host-major:
// all ports of the first host, then all ports of the second, and so on.
// Nothing is materialized; ranging over the result again restarts from the
// first host.
func Expand(cidr CIDRBlock, ports PortSet) iter.Seq[model.Target] {
	return func(yield func(model.Target) bool) {
		if ports.Len() == 0 {
			return
		}
		for host := range cidr.Hosts() {
			for _, p := range ports.ports {
				if !yield(model.Target{Host: host, Port: p}) {
					return
				}
			}
		}
	}
}

// TargetCount is |hosts| x |ports|.
func TargetCount(cidr CIDRBlock, ports PortSet) *big.Int {
	n := cidr.Size()
	return n.Mul(n, big.NewInt(int64(ports.Len())))
}
