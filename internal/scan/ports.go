package scan

import (
	"strings"

	"github.com/L1nMay/cidrscan/internal/logger"
)

const topPorts = "22,21,25,53,80,110,143,443,3306,5432,6379,27017,8080,8443"

// resolvePorts expands the port keywords. An empty spec falls back to the
// configured default, which may itself be a keyword.
func resolvePorts(ports string, fallback string) string {
	p := strings.TrimSpace(ports)
	if p == "" {
		p = strings.TrimSpace(fallback)
	}

	switch strings.ToLower(p) {
	case "", "top", "auto":
		logger.Debugf("Top ports mode enabled")
		return topPorts
	case "all":
		logger.Debugf("All ports mode enabled: 1-65535")
		return "1-65535"
	}

	return p
}
