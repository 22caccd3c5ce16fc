package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ParseTrustedProxies parses a comma-separated list of CIDR ranges or bare
// IP addresses into networks. Bare IPs become /32 or /128 networks. Invalid
// entries are skipped.
func ParseTrustedProxies(proxies string) []*net.IPNet {
	var networks []*net.IPNet

	for _, entry := range strings.Split(proxies, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				continue
			}
			if ip.To4() != nil {
				entry += "/32"
			} else {
				entry += "/128"
			}
		}

		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			continue
		}
		networks = append(networks, network)
	}

	return networks
}

// isTrustedProxy reports whether the remote address falls inside one of the
// trusted networks.
func isTrustedProxy(remoteAddr string, trusted []*net.IPNet) bool {
	if len(trusted) == 0 {
		return false
	}

	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}

	for _, network := range trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP returns a ClientIDFunc that extracts the client IP from a
// request. X-Real-IP and X-Forwarded-For are only honored when the direct
// peer is a trusted proxy, which prevents callers from spoofing their
// identity past the rate limiter.
func ClientIP(trusted []*net.IPNet) ClientIDFunc {
	return func(r *http.Request) string {
		if isTrustedProxy(r.RemoteAddr, trusted) {
			if ip := r.Header.Get("X-Real-IP"); ip != "" {
				if parsed := net.ParseIP(strings.TrimSpace(ip)); parsed != nil {
					return parsed.String()
				}
			}

			// The leftmost X-Forwarded-For entry is the original client.
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first := strings.TrimSpace(strings.Split(xff, ",")[0])
				if parsed := net.ParseIP(first); parsed != nil {
					return parsed.String()
				}
			}
		}

		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return r.RemoteAddr
		}
		return host
	}
}
