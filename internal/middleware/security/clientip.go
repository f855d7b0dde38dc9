package security

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// IPExtractor resolves the real client IP, trusting forwarded headers
// only when the direct peer is a known proxy.
type IPExtractor struct {
	trustedProxies []*net.IPNet
}

func NewIPExtractor() *IPExtractor {
	return &IPExtractor{
		trustedProxies: []*net.IPNet{
			mustParseCIDR("127.0.0.0/8"),
			mustParseCIDR("10.0.0.0/8"),
			mustParseCIDR("172.16.0.0/12"),
			mustParseCIDR("192.168.0.0/16"),
		},
	}
}

func mustParseCIDR(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(fmt.Sprintf("failed to parse trusted proxy CIDR %s: %v", cidr, err))
	}
	return network
}

// ExtractClientIP extracts the real client IP, validating forwarded headers
func (x *IPExtractor) ExtractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsedDirectIP := net.ParseIP(directIP)
	if parsedDirectIP == nil {
		return directIP
	}

	if x.isTrustedProxy(parsedDirectIP) {
		// X-Forwarded-For can contain multiple IPs, take the first one
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			ips := strings.Split(xff, ",")
			if len(ips) > 0 {
				clientIP := strings.TrimSpace(ips[0])
				if net.ParseIP(clientIP) != nil {
					return clientIP
				}
			}
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			if net.ParseIP(xri) != nil {
				return xri
			}
		}
	}

	return directIP
}

// AddTrustedProxy adds a trusted proxy network
func (x *IPExtractor) AddTrustedProxy(cidr string) error {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return fmt.Errorf("invalid CIDR %s: %w", cidr, err)
	}
	x.trustedProxies = append(x.trustedProxies, network)
	return nil
}

func (x *IPExtractor) isTrustedProxy(ip net.IP) bool {
	for _, network := range x.trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
