package middleware

import (
	"fmt"      // Error wrapping
	"net"      // Proxy address matching
	"net/http" // TLS detection
	"strings"  // Header parsing

	"github.com/gin-gonic/gin" // Gin web framework
)

// CtxScheme holds the public scheme of the request
const CtxScheme = "scheme"

// parseProxies turns IPs and CIDRs into networks, single IPs become host networks
func parseProxies(proxies []string) ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(proxies))
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if strings.Contains(p, "/") {
			_, n, err := net.ParseCIDR(p)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", p, err)
			}
			nets = append(nets, n)
			continue
		}
		ip := net.ParseIP(p)
		if ip == nil {
			return nil, fmt.Errorf("trusted proxy %q is not an IP", p)
		}
		bits := 8 * net.IPv4len
		if ip.To4() == nil {
			bits = 8 * net.IPv6len
		} else {
			ip = ip.To4()
		}
		nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return nets, nil
}

// ForwardedScheme records the scheme the client used. X-Forwarded-Proto only counts when
// the direct peer is one of the trusted proxies.
func ForwardedScheme(trusted []string) (gin.HandlerFunc, error) {
	nets, err := parseProxies(trusted)
	if err != nil {
		return nil, err
	}
	return func(c *gin.Context) {
		c.Set(CtxScheme, requestScheme(c.Request, nets))
		c.Next()
	}, nil
}

func requestScheme(r *http.Request, trusted []*net.IPNet) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	proto := r.Header.Get("X-Forwarded-Proto")
	if proto == "" {
		return scheme
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		host = strings.TrimSpace(r.RemoteAddr)
	}
	peer := net.ParseIP(host)
	if peer == nil {
		return scheme
	}
	for _, n := range trusted {
		if n.Contains(peer) {
			switch p := strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0])); p {
			case "http", "https":
				return p
			}
			return scheme
		}
	}
	return scheme // Untrusted peer
}

// Scheme returns the scheme recorded by ForwardedScheme, falling back to the connection
func Scheme(c *gin.Context) string {
	if s := c.GetString(CtxScheme); s != "" {
		return s
	}
	return requestScheme(c.Request, nil)
}
