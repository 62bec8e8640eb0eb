package security

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"sync/atomic"
)

// DetectionMetrics tracks security detection events
type DetectionMetrics struct {
	SuspiciousRequests int64
	InvalidIPAttempts  int64
}

// rule flags one class of hostile request. The dashboard only ever sees
// date query parameters, so anything resembling a probe is worth a log line.
type rule struct {
	name  string
	match func(r *http.Request) bool
}

var (
	probeFragments = []string{
		"../", "..\\", ".env", ".git", ".ssh", "wp-admin", "phpmyadmin",
		"etc/passwd", "cmd.exe", "<script", "javascript:", "union select",
	}
	scannerAgents = []string{"sqlmap", "nmap", "nikto", "gobuster", "dirb", "masscan", "zgrab"}
	oddMethods    = []string{"TRACE", "TRACK", "DEBUG", "CONNECT"}
)

var rules = []rule{
	{"probe_path", func(r *http.Request) bool { return containsAny(strings.ToLower(r.URL.Path), probeFragments) }},
	{"probe_query", func(r *http.Request) bool { return containsAny(strings.ToLower(r.URL.RawQuery), probeFragments) }},
	{"scanner_agent", func(r *http.Request) bool {
		return containsAny(strings.ToLower(r.Header.Get("User-Agent")), scannerAgents)
	}},
	{"odd_method", func(r *http.Request) bool {
		for _, m := range oddMethods {
			if r.Method == m {
				return true
			}
		}
		return false
	}},
	{"long_url", func(r *http.Request) bool { return len(r.URL.String()) > 2048 }},
	{"proxy_chain", func(r *http.Request) bool { return strings.Count(r.Header.Get("X-Forwarded-For"), ",") > 5 }},
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

// Detector flags suspicious requests and resolves client IPs behind
// trusted proxies.
type Detector struct {
	suspicious atomic.Int64
	invalidIP  atomic.Int64

	mu      sync.RWMutex
	trusted []netip.Prefix
}

// NewDetector trusts loopback and the private ranges as proxies.
func NewDetector() *Detector {
	d := &Detector{}
	for _, cidr := range []string{"127.0.0.0/8", "::1/128", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"} {
		d.trusted = append(d.trusted, netip.MustParsePrefix(cidr))
	}
	return d
}

// Inspect returns the name of the first rule r trips.
func (d *Detector) Inspect(r *http.Request) (reason string, suspicious bool) {
	for _, rl := range rules {
		if rl.match(r) {
			d.suspicious.Add(1)
			return rl.name, true
		}
	}
	return "", false
}

// DetectSuspiciousRequest reports whether any rule matches r.
func (d *Detector) DetectSuspiciousRequest(r *http.Request) bool {
	_, suspicious := d.Inspect(r)
	return suspicious
}

// ExtractClientIP returns the peer address, or the first X-Forwarded-For
// (then X-Real-IP) entry when the peer is a trusted proxy.
func (d *Detector) ExtractClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	peer, err := netip.ParseAddr(host)
	if err != nil || !d.isTrustedProxy(peer) {
		return host
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		first = strings.TrimSpace(first)
		if _, err := netip.ParseAddr(first); err == nil {
			return first
		}
		d.invalidIP.Add(1)
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if _, err := netip.ParseAddr(xri); err == nil {
			return xri
		}
	}
	return host
}

func (d *Detector) isTrustedProxy(ip netip.Addr) bool {
	ip = ip.Unmap()
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, p := range d.trusted {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

// AddTrustedProxy adds a trusted proxy network
func (d *Detector) AddTrustedProxy(cidr string) error {
	p, err := netip.ParsePrefix(cidr)
	if err != nil {
		return fmt.Errorf("invalid trusted proxy %q: %w", cidr, err)
	}
	d.mu.Lock()
	d.trusted = append(d.trusted, p.Masked())
	d.mu.Unlock()
	return nil
}

// GetMetrics returns current security metrics
func (d *Detector) GetMetrics() DetectionMetrics {
	return DetectionMetrics{
		SuspiciousRequests: d.suspicious.Load(),
		InvalidIPAttempts:  d.invalidIP.Load(),
	}
}

// Middleware logs suspicious requests at Warn and lets them through.
func (d *Detector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reason, ok := d.Inspect(r); ok {
			slog.WarnContext(r.Context(), "Suspicious request detected",
				"component", "security",
				"rule", reason,
				"client_ip", d.ExtractClientIP(r),
				"method", r.Method,
				"path", r.URL.Path,
				"user_agent", r.Header.Get("User-Agent"))
		}
		next.ServeHTTP(w, r)
	})
}
