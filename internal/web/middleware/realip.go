package middleware

import (
	"log/slog"
	"net/http"
	"net/netip"
	"strings"

	"github.com/JonMunkholm/memberportal/internal/core"
)

// TrustedRealIP resolves the applicant's address for rate limiting, lookup
// keys and audit entries.
//
// X-Real-IP and X-Forwarded-For are honoured only when the connection itself
// comes from one of trustedProxies (CIDRs or single addresses). The resolved
// address replaces r.RemoteAddr and is stored with core.ContextWithIPAddress.
func TrustedRealIP(trustedProxies []string) func(http.Handler) http.Handler {
	proxies := parseProxies(trustedProxies)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr, ok := hostAddr(r.RemoteAddr)
			if ok && proxies.contains(addr) {
				if fwd, found := proxies.forwarded(r.Header); found {
					addr = fwd
					r.RemoteAddr = fwd.String()
				}
			}

			ip := r.RemoteAddr
			if ok {
				ip = addr.String()
			}
			ctx := core.ContextWithIPAddress(r.Context(), ip)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// proxyList is the set of reverse proxies allowed to report a client address.
type proxyList []netip.Prefix

func parseProxies(entries []string) proxyList {
	var list proxyList
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			list = append(list, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			slog.Warn("realip: invalid trusted proxy, skipping", "proxy", entry, "error", err)
			continue
		}
		addr = addr.Unmap()
		list = append(list, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return list
}

func (l proxyList) contains(addr netip.Addr) bool {
	for _, p := range l {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// forwarded returns the client address reported by a trusted proxy.
// X-Forwarded-For is read right to left and the first hop that is not itself
// a trusted proxy wins, so a client cannot prepend a forged address.
func (l proxyList) forwarded(h http.Header) (netip.Addr, bool) {
	if rip := strings.TrimSpace(h.Get("X-Real-IP")); rip != "" {
		if addr, err := netip.ParseAddr(rip); err == nil {
			return addr.Unmap(), true
		}
	}

	hops := strings.Split(h.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			return netip.Addr{}, false
		}
		addr = addr.Unmap()
		if !l.contains(addr) {
			return addr, true
		}
	}
	return netip.Addr{}, false
}

// hostAddr parses the address part of "host:port" or a bare address.
func hostAddr(remote string) (netip.Addr, bool) {
	if ap, err := netip.ParseAddrPort(remote); err == nil {
		return ap.Addr().Unmap(), true
	}
	addr, err := netip.ParseAddr(remote)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
