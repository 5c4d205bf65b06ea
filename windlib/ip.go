package windlib

import (
	"net"
	"net/http"
	"strings"
)

const (
	// HeaderForwardedFor is a header set by reverse proxies. Only its
	// first entry is used: this is an address of the original client.
	HeaderForwardedFor = "X-Forwarded-For"

	// QueryRemoteIP is a name of query parameter which overrides the
	// detected IP address. It is handy for debugging.
	QueryRemoteIP = "remoteIp"
)

// ResolveIP returns an IP address of the client which has sent the
// request. It never fails: if nothing can be parsed, a raw remote
// address of the connection is returned.
//
// Query parameter remoteIp is not taken into account here, please see
// ResolveRequestIP.
func ResolveIP(req *http.Request) string {
	if header := req.Header.Get(HeaderForwardedFor); header != "" {
		first := strings.TrimSpace(strings.SplitN(header, ",", 2)[0])

		if ip := parseHostIP(first); ip != nil {
			return ip.String()
		}
	}

	if host, _, err := net.SplitHostPort(req.RemoteAddr); err == nil {
		return host
	}

	return req.RemoteAddr
}

// ResolveRequestIP is ResolveIP which respects remoteIp query
// parameter. If it is present, it wins unconditionally.
func ResolveRequestIP(req *http.Request) string {
	query := req.URL.Query()

	if _, ok := query[QueryRemoteIP]; ok {
		return query.Get(QueryRemoteIP)
	}

	return ResolveIP(req)
}

func parseHostIP(value string) net.IP {
	if host, _, err := net.SplitHostPort(value); err == nil {
		value = host
	}

	return net.ParseIP(strings.Trim(value, "[]"))
}
