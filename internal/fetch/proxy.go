package fetch

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"golang.org/x/net/proxy"
)

// ParseProxyAddress validates a SOCKS5 proxy address and returns it in
// "host:port" form. The socks5:// and socks5h:// prefixes are accepted.
func ParseProxyAddress(address string) (string, error) {
	addr := address
	for _, prefix := range []string{"socks5://", "socks5h://"} {
		addr = strings.TrimPrefix(addr, prefix)
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil || host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidProxyAddress, address)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return "", fmt.Errorf("%w: %q", ErrInvalidProxyAddress, address)
	}
	return addr, nil
}

// dialContextFunc matches http.Transport.DialContext.
type dialContextFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// newProxyDialContext returns a DialContext that connects through the
// SOCKS5 proxy at address.
func newProxyDialContext(address string) (dialContextFunc, error) {
	addr, err := ParseProxyAddress(address)
	if err != nil {
		return nil, err
	}

	dialer, err := proxy.SOCKS5("tcp", addr, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	cd, ok := dialer.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("SOCKS5 dialer for %s does not support contexts", addr)
	}
	return cd.DialContext, nil
}
