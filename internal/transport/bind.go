package transport

import (
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/PiyushDatta/senseboard/internal/logging"
	"go.uber.org/zap"
)

// Bind listens on host:port, and on "address already in use" tries up to
// scanSpan-1 subsequent ports in sequence. It returns the open listener and
// the port it actually bound, or an error once the scan span is exhausted.
func Bind(host string, port, scanSpan int) (net.Listener, int, error) {
	if scanSpan < 1 {
		scanSpan = 1
	}

	var lastErr error
	for i := 0; i < scanSpan; i++ {
		tryPort := port + i
		addr := fmt.Sprintf("%s:%d", host, tryPort)
		ln, err := net.Listen("tcp", addr)
		if err == nil {
			return ln, tryPort, nil
		}
		lastErr = err
		if !isAddrInUse(err) {
			return nil, 0, fmt.Errorf("binding %s: %w", addr, err)
		}
		logging.Warn(nil, "port in use, trying next", zap.String("addr", addr))
	}

	return nil, 0, fmt.Errorf("exhausted %d ports starting at %d: %w", scanSpan, port, lastErr)
}

func isAddrInUse(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE)
}
