package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/Zereker/stomp"
)

const separator = "============="

// lineLogger prints every line a peer sends, prefixed with the peer address.
// Connects and disconnects are marked with a separator line.
type lineLogger struct {
	mu     sync.Mutex
	out    io.Writer
	logger *slog.Logger
}

func newLineLogger(out io.Writer, logger *slog.Logger) *lineLogger {
	return &lineLogger{out: out, logger: logger}
}

// Handle implements stomp.Handler.
func (l *lineLogger) Handle(ctx context.Context, conn net.Conn) {
	peer := conn.RemoteAddr().String()
	l.logger.Info("peer connected", "peer", peer)
	l.println(separator)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		l.println(fmt.Sprintf("%s %s", peer, scanner.Text()))
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		l.logger.Warn("read error", "peer", peer, "error", err)
	}

	l.println(separator)
	l.logger.Info("peer disconnected", "peer", peer)
}

func (l *lineLogger) println(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintln(l.out, s)
}

var _ stomp.Handler = (*lineLogger)(nil)
