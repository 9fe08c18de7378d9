package modsim

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"

	"go.uber.org/zap"

	"fist-teleport/internal/coords"
)

// CoordListener accepts newline-delimited coordinate JSON
type CoordListener struct {
	ln  net.Listener
	log *zap.Logger
	wg  sync.WaitGroup
}

// ListenCoords binds addr
func ListenCoords(addr string, log *zap.Logger) (*CoordListener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CoordListener{ln: ln, log: log.With(zap.String("component", "modsim"))}, nil
}

// Addr returns the bound address
func (l *CoordListener) Addr() net.Addr {
	return l.ln.Addr()
}

// Serve accepts connections until ctx is cancelled, calling fn for every
// decoded coordinate.
func (l *CoordListener) Serve(ctx context.Context, fn func(coords.Coord)) error {
	stop := context.AfterFunc(ctx, func() { l.ln.Close() })
	defer stop()
	defer l.wg.Wait()

	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			l.handle(ctx, conn, fn)
		}()
	}
}

func (l *CoordListener) handle(ctx context.Context, conn net.Conn, fn func(coords.Coord)) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var c coords.Coord
		if err := json.Unmarshal(scanner.Bytes(), &c); err != nil {
			l.log.Warn("Dropping malformed coordinate", zap.ByteString("line", scanner.Bytes()), zap.Error(err))
			continue
		}
		fn(c)
	}
}

// Close stops accepting connections
func (l *CoordListener) Close() error {
	return l.ln.Close()
}
