// Package coords pushes coordinate samples to the mod script over local TCP.
package coords

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/netip"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultAddress is where the mod script listens for coordinates
	DefaultAddress = "127.0.0.1:61234"

	defaultDialTimeout  = 100 * time.Millisecond
	defaultWriteTimeout = 100 * time.Millisecond
)

// Coord is one coordinate sample sent to the mod script
type Coord struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label *string `json:"label"`
}

// Options configures a Pusher
type Options struct {
	Address      string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	Logger       *zap.Logger
}

// Pusher delivers coordinates over short-lived TCP connections
type Pusher struct {
	address      string
	dialTimeout  time.Duration
	writeTimeout time.Duration
	log          *zap.Logger
}

// New creates a Pusher
func New(opts Options) *Pusher {
	if opts.Address == "" {
		opts.Address = DefaultAddress
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Pusher{
		address:      opts.Address,
		dialTimeout:  opts.DialTimeout,
		writeTimeout: opts.WriteTimeout,
		log:          opts.Logger.With(zap.String("component", "coords")),
	}
}

// Push sends one newline-terminated JSON coordinate. A listener that is not
// running is not an error; the sample is dropped.
func (p *Pusher) Push(ctx context.Context, c Coord) error {
	if _, err := netip.ParseAddrPort(p.address); err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}

	dialer := net.Dialer{Timeout: p.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		p.log.Debug("Coordinate listener not reachable", zap.String("address", p.address), zap.Error(err))
		return nil
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(p.writeTimeout))

	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	payload = append(payload, '\n')

	if _, err := conn.Write(payload); err != nil {
		return err
	}
	return nil
}
