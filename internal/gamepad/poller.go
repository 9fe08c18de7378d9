// Package gamepad polls a game controller and forwards normalized button and
// stick events to the UI.
package gamepad

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	defaultPollInterval  = 16 * time.Millisecond
	defaultRetryInterval = 2 * time.Second
	defaultThreshold     = 0.5
)

// Options configures a Poller
type Options struct {
	Opener        Opener
	Emit          Emitter
	PollInterval  time.Duration
	RetryInterval time.Duration
	Threshold     float64
	Logger        *zap.Logger
}

// Poller reads the controller on a fixed interval and emits state changes
type Poller struct {
	open          Opener
	emit          Emitter
	pollInterval  time.Duration
	retryInterval time.Duration
	threshold     float64
	log           *zap.Logger

	mu        sync.Mutex
	isPolling bool
	stopChan  chan struct{}
	done      chan struct{}

	connected atomic.Bool
}

// NewOpener returns the device opener for a backend name
func NewOpener(backend string, mapping Mapping) (Opener, error) {
	return platformOpener(backend, mapping)
}

// New creates a new gamepad poller
func New(opts Options) *Poller {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = defaultRetryInterval
	}
	if opts.Threshold <= 0 || opts.Threshold >= 1 {
		opts.Threshold = defaultThreshold
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Emit == nil {
		opts.Emit = func(any) {}
	}

	return &Poller{
		open:          opts.Opener,
		emit:          opts.Emit,
		pollInterval:  opts.PollInterval,
		retryInterval: opts.RetryInterval,
		threshold:     opts.Threshold,
		log:           opts.Logger.With(zap.String("component", "gamepad")),
	}
}

// Start begins polling. Calling Start on a running poller does nothing.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isPolling {
		return
	}
	if p.open == nil {
		p.log.Warn("No gamepad backend available, input disabled")
		return
	}

	p.isPolling = true
	p.stopChan = make(chan struct{})
	p.done = make(chan struct{})
	go p.pollLoop(p.stopChan, p.done)
	p.log.Info("Gamepad polling started", zap.Duration("interval", p.pollInterval))
}

// Stop ends polling and waits for the loop to exit
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.isPolling {
		p.mu.Unlock()
		return
	}
	p.isPolling = false
	close(p.stopChan)
	done := p.done
	p.mu.Unlock()

	<-done
	p.log.Info("Gamepad polling stopped")
}

// IsPolling reports whether the loop is running
func (p *Poller) IsPolling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isPolling
}

// Connected reports whether a controller is currently open
func (p *Poller) Connected() bool {
	return p.connected.Load()
}

// pollLoop is the main polling loop
func (p *Poller) pollLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	var (
		dev       Device
		prev      Snapshot
		direction int
		nextOpen  time.Time
	)

	defer func() {
		if dev != nil {
			dev.Close()
			p.connected.Store(false)
		}
	}()

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		if dev == nil && !time.Now().Before(nextOpen) {
			d, err := p.open()
			if err != nil {
				if !errors.Is(err, ErrNoDevice) {
					p.log.Error("Gamepad backend failed, input disabled", zap.Error(err))
					return
				}
				p.log.Debug("No controller", zap.Error(err))
				nextOpen = time.Now().Add(p.retryInterval)
			} else {
				dev = d
				prev = Snapshot{}
				direction = 0
				p.connected.Store(true)
				p.log.Info("Controller connected", zap.String("name", dev.Name()))
				p.emit(ConnectionEvent{Type: "connection", State: "connected", Name: dev.Name()})
			}
		}

		if dev != nil {
			snap, err := dev.Read()
			if err != nil {
				name := dev.Name()
				p.log.Info("Controller disconnected", zap.String("name", name), zap.Error(err))
				dev.Close()
				dev = nil
				prev = Snapshot{}
				direction = 0
				p.connected.Store(false)
				nextOpen = time.Now().Add(p.retryInterval)
				p.emit(ConnectionEvent{Type: "connection", State: "disconnected", Name: name})
			} else {
				var events []any
				events, direction = Diff(prev, snap, direction, p.threshold)
				for _, ev := range events {
					p.emit(ev)
				}
				prev = snap
			}
		}

		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// Diff compares two snapshots and returns the events to emit along with the
// new stick direction. Buttons are reported in the fixed order of Buttons.
func Diff(prev, next Snapshot, direction int, threshold float64) ([]any, int) {
	var events []any

	for _, b := range Buttons {
		was, is := prev.Pressed[b], next.Pressed[b]
		if was != is {
			events = append(events, buttonEvent(b, is))
		}
	}

	if d := Direction(next.LeftX, threshold); d != direction {
		events = append(events, axisEvent(d))
		direction = d
	}

	return events, direction
}
