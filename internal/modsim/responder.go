package modsim

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"fist-teleport/internal/bridge"
)

// Request is a parsed command file
type Request struct {
	Command   string
	Argument  string
	Timestamp string
}

// ParseRequest splits "<command> [argument] <timestamp>"
func ParseRequest(raw string) (Request, error) {
	raw = strings.TrimSpace(raw)

	rest, stamp, ok := cutLast(raw)
	if !ok || stamp == "" || strings.Trim(stamp, "0123456789") != "" {
		return Request{}, fmt.Errorf("malformed command %q", raw)
	}

	command, argument, _ := strings.Cut(rest, " ")
	return Request{
		Command:   command,
		Argument:  strings.TrimSpace(argument),
		Timestamp: stamp,
	}, nil
}

func cutLast(s string) (string, string, bool) {
	i := strings.LastIndexByte(s, ' ')
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

// Responder answers bridge requests written to the shared directory
type Responder struct {
	dir          string
	handler      Handler
	pollInterval time.Duration
	log          *zap.Logger

	mu        sync.Mutex
	lastStamp string
	served    int
}

// NewResponder creates a responder for dir
func NewResponder(dir string, handler Handler, log *zap.Logger) *Responder {
	if handler == nil {
		handler = DefaultHandler()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Responder{
		dir:          dir,
		handler:      handler,
		pollInterval: 50 * time.Millisecond,
		log:          log.With(zap.String("component", "modsim")),
	}
}

// Served returns how many requests have been answered
func (r *Responder) Served() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.served
}

// Run answers requests until ctx is cancelled
func (r *Responder) Run(ctx context.Context) error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("failed to create bridge dir: %w", err)
	}

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if watcher, err := fsnotify.NewWatcher(); err == nil {
		defer watcher.Close()
		if err := watcher.Add(r.dir); err == nil {
			events, errs = watcher.Events, watcher.Errors
		}
	}

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	r.log.Info("Responder watching", zap.String("dir", r.dir))
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-errs:
			if !ok {
				errs = nil
			}
			continue
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Base(ev.Name) != bridge.CommandFile {
				continue
			}
		case <-ticker.C:
		}

		if _, err := r.Serve(); err != nil {
			r.log.Warn("Failed to answer request", zap.Error(err))
		}
	}
}

// Serve answers the pending request, if any. It reports whether a response
// was written.
func (r *Responder) Serve() (bool, error) {
	cmdPath := filepath.Join(r.dir, bridge.CommandFile)

	data, err := os.ReadFile(cmdPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return false, nil
	}

	req, err := ParseRequest(string(data))
	if err != nil {
		_ = os.Remove(cmdPath)
		return false, err
	}

	r.mu.Lock()
	if req.Timestamp == r.lastStamp {
		r.mu.Unlock()
		return false, nil
	}
	r.lastStamp = req.Timestamp
	r.mu.Unlock()

	reply, err := r.handler.Handle(req.Command, req.Argument)
	if err != nil {
		reply = "ERR " + err.Error()
	}

	if err := r.writeResponse(reply + " " + bridge.TimestampMarker + req.Timestamp); err != nil {
		return false, err
	}
	_ = os.Remove(cmdPath)

	r.mu.Lock()
	r.served++
	r.mu.Unlock()

	r.log.Info("Answered request",
		zap.String("command", req.Command),
		zap.String("argument", req.Argument),
		zap.String("timestamp", req.Timestamp))
	return true, nil
}

// writeResponse replaces the response file in one step so the client never
// reads a half-written answer.
func (r *Responder) writeResponse(body string) error {
	respPath := filepath.Join(r.dir, bridge.ResponseFile)
	tmp := respPath + ".tmp"

	if err := os.WriteFile(tmp, []byte(body), 0644); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	if err := os.Rename(tmp, respPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to publish response: %w", err)
	}
	return nil
}
