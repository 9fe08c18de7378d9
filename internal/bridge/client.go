// Package bridge talks to the in-game mod script through a pair of files in a
// shared directory. A request is written to cmd.txt with a millisecond
// timestamp appended; the script answers in resp.txt, normally echoing the
// timestamp after a TIMESTAMP: marker so stale answers can be told apart.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// CommandFile is the request slot read by the mod script
	CommandFile = "cmd.txt"
	// ResponseFile is the answer slot written by the mod script
	ResponseFile = "resp.txt"
	// TimestampMarker precedes the echoed request timestamp in a response
	TimestampMarker = "TIMESTAMP:"

	defaultTimeout      = 5 * time.Second
	defaultPollInterval = 100 * time.Millisecond
)

var (
	// ErrTimeout is returned when no matching response arrives in time
	ErrTimeout = errors.New("timeout waiting for Lua response")
	// ErrEmptyName is returned for a teleport request without a target
	ErrEmptyName = errors.New("save point name is empty")
)

// Options configures a Client
type Options struct {
	Dir          string
	Timeout      time.Duration
	PollInterval time.Duration
	Logger       *zap.Logger

	// Now overrides the clock used for request timestamps
	Now func() time.Time
}

// Client sends commands to the mod script and waits for its answers
type Client struct {
	dir          string
	timeout      time.Duration
	pollInterval time.Duration
	log          *zap.Logger
	now          func() time.Time

	mu            sync.Mutex // one request owns the file pair at a time
	lastTimestamp int64

	group     singleflight.Group
	flightsMu sync.Mutex
	flights   map[string]*flight
}

// New creates a bridge client
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Client{
		dir:          opts.Dir,
		timeout:      opts.Timeout,
		pollInterval: opts.PollInterval,
		log:          opts.Logger.With(zap.String("component", "bridge")),
		now:          opts.Now,
		flights:      make(map[string]*flight),
	}
}

// Dir returns the shared directory
func (c *Client) Dir() string {
	return c.dir
}

// ScanSavePoints asks the mod for the save points of the current map
func (c *Client) ScanSavePoints(ctx context.Context) (string, error) {
	c.log.Info("Sending SCAN command via file")
	return c.Send(ctx, "SCAN")
}

// Teleport asks the mod to move the player to the named save point
func (c *Client) Teleport(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyName
	}
	c.log.Info("Sending TPNAME command via file", zap.String("savepoint", name))
	return c.Send(ctx, "TPNAME "+name)
}

// Send writes command to the command file and waits for the matching
// response. Identical commands issued concurrently share one round trip,
// which is abandoned only once every caller waiting on it has gone.
func (c *Client) Send(ctx context.Context, command string) (string, error) {
	for {
		f := c.join(ctx, command)
		ch := c.group.DoChan(command, func() (interface{}, error) {
			return c.roundTrip(f.ctx, command)
		})

		select {
		case res := <-ch:
			c.leave(command, f)
			if res.Err != nil {
				if errors.Is(res.Err, context.Canceled) && ctx.Err() == nil {
					// joined a round trip its other callers had just abandoned
					continue
				}
				return "", res.Err
			}
			return res.Val.(string), nil
		case <-ctx.Done():
			c.leave(command, f)
			return "", ctx.Err()
		}
	}
}

// flight is the context shared by the callers of one coalesced command
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

func (c *Client) join(ctx context.Context, command string) *flight {
	c.flightsMu.Lock()
	defer c.flightsMu.Unlock()

	f, ok := c.flights[command]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		c.flights[command] = f
	}
	f.waiters++
	return f
}

func (c *Client) leave(command string, f *flight) {
	c.flightsMu.Lock()
	defer c.flightsMu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}
	if c.flights[command] == f {
		delete(c.flights, command)
	}
	f.cancel()
}

func (c *Client) roundTrip(ctx context.Context, command string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create project directory: %w", err)
	}

	cmdPath := filepath.Join(c.dir, CommandFile)
	respPath := filepath.Join(c.dir, ResponseFile)

	c.cleanup(cmdPath, respPath)

	timestamp := c.nextTimestamp()
	stamp := strconv.FormatInt(timestamp, 10)
	log := c.log.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("command", command),
		zap.Int64("timestamp", timestamp),
	)

	// Watch before writing so a fast responder cannot slip past us.
	watcher := c.watch(log)
	if watcher != nil {
		defer watcher.Close()
	}

	if err := os.WriteFile(cmdPath, []byte(command+" "+stamp), 0644); err != nil {
		return "", fmt.Errorf("failed to write command file: %w", err)
	}
	log.Info("Command file written")

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if watcher != nil {
		events = watcher.Events
		errs = watcher.Errors
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	progress := time.NewTicker(time.Second)
	defer progress.Stop()
	deadline := time.NewTimer(c.timeout)
	defer deadline.Stop()

	started := time.Now()
	lastIgnored := ""

	for {
		fromEvent := false
		select {
		case <-ctx.Done():
			c.cleanup(cmdPath, respPath)
			return "", ctx.Err()

		case <-deadline.C:
			c.cleanup(cmdPath, respPath)
			log.Warn("Timed out waiting for response", zap.Duration("timeout", c.timeout))
			return "", ErrTimeout

		case <-progress.C:
			log.Info("Still waiting for response", zap.Int("seconds", int(time.Since(started).Seconds())))
			continue

		case err, ok := <-errs:
			if !ok {
				errs = nil
			} else {
				log.Debug("Watcher error", zap.Error(err))
			}
			continue

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Base(ev.Name) != ResponseFile || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			fromEvent = true

		case <-ticker.C:
		}

		data, err := os.ReadFile(respPath)
		if err != nil {
			continue
		}
		raw := string(data)

		// A blank file seen right after a create or write may still be
		// filling up; the next poll tick settles it.
		if fromEvent && strings.TrimSpace(raw) == "" {
			continue
		}

		reply, ok := Match(raw, stamp)
		if !ok {
			if strings.TrimSpace(raw) != "" && raw != lastIgnored {
				log.Info("Ignoring response with mismatched timestamp", zap.String("response", raw))
				lastIgnored = raw
			}
			continue
		}

		c.cleanup(respPath, cmdPath)
		log.Info("Got response", zap.String("response", reply), zap.Duration("elapsed", time.Since(started)))
		return reply, nil
	}
}

// Match reports whether raw answers the request stamped with timestamp and
// returns the reply text. Responses without a TIMESTAMP: marker are accepted
// as-is for scripts that do not echo the timestamp, including an empty one.
func Match(raw, timestamp string) (string, bool) {
	if !strings.Contains(raw, timestamp) && strings.Contains(raw, TimestampMarker) {
		return "", false
	}
	if pos := strings.Index(raw, TimestampMarker); pos >= 0 {
		raw = raw[:pos]
	}
	return strings.TrimSpace(raw), true
}

// nextTimestamp returns the current Unix time in milliseconds, bumped so that
// it never repeats a previous request of this client. Caller holds c.mu.
func (c *Client) nextTimestamp() int64 {
	ts := c.now().UnixMilli()
	if ts <= c.lastTimestamp {
		ts = c.lastTimestamp + 1
	}
	c.lastTimestamp = ts
	return ts
}

// watch returns a watcher on the shared dir, or nil when fsnotify is
// unavailable and the poll ticker has to do all the work.
func (c *Client) watch(log *zap.Logger) *fsnotify.Watcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Debug("fsnotify unavailable, polling only", zap.Error(err))
		return nil
	}
	if err := watcher.Add(c.dir); err != nil {
		log.Debug("Failed to watch bridge dir, polling only", zap.Error(err))
		watcher.Close()
		return nil
	}
	return watcher
}

func (c *Client) cleanup(paths ...string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
