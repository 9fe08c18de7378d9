package bridge_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"fist-teleport/internal/bridge"
	"fist-teleport/internal/modsim"
)

const bridgeDirName = "Forged-In-Shadow-Torch-Save-Point-Teleport-Mod"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newClient(t *testing.T, dir string, timeout time.Duration) *bridge.Client {
	t.Helper()
	return bridge.New(bridge.Options{
		Dir:          dir,
		Timeout:      timeout,
		PollInterval: 10 * time.Millisecond,
	})
}

// runResponder answers requests in dir until the test ends.
func runResponder(t *testing.T, dir string, h modsim.Handler) *modsim.Responder {
	t.Helper()
	r := modsim.NewResponder(dir, h, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return r
}

func assertNoChannelFiles(t *testing.T, dir string) {
	t.Helper()
	for _, name := range []string{bridge.CommandFile, bridge.ResponseFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.True(t, os.IsNotExist(err), "%s should be removed", name)
	}
}

func TestClient_ScanSavePoints(t *testing.T) {
	dir := t.TempDir()
	runResponder(t, dir, nil)
	c := newClient(t, dir, 2*time.Second)

	reply, err := c.ScanSavePoints(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(reply, "[{"), reply)
	assert.Contains(t, reply, "Torch City Gate")
	assertNoChannelFiles(t, dir)
}

func TestClient_Teleport(t *testing.T) {
	dir := t.TempDir()
	runResponder(t, dir, nil)
	c := newClient(t, dir, 2*time.Second)

	reply, err := c.Teleport(context.Background(), "Tower Lift")
	require.NoError(t, err)
	assert.Equal(t, "OK Tower Lift", reply)
}

func TestClient_TeleportEmptyName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-created")
	c := newClient(t, dir, time.Second)

	_, err := c.Teleport(context.Background(), "  ")
	assert.ErrorIs(t, err, bridge.ErrEmptyName)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestClient_CreatesDirectoryAndWritesStampedCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), bridgeDirName)
	c := bridge.New(bridge.Options{
		Dir:          dir,
		Timeout:      150 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
		Now:          func() time.Time { return time.UnixMilli(1700000000123) },
	})

	seen := make(chan string, 1)
	go func() {
		path := filepath.Join(dir, bridge.CommandFile)
		for i := 0; i < 100; i++ {
			if data, err := os.ReadFile(path); err == nil {
				seen <- string(data)
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
		close(seen)
	}()

	_, err := c.Send(context.Background(), "SCAN")
	assert.ErrorIs(t, err, bridge.ErrTimeout)
	assert.Equal(t, "SCAN 1700000000123", <-seen)
	assertNoChannelFiles(t, dir)
}

func TestClient_Timeout(t *testing.T) {
	dir := t.TempDir()
	c := newClient(t, dir, 200*time.Millisecond)

	start := time.Now()
	_, err := c.Send(context.Background(), "SCAN")
	assert.ErrorIs(t, err, bridge.ErrTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
	assertNoChannelFiles(t, dir)
}

func TestClient_IgnoresStaleResponse(t *testing.T) {
	dir := t.TempDir()
	c := newClient(t, dir, 2*time.Second)

	go func() {
		cmdPath := filepath.Join(dir, bridge.CommandFile)
		respPath := filepath.Join(dir, bridge.ResponseFile)
		for i := 0; i < 200; i++ {
			data, err := os.ReadFile(cmdPath)
			if err != nil || len(data) == 0 {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			stamp := string(data[strings.LastIndexByte(string(data), ' ')+1:])
			_ = os.WriteFile(respPath, []byte("OK old TIMESTAMP:1"), 0644)
			time.Sleep(60 * time.Millisecond)
			_ = os.WriteFile(respPath, []byte("OK fresh TIMESTAMP:"+stamp), 0644)
			return
		}
	}()

	reply, err := c.Send(context.Background(), "TPNAME Gate")
	require.NoError(t, err)
	assert.Equal(t, "OK fresh", reply)
}

func TestClient_AcceptsUnstampedResponse(t *testing.T) {
	dir := t.TempDir()
	c := newClient(t, dir, 2*time.Second)

	go func() {
		respPath := filepath.Join(dir, bridge.ResponseFile)
		for i := 0; i < 200; i++ {
			if _, err := os.Stat(filepath.Join(dir, bridge.CommandFile)); err == nil {
				_ = os.WriteFile(respPath, []byte("legacy reply\n"), 0644)
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()

	reply, err := c.Send(context.Background(), "SCAN")
	require.NoError(t, err)
	assert.Equal(t, "legacy reply", reply)
	assertNoChannelFiles(t, dir)
}

func TestClient_ContextCancel(t *testing.T) {
	dir := t.TempDir()
	c := newClient(t, dir, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Send(ctx, "SCAN")
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)

	require.Eventually(t, func() bool {
		_, errCmd := os.Stat(filepath.Join(dir, bridge.CommandFile))
		return os.IsNotExist(errCmd)
	}, time.Second, 10*time.Millisecond)
}

func TestClient_SerializesDistinctCommands(t *testing.T) {
	dir := t.TempDir()
	runResponder(t, dir, nil)
	c := newClient(t, dir, 3*time.Second)

	names := []string{"Gate", "Factory", "Lift"}
	replies := make([]string, len(names))
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			replies[i], errs[i] = c.Teleport(context.Background(), name)
		}(i, name)
	}
	wg.Wait()

	for i, name := range names {
		require.NoError(t, errs[i], name)
		assert.Equal(t, "OK "+name, replies[i])
	}
}

func TestClient_CoalescesIdenticalCommands(t *testing.T) {
	dir := t.TempDir()
	release := make(chan struct{})
	var calls int32
	r := runResponder(t, dir, modsim.HandlerFunc(func(string, string) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "[]", nil
	}))
	c := newClient(t, dir, 3*time.Second)

	var wg sync.WaitGroup
	results := make(chan string, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reply, err := c.ScanSavePoints(context.Background())
			if err == nil {
				results <- reply
			}
		}()
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	var got []string
	for reply := range results {
		got = append(got, reply)
	}
	assert.Equal(t, []string{"[]", "[]"}, got)
	assert.Equal(t, 1, r.Served())
}

func TestClient_AcceptsBlankResponse(t *testing.T) {
	dir := t.TempDir()
	c := newClient(t, dir, 2*time.Second)

	go func() {
		respPath := filepath.Join(dir, bridge.ResponseFile)
		for i := 0; i < 200; i++ {
			if _, err := os.Stat(filepath.Join(dir, bridge.CommandFile)); err == nil {
				_ = os.WriteFile(respPath, []byte("\n"), 0644)
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()

	reply, err := c.Send(context.Background(), "TPNAME Gate")
	require.NoError(t, err)
	assert.Equal(t, "", reply)
	assertNoChannelFiles(t, dir)
}

func TestClient_CoalescedCallerOutlivesCancelledCaller(t *testing.T) {
	dir := t.TempDir()
	release := make(chan struct{})
	var calls int32
	r := runResponder(t, dir, modsim.HandlerFunc(func(string, string) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "[]", nil
	}))
	c := newClient(t, dir, 3*time.Second)

	first, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.ScanSavePoints(first)
		firstErr <- err
	}()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, 2*time.Second, 5*time.Millisecond)

	type result struct {
		reply string
		err   error
	}
	second := make(chan result, 1)
	go func() {
		reply, err := c.ScanSavePoints(context.Background())
		second <- result{reply, err}
	}()

	time.Sleep(20 * time.Millisecond)
	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	time.Sleep(20 * time.Millisecond)
	close(release)

	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "[]", res.reply)
	assert.Equal(t, 1, r.Served())
	assertNoChannelFiles(t, dir)
}
