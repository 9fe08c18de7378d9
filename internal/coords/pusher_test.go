package coords

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) (net.Listener, <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	lines := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, err := bufio.NewReader(conn).ReadString('\n')
		if err == nil {
			lines <- line
		}
	}()
	return ln, lines
}

func TestPush_WritesJSONLine(t *testing.T) {
	ln, lines := listen(t)
	p := New(Options{Address: ln.Addr().String()})

	label := "Bell Tower"
	require.NoError(t, p.Push(context.Background(), Coord{X: 12.5, Y: -3, Label: &label}))

	select {
	case line := <-lines:
		assert.Equal(t, `{"x":12.5,"y":-3,"label":"Bell Tower"}`+"\n", line)
	case <-time.After(2 * time.Second):
		t.Fatal("listener received nothing")
	}
}

func TestPush_NullLabel(t *testing.T) {
	ln, lines := listen(t)
	p := New(Options{Address: ln.Addr().String()})

	require.NoError(t, p.Push(context.Background(), Coord{X: 1, Y: 2}))

	select {
	case line := <-lines:
		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &got))
		assert.Contains(t, got, "label")
		assert.Nil(t, got["label"])
		assert.Equal(t, 1.0, got["x"])
	case <-time.After(2 * time.Second):
		t.Fatal("listener received nothing")
	}
}

func TestPush_NoListenerIsNotAnError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	p := New(Options{Address: addr})
	assert.NoError(t, p.Push(context.Background(), Coord{X: 1, Y: 1}))
}

func TestPush_InvalidAddress(t *testing.T) {
	for _, addr := range []string{"not-an-address", "localhost:foo", "localhost:61234", "127.0.0.1", "127.0.0.1:99999"} {
		p := New(Options{Address: addr})
		err := p.Push(context.Background(), Coord{})
		if assert.Error(t, err, addr) {
			assert.Contains(t, err.Error(), "invalid address", addr)
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	p := New(Options{})
	assert.Equal(t, DefaultAddress, p.address)
	assert.Equal(t, 100*time.Millisecond, p.dialTimeout)
	assert.Equal(t, 100*time.Millisecond, p.writeTimeout)
}
