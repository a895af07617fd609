package gesture

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	res, err := Decode([]byte(`{"multiHandLandmarks":[[{"x":0.1,"y":0.2,"z":-0.3}]]}`))
	require.NoError(t, err)
	require.Len(t, res.MultiHandLandmarks, 1)
	assert.Equal(t, Landmark{X: 0.1, Y: 0.2, Z: -0.3}, res.MultiHandLandmarks[0][0])

	_, ok := res.FirstHand()
	assert.False(t, ok, "fewer than 21 landmarks is not a hand")

	_, err = Decode([]byte(`{not json`))
	assert.True(t, errors.Is(err, ErrMalformed))

	empty, err := Decode([]byte(`{}`))
	require.NoError(t, err)
	_, ok = empty.FirstHand()
	assert.False(t, ok)
}

func TestFirstHand(t *testing.T) {
	hand := make([]Landmark, LandmarkCount)
	hand[Wrist] = Landmark{X: 0.4, Y: 0.9}
	other := make([]Landmark, LandmarkCount)
	res := Result{MultiHandLandmarks: [][]Landmark{hand, other}}

	got, ok := res.FirstHand()
	require.True(t, ok)
	assert.Equal(t, 0.4, got[Wrist].X)
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestServerDeliversPayloads(t *testing.T) {
	s := NewServer("", "", nil)
	got := make(chan Result, 4)
	srv := httptest.NewServer(s.Handler(func(r Result) { got <- r }))
	defer srv.Close()

	conn := dial(t, srv, DefaultPath)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`garbage`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"multiHandLandmarks":[[{"x":0.25,"y":0.5,"z":0}]]}`)))

	select {
	case r := <-got:
		require.Len(t, r.MultiHandLandmarks, 1)
		assert.Equal(t, 0.25, r.MultiHandLandmarks[0][0].X)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for payload")
	}

	assert.Equal(t, int64(1), s.Received())
	assert.Equal(t, int64(1), s.Dropped())
}

func TestServerWrongPath(t *testing.T) {
	s := NewServer("", "/landmarks", nil)
	srv := httptest.NewServer(s.Handler(func(Result) {}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/elsewhere"
	_, _, err := websocket.DefaultDialer.Dial(url, nil)
	assert.Error(t, err)
}

func TestServerRunStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewServer(ln.Addr().String(), "", nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln, func(Result) {}) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerShutdownClosesTrackers(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewServer(ln.Addr().String(), "", nil)
	got := make(chan Result, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln, func(r Result) { got <- r }) }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+DefaultPath, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"multiHandLandmarks":[]}`)))
	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for payload")
	}

	cancel()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	var ne net.Error
	if errors.As(err, &ne) {
		assert.False(t, ne.Timeout(), "server should close the tracker, not leave it waiting: %v", err)
	}

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerRunListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	// The address is taken, so Run must fail fast instead of blocking.
	s := NewServer(ln.Addr().String(), "", nil)
	err = s.Run(context.Background(), func(Result) {})
	assert.Error(t, err)
}

func recording(lines ...string) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(strings.Join(lines, "\n"))), nil
	}
}

func TestReplayDeliversInOrder(t *testing.T) {
	r := NewReplay(recording(
		`{"multiHandLandmarks":[[{"x":0.1,"y":0,"z":0}]]}`,
		``,
		`not json`,
		`{"multiHandLandmarks":[[{"x":0.2,"y":0,"z":0}]]}`,
	), time.Millisecond, false, nil)

	var xs []float64
	err := r.Run(context.Background(), func(res Result) {
		xs = append(xs, res.MultiHandLandmarks[0][0].X)
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2}, xs)
}

func TestReplayLoopStopsOnCancel(t *testing.T) {
	r := NewReplay(recording(`{"multiHandLandmarks":[]}`), time.Millisecond, true, nil)
	ctx, cancel := context.WithCancel(context.Background())

	count := 0
	err := r.Run(ctx, func(Result) {
		count++
		if count == 5 {
			cancel()
		}
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 5)
}

func TestReplayLoopEmptyRecording(t *testing.T) {
	r := NewReplay(recording(``, `junk`), time.Millisecond, true, nil)
	err := r.Run(context.Background(), func(Result) {})
	assert.Error(t, err)
}

func TestReplayOpenError(t *testing.T) {
	r := NewReplayFile("/nonexistent/recording.jsonl", time.Millisecond, false, nil)
	err := r.Run(context.Background(), func(Result) {})
	assert.Error(t, err)
}
