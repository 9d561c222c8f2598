package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	diag "github.com/coreman2200/funtimes-povring/internal/diagnostics"
	"github.com/coreman2200/funtimes-povring/internal/pipeline"
	"github.com/coreman2200/funtimes-povring/internal/polar"
	"github.com/coreman2200/funtimes-povring/internal/pov"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeProgress struct{ n atomic.Uint64 }

func (f *fakeProgress) Sweeps() uint64           { return f.n.Load() }
func (f *fakeProgress) LastSweep() time.Duration { return 12 * time.Millisecond }

func testResult() *pipeline.Result {
	g := polar.DefaultGeometry()
	g.Angles, g.Radii = 4, 3
	p := polar.NewBuffer(4, 3)
	for a := 0; a < 4; a++ {
		for r := 0; r < 3; r++ {
			p.Cells[a*3+r] = pov.Pixel{R: uint8(a), G: uint8(r), B: 9, Brightness: 0.5}
		}
	}
	return &pipeline.Result{
		Geometry: g,
		Polar:    p,
		Diagnostics: []diag.Diagnostic{
			{Severity: diag.Warn, Code: "MAPPING.LEGACY", Summary: "legacy"},
		},
	}
}

func newTestServer(t *testing.T, s *Server) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Close()
		ts.Close()
	})
	return ts
}

func dial(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestFramesSendsTopologyAndRows(t *testing.T) {
	s := New(testResult(), "sim", nil)
	ts := newTestServer(t, s)
	c := dial(t, ts, "/ws")

	var top topology
	require.NoError(t, c.ReadJSON(&top))
	assert.Equal(t, topology{Angles: 4, Radii: 3, Mapping: "legacy", Bounds: "reject", Driver: "sim"}, top)

	for a := 0; a < 4; a++ {
		var r row
		require.NoError(t, c.ReadJSON(&r))
		assert.Equal(t, a, r.Angle)
		assert.Equal(t, []int{a, 0, 9, a, 1, 9, a, 2, 9}, r.RGB)
	}
}

func TestRunBroadcastsSweeps(t *testing.T) {
	s := New(testResult(), "sim", nil)
	ts := newTestServer(t, s)
	c := dial(t, ts, "/ws")
	for i := 0; i < 5; i++ {
		_, _, err := c.ReadMessage()
		require.NoError(t, err)
	}

	var p fakeProgress
	p.n.Store(7)
	s.SetProgress(&p)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, 5*time.Millisecond)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	c.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg sweep
	require.NoError(t, c.ReadJSON(&msg))
	assert.Equal(t, uint64(7), msg.Sweeps)
	assert.InDelta(t, 12.0, msg.LastSweepMS, 1e-9)
}

func TestDiagJSON(t *testing.T) {
	s := New(testResult(), "sim", nil)
	ts := newTestServer(t, s)

	resp, err := http.Get(ts.URL + "/diag")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got []diag.Diagnostic
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "MAPPING.LEGACY", got[0].Code)
	assert.Equal(t, diag.Warn, got[0].Severity)
}

func TestDiagWebsocket(t *testing.T) {
	s := New(testResult(), "sim", nil)
	ts := newTestServer(t, s)
	c := dial(t, ts, "/diag")

	var d diag.Diagnostic
	require.NoError(t, c.ReadJSON(&d))
	assert.Equal(t, "MAPPING.LEGACY", d.Code)
	_, _, err := c.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}

func TestHealth(t *testing.T) {
	var st pipeline.Status
	st.Set(pov.StageDisplaying)
	s := New(testResult(), "sim", &st)
	var p fakeProgress
	p.n.Store(3)
	s.SetProgress(&p)
	ts := newTestServer(t, s)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "displaying", got["stage"])
	assert.Equal(t, float64(3), got["sweeps"])
	assert.Equal(t, float64(12), got["last_sweep_ms"])
	assert.Equal(t, float64(4), got["angles"])
}

func TestCORSPreflight(t *testing.T) {
	s := New(testResult(), "sim", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
