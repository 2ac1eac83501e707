package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SmitUplenchwar2687/Cadence/internal/clock"
	"github.com/SmitUplenchwar2687/Cadence/internal/sched"
	"github.com/SmitUplenchwar2687/Cadence/internal/stats"
	"github.com/SmitUplenchwar2687/Cadence/internal/timestep"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type testEnv struct {
	baseURL string
	srv     *Server
	vc      *clock.VirtualClock
	stats   *stats.Collector
}

func startTestServer(t *testing.T) *testEnv {
	t.Helper()
	vc := clock.NewVirtualClock(epoch)
	q := sched.NewQueue(sched.WithPace(clock.NewRealClock(), time.Millisecond))
	c := timestep.New(
		timestep.WithWallClock(vc),
		timestep.WithScheduler(q),
		timestep.WithLogger(quiet),
	)
	st := stats.NewCollector()
	st.Attach(c)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := New(ln.Addr().String(), c, q, st, Options{Wall: vc, Logger: quiet})

	ctx, cancel := context.WithCancel(context.Background())
	go q.Run(ctx)
	go srv.StartOnListener(ln)
	t.Cleanup(func() {
		cancel()
		srv.Shutdown(context.Background())
	})
	return &testEnv{
		baseURL: "http://" + ln.Addr().String(),
		srv:     srv,
		vc:      vc,
		stats:   st,
	}
}

func post(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestServer_Root(t *testing.T) {
	env := startTestServer(t)

	resp, err := http.Get(env.baseURL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["service"] != "cadence" {
		t.Errorf("service = %q, want %q", body["service"], "cadence")
	}
	if body["time"] != epoch.Format(time.RFC3339) {
		t.Errorf("time = %q, want the virtual clock's time", body["time"])
	}
}

func TestServer_Health(t *testing.T) {
	env := startTestServer(t)

	resp, err := http.Get(env.baseURL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestServer_NotFound(t *testing.T) {
	env := startTestServer(t)

	resp, err := http.Get(env.baseURL + "/nonexistent")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestServer_StartAndStop(t *testing.T) {
	env := startTestServer(t)

	resp := post(t, env.baseURL+"/api/start")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start: status = %d, want 200", resp.StatusCode)
	}
	if !env.stats.Snapshot().Running {
		t.Error("clock should be running after start returns")
	}

	resp = post(t, env.baseURL+"/api/stop")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stop: status = %d, want 200", resp.StatusCode)
	}
	snap := env.stats.Snapshot()
	if snap.Running || snap.Starts != 1 || snap.Stops != 1 {
		t.Errorf("stats = %+v, want stopped after one start and one stop", snap)
	}
}

func TestServer_StartWhileRunning(t *testing.T) {
	env := startTestServer(t)

	resp := post(t, env.baseURL+"/api/start")
	resp.Body.Close()

	resp = post(t, env.baseURL+"/api/start")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
	if n := env.stats.Snapshot().Starts; n != 1 {
		t.Errorf("starts = %d, want 1", n)
	}
}

func TestServer_ControlRequiresPost(t *testing.T) {
	env := startTestServer(t)

	for _, path := range []string{"/api/start", "/api/stop"} {
		resp, err := http.Get(env.baseURL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("GET %s: status = %d, want 405", path, resp.StatusCode)
		}
	}
}

func TestServer_Stats(t *testing.T) {
	env := startTestServer(t)

	resp := post(t, env.baseURL+"/api/start")
	resp.Body.Close()

	env.vc.Advance(100 * time.Millisecond)
	waitFor(t, "two fixed steps", func() bool {
		return env.stats.Snapshot().FixedSteps >= 2
	})

	resp, err := http.Get(env.baseURL + "/api/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.Clock.Running || !body.Stats.Running {
		t.Error("stats should report a running clock")
	}
	if body.Stats.FixedSteps != 2 {
		t.Errorf("fixed_steps = %d, want 2", body.Stats.FixedSteps)
	}
	if body.Config.FixedStep != timestep.DefaultFixedStep {
		t.Errorf("config fixed_step = %v, want %v", body.Config.FixedStep, timestep.DefaultFixedStep)
	}
}

type stalledQueue struct{}

func (stalledQueue) Post(func()) {}

func TestServer_ClockNotResponding(t *testing.T) {
	c := timestep.New(timestep.WithLogger(quiet))
	srv := New(":0", c, stalledQueue{}, stats.NewCollector(), Options{Logger: quiet})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/start", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestServer_Dashboard(t *testing.T) {
	env := startTestServer(t)

	resp, err := http.Get(env.baseURL + "/dashboard/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Cadence Dashboard") {
		t.Error("dashboard page should be served")
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
}

func TestServer_WebSocketStreamsLifecycle(t *testing.T) {
	env := startTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(env.baseURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	waitFor(t, "client registration", func() bool { return env.srv.Hub().ClientCount() == 1 })

	resp := post(t, env.baseURL+"/api/start")
	resp.Body.Close()
	resp = post(t, env.baseURL+"/api/stop")
	resp.Body.Close()

	var got []timestep.Kind
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for len(got) < 2 {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read after %v: %v", got, err)
		}
		if msg.Type != MessageEvent {
			t.Errorf("message type = %q, want %q", msg.Type, MessageEvent)
		}
		switch msg.Event.Kind {
		case timestep.KindStart, timestep.KindStop:
			got = append(got, msg.Event.Kind)
		case timestep.KindFixedStep, timestep.KindFrameStep:
			t.Errorf("%s events should not be streamed by default", msg.Event.Kind)
		}
	}
	if got[0] != timestep.KindStart || got[1] != timestep.KindStop {
		t.Errorf("streamed %v, want [start stop]", got)
	}
}

func TestHub_PublishDropsWhenFull(t *testing.T) {
	h := NewHub()
	for i := 0; i < publishBuffer; i++ {
		if !h.Publish(Message{Type: MessageEvent}) {
			t.Fatalf("publish %d dropped before the buffer was full", i)
		}
	}
	if h.Publish(Message{Type: MessageEvent}) {
		t.Error("publish should drop when the buffer is full")
	}
}
