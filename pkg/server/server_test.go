package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/SmitUplenchwar2687/Cadence/pkg/clock"
	"github.com/SmitUplenchwar2687/Cadence/pkg/sched"
	"github.com/SmitUplenchwar2687/Cadence/pkg/timestep"
)

func TestServerStartAndStats(t *testing.T) {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	vc := clock.NewVirtualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	q := sched.NewQueue(sched.WithPace(clock.NewRealClock(), time.Millisecond))
	c := timestep.New(timestep.WithWallClock(vc), timestep.WithScheduler(q), timestep.WithLogger(quiet))
	st := NewCollector()
	st.Attach(c)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := New(ln.Addr().String(), c, q, st, Options{Hub: NewHub(), Wall: vc, Logger: quiet})

	ctx, cancel := context.WithCancel(context.Background())
	go q.Run(ctx)
	go srv.StartOnListener(ln)
	defer func() {
		cancel()
		srv.Shutdown(context.Background())
	}()

	base := "http://" + ln.Addr().String()
	resp, err := http.Post(base+"/api/start", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Get(base + "/api/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Clock timestep.Snapshot `json:"clock"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.Clock.Running {
		t.Error("clock should be running after /api/start")
	}
}
