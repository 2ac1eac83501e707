package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Cadence/internal/clock"
	"github.com/SmitUplenchwar2687/Cadence/internal/recorder"
	"github.com/SmitUplenchwar2687/Cadence/internal/server"
	"github.com/SmitUplenchwar2687/Cadence/internal/stats"
)

func newDashboardCmd(g *globals) *cobra.Command {
	var (
		opts        clockOptions
		addr        string
		autostart   bool
		streamFixed bool
		recordFile  string
	)

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"server"},
		Short:   "Run the clock with a live visual dashboard",
		Long: `Runs the clock in real time behind an HTTP server with a
WebSocket-powered live dashboard.

Endpoints:
  GET  /             Server info and current time
  GET  /health       Health check
  GET  /api/stats    Cadence counters and clock state
  POST /api/start    Start the clock
  POST /api/stop     Stop the clock
  GET  /dashboard/   Live visual dashboard
  WS   /ws           WebSocket stream of clock events

Open your browser to http://localhost:<port>/dashboard/ to view.`,
		Example: `  cadence dashboard
  cadence dashboard --addr :9090 --fixed-step 20ms
  cadence dashboard --autostart=false --record session.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := opts.resolve(cmd, g.cfg)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = g.cfg.Server.Addr
			}
			if !cmd.Flags().Changed("stream-fixed") {
				streamFixed = g.cfg.Server.StreamFixed
			}

			c, q := newDriver(ts, clock.NewRealClock(), g.log)
			st := stats.NewCollector()
			st.Attach(c)

			var rec *recorder.Recorder
			if recordFile != "" {
				rec = recorder.New(nil)
				rec.Attach(c)
			}

			srv := server.New(addr, c, q, st, server.Options{
				Logger:      g.log,
				StreamFixed: streamFixed,
			})
			if autostart {
				q.Post(func() {
					if err := c.Start(); err != nil {
						g.log.Warn("autostart failed", "error", err)
					}
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n  Cadence Dashboard\n")
			fmt.Fprintf(out, "  ────────────────────────────────────\n")
			fmt.Fprintf(out, "  Dashboard:  http://localhost%s/dashboard/\n", addr)
			fmt.Fprintf(out, "  Stats:      http://localhost%s/api/stats\n", addr)
			fmt.Fprintf(out, "  WebSocket:  ws://localhost%s/ws\n", addr)
			fmt.Fprintf(out, "  Cadence:    fixed %s, render %s\n", ts.FixedStep, ts.RenderStep)
			fmt.Fprintf(out, "  ────────────────────────────────────\n\n")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runCtx, cancelRun := context.WithCancel(context.Background())
			defer cancelRun()
			go q.Run(runCtx)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				g.log.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				err := srv.Shutdown(shutdownCtx)
				cancelRun()

				if rec != nil {
					g.log.Info("exporting trace", "events", rec.Len(), "file", recordFile)
					if xerr := rec.ExportFile(recordFile); xerr != nil {
						g.log.Error("exporting trace failed", "error", xerr)
					}
				}
				return err
			}
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().BoolVar(&autostart, "autostart", true, "start the clock as soon as the server is up")
	cmd.Flags().BoolVar(&streamFixed, "stream-fixed", false, "also stream fixed-step events over the websocket")
	cmd.Flags().StringVar(&recordFile, "record", "", "record the session to a trace file (exported on shutdown)")

	return cmd
}
