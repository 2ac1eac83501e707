package server

import (
	internalserver "github.com/SmitUplenchwar2687/Cadence/internal/server"
	"github.com/SmitUplenchwar2687/Cadence/internal/stats"
	"github.com/SmitUplenchwar2687/Cadence/pkg/timestep"
)

// Server exposes a running game-loop clock over HTTP and WebSocket.
type Server = internalserver.Server

// Options configures optional server features.
type Options = internalserver.Options

// Poster runs functions on the goroutine that owns the clock.
type Poster = internalserver.Poster

// Hub manages WebSocket clients and broadcasts clock events.
type Hub = internalserver.Hub

// Message is one websocket frame sent to dashboard clients.
type Message = internalserver.Message

// Collector aggregates clock events into counters.
type Collector = stats.Collector

// DashboardHTML is the embedded single-page dashboard.
const DashboardHTML = internalserver.DashboardHTML

// New creates a new Cadence server.
func New(addr string, c *timestep.Clock, q Poster, st *Collector, opts ...Options) *Server {
	return internalserver.New(addr, c, q, st, opts...)
}

// NewCollector creates a stats collector to attach to a clock.
func NewCollector() *Collector {
	return stats.NewCollector()
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return internalserver.NewHub()
}
