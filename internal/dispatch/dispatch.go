// Package dispatch turns user input into palette requests and makes sure
// only the newest request may update the display.
//
// Every request gets a Ticket from Begin. Beginning a new ticket cancels
// the previous one's context and bumps the generation, so a late answer
// to an older request is recognisably stale and is dropped by Accept.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"nathanbeddoewebdev/swatch/internal/color"
	"nathanbeddoewebdev/swatch/internal/logging"
	"nathanbeddoewebdev/swatch/internal/palette"
	"nathanbeddoewebdev/swatch/internal/service"

	"golang.org/x/sync/errgroup"
)

// Mode is the kind of input the user typed.
type Mode string

const (
	ModeName Mode = "name"
	ModeHex  Mode = "hex"
	ModeRGB  Mode = "rgb"
)

// Modes lists the input modes in display order.
var Modes = []Mode{ModeName, ModeHex, ModeRGB}

// Request is a validated, canonical palette request.
type Request struct {
	Mode  Mode
	Value string
}

func (r Request) String() string {
	return string(r.Mode) + " " + r.Value
}

// Normalize validates raw input for mode and returns its canonical form:
// names trimmed, hex lowercased, rgb as "r,g,b".
func Normalize(mode Mode, raw string) (Request, error) {
	switch mode {
	case ModeName:
		name, err := service.ValidateName(raw)
		if err != nil {
			return Request{}, err
		}
		return Request{Mode: ModeName, Value: name}, nil
	case ModeHex:
		rgb, err := color.HexToRGB(raw)
		if err != nil {
			return Request{}, err
		}
		return Request{Mode: ModeHex, Value: rgb.Hex()}, nil
	case ModeRGB:
		rgb, err := color.ParseRGB(raw)
		if err != nil {
			return Request{}, err
		}
		return Request{Mode: ModeRGB, Value: rgb.Param()}, nil
	}
	return Request{}, fmt.Errorf("unknown input mode %q", mode)
}

// Detect guesses the mode of free-form input: "#..." is hex, anything with
// a comma is rgb, everything else is a name.
func Detect(raw string) Mode {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(s, "#"):
		return ModeHex
	case strings.Contains(s, ","):
		return ModeRGB
	default:
		return ModeName
	}
}

// Fetcher is the subset of the palette service client dispatch needs.
type Fetcher interface {
	ByName(ctx context.Context, name string) (palette.Response, error)
	ByHex(ctx context.Context, hex string) (palette.Response, error)
	ByRGB(ctx context.Context, rgb color.RGB) (palette.Response, error)
}

// Fetch sends req to f.
func Fetch(ctx context.Context, f Fetcher, req Request) (palette.Response, error) {
	switch req.Mode {
	case ModeName:
		return f.ByName(ctx, req.Value)
	case ModeHex:
		return f.ByHex(ctx, req.Value)
	case ModeRGB:
		rgb, err := color.ParseRGB(req.Value)
		if err != nil {
			return palette.Response{}, err
		}
		return f.ByRGB(ctx, rgb)
	}
	return palette.Response{}, fmt.Errorf("unknown input mode %q", req.Mode)
}

// Ticket identifies one request generation.
type Ticket struct {
	Gen uint64
	Ctx context.Context
}

// Result is the outcome of a dispatched request.
type Result struct {
	Gen      uint64
	Request  Request
	Response palette.Response
	Err      error
}

// Dispatcher issues requests and tracks which generation is current.
type Dispatcher struct {
	fetcher Fetcher
	logger  *slog.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// New returns a Dispatcher sending requests to f.
func New(f Fetcher, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Dispatcher{fetcher: f, logger: logger}
}

// Begin starts a new generation, cancelling whatever was in flight.
func (d *Dispatcher) Begin(parent context.Context) Ticket {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	d.gen++
	d.cancel = cancel
	return Ticket{Gen: d.gen, Ctx: ctx}
}

// Cancel aborts the in-flight request, if any, and invalidates its ticket.
func (d *Dispatcher) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.gen++
}

// Current reports whether gen is the newest generation.
func (d *Dispatcher) Current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}

// Run performs req under t and returns its Result. It blocks until the
// service answers or t is cancelled.
func (d *Dispatcher) Run(t Ticket, req Request) Result {
	d.logger.Debug("palette request", "gen", t.Gen, "mode", req.Mode, "value", req.Value)

	resp, err := Fetch(t.Ctx, d.fetcher, req)
	res := Result{Gen: t.Gen, Request: req, Response: resp, Err: err}

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		d.logger.Debug("palette request superseded", "gen", t.Gen)
	default:
		d.logger.Warn("palette request failed", "gen", t.Gen, "request", req.String(), "err", err)
	}
	return res
}

// Accept reports whether r may update the display: it must belong to the
// current generation and must not be a cancellation. A current result
// finishes its ticket, so the ticket's context is released here.
func (d *Dispatcher) Accept(r Result) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if r.Gen != d.gen {
		return false
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	return !errors.Is(r.Err, context.Canceled)
}

// Batch fetches every request concurrently, at most limit at a time, and
// returns the results in request order. A failed request does not stop
// the others.
func Batch(ctx context.Context, f Fetcher, reqs []Request, limit int) []Result {
	results := make([]Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, req := range reqs {
		g.Go(func() error {
			resp, err := Fetch(gctx, f, req)
			results[i] = Result{Request: req, Response: resp, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
