// Package crontick turns cron schedules into streams of tick times.
//
// A Ticker is a stream.Emitter[time.Time] whose event names are cron
// expressions. The first listener of an expression schedules it; the last
// listener leaving removes the schedule again.
//
//	ticker := crontick.New(crontick.DefaultConfig())
//	defer ticker.Close()
//
//	ticks, err := ticker.Stream("*/5 * * * * *") // every five seconds
//	if err != nil {
//		return err
//	}
//	sub := stream.Each(ctx, ticks, refresh, nil, nil)
package crontick

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	rferrors "github.com/vnykmshr/reactflow/pkg/common/errors"
	"github.com/vnykmshr/reactflow/pkg/common/logging"
	"github.com/vnykmshr/reactflow/pkg/common/validation"
	"github.com/vnykmshr/reactflow/pkg/streaming/emitter"
	"github.com/vnykmshr/reactflow/pkg/streaming/stream"
)

const module = "crontick"

// Config holds configuration for a Ticker.
type Config struct {
	// Location is the time zone schedules are evaluated in and ticks are
	// reported in. Defaults to time.Local.
	Location *time.Location

	// Parser parses cron expressions. Defaults to a parser accepting an
	// optional leading seconds field and descriptors such as @hourly or
	// @every 10s.
	Parser cron.ScheduleParser
}

// DefaultConfig returns the default ticker configuration.
func DefaultConfig() Config {
	return Config{
		Location: time.Local,
		Parser:   defaultParser(),
	}
}

func defaultParser() cron.Parser {
	return cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// Ticker emits the current time for every cron expression that has
// listeners.
type Ticker struct {
	cron     *cron.Cron
	parser   cron.ScheduleParser
	location *time.Location
	events   *emitter.Emitter[time.Time]

	mu      sync.Mutex
	entries map[string]cron.EntryID
	closed  bool
}

// New creates and starts a Ticker.
func New(config Config) *Ticker {
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Parser == nil {
		config.Parser = defaultParser()
	}

	t := &Ticker{
		parser:   config.Parser,
		location: config.Location,
		entries:  make(map[string]cron.EntryID),
	}
	t.cron = cron.New(cron.WithParser(config.Parser), cron.WithLocation(config.Location))
	t.events = emitter.NewWithHooks[time.Time](emitter.Hooks{
		Activate:   t.schedule,
		Deactivate: t.unschedule,
	})
	t.cron.Start()
	return t
}

// Validate reports whether expr is a valid cron expression.
func (t *Ticker) Validate(expr string) error {
	if err := validation.ValidateNotEmpty(module, "expression", expr); err != nil {
		return err
	}
	if _, err := t.parser.Parse(expr); err != nil {
		return rferrors.NewValidationError(module, "expression", expr, err.Error()).
			WithHint("use a cron expression such as \"0 */5 * * * *\" or a descriptor such as \"@every 1m\"")
	}
	return nil
}

// On implements stream.Emitter. An invalid expression is logged and never
// fires.
func (t *Ticker) On(expr string, listener func(time.Time)) (off func()) {
	return t.events.On(expr, listener)
}

// Stream returns a stream of tick times for expr. It never completes by
// itself; cancel the subscription to stop it.
func (t *Ticker) Stream(expr string) (stream.Stream[time.Time], error) {
	if err := t.Validate(expr); err != nil {
		return nil, err
	}
	return stream.Create(func(sink stream.Sink[time.Time]) func() {
		off, err := t.events.Listen(expr, sink.Next)
		if err != nil {
			sink.Error(err)
			return nil
		}
		return off
	}), nil
}

// Schedules returns the expressions that are currently scheduled.
func (t *Ticker) Schedules() []string {
	return t.events.Events()
}

// Close stops the cron runner, waits for running ticks to finish and
// removes every listener.
func (t *Ticker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.mu.Unlock()

	<-t.cron.Stop().Done()
	t.events.Close()
}

func (t *Ticker) schedule(expr string) error {
	schedule, err := t.parser.Parse(expr)
	if err != nil {
		return rferrors.NewValidationError(module, "expression", expr, err.Error())
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return rferrors.NewOperationError(module, "schedule", rferrors.ErrClosed).WithContext(expr)
	}

	t.entries[expr] = t.cron.Schedule(schedule, cron.FuncJob(func() {
		t.events.Emit(expr, time.Now().In(t.location))
	}))
	logging.Named(module).Debug("scheduled", zap.String("expression", expr))
	return nil
}

func (t *Ticker) unschedule(expr string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id, ok := t.entries[expr]
	if !ok {
		return
	}
	delete(t.entries, expr)
	t.cron.Remove(id)
	logging.Named(module).Debug("unscheduled", zap.String("expression", expr))
}
