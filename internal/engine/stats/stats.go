// Package stats measures named pipeline steps and renders a timing report.
package stats

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "go.trai.ch/tsbuild/stats"

// Entry is one finished measurement.
type Entry struct {
	Name    string
	Elapsed time.Duration
	Message string
}

type inflight struct {
	name string
}

// Collector records measurements. It is safe for concurrent use.
type Collector struct {
	tracer trace.Tracer
	now    func() time.Time

	mu       sync.Mutex
	entries  []Entry
	inflight []*inflight
}

// Option configures a Collector.
type Option func(*Collector)

// WithTracer records spans with tracer instead of the global provider's.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Collector) {
		c.tracer = tracer
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		c.now = now
	}
}

// New creates an empty Collector.
func New(opts ...Option) *Collector {
	c := &Collector{
		tracer: otel.Tracer(instrumentationName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Measure runs action and, when it succeeds, records its duration and the message it returns.
func (c *Collector) Measure(ctx context.Context, name string, action func(context.Context) (string, error)) error {
	token := c.begin(name)
	defer c.end(token)

	ctx, span := c.tracer.Start(ctx, name)
	defer span.End()

	start := c.now()
	message, err := action(ctx)
	elapsed := c.now().Sub(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if message != "" {
		span.SetAttributes(attribute.String("tsbuild.message", message))
	}
	c.mu.Lock()
	c.entries = append(c.entries, Entry{Name: name, Elapsed: elapsed, Message: message})
	c.mu.Unlock()
	return nil
}

// Wrap returns fn measured under name. message, when not nil, is called after fn succeeds.
func (c *Collector) Wrap(name string, fn func(context.Context) error, message func() string) func(context.Context) error {
	return func(ctx context.Context) error {
		return c.Measure(ctx, name, func(ctx context.Context) (string, error) {
			if err := fn(ctx); err != nil {
				return "", err
			}
			if message == nil {
				return "", nil
			}
			return message(), nil
		})
	}
}

// Entries returns a copy of the finished measurements.
func (c *Collector) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.entries)
}

func (c *Collector) begin(name string) *inflight {
	token := &inflight{name: name}
	c.mu.Lock()
	c.inflight = append(c.inflight, token)
	c.mu.Unlock()
	return token
}

func (c *Collector) end(token *inflight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := slices.Index(c.inflight, token); i >= 0 {
		c.inflight = slices.Delete(c.inflight, i, i+1)
	}
}

// Print renders the report: a header, then one aligned line per measurement.
func (c *Collector) Print() string {
	c.mu.Lock()
	entries := slices.Clone(c.entries)
	ongoing := make([]string, 0, len(c.inflight))
	for _, t := range c.inflight {
		ongoing = append(ongoing, t.name)
	}
	c.mu.Unlock()

	var total time.Duration
	nameWidth, timeWidth := 0, 0
	for _, e := range entries {
		total += e.Elapsed
		nameWidth = max(nameWidth, len(e.Name))
		timeWidth = max(timeWidth, len(formatDuration(e.Elapsed)))
	}

	var b strings.Builder
	if len(ongoing) == 0 {
		b.WriteString("Done in " + formatDuration(total))
	} else {
		b.WriteString("Ongoing " + strings.Join(ongoing, ", "))
	}
	if len(entries) > 0 {
		b.WriteString("\n")
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		cols := []string{padEnd(e.Name, nameWidth), padEnd(formatDuration(e.Elapsed), timeWidth), e.Message}
		lines = append(lines, "  "+strings.Join(cols, "    "))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func padEnd(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
