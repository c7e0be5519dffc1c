// Package env implements the scoped, process-local environment stack:
// each Environment owns the accumulated Diagnostics for one call chain,
// a diagnostic consumer, and reader/writer stacks that callers push and
// pop themselves. Nothing in this module pushes onto those stacks:
// serde.Context reports diagnostics to Current() without registering its
// reader or writer there.
package env

import (
	"context"
	"fmt"
	"sync"

	"github.com/brentfarrar/dcgo/diag"
)

// DiagnosticConsumer receives flushed diagnostics. The default console
// consumer (see NewConsoleConsumer) prints each one; a host may plug in
// its own (log aggregation, test capture, etc).
type DiagnosticConsumer interface {
	HandleDiagnostic(d *diag.Diagnostic)
	OnPostFlush()
}

// Environment is the scoped, process-local state described in spec §3:
// an ordered Diagnostics list, a consumer, reader/writer stacks (opaque
// to this package — callers push/pop their own handles), and a debug
// flag mirroring the source's mute_debug_break.
type Environment struct {
	Diagnostics   []*diag.Diagnostic
	Consumer      DiagnosticConsumer
	MuteDebugBreak bool

	readerStack []any
	writerStack []any
}

// Diag appends a new Diagnostic for code and returns it for chaining
// .With(...)/.WithHighlight(...) calls — the lazy-argument-capture
// contract from spec §3.
func (e *Environment) Diag(code diag.Code) *diag.Diagnostic {
	d := diag.New(code)
	e.Diagnostics = append(e.Diagnostics, d)
	return d
}

// LastDiag returns the most recently appended diagnostic, or nil.
func (e *Environment) LastDiag() *diag.Diagnostic {
	if len(e.Diagnostics) == 0 {
		return nil
	}
	return e.Diagnostics[len(e.Diagnostics)-1]
}

// FlushDiags hands every accumulated diagnostic to the consumer in
// append order, then clears the list, matching the ordering guarantee in
// spec §5.
func (e *Environment) FlushDiags() {
	if len(e.Diagnostics) == 0 {
		return
	}
	if e.Consumer != nil {
		for _, d := range e.Diagnostics {
			e.Consumer.HandleDiagnostic(d)
		}
		e.Consumer.OnPostFlush()
	}
	e.Diagnostics = nil
}

func (e *Environment) PushReader(r any) { e.readerStack = append(e.readerStack, r) }
func (e *Environment) PopReader() {
	if len(e.readerStack) > 0 {
		e.readerStack = e.readerStack[:len(e.readerStack)-1]
	}
}
func (e *Environment) TopReader() any {
	if len(e.readerStack) == 0 {
		return nil
	}
	return e.readerStack[len(e.readerStack)-1]
}

func (e *Environment) PushWriter(w any) { e.writerStack = append(e.writerStack, w) }
func (e *Environment) PopWriter() {
	if len(e.writerStack) > 0 {
		e.writerStack = e.writerStack[:len(e.writerStack)-1]
	}
}
func (e *Environment) TopWriter() any {
	if len(e.writerStack) == 0 {
		return nil
	}
	return e.writerStack[len(e.writerStack)-1]
}

// stack is the process-local Env Stack (spec §3/§5). mu serializes
// access to the stack itself; an Environment taken from it has no
// locking of its own, so using one Environment from multiple goroutines
// at once is undefined, same as the source's single-threaded contract.
// Goroutines that need
// isolation should carry their own *Environment via context.Context
// instead (see WithEnvironment/FromContext).
var (
	mu        sync.Mutex
	stack     []*Environment
	initialized bool
)

// StartUp pushes the first Environment and marks the process
// initialized. consumer may be nil (diagnostics still accumulate, they
// just have nowhere to flush to).
func StartUp(consumer DiagnosticConsumer) {
	mu.Lock()
	defer mu.Unlock()
	stack = append(stack, &Environment{Consumer: consumer})
	initialized = true
}

// ShutDown pops every Environment and clears initialization state.
func ShutDown() {
	mu.Lock()
	defer mu.Unlock()
	for _, e := range stack {
		e.FlushDiags()
	}
	stack = nil
	initialized = false
}

// IsInitialized reports whether StartUp has run without a matching
// ShutDown.
func IsInitialized() bool {
	mu.Lock()
	defer mu.Unlock()
	return initialized
}

// Push nests a new Environment for isolated diagnostics (e.g. a
// sub-deserialize call that should not pollute the caller's diagnostic
// list). Pop is LIFO.
func Push() *Environment {
	mu.Lock()
	defer mu.Unlock()
	e := &Environment{}
	if len(stack) > 0 {
		e.Consumer = stack[len(stack)-1].Consumer
	}
	stack = append(stack, e)
	return e
}

func Pop() {
	mu.Lock()
	defer mu.Unlock()
	if len(stack) == 0 {
		return
	}
	top := stack[len(stack)-1]
	top.FlushDiags()
	stack = stack[:len(stack)-1]
}

// Current returns the top Environment. Panics if StartUp was never
// called, matching the source's check(DcIsInitialized()).
func Current() *Environment {
	mu.Lock()
	defer mu.Unlock()
	if len(stack) == 0 {
		panic("env: Current called before StartUp")
	}
	return stack[len(stack)-1]
}

type ctxKey struct{}

// WithEnvironment attaches env to ctx, for callers that want per-goroutine
// isolation instead of the shared process-local stack.
func WithEnvironment(ctx context.Context, e *Environment) context.Context {
	return context.WithValue(ctx, ctxKey{}, e)
}

// FromContext returns the Environment attached by WithEnvironment, or
// Current() if none was attached.
func FromContext(ctx context.Context) *Environment {
	if e, ok := ctx.Value(ctxKey{}).(*Environment); ok {
		return e
	}
	return Current()
}

// ConsoleConsumer is the default DiagnosticConsumer: it formats each
// diagnostic to the given printf-style sink (typically os.Stderr via
// fmt.Fprintln, or a *zap.Logger adapter — see internal/logging).
type ConsoleConsumer struct {
	Print func(string)
}

func NewConsoleConsumer(print func(string)) *ConsoleConsumer {
	if print == nil {
		print = func(s string) { fmt.Println(s) }
	}
	return &ConsoleConsumer{Print: print}
}

func (c *ConsoleConsumer) HandleDiagnostic(d *diag.Diagnostic) {
	c.Print(d.Error())
}

func (c *ConsoleConsumer) OnPostFlush() {}
