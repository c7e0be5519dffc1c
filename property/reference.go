package property

import (
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/brentfarrar/dcgo/diag"
	"github.com/brentfarrar/dcgo/env"
)

// ReferenceTable stands in for the host's live UObject graph (spec §3's
// Datum currency has no equivalent for object identity in a Go process
// without a persistent object model). Each reference kind round-trips as
// a uuid.UUID string; ReferenceTable lets a deserialize pass register a
// forward reference and resolve it once every object in the document has
// been seen.
type ReferenceTable struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]reflect.Value
	pending map[uuid.UUID][]func(reflect.Value)
}

func NewReferenceTable() *ReferenceTable {
	return &ReferenceTable{
		byID:    make(map[uuid.UUID]reflect.Value),
		pending: make(map[uuid.UUID][]func(reflect.Value)),
	}
}

// NewID mints an identity for a freshly constructed object and records
// its reflect.Value.
func (t *ReferenceTable) NewID(v reflect.Value) uuid.UUID {
	id := uuid.New()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byID[id] = v
	return id
}

// Register associates an existing id (read off the wire) with v, running
// any callbacks queued by earlier forward references to id.
func (t *ReferenceTable) Register(id uuid.UUID, v reflect.Value) {
	t.mu.Lock()
	t.byID[id] = v
	cbs := t.pending[id]
	delete(t.pending, id)
	t.mu.Unlock()
	for _, cb := range cbs {
		cb(v)
	}
}

// Resolve looks up id. If it has not been registered yet, cb is queued
// and invoked once Register(id, ...) eventually runs — the forward
// reference second pass from spec §3.
func (t *ReferenceTable) Resolve(id uuid.UUID, cb func(reflect.Value)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if v, ok := t.byID[id]; ok {
		t.mu.Unlock()
		cb(v)
		t.mu.Lock()
		return
	}
	t.pending[id] = append(t.pending[id], cb)
}

// Unresolved reports every id that was referenced but never registered,
// raised by the caller as diag.UnresolvedReference once a document is
// fully consumed.
func (t *ReferenceTable) Unresolved() []uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(t.pending))
	for id, cbs := range t.pending {
		if len(cbs) > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

func (t *ReferenceTable) CheckResolved() error {
	unresolved := t.Unresolved()
	if len(unresolved) == 0 {
		return nil
	}
	return env.Current().Diag(diag.UnresolvedReference).With(diag.Str(unresolved[0].String()))
}
