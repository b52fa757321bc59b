// Package filter applies admin list filters to in-memory collections.
//
// Directory pages filter snapshot read models on the server rather than in
// SQL, so every filter kind funnels through one engine: clauses are built
// from query params, AND-combined, and the result is memoized against the
// snapshot revision so repeated polls with unchanged filters skip the scan.
package filter

import (
	"strconv"
	"strings"
	"sync"
)

// Clause is a single active filter predicate.
type Clause[T any] struct {
	Key   string
	Value string
	Match func(T) bool
}

// Set is an ordered collection of active clauses. Inactive filters (empty
// string, zero number, false flag) are never added, so an empty Set means
// "no filtering".
type Set[T any] struct {
	clauses []Clause[T]
}

// Add appends an active clause. Callers decide activity before calling;
// a clause that is present always participates in matching.
func (s *Set[T]) Add(key, value string, match func(T) bool) {
	s.clauses = append(s.clauses, Clause[T]{Key: key, Value: value, Match: match})
}

// Empty reports whether no clauses are active.
func (s *Set[T]) Empty() bool {
	return len(s.clauses) == 0
}

// Fingerprint returns a stable identity for the active clause set and its
// values, used as the memo key alongside the collection revision. Values
// are quoted so a value containing separator characters cannot produce the
// same fingerprint as a different clause set.
func (s *Set[T]) Fingerprint() string {
	if len(s.clauses) == 0 {
		return ""
	}
	var b strings.Builder
	for i, c := range s.clauses {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(c.Key)
		b.WriteByte('=')
		b.WriteString(strconv.Quote(c.Value))
	}
	return b.String()
}

func (s *Set[T]) matches(item T) bool {
	for _, c := range s.clauses {
		if !c.Match(item) {
			return false
		}
	}
	return true
}

// Engine filters one collection kind and remembers the last result.
//
// The memo is keyed by the snapshot revision plus the clause fingerprint.
// Snapshots are immutable per revision, so a hit can return the cached
// slice without rescanning.
type Engine[T any] struct {
	mu      sync.Mutex
	memoRev uint64
	memoFp  string
	memoOut []T
	memoSet bool
}

// NewEngine creates an empty filter engine.
func NewEngine[T any]() *Engine[T] {
	return &Engine[T]{}
}

// Apply filters items with the given clause set.
//
// With no active clauses the input slice is returned as-is. Otherwise the
// memo is consulted first; on a miss the collection is scanned once and the
// result cached for the (rev, fingerprint) pair.
func (e *Engine[T]) Apply(rev uint64, items []T, set *Set[T]) []T {
	if set.Empty() {
		return items
	}

	fp := set.Fingerprint()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.memoSet && e.memoRev == rev && e.memoFp == fp {
		return e.memoOut
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if set.matches(item) {
			out = append(out, item)
		}
	}

	e.memoRev = rev
	e.memoFp = fp
	e.memoOut = out
	e.memoSet = true

	return out
}

// Invalidate drops the memo. Callers use it when a collection mutates
// outside the snapshot revision cycle.
func (e *Engine[T]) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.memoSet = false
	e.memoOut = nil
}

// ContainsFold reports whether s contains substr case-insensitively.
// Free-text search clauses share this instead of lowercasing per field.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
