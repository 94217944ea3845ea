package ecs

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/kamstrup/intmap"
)

// NegationPrefix marks a logic token as negated. The marker is accepted and
// stripped during compilation, but the named type is still added to the
// query's required list: exclusion semantics are not implemented, so a
// prefixed token matches exactly like an unprefixed one.
const NegationPrefix = "!"

// Query is a compiled AND-predicate over component types, holding a cached
// set of matching entity ids. The cache is patched incrementally when a
// component is attached and fully rebuilt when a component of a used type is
// detached. Queries are identified by their literal logic list and live for
// the lifetime of their world.
type Query struct {
	world   *World
	logic   []string
	key     string
	types   []*ComponentType
	matches *intmap.Set[EntityID]
}

// logicKey canonicalizes a literal logic list. Two queries built from equal
// literal lists share one cache entry. Tokens are quoted before joining so
// distinct lists never collide: an empty list and a list holding one empty
// token produce different keys.
func logicKey(logic []string) string {
	quoted := make([]string, len(logic))
	for i, token := range logic {
		quoted[i] = strconv.Quote(token)
	}
	return strings.Join(quoted, "\x1f")
}

func newQuery(w *World, logic []string) (*Query, error) {
	q := &Query{
		world:   w,
		logic:   append([]string(nil), logic...),
		key:     logicKey(logic),
		types:   make([]*ComponentType, 0, len(logic)),
		matches: intmap.NewSet[EntityID](64),
	}
	for _, token := range logic {
		name := strings.TrimPrefix(token, NegationPrefix)
		ct, ok := w.typesByName[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown component type %q", ErrQueryCreationFailed, name)
		}
		q.types = append(q.types, ct)
	}
	q.Rebuild()
	return q, nil
}

// Logic returns a copy of the literal logic list the query was built from.
func (q *Query) Logic() []string {
	return append([]string(nil), q.logic...)
}

// Contains reports whether the entity is in the cached result set.
func (q *Query) Contains(id EntityID) bool {
	return q.matches.Has(id)
}

// Len returns the size of the cached result set.
func (q *Query) Len() int { return q.matches.Len() }

// Entities iterates the cached result set. Order is unspecified.
func (q *Query) Entities() iter.Seq[EntityID] {
	return q.matches.All()
}

// Rebuild recomputes the cache from scratch: every entity in the world is
// counted against the full required-type list via the presence indexes. Runs
// once at creation and after any detach of a used type. A query with zero
// required types matches every entity.
func (q *Query) Rebuild() {
	if q.world == nil {
		return
	}
	q.matches.Clear()
	for id := range q.world.entities.Keys() {
		held := 0
		for _, ct := range q.types {
			if ct.Contains(id) {
				held++
			}
		}
		if held == len(q.types) {
			q.matches.Add(id)
		}
	}
}

// onEvent patches the cache for the affected entity only. Cost is
// proportional to the query's type list, independent of world size, so it is
// safe to run for every live query on every attach.
func (q *Query) onEvent(ev Event) {
	if ev.Kind != ComponentAttached {
		return
	}
	e := ev.Entity
	held := 0
	for _, ct := range q.types {
		if e.has(ct.id) {
			held++
		}
	}
	if held == len(q.types) {
		q.matches.Add(e.id)
	}
}

func (q *Query) usesType(ct *ComponentType) bool {
	for _, t := range q.types {
		if t.id == ct.id {
			return true
		}
	}
	return false
}
