package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/dynecs/ecs"
)

func TestQueryInitialRebuildSeesExistingEntities(t *testing.T) {
	w := newTestWorld(t)

	e := w.CreateEntity()
	_, err := e.Attach("Position", ecs.Props{"X": 0.0, "Y": 0.0})
	require.NoError(t, err)

	// Query created after the attach: populated by the initial full rebuild.
	q := w.Query("Position")
	assert.True(t, q.Contains(e.ID()))
	assert.Equal(t, 1, q.Len())
}

func TestQueryIncrementalAttach(t *testing.T) {
	w := newTestWorld(t)

	e := w.CreateEntity()
	_, err := e.Attach("Position", nil)
	require.NoError(t, err)

	q := w.Query("Position")
	require.True(t, q.Contains(e.ID()))

	// New entity attached while the query is live: visible immediately,
	// without any explicit refresh.
	f := w.CreateEntity()
	_, err = f.Attach("Position", nil)
	require.NoError(t, err)

	assert.True(t, q.Contains(f.ID()))
	assert.Equal(t, 2, q.Len())

	// A query never requested stays absent from the cache.
	assert.False(t, w.HasQuery("Velocity"))
}

func TestQueryDetachRebuild(t *testing.T) {
	w := newTestWorld(t)

	e := w.CreateEntity()
	f := w.CreateEntity()
	_, err := e.Attach("Position", nil)
	require.NoError(t, err)
	_, err = f.Attach("Position", nil)
	require.NoError(t, err)

	q := w.Query("Position")
	require.Equal(t, 2, q.Len())

	require.NoError(t, e.Detach("Position"))

	// Synchronous rebuild: post-detach state is visible immediately.
	assert.False(t, q.Contains(e.ID()))
	assert.True(t, q.Contains(f.ID()))
	assert.Equal(t, 1, q.Len())
}

func TestQueryAndSemantics(t *testing.T) {
	w := newTestWorld(t)
	q := w.Query("Position", "Velocity")

	e := w.CreateEntity()
	_, err := e.Attach("Position", nil)
	require.NoError(t, err)
	assert.False(t, q.Contains(e.ID()), "one of two required types is not a match")

	_, err = e.Attach("Velocity", nil)
	require.NoError(t, err)
	assert.True(t, q.Contains(e.ID()))

	// Extra components do not disqualify.
	_, err = e.Attach("Health", nil)
	require.NoError(t, err)
	assert.True(t, q.Contains(e.ID()))

	// Losing either required type evicts.
	require.NoError(t, e.Detach("Velocity"))
	assert.False(t, q.Contains(e.ID()))

	_, err = e.Attach("Velocity", nil)
	require.NoError(t, err)
	assert.True(t, q.Contains(e.ID()))
}

// The cached set must track the ground truth across an arbitrary mutation mix.
func TestQueryCacheMatchesGroundTruth(t *testing.T) {
	w := newTestWorld(t)
	q := w.Query("Position", "Health")

	entities := make([]*ecs.Entity, 5)
	for i := range entities {
		entities[i] = w.CreateEntity()
	}

	script := []struct {
		entity int
		kind   string
		detach bool
	}{
		{0, "Position", false},
		{0, "Health", false},
		{1, "Health", false},
		{2, "Position", false},
		{2, "Health", false},
		{3, "Velocity", false},
		{0, "Health", true},
		{1, "Position", false},
		{4, "Position", false},
		{4, "Health", false},
		{2, "Position", true},
		{0, "Health", false},
	}

	for _, step := range script {
		e := entities[step.entity]
		if step.detach {
			require.NoError(t, e.Detach(step.kind))
		} else {
			_, err := e.Attach(step.kind, nil)
			require.NoError(t, err)
		}

		want := make(map[ecs.EntityID]bool)
		for _, e := range entities {
			if e.Has("Position") && e.Has("Health") {
				want[e.ID()] = true
			}
		}
		assert.Equal(t, want, collectIDs(q))
	}
}

func TestEmptyLogicMatchesAllEntities(t *testing.T) {
	w := newTestWorld(t)

	a := w.CreateEntity()
	b := w.CreateEntity()

	// Zero required types: the initial rebuild counts 0 == 0 for every
	// entity, components or not.
	q := w.Query()
	assert.Equal(t, 2, q.Len())
	assert.True(t, q.Contains(a.ID()))
	assert.True(t, q.Contains(b.ID()))

	// An entity added afterwards is only picked up by a rebuild (it has no
	// attach to ride in on).
	c := w.CreateEntity()
	assert.False(t, q.Contains(c.ID()))

	// A detach elsewhere does not rebuild this query: it uses no types.
	_, err := a.Attach("Position", nil)
	require.NoError(t, err)
	require.NoError(t, a.Detach("Position"))
	assert.False(t, q.Contains(c.ID()))

	q.Rebuild()
	assert.True(t, q.Contains(c.ID()))
	assert.Equal(t, 3, q.Len())
}

// An empty token list and a list holding one empty token are distinct logic:
// the first matches everything, the second names an unregistered type and must
// fail compilation instead of aliasing the cached match-all query.
func TestEmptyTokenDoesNotAliasEmptyLogic(t *testing.T) {
	w := newTestWorld(t)

	w.CreateEntity()
	w.CreateEntity()

	all := w.Query()
	require.Equal(t, 2, all.Len())

	q := w.Query("")
	assert.Equal(t, 0, q.Len(), `Query("") must not return the match-all cache`)

	// The failure never enters the cache; the match-all query stays intact.
	assert.False(t, w.HasQuery(""))
	assert.True(t, w.HasQuery())
	assert.Equal(t, 2, all.Len())

	_, err := w.CreateQuery("")
	assert.ErrorIs(t, err, ecs.ErrQueryCreationFailed)
}

func TestNegationPrefixIsInert(t *testing.T) {
	w := newTestWorld(t)

	onlyPos := w.CreateEntity()
	_, err := onlyPos.Attach("Position", nil)
	require.NoError(t, err)

	both := w.CreateEntity()
	_, err = both.Attach("Position", nil)
	require.NoError(t, err)
	_, err = both.Attach("Velocity", nil)
	require.NoError(t, err)

	// The prefix is stripped but the type is still required, so this behaves
	// exactly like ["Position", "Velocity"].
	q := w.Query("Position", "!Velocity")
	assert.False(t, q.Contains(onlyPos.ID()))
	assert.True(t, q.Contains(both.ID()))

	// Incremental path applies the same inert interpretation.
	late := w.CreateEntity()
	_, err = late.Attach("Velocity", nil)
	require.NoError(t, err)
	assert.False(t, q.Contains(late.ID()))
	_, err = late.Attach("Position", nil)
	require.NoError(t, err)
	assert.True(t, q.Contains(late.ID()))
}

func TestQueryLogicIsCopied(t *testing.T) {
	w := newTestWorld(t)
	q := w.Query("Position", "Velocity")

	logic := q.Logic()
	assert.Equal(t, []string{"Position", "Velocity"}, logic)

	logic[0] = "Health"
	assert.Equal(t, []string{"Position", "Velocity"}, q.Logic())
}

func TestQueryEntitiesIterator(t *testing.T) {
	w := newTestWorld(t)
	q := w.Query("Health")

	want := make(map[ecs.EntityID]bool)
	for i := 0; i < 10; i++ {
		e := w.CreateEntity()
		_, err := e.Attach("Health", ecs.Props{"Current": i})
		require.NoError(t, err)
		want[e.ID()] = true
	}

	assert.Equal(t, want, collectIDs(q))

	// Early break must not panic or corrupt the cache.
	count := 0
	for range q.Entities() {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 10, q.Len())
}

func TestDetachOnlyRebuildsAffectedQueries(t *testing.T) {
	w := newTestWorld(t)

	posQuery := w.Query("Position")
	healthQuery := w.Query("Health")

	e := w.CreateEntity()
	_, err := e.Attach("Position", nil)
	require.NoError(t, err)
	_, err = e.Attach("Health", nil)
	require.NoError(t, err)

	require.Equal(t, 1, posQuery.Len())
	require.Equal(t, 1, healthQuery.Len())

	require.NoError(t, e.Detach("Position"))

	assert.Equal(t, 0, posQuery.Len())
	assert.Equal(t, 1, healthQuery.Len())
	assert.True(t, healthQuery.Contains(e.ID()))
}
