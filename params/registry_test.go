package params

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAddGeneratesNames(t *testing.T) {
	r := NewRegistry()

	for i, want := range []string{"p0", "p1", "p2"} {
		name, err := r.Add(NewParameter("", i))
		require.NoError(t, err)
		assert.Equal(t, want, name)
	}
	assert.Equal(t, []string{"p0", "p1", "p2"}, r.Names())
	assert.Equal(t, map[string]any{"p0": 0, "p1": 1, "p2": 2}, r.Values())
}

func TestRegistryIsCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	p := NewParameter("Name", "x")
	_, err := r.Add(p)
	require.NoError(t, err)

	got, ok := r.Get("NAME")
	require.True(t, ok)
	assert.Same(t, p, got)

	name, err := r.Add(NewParameter("name", "y"))
	require.NoError(t, err)
	assert.NotEqual(t, "name", strings.ToLower(name))
	assert.Equal(t, 2, r.Len())
}

func TestMergeOne(t *testing.T) {
	r := NewRegistry()
	p := NewParameter("p0", 1)

	name, renamed, err := r.MergeOne("p0", p)
	require.NoError(t, err)
	assert.Equal(t, "p0", name)
	assert.False(t, renamed)

	t.Run("same binding is a no-op", func(t *testing.T) {
		name, renamed, err := r.MergeOne("p0", p)
		require.NoError(t, err)
		assert.Equal(t, "p0", name)
		assert.False(t, renamed)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("different binding is renamed", func(t *testing.T) {
		other := NewParameter("p0", 2)
		name, renamed, err := r.MergeOne("p0", other)
		require.NoError(t, err)
		assert.True(t, renamed)
		assert.Equal(t, "p1", name)
		assert.Equal(t, "p0", other.Name, "source parameter must not change")

		got, ok := r.Get("p1")
		require.True(t, ok)
		assert.Equal(t, 2, got.Value)
	})
}

func TestMergeAllRewritesText(t *testing.T) {
	a := NewRegistry()
	_, _, err := a.MergeOne("p0", NewParameter("p0", 18))
	require.NoError(t, err)

	b := NewRegistry()
	_, _, err = b.MergeOne("p0", NewParameter("p0", "Al"))
	require.NoError(t, err)

	sql, changed, err := a.MergeAll(b, "name=@p0")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "name=@p1", sql)
	assert.Equal(t, []string{"p0", "p1"}, a.Names())

	_, ok := b.Get("p1")
	assert.False(t, ok, "source registry must not change")
}

func TestMergeAllUnchanged(t *testing.T) {
	a := NewRegistry()
	_, _, err := a.MergeOne("p0", NewParameter("p0", 1))
	require.NoError(t, err)

	b := NewRegistry()
	_, _, err = b.MergeOne("x", NewParameter("x", 2))
	require.NoError(t, err)

	sql, changed, err := a.MergeAll(b, "y=@x")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "y=@x", sql)
	assert.Equal(t, 2, a.Len())
}

func TestMergeAllAvoidsPendingNames(t *testing.T) {
	// a has p0; b has p0 and p1. Renaming b's p0 must not pick p1, which b
	// is about to merge.
	a := NewRegistry()
	_, _, err := a.MergeOne("p0", NewParameter("p0", "a0"))
	require.NoError(t, err)

	b := NewRegistry()
	_, _, err = b.MergeOne("p0", NewParameter("p0", "b0"))
	require.NoError(t, err)
	_, _, err = b.MergeOne("p1", NewParameter("p1", "b1"))
	require.NoError(t, err)

	sql, changed, err := a.MergeAll(b, "x=@p0 AND y=@p1")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "x=@p2 AND y=@p1", sql)
	assert.Equal(t, map[string]any{"p0": "a0", "p1": "b1", "p2": "b0"}, a.Values())
}

func TestMergeAllTokenBoundaries(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()
	for i := range 11 {
		name := SequentialNames("p", i)
		_, _, err := a.MergeOne(name, NewParameter(name, i))
		require.NoError(t, err)
	}
	_, _, err := b.MergeOne("p1", NewParameter("p1", "one"))
	require.NoError(t, err)
	_, _, err = b.MergeOne("p10x", NewParameter("p10x", "keep"))
	require.NoError(t, err)

	sql, changed, err := a.MergeAll(b, "a=@p1 AND b=@p10x AND c='@p1' AND d=@@p1")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "a=@p11 AND b=@p10x AND c='@p1' AND d=@@p1", sql)
}

func TestMergeAllSharedParameter(t *testing.T) {
	shared := NewParameter("p0", 1)
	a := NewRegistry()
	b := NewRegistry()
	_, _, err := a.MergeOne("p0", shared)
	require.NoError(t, err)
	_, _, err = b.MergeOne("p0", shared)
	require.NoError(t, err)

	sql, changed, err := a.MergeAll(b, "@p0")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "@p0", sql)
	assert.Equal(t, 1, a.Len())
}

func TestCollisionExhausted(t *testing.T) {
	stuck := func(prefix string, _ int) string { return prefix + "0" }
	r := NewRegistry(WithNaming(stuck))
	_, err := r.Add(NewParameter("", 1))
	require.NoError(t, err)

	_, err = r.Add(NewParameter("", 2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCollisionExhausted))
}

func TestWithPrefixes(t *testing.T) {
	r := NewRegistry(WithPrefixes("arg", "list"))
	name, err := r.Next("")
	require.NoError(t, err)
	assert.Equal(t, "arg0", name)

	base, err := r.NextArray()
	require.NoError(t, err)
	assert.Equal(t, "list0", base)

	fresh := r.Fresh()
	name, err = fresh.Next("")
	require.NoError(t, err)
	assert.Equal(t, "arg0", name)
}

func TestUniqueNames(t *testing.T) {
	r := NewRegistry(WithNaming(UniqueNames()))
	seen := map[string]bool{}
	for i := range 100 {
		name, err := r.Add(NewParameter("", i))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(name, "p"))
		assert.False(t, seen[name])
		seen[name] = true
	}
}

func TestPrune(t *testing.T) {
	r := NewRegistry()
	for i := range 3 {
		_, err := r.Add(NewParameter("", i))
		require.NoError(t, err)
	}
	r.Prune("a=@p0 AND c=@P2")
	assert.Equal(t, []string{"p0", "p2"}, r.Names())
	_, ok := r.Get("p1")
	assert.False(t, ok)
}

func TestOutputsAndCallbacks(t *testing.T) {
	var got any
	r := NewRegistry()
	out := NewOutput(Int32, 0, func(v any) { got = v })
	_, err := r.Add(NewParameter("", "in"))
	require.NoError(t, err)
	outName, err := r.Add(out)
	require.NoError(t, err)

	require.NoError(t, r.SetOutputs(map[string]any{outName: int64(7)}))
	r.InvokeCallbacks()
	assert.Equal(t, int64(7), got)

	err = r.SetOutputs(map[string]any{"p0": 1})
	assert.True(t, errors.Is(err, ErrNotOutput))

	err = r.SetOutputs(map[string]any{"nope": 1})
	assert.True(t, errors.Is(err, ErrUnknownParameter))
}
