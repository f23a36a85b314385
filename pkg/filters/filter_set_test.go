package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matst80/slask-discovery/pkg/types"
)

var (
	subject  = types.FilterTerm{Type: "subject", Query: "cs", Name: "Computer Science"}
	language = types.FilterTerm{Type: "language", Query: "en", Name: "English"}
	org      = types.FilterTerm{Type: "org", Query: "mitx", Name: "MITx"}
)

func TestAddKeepsInsertionOrder(t *testing.T) {
	f := NewFilterSet()
	require.NoError(t, f.Add(subject, false))
	require.NoError(t, f.Add(language, false))
	require.NoError(t, f.Add(org, false))

	assert.Equal(t, []types.FilterTerm{subject, language, org}, f.Terms())
}

func TestAddDuplicateWithoutMerge(t *testing.T) {
	f := NewFilterSet()
	require.NoError(t, f.Add(subject, false))

	other := types.FilterTerm{Type: "subject", Query: "math", Name: "Math"}
	err := f.Add(other, false)
	assert.ErrorIs(t, err, types.ErrDuplicateFilter)

	term, found := f.Get("subject")
	assert.True(t, found)
	assert.Equal(t, subject, term)
}

func TestAddMergeOverwritesInPlace(t *testing.T) {
	f := NewFilterSet()
	require.NoError(t, f.Add(types.QueryTerm("python"), true))
	require.NoError(t, f.Add(subject, false))
	require.NoError(t, f.Add(types.QueryTerm("golang"), true))

	terms := f.Terms()
	assert.Len(t, terms, 2)
	assert.Equal(t, "golang", terms[0].Query)
	assert.Equal(t, `"golang"`, terms[0].Name)
	assert.Equal(t, subject, terms[1])
}

func TestRemoveAndReset(t *testing.T) {
	f := NewFilterSet()
	f.Add(subject, false)
	f.Add(language, false)

	f.Remove("missing")
	assert.Equal(t, 2, f.Len())

	f.Remove("subject")
	assert.Equal(t, []types.FilterTerm{language}, f.Terms())
	_, found := f.Get("subject")
	assert.False(t, found)

	f.Add(subject, false)
	assert.Equal(t, []types.FilterTerm{language, subject}, f.Terms())

	f.Reset()
	assert.Equal(t, 0, f.Len())
	assert.Empty(t, f.Terms())
	assert.False(t, f.Has("language"))
}

func TestRefinementsSkipsQueryTerm(t *testing.T) {
	f := NewFilterSet()
	f.Add(types.QueryTerm("python"), true)
	f.Add(subject, false)

	assert.Equal(t, []types.FilterTerm{subject}, f.Refinements())
	assert.Len(t, f.Terms(), 2)
}

func TestTermsReflectHeldCategories(t *testing.T) {
	all := []types.FilterTerm{subject, language, org}
	f := NewFilterSet()
	held := map[string]bool{}
	// deterministic walk over add/remove/reset operations
	for i := 0; i < 60; i++ {
		term := all[i%len(all)]
		switch {
		case i%11 == 0:
			f.Reset()
			clear(held)
		case i%3 == 1 && held[term.Type]:
			f.Remove(term.Type)
			delete(held, term.Type)
		default:
			f.Add(term, true)
			held[term.Type] = true
		}
		seen := map[string]int{}
		for _, current := range f.Terms() {
			seen[current.Type]++
		}
		assert.Len(t, seen, len(held))
		for category := range held {
			assert.Equal(t, 1, seen[category], "category %s at step %d", category, i)
		}
	}
}
