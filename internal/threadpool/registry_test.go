package threadpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryCreatesAndReusesByName(t *testing.T) {
	ResetForTesting()
	defer ResetForTesting()

	p1 := Factory("ingest", 1, 2, false)
	p2 := Factory("ingest", 99, 99, true)

	assert.Same(t, p1, p2, "Factory must return the existing pool, ignoring the second call's parameters")
	assert.Equal(t, 2, p1.maxThreads, "the pool's config must come from the first creation, not later calls")
}

func TestFactoryRegistersUnderName(t *testing.T) {
	ResetForTesting()
	defer ResetForTesting()

	p := Factory("lookups", 1, 1, false)
	found, ok := Lookup("lookups")
	require.True(t, ok)
	assert.Same(t, p, found)
}

func TestLookupMissingNameReturnsFalse(t *testing.T) {
	ResetForTesting()
	defer ResetForTesting()

	_, ok := Lookup("does-not-exist")
	assert.False(t, ok)
}

func TestNamesListsEveryRegisteredPool(t *testing.T) {
	ResetForTesting()
	defer ResetForTesting()

	Factory("a", 1, 1, false)
	Factory("b", 1, 1, false)

	names := Names()
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestNewPoolDirectConstructionRejectsDuplicateName(t *testing.T) {
	ResetForTesting()
	defer ResetForTesting()

	Factory("taken", 1, 1, false)

	_, err := NewPool(Config{Name: "taken", MinThreads: 1, MaxThreads: 1})
	assert.ErrorIs(t, err, ErrDuplicatePool)
}

func TestNewPoolDirectConstructionDoesNotSelfRegister(t *testing.T) {
	ResetForTesting()
	defer ResetForTesting()

	p, err := NewPool(Config{Name: "solo", MinThreads: 1, MaxThreads: 1})
	require.NoError(t, err)
	require.NotNil(t, p)

	_, ok := Lookup("solo")
	assert.False(t, ok, "direct construction must not add the pool to the registry")
}

func TestNewPoolUnnamedNeverCollides(t *testing.T) {
	ResetForTesting()
	defer ResetForTesting()

	p1, err := NewPool(Config{MinThreads: 1, MaxThreads: 1})
	require.NoError(t, err)
	p2, err := NewPool(Config{MinThreads: 1, MaxThreads: 1})
	require.NoError(t, err)
	assert.NotSame(t, p1, p2)
}
