package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/rulestage/internal/rules"
)

func TestFlagsSetAndChanged(t *testing.T) {
	f := NewFlags(10)
	f.Define("unlocked", false)

	assert.False(t, f.Changed("unlocked"))

	require.NoError(t, f.Set("unlocked", true, Origin{RuleID: "r1", Time: 1}))
	v, err := f.Get("unlocked")
	require.NoError(t, err)
	assert.True(t, v)
	assert.True(t, f.Changed("unlocked"))

	prev, err := f.Previous("unlocked")
	require.NoError(t, err)
	assert.False(t, prev)

	// Writing the same value again is not a transition.
	require.NoError(t, f.Set("unlocked", true, Origin{}))
	assert.False(t, f.Changed("unlocked"))

	f.BeginFrame()
	assert.False(t, f.Changed("unlocked"))

	toggled, err := f.Toggle("unlocked", Origin{})
	require.NoError(t, err)
	assert.False(t, toggled)
	assert.True(t, f.Changed("unlocked"))
}

func TestVersionsCountValueChanges(t *testing.T) {
	f := NewFlags(10)
	f.Define("door", false)
	c := NewCounters(10)
	require.NoError(t, c.Define(CounterDefinition{Name: "hp", Initial: 5, Max: 10, HasMax: true}))

	require.NoError(t, f.Set("door", true, Origin{}))
	require.NoError(t, f.Set("door", true, Origin{}))
	f.BeginFrame()
	assert.Equal(t, uint64(1), f.Version("door"), "frames do not hide earlier writes")
	_, err := f.Toggle("door", Origin{})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), f.Version("door"))

	_, err = c.Set("hp", 20, Origin{})
	require.NoError(t, err)
	_, err = c.Set("hp", 30, Origin{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), c.Version("hp"), "clamped repeats are not changes")

	f.Reset()
	c.Reset()
	assert.Zero(t, f.Version("door"))
	assert.Zero(t, c.Version("hp"))
}

func TestFlagsUnknown(t *testing.T) {
	f := NewFlags(10)

	_, err := f.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownFlag)
	assert.ErrorIs(t, f.Set("missing", true, Origin{}), ErrUnknownFlag)
	assert.False(t, f.Changed("missing"))
}

func TestFlagsReset(t *testing.T) {
	f := NewFlags(10)
	f.Define("door", true)
	require.NoError(t, f.Set("door", false, Origin{}))

	f.Reset()

	v, _ := f.Get("door")
	assert.True(t, v)
	assert.Empty(t, f.History())
	assert.False(t, f.Changed("door"))
}

func TestCounterClampIdempotent(t *testing.T) {
	c := NewCounters(10)
	require.NoError(t, c.Define(CounterDefinition{Name: "hp", Initial: 5, Min: 0, Max: 10, HasMin: true, HasMax: true}))

	v, err := c.Set("hp", 50, Origin{})
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)
	assert.True(t, c.Changed("hp"))

	got, _ := c.Get("hp")
	assert.Equal(t, 10.0, got)

	// Repeating the clamped write is not a further transition.
	_, err = c.Set("hp", 50, Origin{})
	require.NoError(t, err)
	assert.False(t, c.Changed("hp"))

	c.BeginFrame()
	_, err = c.Set("hp", 99, Origin{})
	require.NoError(t, err)
	assert.False(t, c.Changed("hp"))
}

func TestCounterOperations(t *testing.T) {
	tests := []struct {
		name     string
		op       rules.CounterOp
		operand  float64
		expected float64
	}{
		{"set", rules.CounterSet, 3, 3},
		{"add", rules.CounterAdd, 3, 13},
		{"subtract", rules.CounterSubtract, 3, 7},
		{"multiply", rules.CounterMultiply, 3, 30},
		{"divide", rules.CounterDivide, 4, 2.5},
		{"reset", rules.CounterReset, 0, 1},
		{"clamped low", rules.CounterSubtract, 100, -5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCounters(10)
			require.NoError(t, c.Define(CounterDefinition{Name: "n", Initial: 1, Min: -5, HasMin: true}))
			_, err := c.Set("n", 10, Origin{})
			require.NoError(t, err)

			v, err := c.Apply("n", tc.op, tc.operand, Origin{})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestCounterDivideByZero(t *testing.T) {
	c := NewCounters(10)
	require.NoError(t, c.Define(CounterDefinition{Name: "n", Initial: 8}))

	_, err := c.Apply("n", rules.CounterDivide, 0, Origin{})
	assert.ErrorIs(t, err, ErrDivideByZero)

	v, _ := c.Get("n")
	assert.Equal(t, 8.0, v)
	assert.Empty(t, c.History())
}

func TestCounterDefineRejectsInvertedBounds(t *testing.T) {
	c := NewCounters(10)
	err := c.Define(CounterDefinition{Name: "n", Min: 5, Max: 1, HasMin: true, HasMax: true})
	assert.Error(t, err)
	assert.False(t, c.Has("n"))
}

func TestCounterHistoryBounded(t *testing.T) {
	c := NewCounters(3)
	require.NoError(t, c.Define(CounterDefinition{Name: "n"}))

	for i := 0; i < 5; i++ {
		_, err := c.Apply("n", rules.CounterAdd, 1, Origin{RuleID: "tick", Time: float64(i)})
		require.NoError(t, err)
	}

	h := c.History()
	require.Len(t, h, 3)
	assert.Equal(t, 2.0, h[0].Old)
	assert.Equal(t, 5.0, h[2].New)
	assert.Equal(t, "add", h[2].Op)
	assert.Equal(t, "tick", h[2].RuleID)
}
