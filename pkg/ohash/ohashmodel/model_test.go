package ohashmodel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/ohash/pkg/ohash/ohashmodel"
)

func Test_State_Set_Reports_Prior_Presence(t *testing.T) {
	t.Parallel()

	s := ohashmodel.NewState[string, int]()

	prev, wasPresent := s.Set("a", 1)
	assert.False(t, wasPresent)
	assert.Equal(t, 0, prev)

	prev, wasPresent = s.Set("a", 2)
	assert.True(t, wasPresent)
	assert.Equal(t, 1, prev)

	assert.Equal(t, 2, s.Get("a", -1))
}

func Test_State_Add_Does_Not_Overwrite(t *testing.T) {
	t.Parallel()

	s := ohashmodel.NewState[string, int]()

	existing, wasPresent := s.Add("a", 1)
	require.False(t, wasPresent)
	assert.Equal(t, 0, existing)

	existing, wasPresent = s.Add("a", 2)
	require.True(t, wasPresent)
	assert.Equal(t, 1, existing)
	assert.Equal(t, 1, s.Get("a", -1))
}

func Test_State_Remove_Reports_Absence(t *testing.T) {
	t.Parallel()

	s := ohashmodel.NewState[string, int]()

	_, ok := s.Remove("missing")
	assert.False(t, ok)

	s.Set("a", 5)

	v, ok := s.Remove("a")
	require.True(t, ok)
	assert.Equal(t, 5, v)
	assert.Equal(t, 0, s.Len())
}

func Test_State_Clear_Empties_The_Model(t *testing.T) {
	t.Parallel()

	s := ohashmodel.NewState[string, int]()
	s.Set("a", 1)
	s.Set("b", 2)

	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, -1, s.Get("a", -1))
}

func Test_State_Snapshot_Is_Independent_Copy(t *testing.T) {
	t.Parallel()

	s := ohashmodel.NewState[string, int]()
	s.Set("a", 1)

	snap := s.Snapshot()
	snap["a"] = 999

	require.Equal(t, 1, s.Get("a", -1), "mutating a snapshot must not affect the model")
}
