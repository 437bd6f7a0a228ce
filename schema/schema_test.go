package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T, kinds ...Kind) Schema {
	t.Helper()

	var s Schema
	for _, k := range kinds {
		var err error
		s, _, err = s.Add(k)
		require.NoError(t, err)
	}
	return s
}

func ids(s Schema) []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.ID
	}
	return out
}

func TestSchema_Add(t *testing.T) {
	s, f, err := Schema(nil).Add(Text)
	require.NoError(t, err)
	require.Len(t, s, 1)
	assert.Equal(t, f, s[0])

	s, f, err = s.Add(Select)
	require.NoError(t, err)
	require.Len(t, s, 2)
	assert.Equal(t, f, s[1])

	_, _, err = s.Add(Kind("carousel"))
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestSchema_Update(t *testing.T) {
	s := testSchema(t, Text, Email, Checkbox)
	before := ids(s)

	updated, err := s.Update(s[1].ID, Patch{
		Label:    ptr("Contact Email"),
		Required: ptr(true),
	})
	require.NoError(t, err)

	require.Len(t, updated, 3)
	assert.Equal(t, before, ids(updated), "order must not change")
	assert.Equal(t, "Contact Email", updated[1].Label)
	assert.True(t, updated[1].Required)

	// siblings untouched
	assert.Equal(t, s[0], updated[0])
	assert.Equal(t, s[2], updated[2])
	// input is untouched too
	assert.NotEqual(t, "Contact Email", s[1].Label)
}

func TestSchema_Update_NotFound(t *testing.T) {
	s := testSchema(t, Text)

	_, err := s.Update("nope", Patch{Label: ptr("x")})
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestSchema_Update_KeepsLastOption(t *testing.T) {
	s := testSchema(t, Radio)

	_, err := s.Update(s[0].ID, Patch{Options: &[]string{}})
	assert.ErrorIs(t, err, ErrLastOption)

	updated, err := s.Update(s[0].ID, Patch{Options: &[]string{"Only"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Only"}, updated[0].Options)
}

func TestSchema_Delete(t *testing.T) {
	s := testSchema(t, Text, Email)

	updated, err := s.Delete(s[0].ID)
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, s[1].ID, updated[0].ID)

	_, err = s.Delete("nope")
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestSchema_Duplicate(t *testing.T) {
	s := testSchema(t, Text, Select, Email)

	updated, dup, err := s.Duplicate(s[1].ID)
	require.NoError(t, err)

	require.Len(t, updated, 4)
	assert.Equal(t, dup, updated[2], "copy sits right after the source")
	assert.NotEqual(t, s[1].ID, dup.ID)
	assert.Equal(t, s[1].Label+" (Copy)", dup.Label)
	assert.Equal(t, s[1].Options, dup.Options)

	// options are a deep copy
	dup.Options[0] = "mutated"
	assert.NotEqual(t, "mutated", updated[1].Options[0])

	_, _, err = s.Duplicate("nope")
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestSchema_Move(t *testing.T) {
	s := testSchema(t, Text, Email, Phone)
	first, second, third := s[0].ID, s[1].ID, s[2].ID

	up, err := s.Move(second, Up)
	require.NoError(t, err)
	assert.Equal(t, []string{second, first, third}, ids(up))

	down, err := s.Move(second, Down)
	require.NoError(t, err)
	assert.Equal(t, []string{first, third, second}, ids(down))

	// moving back restores the original order
	restored, err := down.Move(second, Up)
	require.NoError(t, err)
	assert.Equal(t, ids(s), ids(restored))
}

func TestSchema_Move_Boundaries(t *testing.T) {
	s := testSchema(t, Text, Email)

	up, err := s.Move(s[0].ID, Up)
	require.NoError(t, err)
	assert.Equal(t, ids(s), ids(up), "first field cannot move up")

	down, err := s.Move(s[1].ID, Down)
	require.NoError(t, err)
	assert.Equal(t, ids(s), ids(down), "last field cannot move down")

	_, err = s.Move("nope", Up)
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestSchema_Clone(t *testing.T) {
	s := testSchema(t, Checkbox, Label)

	clone := s.Clone()
	require.Equal(t, s, clone)

	clone[0].Options[0] = "mutated"
	assert.NotEqual(t, "mutated", s[0].Options[0])

	*clone[1].Content = "mutated"
	assert.NotEqual(t, "mutated", *s[1].Content)
}
