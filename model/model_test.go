package model

import (
	"testing"
	"time"

	"github.com/mbolis/club-site/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivity_RegistrationOpen(t *testing.T) {
	a := Activity{
		RegistrationStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		RegistrationEnd:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	assert.False(t, a.RegistrationOpen(a.RegistrationStart.Add(-time.Second)))
	assert.True(t, a.RegistrationOpen(a.RegistrationStart))
	assert.True(t, a.RegistrationOpen(a.RegistrationStart.AddDate(0, 0, 5)))
	assert.True(t, a.RegistrationOpen(a.RegistrationEnd))
	assert.False(t, a.RegistrationOpen(a.RegistrationEnd.Add(time.Second)))
}

func TestActivity_HasSpace(t *testing.T) {
	unlimited := Activity{}
	assert.True(t, unlimited.HasSpace(100000))

	max := 2
	capped := Activity{MaxParticipants: &max}
	assert.True(t, capped.HasSpace(0))
	assert.True(t, capped.HasSpace(1))
	assert.False(t, capped.HasSpace(2))
}

func TestActivity_RegistrationStatus(t *testing.T) {
	free := Activity{}
	assert.Equal(t, StatusConfirmed, free.RegistrationStatus())

	paid := Activity{IsPaid: true}
	assert.Equal(t, StatusPendingPayment, paid.RegistrationStatus())
}

func TestDefaultFormSchema(t *testing.T) {
	s := DefaultFormSchema()
	require.Len(t, s, 6)

	labels := make([]string, len(s))
	for i, f := range s {
		labels[i] = f.Label
		assert.True(t, f.Required, "%s should be required", f.Label)
		assert.NotEmpty(t, f.ID)
	}
	assert.Equal(t, []string{
		"Full Name", "Roll Number", "Email Address", "Phone Number",
		"Academic Year", "Branch",
	}, labels)

	year := s[4]
	assert.Equal(t, schema.Select, year.Kind)
	assert.Contains(t, year.Options, "1st Year")

	branch := s[5]
	assert.Equal(t, schema.Select, branch.Kind)
	assert.Contains(t, branch.Options, "Mechanical Engineering")

	// fresh ids every time
	again := DefaultFormSchema()
	assert.NotEqual(t, s[0].ID, again[0].ID)
}
