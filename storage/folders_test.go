package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidSubfolder(t *testing.T) {
	assert.True(t, ValidSubfolder("events"))
	assert.True(t, ValidSubfolder("general"))
	assert.False(t, ValidSubfolder("secrets"))
	assert.False(t, ValidSubfolder(""))
}

func TestUIFolder(t *testing.T) {
	cases := []struct {
		publicID string
		want     string
	}{
		{"club/committee_members/photo1", "commitymembers"},
		{"club/events/poster", "events"},
		{"club/upcoming_events/poster", "events"},
		{"club/form_register/Chess Night/card", "formregister"},
		{"club/form_builder/banner", "formregister"},
		{"club/user_profiles/avatar", "profiles"},
		{"club/community_members/avatar", "profiles"},
		{"club/general/misc", "general"},
		{"club/unknown_folder/x", "general"},
		{"orphan", "general"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, UIFolder(c.publicID), "publicID %q", c.publicID)
	}
}

func TestOriginalFolder(t *testing.T) {
	assert.Equal(t, "events", originalFolder("club/events/poster"))
	assert.Equal(t, "general", originalFolder("orphan"))
}

func TestAssetName(t *testing.T) {
	assert.Equal(t, "poster", assetName("club/events/poster"))
	assert.Equal(t, "orphan", assetName("orphan"))
}
