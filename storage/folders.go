package storage

import "strings"

// Logical folders a file may be uploaded into, under the media root.
var subfolders = map[string]bool{
	"events":            true,
	"upcoming_events":   true,
	"committee_members": true,
	"user_profiles":     true,
	"community_members": true,
	"form_builder":      true,
	"general":           true,
}

func ValidSubfolder(name string) bool {
	return subfolders[name]
}

// UIFolder maps a public id to the folder name the admin media browser
// filters by. The first path segment is the media root, the second is the
// storage folder.
func UIFolder(publicID string) string {
	parts := strings.Split(publicID, "/")
	if len(parts) < 2 {
		return "general"
	}

	switch parts[1] {
	case "committee_members":
		return "commitymembers"
	case "events", "upcoming_events":
		return "events"
	case "form_register", "form_builder":
		return "formregister"
	case "user_profiles", "community_members":
		return "profiles"
	default:
		return "general"
	}
}

func originalFolder(publicID string) string {
	parts := strings.Split(publicID, "/")
	if len(parts) < 2 {
		return "general"
	}
	return parts[1]
}

func assetName(publicID string) string {
	parts := strings.Split(publicID, "/")
	return parts[len(parts)-1]
}
