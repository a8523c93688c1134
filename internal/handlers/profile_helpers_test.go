package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tailorbook/internal/models"
)

func TestListProfilesAlwaysStartsWithSelf(t *testing.T) {
	user := models.User{
		Name:  "Arjun",
		Phone: "9999",
		Email: "arjun@example.com",
		Profiles: []models.Profile{
			{ID: "p1", Name: "Priya"},
			{ID: "p2", Name: "Dad"},
		},
	}

	profiles := listProfiles(user)
	if len(profiles) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(profiles))
	}
	if profiles[0].ID != models.SelfProfileID {
		t.Fatalf("expected first profile id %q, got %q", models.SelfProfileID, profiles[0].ID)
	}
	if !profiles[0].IsSelf {
		t.Fatal("expected first profile to be marked self")
	}

	selfCount := 0
	for _, p := range profiles {
		if p.ID == models.SelfProfileID {
			selfCount++
		}
	}
	if selfCount != 1 {
		t.Fatalf("expected exactly one self profile, got %d", selfCount)
	}
}

func TestListProfilesWithNoEmbeddedProfiles(t *testing.T) {
	profiles := listProfiles(models.User{Name: "Arjun"})
	if len(profiles) != 1 {
		t.Fatalf("expected only the self profile, got %d", len(profiles))
	}
	if profiles[0].Name != "Arjun" {
		t.Fatalf("expected self profile name from account, got %q", profiles[0].Name)
	}
}

func TestSelfProfileLocationFromFirstAddress(t *testing.T) {
	user := models.User{
		Name:      "Arjun",
		Addresses: []models.Address{{City: "Pune"}, {City: "Mumbai"}},
	}

	profile := selfProfile(user)
	if profile.Location != "Pune" {
		t.Fatalf("expected location from first address, got %q", profile.Location)
	}
}

func TestHasProfileNamedIsCaseInsensitive(t *testing.T) {
	profiles := []models.Profile{{ID: "p1", Name: "Priya"}}

	if !hasProfileNamed(profiles, "priya") {
		t.Fatal("expected case-insensitive match")
	}
	if !hasProfileNamed(profiles, "PRIYA") {
		t.Fatal("expected case-insensitive match")
	}
	if hasProfileNamed(profiles, "Rahul") {
		t.Fatal("did not expect a match for a new name")
	}
}

func TestFindProfileIndex(t *testing.T) {
	profiles := []models.Profile{{ID: "p1"}, {ID: "p2"}}

	if got := findProfileIndex(profiles, "p2"); got != 1 {
		t.Fatalf("expected index 1, got %d", got)
	}
	if got := findProfileIndex(profiles, "missing"); got != -1 {
		t.Fatalf("expected -1 for missing profile, got %d", got)
	}
}

func TestProfileCascadeFilterMatchesNameAndRawID(t *testing.T) {
	owner := primitive.NewObjectID()
	filter := profileCascadeFilter(owner, "Priya", "priya-uuid")

	if got := filter["userId"]; got != owner {
		t.Fatalf("expected cascade scoped to owner %v, got %v", owner, got)
	}

	clause, ok := filter["profileId"].(bson.M)
	if !ok {
		t.Fatalf("expected a profileId clause, got %T", filter["profileId"])
	}
	tags, ok := clause["$in"].([]string)
	if !ok {
		t.Fatalf("expected accepted tags list, got %T", clause["$in"])
	}
	if len(tags) != 2 || tags[0] != "Priya" || tags[1] != "priya-uuid" {
		t.Fatalf("expected cascade to match display name and raw id, got %v", tags)
	}
}

func TestMergeProfileAppliesOnlySuppliedFields(t *testing.T) {
	profile := models.Profile{
		ID:           "p1",
		Name:         "Priya",
		Phone:        "1111",
		Measurements: "chest 36",
	}

	mergeProfile(&profile, profileUpdate{Phone: "2222", Location: "Delhi"})

	if profile.Name != "Priya" {
		t.Fatalf("expected name untouched, got %q", profile.Name)
	}
	if profile.Phone != "2222" {
		t.Fatalf("expected phone updated, got %q", profile.Phone)
	}
	if profile.Location != "Delhi" {
		t.Fatalf("expected location set, got %q", profile.Location)
	}
	if profile.Measurements != "chest 36" {
		t.Fatalf("expected measurements untouched, got %q", profile.Measurements)
	}
}
