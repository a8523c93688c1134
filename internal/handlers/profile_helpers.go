package handlers

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tailorbook/internal/models"
)

// selfProfile synthesizes the reserved "me" profile from the account's own
// fields. It is rebuilt on every read and never persisted.
func selfProfile(user models.User) models.Profile {
	location := ""
	if len(user.Addresses) > 0 {
		location = user.Addresses[0].City
	}

	return models.Profile{
		ID:       models.SelfProfileID,
		Name:     user.Name,
		Phone:    user.Phone,
		Email:    user.Email,
		Location: location,
		IsSelf:   true,
	}
}

// listProfiles returns the synthesized self profile prepended to the
// embedded profiles. "me" is always present and always first.
func listProfiles(user models.User) []models.Profile {
	profiles := make([]models.Profile, 0, len(user.Profiles)+1)
	profiles = append(profiles, selfProfile(user))
	profiles = append(profiles, user.Profiles...)
	return profiles
}

// hasProfileNamed reports whether a profile with the given display name
// already exists under the user, compared case-insensitively.
func hasProfileNamed(profiles []models.Profile, name string) bool {
	for _, p := range profiles {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

func findProfileIndex(profiles []models.Profile, profileID string) int {
	for i, p := range profiles {
		if p.ID == profileID {
			return i
		}
	}
	return -1
}

// profileCascadeFilter selects the orders removed when a profile is
// deleted. Orders are tagged by the profile's display name; older records
// may carry the raw id, so both are matched, scoped to the owning account.
func profileCascadeFilter(userID primitive.ObjectID, name, profileID string) bson.M {
	return bson.M{
		"userId":    userID,
		"profileId": bson.M{"$in": []string{name, profileID}},
	}
}

type profileUpdate struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Location     string `json:"location"`
	Measurements string `json:"measurements"`
}

// mergeProfile applies only the supplied fields onto an embedded profile.
func mergeProfile(profile *models.Profile, update profileUpdate) {
	if v := strings.TrimSpace(update.Name); v != "" {
		profile.Name = v
	}
	if v := strings.TrimSpace(update.Phone); v != "" {
		profile.Phone = v
	}
	if v := strings.TrimSpace(update.Email); v != "" {
		profile.Email = v
	}
	if v := strings.TrimSpace(update.Location); v != "" {
		profile.Location = v
	}
	if v := strings.TrimSpace(update.Measurements); v != "" {
		profile.Measurements = v
	}
}
