package handlers

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"tailorbook/internal/models"
)

// cartItemInput carries the fields of an add-to-cart request. In multipart
// form submissions product and customization arrive as JSON strings and the
// fabric flag arrives as the literal "true"/"false".
type cartItemInput struct {
	Product       models.ProductSnapshot
	WithFabric    bool
	ProfileID     string
	Quantity      int
	Customization *models.Customization
}

// parseFabricFlag accepts a boolean or the literal string "true".
func parseFabricFlag(value interface{}) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		return strings.TrimSpace(typed) == "true"
	default:
		return false
	}
}

func parseProductSnapshot(raw string) (models.ProductSnapshot, error) {
	var snapshot models.ProductSnapshot
	err := json.Unmarshal([]byte(raw), &snapshot)
	return snapshot, err
}

func parseCustomization(raw string) (*models.Customization, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var custom models.Customization
	if err := json.Unmarshal([]byte(trimmed), &custom); err != nil {
		return nil, err
	}
	return &custom, nil
}

// buildCartItem composes a cart line from the parsed input. The resolved
// reference image URL wins over any client-supplied one.
func buildCartItem(input cartItemInput, referenceImageURL string) models.CartItem {
	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	profileID := strings.TrimSpace(input.ProfileID)
	if profileID == "" {
		profileID = models.SelfProfileID
	}

	customization := input.Customization
	if referenceImageURL != "" {
		if customization == nil {
			customization = &models.Customization{}
		}
		customization.ReferenceImage = referenceImageURL
	}

	return models.CartItem{
		ID:            uuid.NewString(),
		Product:       input.Product,
		WithFabric:    input.WithFabric,
		ProfileID:     profileID,
		Quantity:      quantity,
		Customization: customization,
	}
}

// removeCartItem filters out the item with the given id. Removing an absent
// item is a no-op, not an error.
func removeCartItem(items []models.CartItem, itemID string) []models.CartItem {
	remaining := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID == itemID {
			continue
		}
		remaining = append(remaining, item)
	}
	return remaining
}
