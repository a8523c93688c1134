package handlers

import (
	"errors"
	"strings"

	"tailorbook/internal/models"
)

type createOrderItemRequest struct {
	Product       models.ProductSnapshot `json:"product"`
	Name          string                 `json:"name"`
	Image         string                 `json:"image"`
	Quantity      int                    `json:"quantity"`
	WithFabric    bool                   `json:"withFabric"`
	Price         float64                `json:"price"`
	Customization string                 `json:"customization"`
}

type createOrderRequest struct {
	Items       []createOrderItemRequest `json:"items"`
	TotalAmount float64                  `json:"totalAmount"`
	ProfileID   string                   `json:"profileId"`
	Appointment models.Appointment       `json:"appointment"`
}

var errEmptyOrder = errors.New("Cart is empty. Add items before booking.")

// buildOrderItems snapshots the submitted items. Name and image prefer the
// embedded product snapshot fields and fall back to the item-level ones;
// quantity defaults to 1. Prices are taken as submitted, never re-checked
// against the live catalog.
func buildOrderItems(items []createOrderItemRequest) ([]models.OrderItem, error) {
	if len(items) == 0 {
		return nil, errEmptyOrder
	}

	built := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		name := item.Product.Name
		if name == "" {
			name = item.Name
		}
		image := item.Product.Image
		if image == "" {
			image = item.Image
		}
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		built = append(built, models.OrderItem{
			ProductID:     item.Product.ID,
			Name:          name,
			Image:         image,
			Quantity:      quantity,
			WithFabric:    item.WithFabric,
			Price:         item.Price,
			Customization: item.Customization,
		})
	}

	return built, nil
}

// orderedProductIDs collects the stringified product identifiers of the
// submitted items.
func orderedProductIDs(items []createOrderItemRequest) map[string]struct{} {
	ids := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.Product.ID != "" {
			ids[item.Product.ID] = struct{}{}
		}
	}
	return ids
}

// filterOrderedItems removes cart lines matched by (productId, profileId)
// pair. Two lines sharing product and profile are both removed even when
// only one was ordered; matching is not by cart-item identifier.
func filterOrderedItems(items []models.CartItem, ordered map[string]struct{}, profileID string) []models.CartItem {
	remaining := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		_, isOrdered := ordered[item.Product.ID]
		if isOrdered && item.ProfileID == profileID {
			continue
		}
		remaining = append(remaining, item)
	}
	return remaining
}

// isValidOrderStatus reports whether the value is a member of the status
// enumeration. Transitions between members are not constrained.
func isValidOrderStatus(status string) bool {
	for _, s := range models.OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func normalizeProfileTag(profileID string) string {
	tag := strings.TrimSpace(profileID)
	if tag == "" {
		return models.SelfProfileID
	}
	return tag
}
