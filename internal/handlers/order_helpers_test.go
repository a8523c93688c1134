package handlers

import (
	"testing"

	"tailorbook/internal/models"
)

func TestBuildOrderItemsRejectsEmptySelection(t *testing.T) {
	if _, err := buildOrderItems(nil); err == nil {
		t.Fatal("expected error for empty item list")
	}
	if _, err := buildOrderItems([]createOrderItemRequest{}); err == nil {
		t.Fatal("expected error for empty item list")
	}
}

func TestBuildOrderItemsSnapshotFallbacks(t *testing.T) {
	items, err := buildOrderItems([]createOrderItemRequest{
		{
			Product: models.ProductSnapshot{ID: "p1", Name: "Classic Shirt", Image: "shirt.jpg"},
			Name:    "ignored",
			Image:   "ignored.jpg",
			Price:   800,
		},
		{
			Product:  models.ProductSnapshot{ID: "p2"},
			Name:     "Fallback Kurta",
			Image:    "kurta.jpg",
			Quantity: 2,
		},
	})
	if err != nil {
		t.Fatalf("buildOrderItems returned error: %v", err)
	}

	if items[0].Name != "Classic Shirt" || items[0].Image != "shirt.jpg" {
		t.Fatalf("expected product snapshot fields to win, got %+v", items[0])
	}
	if items[0].Quantity != 1 {
		t.Fatalf("expected default quantity 1, got %d", items[0].Quantity)
	}
	if items[1].Name != "Fallback Kurta" || items[1].Image != "kurta.jpg" {
		t.Fatalf("expected item-level fallback, got %+v", items[1])
	}
	if items[1].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", items[1].Quantity)
	}
}

func TestFilterOrderedItemsMatchesByProductAndProfile(t *testing.T) {
	cartItems := []models.CartItem{
		{ID: "a", Product: models.ProductSnapshot{ID: "p1"}, ProfileID: "me"},
		{ID: "b", Product: models.ProductSnapshot{ID: "p1"}, ProfileID: "priya-id"},
		{ID: "c", Product: models.ProductSnapshot{ID: "p2"}, ProfileID: "me"},
	}

	ordered := map[string]struct{}{"p1": {}}
	remaining := filterOrderedItems(cartItems, ordered, "me")

	if len(remaining) != 2 {
		t.Fatalf("expected 2 remaining items, got %d", len(remaining))
	}
	for _, item := range remaining {
		if item.ID == "a" {
			t.Fatal("expected item a to be removed")
		}
	}
}

func TestFilterOrderedItemsRemovesDuplicateProductProfilePairs(t *testing.T) {
	// Matching is by (productId, profileId) pair, not by cart-item id: two
	// lines differing only in customization are both cleared.
	cartItems := []models.CartItem{
		{ID: "a", Product: models.ProductSnapshot{ID: "p1"}, ProfileID: "me", Customization: &models.Customization{Color: "blue"}},
		{ID: "b", Product: models.ProductSnapshot{ID: "p1"}, ProfileID: "me", Customization: &models.Customization{Color: "red"}},
	}

	remaining := filterOrderedItems(cartItems, map[string]struct{}{"p1": {}}, "me")
	if len(remaining) != 0 {
		t.Fatalf("expected both duplicate lines removed, got %d remaining", len(remaining))
	}
}

func TestFilterOrderedItemsBookingScenario(t *testing.T) {
	// Product with basePrice 500 and fabricPrice 300 booked for "me" with
	// fabric: the single cart line is cleared after ordering.
	cartItems := []models.CartItem{
		{
			ID:         "line1",
			Product:    models.ProductSnapshot{ID: "p9", Name: "Sherwani", BasePrice: 500, FabricPrice: 300},
			WithFabric: true,
			ProfileID:  "me",
			Quantity:   1,
		},
	}

	orderItems := []createOrderItemRequest{
		{
			Product:    models.ProductSnapshot{ID: "p9", Name: "Sherwani", BasePrice: 500, FabricPrice: 300},
			WithFabric: true,
			Price:      800,
		},
	}

	built, err := buildOrderItems(orderItems)
	if err != nil {
		t.Fatalf("buildOrderItems returned error: %v", err)
	}
	if built[0].Price != 800 {
		t.Fatalf("expected price 800, got %v", built[0].Price)
	}

	remaining := filterOrderedItems(cartItems, orderedProductIDs(orderItems), "me")
	if len(remaining) != 0 {
		t.Fatalf("expected empty cart after booking, got %d items", len(remaining))
	}
}

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range models.OrderStatuses {
		if !isValidOrderStatus(status) {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	if isValidOrderStatus("Shipped") {
		t.Fatal("expected unknown status to be rejected")
	}
	if isValidOrderStatus("pending") {
		t.Fatal("expected status check to be case sensitive")
	}
}

func TestNormalizeProfileTagDefaultsToSelf(t *testing.T) {
	if got := normalizeProfileTag(""); got != models.SelfProfileID {
		t.Fatalf("expected %q, got %q", models.SelfProfileID, got)
	}
	if got := normalizeProfileTag("  Priya  "); got != "Priya" {
		t.Fatalf("expected trimmed tag, got %q", got)
	}
}
