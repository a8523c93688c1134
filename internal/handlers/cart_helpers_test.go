package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"tailorbook/internal/models"
)

func TestParseFabricFlag(t *testing.T) {
	if !parseFabricFlag(true) {
		t.Fatal("expected true for boolean true")
	}
	if !parseFabricFlag("true") {
		t.Fatal("expected true for literal string \"true\"")
	}
	if parseFabricFlag("false") {
		t.Fatal("expected false for string \"false\"")
	}
	if parseFabricFlag(nil) {
		t.Fatal("expected false for nil")
	}
	if parseFabricFlag(1) {
		t.Fatal("expected false for unrelated type")
	}
}

func TestBuildCartItemDefaults(t *testing.T) {
	item := buildCartItem(cartItemInput{
		Product: models.ProductSnapshot{ID: "p1", Name: "Shirt", BasePrice: 500, FabricPrice: 300},
	}, "")

	if item.ID == "" {
		t.Fatal("expected a generated item id")
	}
	if item.Quantity != 1 {
		t.Fatalf("expected default quantity 1, got %d", item.Quantity)
	}
	if item.ProfileID != models.SelfProfileID {
		t.Fatalf("expected default profile %q, got %q", models.SelfProfileID, item.ProfileID)
	}
	if item.Customization != nil {
		t.Fatal("expected nil customization when none supplied")
	}
}

func TestBuildCartItemRoundTripsCustomization(t *testing.T) {
	custom := &models.Customization{
		FabricType:  "Linen",
		Color:       "Navy",
		Description: "slim fit",
	}

	item := buildCartItem(cartItemInput{
		Product:       models.ProductSnapshot{ID: "p1"},
		WithFabric:    true,
		ProfileID:     "priya-id",
		Customization: custom,
	}, "")

	if !item.WithFabric {
		t.Fatal("expected fabric flag preserved")
	}
	if item.Customization == nil || item.Customization.FabricType != "Linen" || item.Customization.Color != "Navy" {
		t.Fatalf("expected customization preserved, got %+v", item.Customization)
	}
	if item.Customization.Description != "slim fit" {
		t.Fatalf("expected description preserved, got %q", item.Customization.Description)
	}
}

func TestBuildCartItemResolvedUploadWinsOverClientImage(t *testing.T) {
	item := buildCartItem(cartItemInput{
		Product:       models.ProductSnapshot{ID: "p1"},
		Customization: &models.Customization{ReferenceImage: "client-supplied.jpg"},
	}, "https://cdn.example/ref.jpg")

	if item.Customization.ReferenceImage != "https://cdn.example/ref.jpg" {
		t.Fatalf("expected resolved upload url, got %q", item.Customization.ReferenceImage)
	}
}

func TestBuildCartItemUploadCreatesCustomization(t *testing.T) {
	item := buildCartItem(cartItemInput{
		Product: models.ProductSnapshot{ID: "p1"},
	}, "https://cdn.example/ref.jpg")

	if item.Customization == nil || item.Customization.ReferenceImage != "https://cdn.example/ref.jpg" {
		t.Fatalf("expected customization with upload url, got %+v", item.Customization)
	}
}

func TestRemoveCartItemIsIdempotent(t *testing.T) {
	items := []models.CartItem{{ID: "a"}, {ID: "b"}}

	remaining := removeCartItem(items, "a")
	if len(remaining) != 1 || remaining[0].ID != "b" {
		t.Fatalf("expected item a removed, got %+v", remaining)
	}

	unchanged := removeCartItem(remaining, "missing")
	if len(unchanged) != 1 || unchanged[0].ID != "b" {
		t.Fatalf("expected cart unchanged for absent id, got %+v", unchanged)
	}
}

func TestParseCustomization(t *testing.T) {
	custom, err := parseCustomization(`{"fabricType":"Silk","color":"Red"}`)
	if err != nil {
		t.Fatalf("parseCustomization returned error: %v", err)
	}
	if custom == nil || custom.FabricType != "Silk" {
		t.Fatalf("expected parsed customization, got %+v", custom)
	}

	for _, raw := range []string{"", "  ", "null"} {
		custom, err := parseCustomization(raw)
		if err != nil {
			t.Fatalf("parseCustomization(%q) returned error: %v", raw, err)
		}
		if custom != nil {
			t.Fatalf("expected nil customization for %q", raw)
		}
	}

	if _, err := parseCustomization("{broken"); err == nil {
		t.Fatal("expected error for malformed customization")
	}
}

func TestParseMultipartCartRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	_ = writer.WriteField("product", `{"id":"p1","name":"Shirt","basePrice":500,"fabricPrice":300}`)
	_ = writer.WriteField("withFabric", "true")
	_ = writer.WriteField("profileId", "priya-id")
	_ = writer.WriteField("customization", `{"fabricType":"Linen"}`)
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/cart", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	input, file, err := parseMultipartCartRequest(c)
	if err != nil {
		t.Fatalf("parseMultipartCartRequest returned error: %v", err)
	}
	if file != nil {
		t.Fatal("expected no file")
	}
	if input.Product.ID != "p1" || input.Product.BasePrice != 500 || input.Product.FabricPrice != 300 {
		t.Fatalf("expected product snapshot parsed, got %+v", input.Product)
	}
	if !input.WithFabric {
		t.Fatal("expected withFabric=true from string form value")
	}
	if input.ProfileID != "priya-id" {
		t.Fatalf("expected profileId parsed, got %q", input.ProfileID)
	}
	if input.Customization == nil || input.Customization.FabricType != "Linen" {
		t.Fatalf("expected customization parsed, got %+v", input.Customization)
	}
}

func TestParseMultipartCartRequestRequiresProduct(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	_ = writer.WriteField("withFabric", "true")
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/cart", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	if _, _, err := parseMultipartCartRequest(c); err == nil {
		t.Fatal("expected error when product field is missing")
	}
}
