package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestHashTokenIsDeterministic(t *testing.T) {
	a := hashToken("token-one")
	b := hashToken("token-one")
	if a != b {
		t.Fatal("expected identical hashes for identical input")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a == hashToken("token-two") {
		t.Fatal("expected different hashes for different tokens")
	}
}

func TestGenerateRefreshString(t *testing.T) {
	a := generateRefreshString()
	b := generateRefreshString()

	if len(a) != 80 {
		t.Fatalf("expected 80 hex chars, got %d", len(a))
	}
	if a == b {
		t.Fatal("expected unique refresh tokens")
	}
}

func TestSignupRejectsUnknownGender(t *testing.T) {
	gin.SetMode(gin.TestMode)

	body := `{"name":"Arjun","email":"arjun@example.com","password":"longenough","phone":"9999","gender":"Robot"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/auth/signup", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	Signup(nil, "test-secret", time.Minute, time.Hour)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown gender, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "gender") {
		t.Fatalf("expected the gender field in the message, got %s", w.Body.String())
	}
}

func TestSignAccessTokenCarriesUserID(t *testing.T) {
	userID := primitive.NewObjectID()
	signed, err := signAccessToken(userID, "test-secret", 15*time.Minute)
	if err != nil {
		t.Fatalf("signAccessToken returned error: %v", err)
	}

	token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("expected valid token, got err=%v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected map claims")
	}
	if claims["id"] != userID.Hex() {
		t.Fatalf("expected id claim %q, got %v", userID.Hex(), claims["id"])
	}
}

func TestSignAccessTokenExpires(t *testing.T) {
	userID := primitive.NewObjectID()
	signed, err := signAccessToken(userID, "test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("signAccessToken returned error: %v", err)
	}

	if _, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}); err == nil {
		t.Fatal("expected expired token to fail parsing")
	}
}
