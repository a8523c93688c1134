package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDeleteProfileSelfAliasIsNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("DELETE", "/user/profiles/me", nil)
	c.Params = gin.Params{{Key: "id", Value: "me"}}
	c.Set("userId", primitive.NewObjectID())

	DeleteProfile(nil)(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when deleting the self profile, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Profile not found.") {
		t.Fatalf("expected profile-not-found message, got %s", w.Body.String())
	}
}
