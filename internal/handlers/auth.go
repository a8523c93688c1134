package handlers

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"tailorbook/internal/models"
)

const refreshCookieName = "refreshToken"

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone" binding:"required"`
	Gender   string `json:"gender" binding:"omitempty,oneof=Male Female Other"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Signup(db *mongo.Database, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			log.Println("[AUTH] [ERROR] signup db error:", err)
			respondFail(c, http.StatusInternalServerError, "POST /auth/signup", "db error")
			return
		}
		if count > 0 {
			log.Println("[AUTH] [ERROR] signup email exists:", email)
			respondFail(c, http.StatusConflict, "POST /auth/signup", "Email already registered")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			log.Println("[AUTH] [ERROR] signup password hash failed:", err)
			respondFail(c, http.StatusInternalServerError, "POST /auth/signup", "password hash failed")
			return
		}

		gender := strings.TrimSpace(req.Gender)
		if gender == "" {
			gender = "Male"
		}

		now := time.Now()
		user := models.User{
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			PasswordHash: string(hash),
			Phone:        strings.TrimSpace(req.Phone),
			Role:         models.RoleUser,
			Gender:       gender,
			Addresses:    []models.Address{},
			Profiles:     []models.Profile{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondFail(c, http.StatusConflict, "POST /auth/signup", "Email already registered")
				return
			}
			log.Println("[AUTH] [ERROR] signup insert failed:", err)
			respondFail(c, http.StatusInternalServerError, "POST /auth/signup", "db error")
			return
		}

		user.ID, _ = res.InsertedID.(primitive.ObjectID)

		log.Println("[AUTH] [INFO] user registered:", email)
		sendTokenResponse(c, db, user, http.StatusCreated, jwtSecret, accessTTL, refreshTTL)
	}
}

func Login(db *mongo.Database, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondFail(c, http.StatusBadRequest, "POST /auth/login", "Please provide email and password")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err != nil {
			if err != mongo.ErrNoDocuments {
				log.Println("[AUTH] [ERROR] login user lookup failed:", err)
				respondFail(c, http.StatusInternalServerError, "POST /auth/login", "db error")
				return
			}
			respondFail(c, http.StatusUnauthorized, "POST /auth/login", "Incorrect email or password")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			log.Println("[AUTH] [ERROR] login invalid credentials:", email)
			respondFail(c, http.StatusUnauthorized, "POST /auth/login", "Incorrect email or password")
			return
		}

		log.Println("[AUTH] [INFO] login succeeded:", email)
		sendTokenResponse(c, db, user, http.StatusOK, jwtSecret, accessTTL, refreshTTL)
	}
}

func Refresh(db *mongo.Database, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		plain, err := c.Cookie(refreshCookieName)
		if err != nil || strings.TrimSpace(plain) == "" {
			respondFail(c, http.StatusUnauthorized, "POST /auth/refresh-token", "Token not found")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var token models.RefreshToken
		if err := db.Collection("refresh_tokens").FindOne(ctx, bson.M{
			"tokenHash": hashToken(plain),
		}).Decode(&token); err != nil {
			respondFail(c, http.StatusForbidden, "POST /auth/refresh-token", "Invalid token")
			return
		}

		if !token.IsActive(time.Now()) {
			respondFail(c, http.StatusForbidden, "POST /auth/refresh-token", "Invalid token")
			return
		}

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": token.UserID}).Decode(&user); err != nil {
			respondFail(c, http.StatusForbidden, "POST /auth/refresh-token", "Invalid token")
			return
		}

		// Rotation: the presented token becomes unusable even if replayed.
		pair, err := issueTokenPair(ctx, db, user.ID, jwtSecret, accessTTL, refreshTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] refresh token generation failed:", err)
			respondFail(c, http.StatusInternalServerError, "POST /auth/refresh-token", "token generation failed")
			return
		}

		now := time.Now()
		_, _ = db.Collection("refresh_tokens").UpdateByID(ctx, token.ID, bson.M{
			"$set": bson.M{
				"revoked":         now,
				"replacedByToken": hashToken(pair.RefreshToken),
			},
		})

		setRefreshCookie(c, pair.RefreshToken, refreshTTL)
		log.Println("[AUTH] [INFO] refresh token rotated for user:", user.ID.Hex())
		c.JSON(http.StatusOK, gin.H{
			"status":      "success",
			"accessToken": pair.AccessToken,
			"data":        gin.H{"user": user},
		})
	}
}

func Logout(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		plain, err := c.Cookie(refreshCookieName)
		if err == nil && strings.TrimSpace(plain) != "" {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
			defer cancel()

			// Revocation is idempotent and keeps the document for audit.
			_, _ = db.Collection("refresh_tokens").UpdateOne(ctx, bson.M{
				"tokenHash": hashToken(plain),
				"revoked":   bson.M{"$exists": false},
			}, bson.M{"$set": bson.M{"revoked": time.Now()}})
		}

		clearRefreshCookie(c)
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Logged out successfully"})
	}
}

func GetMe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondFail(c, http.StatusNotFound, "GET /auth/me", "User not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"user": user}})
	}
}

type tokenPair struct {
	AccessToken  string
	RefreshToken string
}

func signAccessToken(userID primitive.ObjectID, secret string, accessTTL time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":  userID.Hex(),
		"exp": time.Now().Add(accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func issueTokenPair(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, secret string, accessTTL, refreshTTL time.Duration) (*tokenPair, error) {
	accessToken, err := signAccessToken(userID, secret, accessTTL)
	if err != nil {
		return nil, err
	}

	plainRefresh := generateRefreshString()
	if plainRefresh == "" {
		return nil, errors.New("could not generate refresh token")
	}

	now := time.Now()
	refresh := models.RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(plainRefresh),
		ExpiresAt: now.Add(refreshTTL),
		CreatedAt: now,
	}

	if _, err := db.Collection("refresh_tokens").InsertOne(ctx, refresh); err != nil {
		return nil, err
	}

	return &tokenPair{
		AccessToken:  accessToken,
		RefreshToken: plainRefresh,
	}, nil
}

func sendTokenResponse(c *gin.Context, db *mongo.Database, user models.User, status int, secret string, accessTTL, refreshTTL time.Duration) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	pair, err := issueTokenPair(ctx, db, user.ID, secret, accessTTL, refreshTTL)
	if err != nil {
		log.Println("[AUTH] [ERROR] token generation failed:", err)
		respondFail(c, http.StatusInternalServerError, "AUTH", "token generation failed")
		return
	}

	setRefreshCookie(c, pair.RefreshToken, refreshTTL)
	c.JSON(status, gin.H{
		"status":      "success",
		"accessToken": pair.AccessToken,
		"data":        gin.H{"user": user},
	})
}

func setRefreshCookie(c *gin.Context, token string, refreshTTL time.Duration) {
	c.SetCookie(refreshCookieName, token, int(refreshTTL.Seconds()), "/", "", false, true)
}

func clearRefreshCookie(c *gin.Context) {
	c.SetCookie(refreshCookieName, "", -1, "/", "", false, true)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateRefreshString() string {
	buf := make([]byte, 40)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
