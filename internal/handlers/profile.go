package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"tailorbook/internal/models"
)

type addProfileRequest struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Email        string `json:"email"`
	Location     string `json:"location"`
	Measurements string `json:"measurements"`
}

func GetProfiles(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			log.Println("[PROFILE] [ERROR] get profiles failed:", err)
			respondFail(c, http.StatusNotFound, "GET /user/profiles", "User not found")
			return
		}

		profiles := listProfiles(user)
		c.JSON(http.StatusOK, gin.H{
			"status":   "success",
			"results":  len(profiles),
			"profiles": profiles,
		})
	}
}

func AddProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var req addProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			log.Println("[PROFILE] [ERROR] user not found:", err)
			respondFail(c, http.StatusNotFound, "POST /user/profiles", "User not found")
			return
		}

		name := strings.TrimSpace(req.Name)
		if hasProfileNamed(user.Profiles, name) {
			respondFail(c, http.StatusBadRequest, "POST /user/profiles", "A profile with this name already exists.")
			return
		}

		profile := models.Profile{
			ID:           uuid.NewString(),
			Name:         name,
			Phone:        strings.TrimSpace(req.Phone),
			Email:        strings.TrimSpace(req.Email),
			Location:     strings.TrimSpace(req.Location),
			Measurements: strings.TrimSpace(req.Measurements),
		}

		user.Profiles = append(user.Profiles, profile)
		user.UpdatedAt = time.Now()

		if _, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"profiles":  user.Profiles,
				"updatedAt": user.UpdatedAt,
			},
		}); err != nil {
			log.Println("[PROFILE] [ERROR] add profile failed:", err)
			respondFail(c, http.StatusInternalServerError, "POST /user/profiles", "db error")
			return
		}

		log.Println("[PROFILE] [INFO] profile created:", profile.ID)
		c.JSON(http.StatusCreated, gin.H{
			"status":   "success",
			"profile":  profile,
			"profiles": listProfiles(user),
		})
	}
}

func UpdateProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		profileID := strings.TrimSpace(c.Param("id"))
		if profileID == "" {
			respondFail(c, http.StatusBadRequest, "PUT /user/profiles/:id", "invalid profile id")
			return
		}

		var req profileUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			respondFail(c, http.StatusBadRequest, "PUT /user/profiles/:id", "invalid body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			log.Println("[PROFILE] [ERROR] user not found:", err)
			respondFail(c, http.StatusNotFound, "PUT /user/profiles/:id", "User not found")
			return
		}

		// Updating "me" mutates the account's own fields, not an embedded
		// profile document.
		if profileID == models.SelfProfileID {
			set := bson.M{"updatedAt": time.Now()}
			if v := strings.TrimSpace(req.Name); v != "" {
				user.Name = v
				set["name"] = v
			}
			if v := strings.TrimSpace(req.Phone); v != "" {
				user.Phone = v
				set["phone"] = v
			}
			if v := strings.TrimSpace(req.Email); v != "" {
				user.Email = strings.ToLower(v)
				set["email"] = user.Email
			}
			if v := strings.TrimSpace(req.Location); v != "" {
				if len(user.Addresses) == 0 {
					user.Addresses = []models.Address{{City: v}}
				} else {
					user.Addresses[0].City = v
				}
				set["addresses"] = user.Addresses
			}

			if _, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{"$set": set}); err != nil {
				log.Println("[PROFILE] [ERROR] update self profile failed:", err)
				respondFail(c, http.StatusInternalServerError, "PUT /user/profiles/:id", "db error")
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"status":   "success",
				"profile":  selfProfile(user),
				"profiles": listProfiles(user),
			})
			return
		}

		index := findProfileIndex(user.Profiles, profileID)
		if index == -1 {
			respondFail(c, http.StatusNotFound, "PUT /user/profiles/:id", "Profile not found.")
			return
		}

		mergeProfile(&user.Profiles[index], req)
		user.UpdatedAt = time.Now()

		if _, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"profiles":  user.Profiles,
				"updatedAt": user.UpdatedAt,
			},
		}); err != nil {
			log.Println("[PROFILE] [ERROR] update profile failed:", err)
			respondFail(c, http.StatusInternalServerError, "PUT /user/profiles/:id", "db error")
			return
		}

		log.Println("[PROFILE] [INFO] profile updated:", profileID)
		c.JSON(http.StatusOK, gin.H{
			"status":   "success",
			"profile":  user.Profiles[index],
			"profiles": listProfiles(user),
		})
	}
}

func DeleteProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		// The synthesized "me" profile is never stored, so deleting it
		// resolves the same way as any unknown id.
		profileID := strings.TrimSpace(c.Param("id"))
		if profileID == "" || profileID == models.SelfProfileID {
			respondFail(c, http.StatusNotFound, "DELETE /user/profiles/:id", "Profile not found.")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			log.Println("[PROFILE] [ERROR] user not found:", err)
			respondFail(c, http.StatusNotFound, "DELETE /user/profiles/:id", "User not found")
			return
		}

		index := findProfileIndex(user.Profiles, profileID)
		if index == -1 {
			respondFail(c, http.StatusNotFound, "DELETE /user/profiles/:id", "Profile not found.")
			return
		}

		profileName := user.Profiles[index].Name

		// This permanently removes the order history tied to the profile.
		if _, err := db.Collection("orders").DeleteMany(ctx, profileCascadeFilter(userID, profileName, profileID)); err != nil {
			log.Println("[PROFILE] [ERROR] cascade order delete failed:", err)
			respondFail(c, http.StatusInternalServerError, "DELETE /user/profiles/:id", "db error")
			return
		}

		user.Profiles = append(user.Profiles[:index], user.Profiles[index+1:]...)
		user.UpdatedAt = time.Now()

		if _, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"profiles":  user.Profiles,
				"updatedAt": user.UpdatedAt,
			},
		}); err != nil {
			log.Println("[PROFILE] [ERROR] delete profile failed:", err)
			respondFail(c, http.StatusInternalServerError, "DELETE /user/profiles/:id", "db error")
			return
		}

		log.Println("[PROFILE] [INFO] profile deleted:", profileID)
		c.JSON(http.StatusOK, gin.H{
			"status":   "success",
			"profiles": listProfiles(user),
		})
	}
}
