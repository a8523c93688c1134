package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tailorbook/internal/models"
)

// recentOrdersLimit bounds the dashboard's recent-order listing.
const recentOrdersLimit = 10

// adminOrderView is an order row with the owning account joined in.
type adminOrderView struct {
	models.Order `bson:",inline"`
	User         adminOrderUser `bson:"user" json:"user"`
}

type adminOrderUser struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// orderUserLookup joins the owning user's contact fields onto each order.
func orderUserLookup() []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "user",
		}},
		{"$unwind": bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}},
		{"$addFields": bson.M{"user": bson.M{
			"name":  "$user.name",
			"email": "$user.email",
			"phone": "$user.phone",
		}}},
	}
}

func DashboardStats(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/stats"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		totalUsers, err := db.Collection("users").CountDocuments(ctx, bson.M{"role": models.RoleUser})
		if err != nil {
			respondFail(c, http.StatusInternalServerError, route, "db error")
			return
		}

		totalOrders, err := db.Collection("orders").CountDocuments(ctx, bson.M{})
		if err != nil {
			respondFail(c, http.StatusInternalServerError, route, "db error")
			return
		}

		totalProducts, err := db.Collection("products").CountDocuments(ctx, bson.M{})
		if err != nil {
			respondFail(c, http.StatusInternalServerError, route, "db error")
			return
		}

		// Revenue sums every order regardless of status, Cancelled included.
		revenueCursor, err := db.Collection("orders").Aggregate(ctx, []bson.M{
			{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$totalAmount"}}},
		})
		if err != nil {
			respondFail(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer revenueCursor.Close(ctx)

		totalRevenue := 0.0
		var revenueRow struct {
			Total float64 `bson:"total"`
		}
		if revenueCursor.Next(ctx) {
			if err := revenueCursor.Decode(&revenueRow); err == nil {
				totalRevenue = revenueRow.Total
			}
		}

		pipeline := []bson.M{
			{"$sort": bson.M{"createdAt": -1}},
			{"$limit": recentOrdersLimit},
		}
		pipeline = append(pipeline, orderUserLookup()...)

		recentCursor, err := db.Collection("orders").Aggregate(ctx, pipeline)
		if err != nil {
			respondFail(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer recentCursor.Close(ctx)

		recentOrders := make([]adminOrderView, 0, recentOrdersLimit)
		if err := recentCursor.All(ctx, &recentOrders); err != nil {
			respondFail(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data": gin.H{
				"stats": gin.H{
					"totalUsers":    totalUsers,
					"totalOrders":   totalOrders,
					"totalProducts": totalProducts,
					"totalRevenue":  totalRevenue,
				},
				"recentOrders": recentOrders,
			},
		})
	}
}

func GetAllOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/orders"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		pipeline := []bson.M{
			{"$sort": bson.M{"createdAt": -1}},
		}
		pipeline = append(pipeline, orderUserLookup()...)

		cursor, err := db.Collection("orders").Aggregate(ctx, pipeline)
		if err != nil {
			log.Println("[ADMIN] [ERROR] list orders failed:", err)
			respondFail(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]adminOrderView, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondFail(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"results": len(orders),
			"data":    gin.H{"orders": orders},
		})
	}
}

func GetAllUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/users"

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("users").Find(ctx, bson.M{"role": models.RoleUser}, findOptions)
		if err != nil {
			respondFail(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		users := make([]models.User, 0)
		if err := cursor.All(ctx, &users); err != nil {
			respondFail(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"results": len(users),
			"data":    gin.H{"users": users},
		})
	}
}

func GetUserDetails(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/users/:id"

		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondFail(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondFail(c, http.StatusNotFound, route, "User not found")
			return
		}

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, bson.M{"userId": userID}, findOptions)
		if err != nil {
			respondFail(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondFail(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data":   gin.H{"user": user, "orders": orders},
		})
	}
}

func DeleteUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/users/:id"

		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondFail(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").DeleteOne(ctx, bson.M{"_id": userID})
		if err != nil {
			respondFail(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondFail(c, http.StatusNotFound, route, "User not found")
			return
		}

		if _, err := db.Collection("orders").DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
			log.Println("[ADMIN] [ERROR] cascade order delete failed:", err)
		}
		if _, err := db.Collection("carts").DeleteOne(ctx, bson.M{"userId": userID}); err != nil {
			log.Println("[ADMIN] [ERROR] cascade cart delete failed:", err)
		}
		if _, err := db.Collection("refresh_tokens").DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
			log.Println("[ADMIN] [ERROR] cascade token delete failed:", err)
		}

		log.Println("[ADMIN] [INFO] user deleted:", userID.Hex())
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "User deleted"})
	}
}
