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

func CreateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondFail(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondFail(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		items, err := buildOrderItems(req.Items)
		if err != nil {
			respondFail(c, http.StatusBadRequest, route, err.Error())
			return
		}

		order := models.Order{
			UserID:      userID,
			ProfileID:   normalizeProfileTag(req.ProfileID),
			Items:       items,
			TotalAmount: req.TotalAmount,
			Status:      models.StatusPending,
			Appointment: req.Appointment,
			CreatedAt:   time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			log.Println("[ORDER] [ERROR] insert order failed:", err)
			respondFail(c, http.StatusInternalServerError, route, "db error")
			return
		}
		order.ID, _ = res.InsertedID.(primitive.ObjectID)

		// Sequential follow-up write, not transactional: a crash here leaves
		// the order created with its cart lines still present.
		if err := clearCartItems(ctx, db, userID, req.Items, order.ProfileID); err != nil {
			log.Println("[ORDER] [ERROR] cart cleanup failed:", err)
		}

		log.Println("[ORDER] [INFO] order created for user:", userID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"status": "success",
			"data":   gin.H{"order": order},
		})
	}
}

// clearCartItems removes the ordered subset from the user's cart, matching
// by (productId, profileId) pair.
func clearCartItems(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, orderedItems []createOrderItemRequest, profileID string) error {
	var cart models.Cart
	err := db.Collection("carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return err
	}

	cart.Items = filterOrderedItems(cart.Items, orderedProductIDs(orderedItems), profileID)
	cart.UpdatedAt = time.Now()

	_, err = db.Collection("carts").UpdateByID(ctx, cart.ID, bson.M{
		"$set": bson.M{
			"items":     cart.Items,
			"updatedAt": cart.UpdatedAt,
		},
	})
	return err
}

func GetMyOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, bson.M{"userId": userID}, findOptions)
		if err != nil {
			log.Println("[ORDER] [ERROR] list orders failed:", err)
			respondFail(c, http.StatusInternalServerError, "GET /orders", "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			log.Println("[ORDER] [ERROR] decode orders failed:", err)
			respondFail(c, http.StatusInternalServerError, "GET /orders", "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"results": len(orders),
			"data":    gin.H{"orders": orders},
		})
	}
}

func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondFail(c, http.StatusBadRequest, "PATCH /admin/orders/:id/status", "invalid id")
			return
		}

		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !isValidOrderStatus(req.Status) {
			respondFail(c, http.StatusBadRequest, "PATCH /admin/orders/:id/status", "invalid status value")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("orders").UpdateByID(ctx, orderID, bson.M{
			"$set": bson.M{"status": req.Status},
		})
		if err != nil {
			log.Println("[ORDER] [ERROR] update status failed:", err)
			respondFail(c, http.StatusInternalServerError, "PATCH /admin/orders/:id/status", "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondFail(c, http.StatusNotFound, "PATCH /admin/orders/:id/status", "Order not found")
			return
		}

		log.Println("[ORDER] [INFO] order status updated:", orderID.Hex(), "->", req.Status)
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Order status updated"})
	}
}

func DeleteOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondFail(c, http.StatusBadRequest, "DELETE /admin/orders/:id", "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("orders").DeleteOne(ctx, bson.M{"_id": orderID})
		if err != nil {
			respondFail(c, http.StatusInternalServerError, "DELETE /admin/orders/:id", "db error")
			return
		}
		if result.DeletedCount == 0 {
			respondFail(c, http.StatusNotFound, "DELETE /admin/orders/:id", "Order not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Order deleted"})
	}
}
