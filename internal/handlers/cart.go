package handlers

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tailorbook/internal/models"
)

type addCartItemJSONRequest struct {
	Product       models.ProductSnapshot `json:"product" binding:"required"`
	WithFabric    interface{}            `json:"withFabric"`
	ProfileID     string                 `json:"profileId"`
	Quantity      int                    `json:"quantity"`
	Customization *models.Customization  `json:"customization"`
}

// loadOrCreateCart returns the user's cart, creating an empty one on first
// access. At most one cart exists per user (unique index on userId).
func loadOrCreateCart(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) (models.Cart, error) {
	var cart models.Cart
	err := db.Collection("carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == nil {
		return cart, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Cart{}, err
	}

	cart = models.Cart{
		UserID:    userID,
		Items:     []models.CartItem{},
		UpdatedAt: time.Now(),
	}

	res, err := db.Collection("carts").InsertOne(ctx, cart)
	if err != nil {
		// A concurrent first read may have created the cart already.
		if mongo.IsDuplicateKeyError(err) {
			err = db.Collection("carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
			return cart, err
		}
		return models.Cart{}, err
	}

	cart.ID, _ = res.InsertedID.(primitive.ObjectID)
	return cart, nil
}

func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadOrCreateCart(ctx, db, userID)
		if err != nil {
			log.Println("[CART] [ERROR] get cart failed:", err)
			respondFail(c, http.StatusInternalServerError, "GET /cart", "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "cart": cart})
	}
}

func AddToCart(db *mongo.Database, uploader ImageUploader, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		input, file, err := parseAddToCartRequest(c)
		if err != nil {
			respondFail(c, http.StatusBadRequest, route, err.Error())
			return
		}

		referenceImageURL := ""
		if file != nil {
			url, err := uploadImage(c.Request.Context(), uploader, file, uploadDir, "tailorbook/reference-images", "reference-images")
			if err != nil {
				respondFail(c, http.StatusBadRequest, route, err.Error())
				return
			}
			referenceImageURL = url
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadOrCreateCart(ctx, db, userID)
		if err != nil {
			log.Println("[CART] [ERROR] load cart failed:", err)
			respondFail(c, http.StatusInternalServerError, route, "db error")
			return
		}

		// Re-adding the same product+profile appends a second line on purpose.
		item := buildCartItem(input, referenceImageURL)
		cart.Items = append(cart.Items, item)
		cart.UpdatedAt = time.Now()

		if _, err := db.Collection("carts").UpdateByID(ctx, cart.ID, bson.M{
			"$set": bson.M{
				"items":     cart.Items,
				"updatedAt": cart.UpdatedAt,
			},
		}); err != nil {
			log.Println("[CART] [ERROR] add to cart failed:", err)
			respondFail(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[CART] [INFO] item added:", item.ID)
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Item added to cart",
			"cart":    cart,
		})
	}
}

func RemoveFromCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		itemID := strings.TrimSpace(c.Param("itemId"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var cart models.Cart
		err := db.Collection("carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusOK, gin.H{"status": "success", "cart": nil})
				return
			}
			log.Println("[CART] [ERROR] get cart failed:", err)
			respondFail(c, http.StatusInternalServerError, "DELETE /cart/:itemId", "db error")
			return
		}

		cart.Items = removeCartItem(cart.Items, itemID)
		cart.UpdatedAt = time.Now()

		if _, err := db.Collection("carts").UpdateByID(ctx, cart.ID, bson.M{
			"$set": bson.M{
				"items":     cart.Items,
				"updatedAt": cart.UpdatedAt,
			},
		}); err != nil {
			log.Println("[CART] [ERROR] remove from cart failed:", err)
			respondFail(c, http.StatusInternalServerError, "DELETE /cart/:itemId", "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "cart": cart})
	}
}

// parseAddToCartRequest accepts either a JSON body or multipart form data
// with an optional reference image file.
func parseAddToCartRequest(c *gin.Context) (cartItemInput, *multipart.FileHeader, error) {
	contentType := c.GetHeader("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return parseMultipartCartRequest(c)
	}

	var req addCartItemJSONRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return cartItemInput{}, nil, errInvalidCartBody
	}

	return cartItemInput{
		Product:       req.Product,
		WithFabric:    parseFabricFlag(req.WithFabric),
		ProfileID:     req.ProfileID,
		Quantity:      req.Quantity,
		Customization: req.Customization,
	}, nil, nil
}

func parseMultipartCartRequest(c *gin.Context) (cartItemInput, *multipart.FileHeader, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		return cartItemInput{}, nil, err
	}

	productRaw, ok := c.GetPostForm("product")
	if !ok || strings.TrimSpace(productRaw) == "" {
		return cartItemInput{}, nil, errProductRequired
	}

	product, err := parseProductSnapshot(productRaw)
	if err != nil {
		return cartItemInput{}, nil, errProductRequired
	}

	customization, err := parseCustomization(c.PostForm("customization"))
	if err != nil {
		return cartItemInput{}, nil, errInvalidCartBody
	}

	input := cartItemInput{
		Product:       product,
		WithFabric:    parseFabricFlag(c.PostForm("withFabric")),
		ProfileID:     c.PostForm("profileId"),
		Customization: customization,
	}

	if quantityRaw := strings.TrimSpace(c.PostForm("quantity")); quantityRaw != "" {
		if quantity, err := strconv.Atoi(quantityRaw); err == nil {
			input.Quantity = quantity
		}
	}

	file, err := c.FormFile("referenceImage")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !strings.Contains(err.Error(), "no such file") {
			return cartItemInput{}, nil, err
		}
		file = nil
	}

	return input, file, nil
}

var (
	errInvalidCartBody = errors.New("invalid body")
	errProductRequired = errors.New("product is required")
)
