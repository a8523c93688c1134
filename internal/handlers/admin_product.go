package handlers

import (
	"context"
	"errors"
	"log"
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

type multipartProductInput struct {
	Name           string
	NameSet        bool
	Description    string
	DescriptionSet bool
	Category       string
	CategorySet    bool
	Gender         string
	GenderSet      bool
	BasePrice      float64
	BasePriceSet   bool
	FabricPrice    float64
	FabricPriceSet bool
	ImagePath      string
	ImageSet       bool
}

func parseMultipartProductRequest(c *gin.Context, uploader ImageUploader, uploadDir string) (multipartProductInput, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		log.Println("[PRODUCT] [ERROR] multipart parse failed:", err)
		return multipartProductInput{}, err
	}

	input := multipartProductInput{}

	if value, ok := c.GetPostForm("name"); ok {
		input.Name = strings.TrimSpace(value)
		input.NameSet = true
	}

	if value, ok := c.GetPostForm("description"); ok {
		input.Description = strings.TrimSpace(value)
		input.DescriptionSet = true
	}

	if value, ok := c.GetPostForm("category"); ok {
		input.Category = strings.TrimSpace(value)
		input.CategorySet = true
	}

	if value, ok := c.GetPostForm("gender"); ok {
		input.Gender = strings.TrimSpace(value)
		input.GenderSet = true
	}

	if value, ok := c.GetPostForm("basePrice"); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return multipartProductInput{}, err
		}
		input.BasePrice = parsed
		input.BasePriceSet = true
	}

	if value, ok := c.GetPostForm("fabricPrice"); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return multipartProductInput{}, err
		}
		input.FabricPrice = parsed
		input.FabricPriceSet = true
	}

	file, err := c.FormFile("image")
	if err == nil {
		imagePath, err := uploadImage(c.Request.Context(), uploader, file, uploadDir, "tailorbook/products", "products")
		if err != nil {
			return multipartProductInput{}, err
		}
		input.ImagePath = imagePath
		input.ImageSet = true
	} else if !errors.Is(err, http.ErrMissingFile) && !strings.Contains(err.Error(), "no such file") {
		return multipartProductInput{}, err
	}

	return input, nil
}

func isValidCategory(category string) bool {
	for _, c := range models.ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}

func CreateProduct(db *mongo.Database, uploader ImageUploader, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products"
		defer handlePanic(c, route)

		input, err := parseMultipartProductRequest(c, uploader, uploadDir)
		if err != nil {
			respondFail(c, http.StatusBadRequest, route, err.Error())
			return
		}

		if !input.NameSet || input.Name == "" {
			respondFail(c, http.StatusBadRequest, route, "A product must have a name")
			return
		}
		if !input.CategorySet || !isValidCategory(input.Category) {
			respondFail(c, http.StatusBadRequest, route, "A product must have a valid category")
			return
		}
		if !input.BasePriceSet {
			respondFail(c, http.StatusBadRequest, route, "A product must have a stitching price")
			return
		}

		gender := input.Gender
		if gender == "" {
			gender = "Male"
		}

		image := input.ImagePath
		if image == "" {
			image = "default-product.jpg"
		}

		product := models.Product{
			Name:        input.Name,
			Description: input.Description,
			Category:    input.Category,
			Gender:      gender,
			BasePrice:   input.BasePrice,
			FabricPrice: input.FabricPrice,
			Image:       image,
			CreatedAt:   time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			log.Println("[PRODUCT] [ERROR] insert product failed:", err)
			respondFail(c, http.StatusInternalServerError, route, "db error")
			return
		}
		product.ID, _ = res.InsertedID.(primitive.ObjectID)

		log.Println("[PRODUCT] [INFO] product created:", product.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{"status": "success", "data": gin.H{"product": product}})
	}
}

func UpdateProduct(db *mongo.Database, uploader ImageUploader, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondFail(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		input, err := parseMultipartProductRequest(c, uploader, uploadDir)
		if err != nil {
			respondFail(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			respondFail(c, http.StatusNotFound, route, "Product not found")
			return
		}

		set := bson.M{}
		if input.NameSet && input.Name != "" {
			set["name"] = input.Name
		}
		if input.DescriptionSet {
			set["description"] = input.Description
		}
		if input.CategorySet {
			if !isValidCategory(input.Category) {
				respondFail(c, http.StatusBadRequest, route, "invalid category")
				return
			}
			set["category"] = input.Category
		}
		if input.GenderSet && input.Gender != "" {
			set["gender"] = input.Gender
		}
		if input.BasePriceSet {
			set["basePrice"] = input.BasePrice
		}
		if input.FabricPriceSet {
			set["fabricPrice"] = input.FabricPrice
		}
		if input.ImageSet {
			set["image"] = input.ImagePath
			if err := safeDeleteUpload(uploadDir, product.Image); err != nil {
				log.Println("[PRODUCT] [ERROR] old image cleanup failed:", err)
			}
		}

		if len(set) == 0 {
			c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"product": product}})
			return
		}

		if _, err := db.Collection("products").UpdateByID(ctx, productID, bson.M{"$set": set}); err != nil {
			log.Println("[PRODUCT] [ERROR] update product failed:", err)
			respondFail(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			respondFail(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[PRODUCT] [INFO] product updated:", productID.Hex())
		c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"product": product}})
	}
}

func DeleteProduct(db *mongo.Database, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondFail(c, http.StatusBadRequest, "DELETE /products/:id", "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		if err := db.Collection("products").FindOneAndDelete(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			if err == mongo.ErrNoDocuments {
				respondFail(c, http.StatusNotFound, "DELETE /products/:id", "Product not found")
				return
			}
			respondFail(c, http.StatusInternalServerError, "DELETE /products/:id", "db error")
			return
		}

		if product.Image != "" && product.Image != "default-product.jpg" {
			if err := safeDeleteUpload(uploadDir, product.Image); err != nil {
				log.Println("[PRODUCT] [ERROR] image cleanup failed:", err)
			}
		}

		log.Println("[PRODUCT] [INFO] product deleted:", productID.Hex())
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Product deleted"})
	}
}
