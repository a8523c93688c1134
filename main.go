package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"tailorbook/internal/config"
	"tailorbook/internal/database"
	"tailorbook/internal/handlers"
	"tailorbook/internal/middleware"
	"tailorbook/pkg/cloudinary"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("⚠️ user index warning: %v", err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Printf("⚠️ cart index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("⚠️ order index warning: %v", err)
	}
	if err := database.EnsureRefreshTokenIndexes(db, config.AppEnv.RefreshTokenTTL); err != nil {
		log.Printf("⚠️ refresh token index warning: %v", err)
	}

	var uploader handlers.ImageUploader
	if config.AppEnv.CloudinaryURL != "" {
		cloud, err := cloudinary.New(config.AppEnv.CloudinaryURL)
		if err != nil {
			log.Printf("⚠️ cloudinary disabled: %v", err)
		} else {
			uploader = cloudinary.NewUploader(cloud)
			log.Println("Cloudinary uploader configured")
		}
	}

	uploadDir := config.AppEnv.UploadDir
	jwtSecret := config.AppEnv.JWTSecret
	accessTTL := config.AppEnv.AccessTokenTTL
	refreshTTL := config.AppEnv.RefreshTokenTTL

	r := gin.Default()
	r.Static("/uploads", uploadDir)

	auth := r.Group("/auth")
	{
		auth.POST("/signup", handlers.Signup(db, jwtSecret, accessTTL, refreshTTL))
		auth.POST("/login", handlers.Login(db, jwtSecret, accessTTL, refreshTTL))
		auth.POST("/refresh-token", handlers.Refresh(db, jwtSecret, accessTTL, refreshTTL))
		auth.POST("/logout", handlers.Logout(db))
		auth.GET("/me", middleware.UserAuth(db, jwtSecret), handlers.GetMe(db))
	}

	r.GET("/products", handlers.GetProducts(db))
	r.GET("/products/:id", handlers.GetProduct(db))

	user := r.Group("/user")
	user.Use(middleware.UserAuth(db, jwtSecret))
	{
		user.GET("/profiles", handlers.GetProfiles(db))
		user.POST("/profiles", handlers.AddProfile(db))
		user.PUT("/profiles/:id", handlers.UpdateProfile(db))
		user.DELETE("/profiles/:id", handlers.DeleteProfile(db))
	}

	cart := r.Group("/cart")
	cart.Use(middleware.UserAuth(db, jwtSecret))
	{
		cart.GET("", handlers.GetCart(db))
		cart.POST("", handlers.AddToCart(db, uploader, uploadDir))
		cart.DELETE("/:itemId", handlers.RemoveFromCart(db))
	}

	orders := r.Group("/orders")
	orders.Use(middleware.UserAuth(db, jwtSecret))
	{
		orders.POST("", handlers.CreateOrder(db))
		orders.GET("", handlers.GetMyOrders(db))
	}

	products := r.Group("/products")
	products.Use(middleware.UserAuth(db, jwtSecret), middleware.AdminOnly())
	{
		products.POST("", handlers.CreateProduct(db, uploader, uploadDir))
		products.PUT("/:id", handlers.UpdateProduct(db, uploader, uploadDir))
		products.DELETE("/:id", handlers.DeleteProduct(db, uploadDir))
	}

	admin := r.Group("/admin")
	admin.Use(middleware.UserAuth(db, jwtSecret), middleware.AdminOnly())
	{
		admin.GET("/stats", handlers.DashboardStats(db))
		admin.GET("/orders", handlers.GetAllOrders(db))
		admin.PATCH("/orders/:id/status", handlers.UpdateOrderStatus(db))
		admin.DELETE("/orders/:id", handlers.DeleteOrder(db))
		admin.GET("/users", handlers.GetAllUsers(db))
		admin.GET("/users/:id", handlers.GetUserDetails(db))
		admin.DELETE("/users/:id", handlers.DeleteUser(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
