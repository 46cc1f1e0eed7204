package main

import (
	"log"

	_ "netadmin/api/swagger" // swagger docs
	"netadmin/internal/config"
	"netadmin/internal/database"
	"netadmin/internal/handler"
	"netadmin/internal/repository"
	"netadmin/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Telecom Admin Dashboard API
// @version         1.0
// @description     Customer-management dashboard API: user and role administration, Alfamart/Lawson remote sites, FTTH subscribers.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg := config.Load()

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	if err := database.Seed(db, cfg); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	roleRepo := repository.NewRoleRepository(db)
	userRepo := repository.NewUserRepository(db)
	siteRepo := repository.NewRemoteSiteRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	roleService := service.NewRoleService(roleRepo, txManager)
	userService := service.NewUserService(userRepo, roleRepo)
	siteService := service.NewSiteService(siteRepo)
	customerService := service.NewCustomerService(customerRepo, siteRepo)
	dashboardService := service.NewDashboardService(db)

	roleHandler := handler.NewRoleHandler(roleService)
	userHandler := handler.NewUserHandler(userService)
	siteHandler := handler.NewSiteHandler(siteService)
	customerHandler := handler.NewCustomerHandler(customerService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// Register API Routes
	api := router.Group("/api")
	userHandler.RegisterRoutes(api)
	roleHandler.RegisterRoutes(api)
	siteHandler.RegisterRoutes(api)
	customerHandler.RegisterRoutes(api)
	dashboardHandler.RegisterRoutes(api)

	log.Printf("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
