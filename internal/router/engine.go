package router

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/supplyhub/storefront-api/internal/checkout"
	"github.com/supplyhub/storefront-api/internal/events"
	"github.com/supplyhub/storefront-api/pkg/config"
	"github.com/supplyhub/storefront-api/pkg/email"
	"github.com/supplyhub/storefront-api/pkg/mongo"
)

var Router *gin.Engine

// Shared handler dependencies, wired once at startup.
var (
	cfg             *config.Config
	logger          *zap.Logger
	orderStore      *mongo.OrderStore
	checkoutService *checkout.Service
	producer        *events.Producer
	mailer          email.Mailer
	jwtSecret       []byte
)

func InitEngine(c *config.Config, log *zap.Logger, svc *checkout.Service, orders *mongo.OrderStore, prod *events.Producer, m email.Mailer) {
	cfg = c
	logger = log
	checkoutService = svc
	orderStore = orders
	producer = prod
	mailer = m
	jwtSecret = []byte(c.JWTSecret)

	if c.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	Router = gin.Default()

	Router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(c.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

func InitializeRoutes() {
	api := Router.Group("/api")
	{
		api.GET("/health", HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", Register)
			auth.POST("/login", Login)
			auth.POST("/forgot-password", ForgotPassword)
			auth.POST("/reset-password", ResetPassword)
			auth.POST("/change-password", AuthRequired(), ChangePassword)
		}

		setup := api.Group("/setup-admin")
		{
			setup.GET("/check", CheckAdminSetup)
			setup.POST("", SetupAdmin)
		}

		products := api.Group("/products")
		{
			products.GET("", GetProducts)
			products.GET("/:id", GetProductByID)
			products.POST("", AuthRequired(), RequireRole("admin"), CreateProduct)
			products.PUT("/:id", AuthRequired(), RequireRole("admin"), UpdateProduct)
			products.DELETE("/:id", AuthRequired(), RequireRole("admin"), DeleteProduct)
		}

		cart := api.Group("/cart")
		{
			cart.POST("", CreateCartSession)
			cart.GET("/:sessionId", GetCart)
			cart.POST("/:sessionId/items", AddToCart)
			cart.PUT("/:sessionId/items/:id", UpdateCartItem)
			cart.DELETE("/:sessionId/items/:id", RemoveFromCart)
			cart.DELETE("/:sessionId/clear", ClearCart)
		}

		orders := api.Group("/orders")
		orders.Use(AuthRequired())
		{
			orders.GET("", GetMyOrders)
			orders.POST("", CreateOrder)
			orders.GET("/:id", GetOrderByID)
		}

		checkoutGroup := api.Group("/checkout")
		checkoutGroup.Use(AuthRequired())
		{
			checkoutGroup.POST("", Checkout)
			checkoutGroup.GET("", GetCheckoutStatus)
		}

		admin := api.Group("/admin")
		admin.Use(AuthRequired(), RequireRole("admin"))
		{
			admin.GET("/orders", AdminListOrders)
			admin.PATCH("/orders", AdminUpdateOrderStatus)

			admin.GET("/users", AdminListUsers)
			admin.PUT("/users", AdminUpdateUserRole)
			admin.DELETE("/users", AdminDeleteUser)

			admin.GET("/analytics/sales", GetSalesAnalytics)
			admin.GET("/analytics/ai-report", GenerateAISalesReport)
		}
	}
}
