package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pos-api/controllers"
	"pos-api/metrics"
	"pos-api/middlewares"
)

type Controllers struct {
	Health       *controllers.HealthController
	Products     *controllers.ProductController
	Purchases    *controllers.PurchaseController
	Transactions *controllers.TransactionController
}

// NewRouter builds the engine with the middleware chain and every route.
// A nil corsOrigins allows all origins.
func NewRouter(log zerolog.Logger, corsOrigins []string, h Controllers, m *metrics.ServerMetrics) *gin.Engine {
	r := gin.New()
	r.Use(
		middlewares.RequestID(log),
		middlewares.Logger(),
		middlewares.Recovery(),
		middlewares.CORS(corsOrigins),
		m.Middleware(),
	)
	RegisterRoutes(r, h, m)
	return r
}

func RegisterRoutes(r *gin.Engine, h Controllers, m *metrics.ServerMetrics) {
	r.GET("/", h.Health.Index)
	r.GET("/health", h.Health.Health)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	// Products
	products := r.Group("/products")
	{
		products.GET("", h.Products.GetProducts)
		products.POST("", h.Products.CreateProduct)
		products.GET("/search", h.Products.SearchProduct)
	}

	r.POST("/purchase", h.Purchases.CreatePurchase)

	// Transactions (read only)
	transactions := r.Group("/transactions")
	{
		transactions.GET("", h.Transactions.GetTransactions)
		transactions.GET("/:id", h.Transactions.GetTransactionByID)
	}
}
