package router

import (
	"github.com/gin-gonic/gin"

	"autostock/internal/handler"
	"autostock/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	scanH *handler.ScanHandler,
	productH *handler.ProductHandler,
	billH *handler.BillHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Invoice scan pipeline
	scan := v1.Group("/scan")
	scan.POST("", scanH.Preview)
	scan.POST("/commit", scanH.Commit)

	// Catalog reads
	products := v1.Group("/products")
	products.GET("", productH.List)
	products.GET("/:id", productH.Get)

	// Vendors and the bill register
	v1.GET("/vendors", billH.ListVendors)
	bills := v1.Group("/bills")
	bills.GET("", billH.ListBills)
	bills.GET("/export", billH.Export)
	bills.GET("/:id", billH.GetBill)

	return r
}
