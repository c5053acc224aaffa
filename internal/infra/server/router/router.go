// Package router sets up the HTTP routing for the application.
package router

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/boi-gordo/backend/internal/integration/entrypoint/controller"
	"github.com/boi-gordo/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                   *gin.Engine
	healthController         *controller.HealthController
	ledgerController         *controller.LedgerController
	reconciliationController *controller.ReconciliationController
	allocationController     *controller.AllocationController
	lotController            *controller.LotController
	reportController         *controller.ReportController
	reconcileRateLimiter     *middleware.RateLimiter
	allowedOrigins           []string
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	ledgerController *controller.LedgerController,
	reconciliationController *controller.ReconciliationController,
	allocationController *controller.AllocationController,
	lotController *controller.LotController,
	reportController *controller.ReportController,
	reconcileRateLimiter *middleware.RateLimiter,
	allowedOrigins []string,
) *Router {
	return &Router{
		healthController:         healthController,
		ledgerController:         ledgerController,
		reconciliationController: reconciliationController,
		allocationController:     allocationController,
		lotController:            lotController,
		reportController:         reportController,
		reconcileRateLimiter:     reconcileRateLimiter,
		allowedOrigins:           allowedOrigins,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.Default()
	if len(r.allowedOrigins) > 0 {
		r.engine.Use(cors.New(corsConfig(r.allowedOrigins)))
	}

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	v1.GET("/health", r.healthController.Check)

	if r.ledgerController != nil {
		ledger := v1.Group("/ledger")
		{
			ledger.POST("/ingest", r.ledgerController.Ingest)
			ledger.GET("/transactions", r.ledgerController.ListTransactions)
		}
		v1.POST("/expenses", r.ledgerController.CreateExpense)
		v1.POST("/revenues", r.ledgerController.CreateRevenue)
		v1.POST("/contributions", r.ledgerController.CreateContribution)
	}

	if r.reconciliationController != nil {
		periods := v1.Group("/reconciliation/periods")
		{
			periods.GET("", r.reconciliationController.ListByYear)
			periods.GET("/:month", r.reconciliationController.Get)
			if r.reconcileRateLimiter != nil {
				periods.POST("/:month", r.reconcileRateLimiter.Middleware(), r.reconciliationController.Reconcile)
			} else {
				periods.POST("/:month", r.reconciliationController.Reconcile)
			}
		}
	}

	if r.allocationController != nil {
		daily := v1.Group("/allocation/daily")
		{
			daily.POST("", r.allocationController.AllocateDaily)
			daily.GET("", r.allocationController.GetDaily)
		}
		v1.PUT("/allocation/feed-prices", r.allocationController.SetFeedPrice)
		allocations := v1.Group("/allocations")
		{
			allocations.POST("/:id/remove", r.allocationController.Remove)
			allocations.POST("/:id/transfer", r.allocationController.Transfer)
		}
		v1.POST("/lots/:id/allocations", r.allocationController.Place)
	}

	if r.lotController != nil {
		lots := v1.Group("/lots")
		{
			lots.POST("", r.lotController.CreateLot)
			lots.POST("/:id/status", r.lotController.ChangeStatus)
			lots.POST("/:id/mortality", r.lotController.RecordMortality)
			lots.POST("/:id/sales", r.lotController.RecordSale)
			lots.POST("/:id/weighings", r.lotController.RecordWeighing)
			lots.POST("/:id/health-interventions", r.lotController.CreateHealthIntervention)
		}
		v1.POST("/pens", r.lotController.CreatePen)
		v1.POST("/pens/:id/status", r.lotController.SetPenStatus)
	}

	if r.reportController != nil {
		reports := v1.Group("/reports")
		{
			reports.GET("/cash-flow", r.reportController.CashFlow)
			reports.GET("/lot-profitability", r.reportController.LotProfitability)
			reports.GET("/pen-occupancy", r.reportController.PenOccupancy)
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
