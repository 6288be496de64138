package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	cataloghandler "printease-system/internal/catalog/handler"
	"printease-system/internal/files"
	leadshandler "printease-system/internal/leads/handler"
	"printease-system/internal/middleware"
	ordershandler "printease-system/internal/orders/handler"
	"printease-system/internal/payments"
	settingshandler "printease-system/internal/settings/handler"
	usershandler "printease-system/internal/users/handler"
	"printease-system/internal/wizard"
	wizardhandler "printease-system/internal/wizard/handler"
)

const adminAccessLevel = 50

func registerRoutes(
	router *gin.Engine,
	db *gorm.DB,
	redisClient *redis.Client,
	store *wizard.Store,
	gateway payments.Gateway,
	inspector files.PageCounter,
) {
	router.Use(middleware.CORS())
	router.Use(middleware.RateLimit("300-M"))

	catalog := cataloghandler.NewCatalogHandler(db, redisClient)
	orders := ordershandler.NewOrdersHandler(db, redisClient, gateway)
	leads := leadshandler.NewLeadsHandler(db)
	feeTiers := settingshandler.NewSettingsHandler(db)
	users := usershandler.NewUsersHandler(db)
	wiz := wizardhandler.NewWizardHandler(db, store, inspector)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public storefront.
	v1.GET("/services", catalog.ListServices)
	v1.GET("/services/:id", catalog.GetService)
	v1.GET("/services/:id/binding-options", catalog.GetBindingOptions)
	v1.POST("/services/:id/quote", catalog.Quote)
	v1.POST("/quotation-requests", leads.CreateLead)

	// Checkout wizard. Sessions are anonymous; the order ties to a user only
	// if a token is presented at submission.
	wizardRoutes := v1.Group("/wizard/sessions")
	{
		wizardRoutes.POST("", wiz.CreateSession)
		wizardRoutes.GET("/:id", wiz.GetSession)
		wizardRoutes.DELETE("/:id", wiz.DeleteSession)
		wizardRoutes.POST("/:id/items", wiz.AddItem)
		wizardRoutes.PUT("/:id/items/:itemID", wiz.ConfigureItem)
		wizardRoutes.DELETE("/:id/items/:itemID", wiz.RemoveItem)
		wizardRoutes.POST("/:id/advance", wiz.Advance)
		wizardRoutes.POST("/:id/back", wiz.Back)
		wizardRoutes.GET("/:id/summary", wiz.Summary)
	}

	v1.POST("/orders", orders.CreateOrder)
	v1.GET("/orders/:id", orders.GetOrder)
	v1.POST("/orders/:id/payment", orders.CreatePayment)
	v1.POST("/orders/:id/payment/verify", orders.VerifyPayment)

	v1.POST("/auth/register", users.Register)
	v1.POST("/auth/login", users.Login)

	// Authenticated customer routes.
	authed := v1.Group("")
	authed.Use(middleware.JWTAuth())
	{
		authed.GET("/auth/profile", users.Profile)
		authed.GET("/my/orders", orders.ListMyOrders)
		authed.POST("/my/orders/:id/cancel", orders.CancelOrder)
	}

	// Admin console.
	admin := v1.Group("/admin")
	admin.Use(middleware.JWTAuth(), middleware.RequireAccessLevel(adminAccessLevel))
	{
		admin.POST("/services", catalog.CreateService)
		admin.PUT("/services/:id", catalog.UpdateService)
		admin.DELETE("/services/:id", catalog.DeleteService)

		admin.GET("/orders", orders.ListOrders)
		admin.PUT("/orders/:id/status", orders.UpdateOrderStatus)

		admin.GET("/leads", leads.ListLeads)
		admin.PUT("/leads/:id/status", leads.UpdateLeadStatus)

		admin.GET("/fee-tiers", feeTiers.ListFeeTiers)
		admin.POST("/fee-tiers", feeTiers.CreateFeeTier)
		admin.PUT("/fee-tiers/:id", feeTiers.UpdateFeeTier)
		admin.DELETE("/fee-tiers/:id", feeTiers.DeleteFeeTier)
	}
}
