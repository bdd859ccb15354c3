// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"lockerbox/internal/delivery/http/middleware"
	"lockerbox/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	ParcelHandler  *handler.ParcelHandler
	AdminHandler   *handler.AdminHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	parcelHandler  *handler.ParcelHandler
	adminHandler   *handler.AdminHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		parcelHandler:  params.ParcelHandler,
		adminHandler:   params.AdminHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Kiosk-facing routes, no authentication
	e.POST("/deposit", r.parcelHandler.Deposit)
	e.POST("/pickup", r.parcelHandler.Pickup)

	// Self-service parcel routes
	apiGroup := e.Group("/api/v1")
	{
		apiGroup.POST("/deposit/:parcel_id/retract", r.parcelHandler.Retract)
		apiGroup.POST("/pickup/:parcel_id/dispute", r.parcelHandler.DisputePickup)
		apiGroup.POST("/parcel/:parcel_id/report-missing", r.parcelHandler.ReportMissing)
		apiGroup.POST("/parcel/:parcel_id/reissue-pin", r.parcelHandler.ReissuePin)
		apiGroup.GET("/parcel/:parcel_id/qr", r.parcelHandler.PickupQR)
	}

	// Admin routes
	adminGroup := e.Group("/admin")
	adminGroup.POST("/login", r.adminHandler.Login)

	protected := adminGroup.Group("")
	protected.Use(r.authMiddleware.Authenticate)         // First, check if logged in
	protected.Use(r.authMiddleware.RequireRole("admin")) // Then, check for the role
	{
		protected.GET("/lockers", r.adminHandler.ListLockers)
		protected.POST("/lockers/:locker_id/status", r.adminHandler.SetLockerStatus)
		protected.POST("/parcels/:parcel_id/report-missing", r.parcelHandler.ReportMissing)
		protected.GET("/audit-logs", r.adminHandler.ListAuditLogs)
	}
}
