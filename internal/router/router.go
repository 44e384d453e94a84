package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/lamesa/reserva/internal/handler"
)

// RegisterRoutes wires every endpoint of the engine's HTTP boundary onto the
// provided Echo instance.  The API is unauthenticated by design: the engine
// serves a small set of cooperating clients inside the restaurant.
func RegisterRoutes(e *echo.Echo, th *handler.TableHandler, rh *handler.ReservationHandler, sh *handler.SyncHandler) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Table-management boundary: catalog, derived statuses, availability.
	e.GET("/v1/zones", th.ListZones)
	e.GET("/v1/tables", th.ListTables)
	e.GET("/v1/tables/available", th.ListAvailable)
	e.GET("/v1/tables/:id/availability", th.CheckAvailability)

	// Booking-wizard boundary: create, inspect and cancel reservations.
	e.POST("/v1/reservations", rh.Create)
	e.GET("/v1/reservations", rh.List)
	e.GET("/v1/reservations/:id", rh.Get)
	e.DELETE("/v1/reservations/:id", rh.Delete)

	// Synchronization boundary: clients signal regained foreground focus.
	e.POST("/v1/sync/refresh", sh.Refresh)
}
