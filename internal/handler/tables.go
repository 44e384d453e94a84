package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lamesa/reserva/internal/engine"
	"github.com/lamesa/reserva/internal/store"
)

// TableHandler serves the table-management side of the boundary: the zone
// registry, the catalog with derived statuses and availability queries.
type TableHandler struct {
	Service *engine.Service
}

// NewTableHandler constructs a TableHandler and panics if the service is nil.
func NewTableHandler(svc *engine.Service) *TableHandler {
	if svc == nil {
		panic("nil service passed to NewTableHandler")
	}
	return &TableHandler{Service: svc}
}

// ListZones handles GET /v1/zones.  It returns the configured seating zones
// for the booking wizard.
func (h *TableHandler) ListZones(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.Service.Zones()})
}

// ListTables handles GET /v1/tables.  It returns every catalog table with
// its derived status, recomputed from the reservation log on this read.
func (h *TableHandler) ListTables(c echo.Context) error {
	views, err := h.Service.TableViews(c.Request().Context())
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views})
}

// ListAvailable handles GET /v1/tables/available.  Query parameters: zone
// (required), party_size (required, positive), date and time (optional but
// only valid together).  The result is advisory; the commit inside
// POST /v1/reservations re-checks availability authoritatively.
func (h *TableHandler) ListAvailable(c echo.Context) error {
	zone := c.QueryParam("zone")
	if zone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "zone is required"})
	}
	partySize, err := strconv.ParseUint(c.QueryParam("party_size"), 10, 32)
	if err != nil || partySize == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid party_size"})
	}
	date, timeOfDay := c.QueryParam("date"), c.QueryParam("time")
	if (date == "") != (timeOfDay == "") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date and time must be supplied together"})
	}
	tables, err := h.Service.AvailableTables(c.Request().Context(), zone, uint32(partySize), date, timeOfDay)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": tables})
}

// CheckAvailability handles GET /v1/tables/:id/availability.  It reports
// whether booking the table at ?date=&time= would conflict with an existing
// reservation on that table.
func (h *TableHandler) CheckAvailability(c echo.Context) error {
	tableID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || tableID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	available, err := h.Service.CheckAvailability(c.Request().Context(), tableID, c.QueryParam("date"), c.QueryParam("time"))
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrInvalidReference):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		case errors.Is(err, engine.ErrInvalidDraft):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date or time"})
		default:
			return storeError(c, err)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"available": available})
}

// storeError translates persistence failures into a 503 so callers can
// distinguish "the system is broken" from any domain outcome.
func storeError(c echo.Context, err error) error {
	if errors.Is(err, store.ErrUnavailable) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
