package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lamesa/reserva/internal/engine"
	"github.com/lamesa/reserva/internal/model"
)

// ReservationHandler serves the booking-wizard side of the boundary:
// creating, listing and cancelling reservations.  Every domain error is
// returned as a structured outcome with enough detail for the UI to render
// a specific message.
type ReservationHandler struct {
	Service *engine.Service
}

// NewReservationHandler constructs a ReservationHandler and panics if the
// service is nil.
func NewReservationHandler(svc *engine.Service) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Service: svc}
}

// createRequest is the wire form of a reservation draft.  The flat
// adults/children/infants fields mirror the wizard's person selector.
type createRequest struct {
	TableID         uint64 `json:"table_id"`
	Table           string `json:"table"` // wizard label like "T1"
	Date            string `json:"date"`
	Time            string `json:"time"`
	Adults          uint32 `json:"adults"`
	Children        uint32 `json:"children"`
	Infants         uint32 `json:"infants"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	Zone            string `json:"zone"`
	ConsumptionType string `json:"consumption_type"`
	SpecialRequests string `json:"special_requests"`
}

// Create handles POST /v1/reservations.  Outcomes:
//
//	201 – reservation committed, body carries the stored record
//	400 – malformed draft or party larger than the table's capacity
//	404 – table id or wizard label resolves to no known table
//	409 – slot overlaps an existing booking within the separation window
//	503 – the shared store is unreachable
func (h *ReservationHandler) Create(c echo.Context) error {
	var body createRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	draft := engine.Draft{
		TableID:    body.TableID,
		TableLabel: body.Table,
		Date:       body.Date,
		Time:       body.Time,
		Party:      model.PartySize{Adults: body.Adults, Children: body.Children, Infants: body.Infants},
		Customer: model.Customer{
			Name:  body.CustomerName,
			Email: body.CustomerEmail,
			Phone: body.CustomerPhone,
		},
		Zone:            body.Zone,
		ConsumptionType: body.ConsumptionType,
		SpecialRequests: body.SpecialRequests,
	}
	res, err := h.Service.Create(c.Request().Context(), draft)
	if err != nil {
		var capErr *engine.CapacityError
		var confErr *engine.ConflictError
		var refErr *engine.InvalidReferenceError
		switch {
		case errors.As(err, &capErr):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":      "party exceeds table capacity",
				"table":      capErr.TableNumber,
				"capacity":   capErr.Capacity,
				"party_size": capErr.PartySize,
			})
		case errors.As(err, &confErr):
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "table already booked for this time",
				"table": confErr.TableNumber,
				"date":  confErr.Date,
				"time":  confErr.Time,
			})
		case errors.As(err, &refErr):
			return c.JSON(http.StatusNotFound, echo.Map{
				"error":     "table not found",
				"reference": refErr.Ref,
			})
		case errors.Is(err, engine.ErrInvalidDraft):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		default:
			return storeError(c, err)
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": res})
}

// List handles GET /v1/reservations.  An optional ?date=YYYY-MM-DD narrows
// the listing to one calendar day; results come back newest first.
func (h *ReservationHandler) List(c echo.Context) error {
	items, err := h.Service.Reservations(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Service.Reservation(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// Delete handles DELETE /v1/reservations/:id.  Cancelling an id that no
// longer exists (already cancelled by another client) returns 404; callers
// treat that as an already-done no-op, not a hard failure.
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Service.Remove(c.Request().Context(), id); err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
