package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lamesa/reserva/internal/syncer"
)

// SyncHandler exposes the foreground-resume trigger of the synchronization
// layer.  UIs call it when a client tab regains focus so the local view is
// reconciled immediately instead of waiting for the next interval tick.
type SyncHandler struct {
	Sync *syncer.Synchronizer
}

// NewSyncHandler constructs a SyncHandler and panics if the synchronizer is
// nil.
func NewSyncHandler(s *syncer.Synchronizer) *SyncHandler {
	if s == nil {
		panic("nil synchronizer passed to NewSyncHandler")
	}
	return &SyncHandler{Sync: s}
}

// Refresh handles POST /v1/sync/refresh.  The refresh happens
// asynchronously; 202 acknowledges the request was queued.
func (h *SyncHandler) Refresh(c echo.Context) error {
	h.Sync.Resume()
	return c.JSON(http.StatusAccepted, echo.Map{"status": "refreshing"})
}
