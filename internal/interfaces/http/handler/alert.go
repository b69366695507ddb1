package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appinventory "github.com/retailpos/backend/internal/application/inventory"
)

// AlertHandler handles stock alert endpoints
type AlertHandler struct {
	BaseHandler
	alerts            *appinventory.AlertService
	defaultWindowDays int
}

// NewAlertHandler creates a new alert handler. defaultWindowDays is the
// expiring-batch lookahead used when the caller does not pass one.
func NewAlertHandler(alerts *appinventory.AlertService, defaultWindowDays int) *AlertHandler {
	return &AlertHandler{alerts: alerts, defaultWindowDays: defaultWindowDays}
}

// LowStock handles GET /alerts/low-stock. Products whose aggregate
// remaining stock is strictly below their configured minimum, ordered
// by product name.
func (h *AlertHandler) LowStock(c *gin.Context) {
	alerts, err := h.alerts.Evaluate(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, alerts)
}

// Expiring handles GET /alerts/expiring?within_days=N
func (h *AlertHandler) Expiring(c *gin.Context) {
	withinDays := h.defaultWindowDays
	if raw := c.Query("within_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.BadRequest(c, "within_days must be a non-negative integer")
			return
		}
		withinDays = parsed
	}

	batches, err := h.alerts.ListExpiringBatches(c.Request.Context(), withinDays)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, batches)
}
