package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/warely/stockcast/internal/config"
	"github.com/warely/stockcast/internal/domain"
	"github.com/warely/stockcast/internal/service"
)

type ForecastHandler struct {
	service  *service.ForecastService
	defaults config.ForecastConfig
}

func NewForecastHandler(service *service.ForecastService, defaults config.ForecastConfig) *ForecastHandler {
	return &ForecastHandler{service: service, defaults: defaults}
}

// parseFilter reads the forecast query parameters, falling back to the
// configured defaults. warehouse_id is required on every route.
func (h *ForecastHandler) parseFilter(c *gin.Context) (domain.ForecastFilter, bool) {
	filter := domain.ForecastFilter{
		WindowDays:      h.defaults.WindowDays,
		MinTransactions: h.defaults.MinTransactions,
	}

	filter.WarehouseID = strings.TrimSpace(c.Query("warehouse_id"))
	if filter.WarehouseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "warehouse_id is required"})
		return filter, false
	}

	if days, err := strconv.Atoi(c.DefaultQuery("window_days", "")); err == nil && days > 0 {
		filter.WindowDays = days
	}

	if min, err := strconv.Atoi(c.DefaultQuery("min_transactions", "")); err == nil && min > 0 {
		filter.MinTransactions = min
	}

	return filter, true
}

func (h *ForecastHandler) GetPredictions(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	preds, err := h.service.GetPredictions(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate predictions", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"predictions": preds,
		"total":       len(preds),
	})
}

func (h *ForecastHandler) GetSufficiency(c *gin.Context) {
	warehouseID := strings.TrimSpace(c.Query("warehouse_id"))
	if warehouseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "warehouse_id is required"})
		return
	}

	sufficiency, err := h.service.GetSufficiency(c.Request.Context(), warehouseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check data sufficiency", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sufficiency)
}

func (h *ForecastHandler) GetBestSellers(c *gin.Context) {
	warehouseID := strings.TrimSpace(c.Query("warehouse_id"))
	if warehouseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "warehouse_id is required"})
		return
	}

	ranked, err := h.service.GetBestSellers(c.Request.Context(), warehouseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch best sellers", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": ranked})
}

func (h *ForecastHandler) GetSlowMovers(c *gin.Context) {
	warehouseID := strings.TrimSpace(c.Query("warehouse_id"))
	if warehouseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "warehouse_id is required"})
		return
	}

	ranked, err := h.service.GetSlowMovers(c.Request.Context(), warehouseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch slow movers", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": ranked})
}
