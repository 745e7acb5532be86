package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Al-amen/stock-prediction-portal-backend/internal/models"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/services"
)

type PredictionHandler struct {
	service services.PredictionService
}

func NewPredictionHandler(service services.PredictionService) *PredictionHandler {
	return &PredictionHandler{service: service}
}

// @Summary      Predict stock prices
// @Description  Fetches ten years of history, runs the forecasting model and returns metrics plus chart URLs
// @Tags         Predictions
// @Accept       json
// @Produce      json
// @Param        request  body      models.PredictionRequest  true  "Ticker"
// @Success      201      {object}  models.PredictionResult
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Failure      502      {object}  map[string]string
// @Security     BearerAuth
// @Router       /predict/ [post]
func (h *PredictionHandler) Predict(c *gin.Context) {
	var req models.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Predict(c.Request.Context(), req.Ticker)
	if err != nil {
		if errors.Is(err, services.ErrNoData) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No data found for given ticker."})
			return
		}
		log.Printf("[predict] ticker=%s failed: %v", req.Ticker, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// @Summary      Download a prediction report
// @Description  Runs the prediction pipeline and returns a PDF with metrics and charts
// @Tags         Predictions
// @Accept       json
// @Produce      application/pdf
// @Param        request  body  models.PredictionRequest  true  "Ticker"
// @Success      200
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     BearerAuth
// @Router       /predict/report/ [post]
func (h *PredictionHandler) PredictReport(c *gin.Context) {
	var req models.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	path, err := h.service.PredictReport(c.Request.Context(), req.Ticker)
	if err != nil {
		if errors.Is(err, services.ErrNoData) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No data found for given ticker."})
			return
		}
		log.Printf("[predict][report] ticker=%s failed: %v", req.Ticker, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.FileAttachment(path, req.Ticker+"_report.pdf")
}
