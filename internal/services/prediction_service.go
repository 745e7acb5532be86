package services

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/Al-amen/stock-prediction-portal-backend/internal/charts"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/forecast"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/marketdata"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/models"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/pdf"
)

const (
	historyYears = 10
	windowSize   = 100
	trainRatio   = 0.70
)

type PredictionService interface {
	Predict(ctx context.Context, ticker string) (*models.PredictionResult, error)
	// PredictReport runs the same pipeline and returns the path of a PDF
	// report with the metrics and charts.
	PredictReport(ctx context.Context, ticker string) (string, error)
}

type predictionService struct {
	market    *marketdata.Client
	model     forecast.Model
	charts    *charts.Renderer
	reports   pdf.Generator
	mediaBase string
	alerts    AlertService
}

func NewPredictionService(market *marketdata.Client, model forecast.Model, renderer *charts.Renderer, reports pdf.Generator, mediaBase string, alerts AlertService) PredictionService {
	return &predictionService{
		market:    market,
		model:     model,
		charts:    renderer,
		reports:   reports,
		mediaBase: strings.TrimRight(mediaBase, "/"),
		alerts:    alerts,
	}
}

type runArtifacts struct {
	result     *models.PredictionResult
	chartPaths []string
}

func (s *predictionService) Predict(ctx context.Context, ticker string) (*models.PredictionResult, error) {
	run, err := s.run(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return run.result, nil
}

func (s *predictionService) PredictReport(ctx context.Context, ticker string) (string, error) {
	run, err := s.run(ctx, ticker)
	if err != nil {
		return "", err
	}
	return s.reports.GenerateReport(pdf.ReportData{
		Ticker:      ticker,
		MSE:         run.result.MSE,
		RMSE:        run.result.RMSE,
		R2:          run.result.R2,
		GeneratedAt: time.Now(),
		ChartPaths:  run.chartPaths,
	})
}

func (s *predictionService) run(ctx context.Context, ticker string) (*runArtifacts, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	now := time.Now()
	start := now.AddDate(-historyYears, 0, 0)

	closes, err := s.market.DailyCloses(ctx, ticker, start, now)
	if err != nil {
		s.notifyFailure(ticker, err)
		return nil, fmt.Errorf("failed to fetch stock data: %w", err)
	}
	if len(closes) == 0 {
		return nil, ErrNoData
	}

	da100 := forecast.MovingAverage(closes, 100)
	da200 := forecast.MovingAverage(closes, 200)

	plotImg, err := s.charts.SaveLineChart(ticker+"_plot.png",
		fmt.Sprintf("Closing Price of %s", ticker),
		charts.Series{Name: "Closing Price", Values: closes})
	if err != nil {
		return nil, err
	}
	plot100, err := s.charts.SaveLineChart(ticker+"_100dma_plot.png",
		fmt.Sprintf("100-Day Moving Average of %s", ticker),
		charts.Series{Name: "Closing Price", Values: closes},
		charts.Series{Name: "100 DMA", Values: da100})
	if err != nil {
		return nil, err
	}
	plot200, err := s.charts.SaveLineChart(ticker+"_200dma_plot.png",
		fmt.Sprintf("200-Day Moving Average of %s", ticker),
		charts.Series{Name: "Closing Price", Values: closes},
		charts.Series{Name: "100 DMA", Values: da100},
		charts.Series{Name: "200 DMA", Values: da200})
	if err != nil {
		return nil, err
	}

	split := int(float64(len(closes)) * trainRatio)
	training := closes[:split]
	testing := closes[split:]
	if len(training) < windowSize || len(testing) == 0 {
		return nil, fmt.Errorf("not enough history for %s: %d closes", ticker, len(closes))
	}

	// the model sees the last windowSize training closes followed by the
	// test range, scaled to [0,1] over exactly that slice
	final := make([]float64, 0, windowSize+len(testing))
	final = append(final, training[len(training)-windowSize:]...)
	final = append(final, testing...)

	var scaler forecast.MinMaxScaler
	scaler.Fit(final)
	scaled := scaler.Transform(final)

	windows, targets := forecast.Windows(scaled, windowSize)
	if len(windows) == 0 {
		return nil, fmt.Errorf("not enough history for %s: %d closes", ticker, len(closes))
	}

	predicted, err := s.model.Predict(ctx, windows)
	if err != nil {
		s.notifyFailure(ticker, err)
		return nil, fmt.Errorf("model prediction failed: %w", err)
	}

	yPredicted := scaler.Inverse(predicted)
	yActual := scaler.Inverse(targets)

	plotPrediction, err := s.charts.SaveLineChart(ticker+"_final_prediction.png",
		fmt.Sprintf("Final Prediction for %s", ticker),
		charts.Series{Name: "Original Price", Values: yActual},
		charts.Series{Name: "Predicted Price", Values: yPredicted})
	if err != nil {
		return nil, err
	}

	mse := forecast.MSE(yActual, yPredicted)
	result := &models.PredictionResult{
		Status:         "success",
		PlotImg:        s.mediaURL(plotImg),
		PlotImg100DMA:  s.mediaURL(plot100),
		PlotImg200DMA:  s.mediaURL(plot200),
		PlotPrediction: s.mediaURL(plotPrediction),
		MSE:            mse,
		RMSE:           forecast.RMSE(yActual, yPredicted),
		R2:             forecast.R2(yActual, yPredicted),
	}
	log.Printf("[predict] ticker=%s closes=%d windows=%d mse=%.4f", ticker, len(closes), len(windows), mse)

	return &runArtifacts{
		result:     result,
		chartPaths: []string{plotImg, plot100, plot200, plotPrediction},
	}, nil
}

func (s *predictionService) mediaURL(absPath string) string {
	return s.mediaBase + "/" + filepath.Base(absPath)
}

func (s *predictionService) notifyFailure(ticker string, cause error) {
	if s.alerts != nil {
		s.alerts.NotifyPredictionFailure(ticker, cause)
	}
}
