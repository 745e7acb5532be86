package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Al-amen/stock-prediction-portal-backend/internal/charts"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/marketdata"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/pdf"
)

// model stub that predicts the last value of each window
type lastValueModel struct{}

func (lastValueModel) Predict(_ context.Context, windows [][]float64) ([]float64, error) {
	out := make([]float64, len(windows))
	for i, w := range windows {
		out[i] = w[len(w)-1]
	}
	return out, nil
}

type failingModel struct{ err error }

func (m failingModel) Predict(_ context.Context, _ [][]float64) ([]float64, error) {
	return nil, m.err
}

func quoteServer(t *testing.T, closes []float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vals := make([]*float64, len(closes))
		for i := range closes {
			vals[i] = &closes[i]
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"chart": map[string]interface{}{
				"result": []map[string]interface{}{{
					"indicators": map[string]interface{}{
						"quote": []map[string]interface{}{{"close": vals}},
					},
				}},
				"error": nil,
			},
		})
	}))
}

func testCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.25 + 5*math.Sin(float64(i)/15)
	}
	return closes
}

func TestPredict_FullPipeline(t *testing.T) {
	srv := quoteServer(t, testCloses(400))
	defer srv.Close()

	mediaDir := t.TempDir()
	svc := NewPredictionService(
		marketdata.NewClient(srv.URL),
		lastValueModel{},
		charts.NewRenderer(mediaDir),
		nil,
		"/media/",
		nil,
	)

	result, err := svc.Predict(context.Background(), "aapl")
	require.NoError(t, err)

	assert.Equal(t, "success", result.Status)
	assert.Equal(t, "/media/AAPL_plot.png", result.PlotImg)
	assert.Equal(t, "/media/AAPL_100dma_plot.png", result.PlotImg100DMA)
	assert.Equal(t, "/media/AAPL_200dma_plot.png", result.PlotImg200DMA)
	assert.Equal(t, "/media/AAPL_final_prediction.png", result.PlotPrediction)

	for _, name := range []string{
		"AAPL_plot.png", "AAPL_100dma_plot.png", "AAPL_200dma_plot.png", "AAPL_final_prediction.png",
	} {
		info, err := os.Stat(filepath.Join(mediaDir, name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}

	// a model that echoes the previous close tracks a smooth series closely
	assert.False(t, math.IsNaN(result.MSE))
	assert.GreaterOrEqual(t, result.RMSE, 0.0)
	assert.Greater(t, result.R2, 0.9)
}

func TestPredict_NoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
	}))
	defer srv.Close()

	svc := NewPredictionService(marketdata.NewClient(srv.URL), lastValueModel{}, charts.NewRenderer(t.TempDir()), nil, "/media", nil)

	_, err := svc.Predict(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestPredict_NotEnoughHistory(t *testing.T) {
	srv := quoteServer(t, testCloses(50))
	defer srv.Close()

	svc := NewPredictionService(marketdata.NewClient(srv.URL), lastValueModel{}, charts.NewRenderer(t.TempDir()), nil, "/media", nil)

	_, err := svc.Predict(context.Background(), "TINY")
	assert.ErrorContains(t, err, "not enough history")
}

func TestPredict_ModelFailure(t *testing.T) {
	srv := quoteServer(t, testCloses(400))
	defer srv.Close()

	svc := NewPredictionService(
		marketdata.NewClient(srv.URL),
		failingModel{err: fmt.Errorf("model server unreachable")},
		charts.NewRenderer(t.TempDir()),
		nil,
		"/media",
		nil,
	)

	_, err := svc.Predict(context.Background(), "AAPL")
	assert.ErrorContains(t, err, "model prediction failed")
}

func TestPredictReport_WritesPDF(t *testing.T) {
	srv := quoteServer(t, testCloses(400))
	defer srv.Close()

	mediaDir := t.TempDir()
	svc := NewPredictionService(
		marketdata.NewClient(srv.URL),
		lastValueModel{},
		charts.NewRenderer(mediaDir),
		pdf.NewReportGenerator(mediaDir),
		"/media",
		nil,
	)

	path, err := svc.PredictReport(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL_report.pdf", filepath.Base(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
