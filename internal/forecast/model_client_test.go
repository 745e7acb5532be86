package forecast

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPModel_Predict(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req struct {
			Instances [][]float64 `json:"instances"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Instances, 2)

		preds := make([][]float64, len(req.Instances))
		for i, w := range req.Instances {
			preds[i] = []float64{w[len(w)-1] + 1}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"predictions": preds})
	}))
	defer srv.Close()

	m := NewHTTPModel(srv.URL)
	out, err := m.Predict(context.Background(), [][]float64{{1, 2, 3}, {2, 3, 4}})
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5}, out)
}

func TestHTTPModel_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := NewHTTPModel(srv.URL)
	_, err := m.Predict(context.Background(), [][]float64{{1}})
	assert.ErrorContains(t, err, "status 500")
}

func TestHTTPModel_CountMismatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"predictions": [][]float64{{1}}})
	}))
	defer srv.Close()

	m := NewHTTPModel(srv.URL)
	_, err := m.Predict(context.Background(), [][]float64{{1}, {2}})
	assert.ErrorContains(t, err, "1 predictions for 2 windows")
}

func TestHTTPModel_ErrorPayload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "model not loaded"})
	}))
	defer srv.Close()

	m := NewHTTPModel(srv.URL)
	_, err := m.Predict(context.Background(), [][]float64{{1}})
	assert.ErrorContains(t, err, "model not loaded")
}
