package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Model is the pre-trained forecasting model, one prediction per input
// window. Implementations are injected at wiring time; there is no global
// model state anywhere in the process.
type Model interface {
	Predict(ctx context.Context, windows [][]float64) ([]float64, error)
}

// HTTPModel talks to a model server speaking the TensorFlow-Serving style
// predict protocol: POST {"instances": [...]} -> {"predictions": [...]}.
type HTTPModel struct {
	URL  string
	HTTP *http.Client
}

func NewHTTPModel(url string) *HTTPModel {
	return &HTTPModel{
		URL:  url,
		HTTP: &http.Client{Timeout: 60 * time.Second},
	}
}

type predictRequest struct {
	Instances [][]float64 `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error,omitempty"`
}

func (m *HTTPModel) Predict(ctx context.Context, windows [][]float64) ([]float64, error) {
	payload, err := json.Marshal(predictRequest{Instances: windows})
	if err != nil {
		return nil, fmt.Errorf("encode predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call model server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read model response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model server returned status %d", resp.StatusCode)
	}

	var result predictResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("model server error: %s", result.Error)
	}
	if len(result.Predictions) != len(windows) {
		return nil, fmt.Errorf("model returned %d predictions for %d windows", len(result.Predictions), len(windows))
	}

	out := make([]float64, len(result.Predictions))
	for i, p := range result.Predictions {
		if len(p) == 0 {
			return nil, fmt.Errorf("model returned empty prediction at index %d", i)
		}
		out[i] = p[0]
	}
	return out, nil
}
