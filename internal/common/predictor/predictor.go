// Package predictor consumes externally trained classifiers over HTTP.
package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	httpclient "career-guide/internal/common/http"
)

var ErrNoPrediction = errors.New("model returned no prediction")

// Prediction is either a class label or a label-encoder index.
type Prediction struct {
	Label string
	Index *int
}

type Predictor interface {
	Predict(ctx context.Context, features interface{}) (Prediction, error)
}

// HTTPPredictor calls a model server speaking the TensorFlow Serving style
// {"instances": [...]} / {"predictions": [...]} protocol.
type HTTPPredictor struct {
	url     string
	timeout time.Duration
	client  *httpclient.Client
}

func NewHTTPPredictor(url string, timeout time.Duration) *HTTPPredictor {
	return &HTTPPredictor{
		url:     url,
		timeout: timeout,
		client:  httpclient.NewClient(0, 1),
	}
}

func (p *HTTPPredictor) Predict(ctx context.Context, features interface{}) (Prediction, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	req := map[string]interface{}{"instances": []interface{}{features}}
	var resp struct {
		Predictions []json.RawMessage `json:"predictions"`
	}
	if err := p.client.PostJSON(ctx, p.url, req, &resp); err != nil {
		return Prediction{}, err
	}
	if len(resp.Predictions) == 0 {
		return Prediction{}, ErrNoPrediction
	}
	return parsePrediction(resp.Predictions[0])
}

func parsePrediction(raw json.RawMessage) (Prediction, error) {
	var label string
	if err := json.Unmarshal(raw, &label); err == nil {
		if label == "" {
			return Prediction{}, ErrNoPrediction
		}
		return Prediction{Label: label}, nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n != math.Trunc(n) {
			return Prediction{}, fmt.Errorf("class index %v is not an integer", n)
		}
		idx := int(n)
		return Prediction{Index: &idx}, nil
	}

	// Some servers return one-element arrays per instance.
	var nested []json.RawMessage
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		return parsePrediction(nested[0])
	}
	return Prediction{}, fmt.Errorf("unrecognised prediction %s", string(raw))
}
