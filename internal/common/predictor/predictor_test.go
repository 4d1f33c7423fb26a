package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPPredictor_Predict(t *testing.T) {
	tests := []struct {
		name          string
		response      string
		expectedLabel string
		expectedIndex *int
		expectError   bool
	}{
		{name: "label", response: `{"predictions":["Data Scientist"]}`, expectedLabel: "Data Scientist"},
		{name: "index", response: `{"predictions":[3]}`, expectedIndex: intPtr(3)},
		{name: "nested index", response: `{"predictions":[[5]]}`, expectedIndex: intPtr(5)},
		{name: "empty", response: `{"predictions":[]}`, expectError: true},
		{name: "fractional", response: `{"predictions":[0.4]}`, expectError: true},
		{name: "object", response: `{"predictions":[{"a":1}]}`, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var body map[string][]map[string]interface{}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				require.Len(t, body["instances"], 1)
				assert.Equal(t, "Excellent", body["instances"][0]["Networking"])
				w.Write([]byte(tt.response))
			}))
			defer server.Close()

			p := NewHTTPPredictor(server.URL, time.Second)
			pred, err := p.Predict(context.Background(), map[string]interface{}{"Networking": "Excellent"})

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedLabel, pred.Label)
			assert.Equal(t, tt.expectedIndex, pred.Index)
		})
	}
}

func TestHTTPPredictor_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad features"}`))
	}))
	defer server.Close()

	_, err := NewHTTPPredictor(server.URL, time.Second).Predict(context.Background(), map[string]int{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoPrediction))
	assert.Contains(t, err.Error(), "bad features")
}

func intPtr(v int) *int { return &v }
