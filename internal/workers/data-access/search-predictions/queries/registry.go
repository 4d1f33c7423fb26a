package queries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
)

// ErrIndexNotFound is returned when the index has not been created yet.
var ErrIndexNotFound = errors.New("index not found")

type CareerCount struct {
	Career string `json:"career"`
	Count  int64  `json:"count"`
}

type Result struct {
	Hits       []map[string]interface{}
	TotalHits  int64
	TopCareers []CareerCount
	Took       int64
}

type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source map[string]interface{} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations struct {
		TopCareers struct {
			Buckets []struct {
				Key      string `json:"key"`
				DocCount int64  `json:"doc_count"`
			} `json:"buckets"`
		} `json:"top_careers"`
	} `json:"aggregations"`
}

// Execute runs q against es.
func Execute(ctx context.Context, es *elasticsearch.Client, q PredictionQuery) (*Result, error) {
	req, err := BuildSearch(q)
	if err != nil {
		return nil, err
	}

	res, err := req.Do(ctx, es)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound && strings.Contains(res.String(), "index_not_found_exception") {
		return nil, ErrIndexNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.Status())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := &Result{
		Hits:       make([]map[string]interface{}, 0, len(r.Hits.Hits)),
		TotalHits:  r.Hits.Total.Value,
		TopCareers: make([]CareerCount, 0, len(r.Aggregations.TopCareers.Buckets)),
		Took:       r.Took,
	}
	for _, h := range r.Hits.Hits {
		out.Hits = append(out.Hits, h.Source)
	}
	for _, b := range r.Aggregations.TopCareers.Buckets {
		out.TopCareers = append(out.TopCareers, CareerCount{Career: b.Key, Count: b.DocCount})
	}
	return out, nil
}
