package queries

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ErrMissingIndex = errors.New("index name is required")

const (
	DefaultSize = 20
	MaxSize     = 100
	TopCareers  = 10
)

// publicFields are the only source fields returned when a query is not
// scoped to one user.
var publicFields = []string{"career", "created_at", "critical_gaps", "improvement_gaps"}

// PredictionQuery describes a history search over indexed predictions.
type PredictionQuery struct {
	Index     string
	UserEmail string
	Career    string
	From      int
	Size      int
}

// Normalize clamps paging to sane bounds.
func (q *PredictionQuery) Normalize() {
	if q.Size < 1 {
		q.Size = DefaultSize
	}
	if q.Size > MaxSize {
		q.Size = MaxSize
	}
	if q.From < 0 {
		q.From = 0
	}
}

// BuildSearch builds the search request, newest first, with a terms
// aggregation over career.
func BuildSearch(q PredictionQuery) (*esapi.SearchRequest, error) {
	if q.Index == "" {
		return nil, ErrMissingIndex
	}
	q.Normalize()

	body, err := json.Marshal(buildBody(q))
	if err != nil {
		return nil, err
	}

	return &esapi.SearchRequest{
		Index:             []string{q.Index},
		Body:              bytes.NewReader(body),
		From:              &q.From,
		Size:              &q.Size,
		IgnoreUnavailable: boolPtr(true),
	}, nil
}

func buildBody(q PredictionQuery) map[string]interface{} {
	filters := []interface{}{}
	if email := strings.TrimSpace(q.UserEmail); email != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"user_email": email},
		})
	}
	if career := strings.TrimSpace(q.Career); career != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"career": career},
		})
	}

	var query map[string]interface{}
	if len(filters) == 0 {
		query = map[string]interface{}{"match_all": map[string]interface{}{}}
	} else {
		query = map[string]interface{}{
			"bool": map[string]interface{}{"filter": filters},
		}
	}

	body := map[string]interface{}{
		"query": query,
		"sort": []interface{}{
			map[string]interface{}{"created_at": map[string]interface{}{"order": "desc"}},
		},
		"aggs": map[string]interface{}{
			"top_careers": map[string]interface{}{
				"terms": map[string]interface{}{"field": "career", "size": TopCareers},
			},
		},
	}
	if strings.TrimSpace(q.UserEmail) == "" {
		body["_source"] = publicFields
	}
	return body
}

func boolPtr(b bool) *bool { return &b }
