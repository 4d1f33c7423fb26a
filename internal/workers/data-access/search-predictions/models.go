package searchpredictions

import (
	"career-guide/internal/common/logger"
	"career-guide/internal/workers/data-access/search-predictions/queries"

	"github.com/elastic/go-elasticsearch/v8"
)

type Input struct {
	UserEmail string `json:"email,omitempty"`
	Career    string `json:"career,omitempty"`
	From      int    `json:"from,omitempty"`
	Size      int    `json:"size,omitempty"`
}

type Output struct {
	Predictions []map[string]interface{} `json:"predictions"`
	TotalHits   int64                    `json:"totalHits"`
	TopCareers  []queries.CareerCount    `json:"top_careers"`
	Took        int64                    `json:"took"` // milliseconds
}

type ServiceDependencies struct {
	Search *elasticsearch.Client
	Logger logger.Logger
}
