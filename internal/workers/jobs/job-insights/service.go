package jobinsights

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"career-guide/internal/common/database"
	"career-guide/internal/common/errors"
	httpclient "career-guide/internal/common/http"
	"career-guide/internal/common/logger"
	"career-guide/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

const descriptionLimit = 200

type Service struct {
	config *Config
	client *httpclient.Client
	cache  redis.Cmdable
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		client: httpclient.NewClient(0, 0),
		cache:  deps.Cache,
		logger: deps.Logger,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	role := input.Role
	if strings.TrimSpace(role) == "" {
		return nil, errors.NewValidationError("Role is required")
	}
	if !s.config.HasCredentials() {
		return nil, errors.NewConfigurationError("Adzuna API credentials not found. Please set ADZUNA_APP_ID and ADZUNA_APP_KEY")
	}

	location := input.Location
	if location == "" {
		location = s.config.DefaultLocation
	}

	key := cacheKey(location, role)
	if out, ok := s.cached(ctx, key); ok {
		return out, nil
	}

	out, err := s.search(ctx, role, location)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.config.CacheTTL > 0 {
		if err := database.SetJSON(ctx, s.cache, key, out, s.config.CacheTTL); err != nil {
			s.logger.Warn("failed to cache job insights", map[string]interface{}{"error": err.Error()})
		}
	}

	s.logger.Info("fetched job listings", map[string]interface{}{
		"role":     role,
		"location": location,
		"count":    len(out.Listings),
	})
	return out, nil
}

func (s *Service) cached(ctx context.Context, key string) (*Output, bool) {
	if s.cache == nil {
		return nil, false
	}
	var out Output
	hit, err := database.GetJSON(ctx, s.cache, key, &out)
	if err != nil {
		metrics.JobInsightsCache.WithLabelValues("error").Inc()
		s.logger.Warn("job insights cache read failed", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	if !hit {
		metrics.JobInsightsCache.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.JobInsightsCache.WithLabelValues("hit").Inc()
	return &out, true
}

func (s *Service) search(ctx context.Context, role, location string) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout)
	defer cancel()

	var resp adzunaResponse
	err := s.client.GetJSON(ctx, s.searchURL(role, location), &resp)
	if err != nil {
		var statusErr *httpclient.StatusError
		switch {
		case stderrors.Is(err, context.DeadlineExceeded):
			return nil, errors.NewJobSearchTimeoutError("API request timed out. Please try again.", err)
		case stderrors.As(err, &statusErr):
			return nil, errors.NewJobSearchUpstreamError(fmt.Sprintf("API Error: %d %s", statusErr.StatusCode, strings.TrimSpace(statusErr.Body)), err)
		default:
			return nil, errors.NewExternalServiceError("adzuna", err)
		}
	}

	listings := make([]Listing, 0, len(resp.Results))
	for _, job := range resp.Results {
		listings = append(listings, toListing(job))
	}
	return &Output{
		Listings: listings,
		Count:    resp.Count,
		Role:     role,
		Location: location,
	}, nil
}

func (s *Service) searchURL(role, location string) string {
	q := url.Values{}
	q.Set("app_id", s.config.AppID)
	q.Set("app_key", s.config.AppKey)
	q.Set("results_per_page", strconv.Itoa(s.config.ResultsPerPage))
	q.Set("what", role)
	q.Set("content-type", "application/json")

	return fmt.Sprintf("%s/v1/api/jobs/%s/search/1?%s",
		strings.TrimRight(s.config.BaseURL, "/"), url.PathEscape(location), q.Encode())
}

func toListing(job adzunaJob) Listing {
	l := Listing{
		Title:       job.Title,
		Company:     job.Company.DisplayName,
		Location:    job.Location.DisplayName,
		SalaryMin:   job.SalaryMin,
		SalaryMax:   job.SalaryMax,
		URL:         job.RedirectURL,
		Description: truncate(job.Description, descriptionLimit),
	}
	if l.Company == "" {
		l.Company = "N/A"
	}
	if l.Location == "" {
		l.Location = "Remote"
	}
	return l
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func cacheKey(location, role string) string {
	return fmt.Sprintf("jobs:insights:%s:%s", location, strings.ToLower(role))
}
