package jobinsights

import (
	"career-guide/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

type Input struct {
	Role     string `json:"role"`
	Location string `json:"location,omitempty"`
}

type Listing struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	SalaryMin   *float64 `json:"salary_min"`
	SalaryMax   *float64 `json:"salary_max"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
}

type Output struct {
	Listings []Listing `json:"listings"`
	Count    int       `json:"count"`
	Role     string    `json:"role"`
	Location string    `json:"location"`
}

// ServiceDependencies: Cache is optional.
type ServiceDependencies struct {
	Cache  redis.Cmdable
	Logger logger.Logger
}

type adzunaResponse struct {
	Count   int         `json:"count"`
	Results []adzunaJob `json:"results"`
}

type adzunaJob struct {
	Title   string `json:"title"`
	Company struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	SalaryMin   *float64 `json:"salary_min"`
	SalaryMax   *float64 `json:"salary_max"`
	RedirectURL string   `json:"redirect_url"`
	Description string   `json:"description"`
}
