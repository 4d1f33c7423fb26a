package jobinsights

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"career-guide/internal/common/errors"
	"career-guide/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adzunaBody = `{
	"count": 1234,
	"results": [
		{
			"title": "Data Scientist",
			"company": {"display_name": "Acme"},
			"location": {"display_name": "Austin, TX"},
			"salary_min": 90000,
			"salary_max": 120000,
			"redirect_url": "https://adzuna.example/1",
			"description": "Build models"
		},
		{
			"title": "ML Engineer",
			"redirect_url": "https://adzuna.example/2",
			"description": "` + "%s" + `"
		}
	]
}`

func createTestConfig(baseURL string) *Config {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.AppID = "id"
	cfg.AppKey = "key"
	cfg.RequestTimeout = 2 * time.Second
	return cfg
}

func newHandler(t *testing.T, cfg *Config, cache redis.Cmdable) *Handler {
	h, err := NewHandler(cfg, ServiceDependencies{Cache: cache, Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)
	return h
}

func newAdzuna(t *testing.T, calls *int32) *httptest.Server {
	long := strings.Repeat("é", 250)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		assert.Equal(t, "/v1/api/jobs/gb/search/1", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "id", q.Get("app_id"))
		assert.Equal(t, "key", q.Get("app_key"))
		assert.Equal(t, "5", q.Get("results_per_page"))
		assert.Equal(t, "Data Scientist", q.Get("what"))
		assert.Equal(t, "application/json", q.Get("content-type"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(strings.Replace(adzunaBody, "%s", long, 1)))
	}))
}

func TestExecute_Listings(t *testing.T) {
	server := newAdzuna(t, nil)
	defer server.Close()

	out, err := newHandler(t, createTestConfig(server.URL), nil).Execute(context.Background(), &Input{
		Role:     "Data Scientist",
		Location: "gb",
	})
	require.NoError(t, err)

	assert.Equal(t, 1234, out.Count)
	assert.Equal(t, "Data Scientist", out.Role)
	assert.Equal(t, "gb", out.Location)
	require.Len(t, out.Listings, 2)

	first := out.Listings[0]
	assert.Equal(t, "Acme", first.Company)
	assert.Equal(t, "Austin, TX", first.Location)
	assert.Equal(t, 90000.0, *first.SalaryMin)
	assert.Equal(t, "https://adzuna.example/1", first.URL)

	second := out.Listings[1]
	assert.Equal(t, "N/A", second.Company)
	assert.Equal(t, "Remote", second.Location)
	assert.Nil(t, second.SalaryMin)
	assert.Equal(t, 200, len([]rune(second.Description)))
}

func TestExecute_DefaultLocation(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"count":0,"results":[]}`))
	}))
	defer server.Close()

	cfg := createTestConfig(server.URL)
	cfg.DefaultLocation = "in"
	out, err := newHandler(t, cfg, nil).Execute(context.Background(), &Input{Role: "Nurse"})
	require.NoError(t, err)
	assert.Equal(t, "/v1/api/jobs/in/search/1", path)
	assert.Equal(t, "in", out.Location)
	assert.NotNil(t, out.Listings)
}

func TestExecute_EchoesInputUnchanged(t *testing.T) {
	var path, what string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		what = r.URL.Query().Get("what")
		w.Write([]byte(`{"count":0,"results":[]}`))
	}))
	defer server.Close()

	out, err := newHandler(t, createTestConfig(server.URL), nil).Execute(context.Background(), &Input{
		Role:     " Data Scientist",
		Location: "GB",
	})
	require.NoError(t, err)
	assert.Equal(t, "/v1/api/jobs/GB/search/1", path)
	assert.Equal(t, " Data Scientist", what)
	assert.Equal(t, " Data Scientist", out.Role)
	assert.Equal(t, "GB", out.Location)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name         string
		input        *Input
		handler      http.HandlerFunc
		noCreds      bool
		timeout      time.Duration
		expectedCode errors.ErrorCode
		expectedMsg  string
		status       int
	}{
		{
			name:         "missing role",
			input:        &Input{Role: "  "},
			expectedCode: errors.ErrCodeValidationFailed,
			expectedMsg:  "Role is required",
			status:       http.StatusBadRequest,
		},
		{
			name:         "missing credentials",
			input:        &Input{Role: "Nurse"},
			noCreds:      true,
			expectedCode: errors.ErrCodeConfiguration,
			expectedMsg:  "Adzuna API credentials not found. Please set ADZUNA_APP_ID and ADZUNA_APP_KEY",
			status:       http.StatusInternalServerError,
		},
		{
			name:  "upstream timeout",
			input: &Input{Role: "Nurse"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
			},
			timeout:      50 * time.Millisecond,
			expectedCode: errors.ErrCodeJobSearchTimeout,
			expectedMsg:  "API request timed out. Please try again.",
			status:       http.StatusGatewayTimeout,
		},
		{
			name:  "upstream error",
			input: &Input{Role: "Nurse"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte("bad app key"))
			},
			expectedCode: errors.ErrCodeJobSearchUpstream,
			expectedMsg:  "API Error: 401 bad app key",
			status:       http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := tt.handler
			if handler == nil {
				handler = func(w http.ResponseWriter, r *http.Request) {
					t.Errorf("adzuna should not be called")
				}
			}
			server := httptest.NewServer(handler)
			defer server.Close()

			cfg := createTestConfig(server.URL)
			if tt.noCreds {
				cfg.AppID = ""
			}
			if tt.timeout > 0 {
				cfg.RequestTimeout = tt.timeout
			}

			_, err := newHandler(t, cfg, nil).Execute(context.Background(), tt.input)
			require.Error(t, err)
			stdErr := errors.Normalize(err)
			assert.Equal(t, tt.expectedCode, stdErr.Code)
			assert.Equal(t, tt.expectedMsg, stdErr.Message)
			assert.Equal(t, tt.status, errors.HTTPStatus(stdErr.Code))
		})
	}
}

func TestExecute_CachesResults(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	var calls int32
	server := newAdzuna(t, &calls)
	defer server.Close()

	h := newHandler(t, createTestConfig(server.URL), rdb)
	input := &Input{Role: "Data Scientist", Location: "gb"}

	first, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	second, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("jobs:insights:gb:data scientist"))
	assert.Equal(t, 15*time.Minute, mr.TTL("jobs:insights:gb:data scientist"))
}

func TestExecute_CacheFailuresIgnored(t *testing.T) {
	server := newAdzuna(t, nil)
	defer server.Close()

	rdb, mock := redismock.NewClientMock()
	key := "jobs:insights:gb:data scientist"
	mock.ExpectGet(key).SetErr(assert.AnError)
	mock.CustomMatch(func(expected, actual []interface{}) error {
		return nil
	}).ExpectSet(key, nil, 15*time.Minute).SetErr(assert.AnError)

	out, err := newHandler(t, createTestConfig(server.URL), rdb).Execute(context.Background(), &Input{
		Role:     "Data Scientist",
		Location: "gb",
	})
	require.NoError(t, err)
	assert.Len(t, out.Listings, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "日本", truncate("日本語", 2))
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.ResultsPerPage = 0
	assert.Error(t, cfg.Validate())
}
