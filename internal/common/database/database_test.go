package database

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"career-guide/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range schemaStatements {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, EnsureSchema(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("permission denied"))

	err = EnsureSchema(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema statement 0")
}

func TestRedisJSONHelpers(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx))

	type payload struct {
		Role  string `json:"role"`
		Count int    `json:"count"`
	}

	var out payload
	hit, err := GetJSON(ctx, client.Client, "jobs:insights:us:nurse", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, SetJSON(ctx, client.Client, "jobs:insights:us:nurse", payload{"Nurse", 5}, time.Minute))
	assert.True(t, mr.Exists("jobs:insights:us:nurse"))
	assert.Equal(t, time.Minute, mr.TTL("jobs:insights:us:nurse"))

	hit, err = GetJSON(ctx, client.Client, "jobs:insights:us:nurse", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{"Nurse", 5}, out)
}

func TestRedisGetJSON_CorruptValue(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	require.NoError(t, mr.Set("k", "{not json"))

	var out map[string]interface{}
	hit, err := GetJSON(context.Background(), rdb, "k", &out)
	assert.False(t, hit)
	assert.Error(t, err)
}

func newTestES(t *testing.T, handler http.HandlerFunc) *ElasticsearchClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)
	return es
}

func TestIndexDocument(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	es := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	err := IndexDocument(context.Background(), es.Client, "career_predictions", "abc",
		map[string]interface{}{"career": "Data Scientist"})
	require.NoError(t, err)
	assert.Equal(t, "/career_predictions/_doc/abc", gotPath)
	assert.Equal(t, "Data Scientist", gotBody["career"])
}

func TestIndexDocument_ErrorStatus(t *testing.T) {
	es := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"mapper_parsing_exception"}`))
	})

	err := IndexDocument(context.Background(), es.Client, "career_predictions", "abc", map[string]string{})
	assert.Error(t, err)
}

func TestEnsurePredictionIndex(t *testing.T) {
	tests := []struct {
		name          string
		existsStatus  int
		expectCreate  bool
		createStatus  int
		expectedError bool
	}{
		{name: "already exists", existsStatus: 200},
		{name: "created", existsStatus: 404, expectCreate: true, createStatus: 200},
		{name: "create fails", existsStatus: 404, expectCreate: true, createStatus: 500, expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := false
			es := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
				switch r.Method {
				case http.MethodHead:
					w.WriteHeader(tt.existsStatus)
				case http.MethodPut:
					created = true
					w.WriteHeader(tt.createStatus)
					_, _ = w.Write([]byte(`{}`))
				}
			})

			err := es.EnsurePredictionIndex(context.Background(), "career_predictions")
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectCreate, created)
		})
	}
}

func TestWriteAuditLog(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO audit_log").
		WithArgs(sqlmock.AnyArg(), "user_signup", "user", "ada@example.com", []byte(`{"name":"Ada"}`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = WriteAuditLog(context.Background(), db, "user_signup", "user", "ada@example.com", map[string]interface{}{"name": "Ada"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
