package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"review-service/internal/apperrors"
	"review-service/internal/config"
	"review-service/internal/models"
	"review-service/internal/repository"
	"review-service/internal/sentiment"
	"review-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

// newTestRouter wires the real service and a temporary SQLite database.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	logger := zap.NewNop()
	path := filepath.Join(t.TempDir(), "reviews.db")

	require.NoError(t, repository.Migrate(config.DatabaseSQLite, path, logger))
	db, err := repository.Connect(config.DatabaseSQLite, path, logger)
	require.NoError(t, err)
	repo := repository.NewReviewRepository(db, logger)
	t.Cleanup(func() { _ = repo.Close() })

	reviewer := service.NewReviewer(repo, clockwork.NewFakeClockAt(testNow), logger)
	return routerFor(reviewer)
}

func routerFor(svc ReviewService) *gin.Engine {
	r := gin.New()
	NewHandler(svc, zap.NewNop()).RegisterRoutes(r)
	return r
}

func doRequest(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestCreateReview_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		text string
		want sentiment.Label
	}{
		{"positive wins over negative", "Это было супер, но немного разочарован", sentiment.Positive},
		{"neutral", "Совершенно нейтральный отзыв без эмоций", sentiment.Neutral},
		{"negative", "Ужасное обслуживание", sentiment.Negative},
		{"whitespace only", "   ", sentiment.Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t)
			body, err := json.Marshal(models.CreateReviewRequest{Text: tt.text})
			require.NoError(t, err)

			rec := doRequest(r, http.MethodPost, "/reviews", string(body))
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

			review := decode[models.Review](t, rec)
			assert.Equal(t, int64(1), review.ID)
			assert.Equal(t, tt.text, review.Text)
			assert.Equal(t, tt.want, review.Sentiment)
			assert.Equal(t, "2025-03-01T10:00:00Z", review.CreatedAt)
		})
	}
}

func TestCreateReview_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"missing text", `{"comment":"хорошо"}`},
		{"empty text", `{"text":""}`},
		{"null body", `null`},
		{"text not a string", `{"text":5}`},
		{"malformed json", `{"text":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t)

			rec := doRequest(r, http.MethodPost, "/reviews", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "review text is required", decode[models.ErrorResponse](t, rec).Message)

			list := doRequest(r, http.MethodGet, "/reviews", "")
			assert.Empty(t, decode[[]models.Review](t, list))
		})
	}
}

func TestListReviews_RoundTripAndFilter(t *testing.T) {
	r := newTestRouter(t)

	texts := map[sentiment.Label]string{
		sentiment.Positive: "Отличный фильм",
		sentiment.Negative: "Плохой звук",
		sentiment.Neutral:  "Фильм шёл два часа",
	}
	for _, label := range []sentiment.Label{sentiment.Positive, sentiment.Negative, sentiment.Neutral} {
		rec := doRequest(r, http.MethodPost, "/reviews", `{"text":"`+texts[label]+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("all", func(t *testing.T) {
		rec := doRequest(r, http.MethodGet, "/reviews", "")
		require.Equal(t, http.StatusOK, rec.Code)

		reviews := decode[[]models.Review](t, rec)
		require.Len(t, reviews, 3)
		for i, review := range reviews {
			assert.Equal(t, int64(i+1), review.ID)
			assert.Equal(t, texts[review.Sentiment], review.Text)
		}
	})

	t.Run("positive only", func(t *testing.T) {
		rec := doRequest(r, http.MethodGet, "/reviews?sentiment=positive", "")
		require.Equal(t, http.StatusOK, rec.Code)

		reviews := decode[[]models.Review](t, rec)
		require.Len(t, reviews, 1)
		assert.Equal(t, sentiment.Positive, reviews[0].Sentiment)
		assert.Equal(t, texts[sentiment.Positive], reviews[0].Text)
	})

	t.Run("unknown label", func(t *testing.T) {
		rec := doRequest(r, http.MethodGet, "/reviews?sentiment=angry", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("empty filter means all", func(t *testing.T) {
		rec := doRequest(r, http.MethodGet, "/reviews?sentiment=", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]models.Review](t, rec), 3)
	})
}

func TestListReviews_NoNegatives(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusCreated, doRequest(r, http.MethodPost, "/reviews", `{"text":"классно"}`).Code)

	rec := doRequest(r, http.MethodGet, "/reviews?sentiment=negative", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

type mockReviewService struct {
	createFn func(ctx context.Context, text string) (*models.Review, error)
	listFn   func(ctx context.Context, filter string) ([]models.Review, error)
}

func (m *mockReviewService) CreateReview(ctx context.Context, text string) (*models.Review, error) {
	return m.createFn(ctx, text)
}

func (m *mockReviewService) ListReviews(ctx context.Context, filter string) ([]models.Review, error) {
	return m.listFn(ctx, filter)
}

func TestInternalErrors(t *testing.T) {
	storageErr := apperrors.StorageError("insert review", errors.New("database is locked"))
	svc := &mockReviewService{
		createFn: func(context.Context, string) (*models.Review, error) { return nil, storageErr },
		listFn: func(context.Context, string) ([]models.Review, error) {
			return nil, errors.New("unexpected")
		},
	}
	r := routerFor(svc)

	rec := doRequest(r, http.MethodPost, "/reviews", `{"text":"хорошо"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error: storage: insert review: database is locked",
		decode[models.ErrorResponse](t, rec).Message)

	rec = doRequest(r, http.MethodGet, "/reviews", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error: internal: unexpected failure: unexpected", decode[models.ErrorResponse](t, rec).Message)
}

func TestInternalErrors_ClosedDatabase(t *testing.T) {
	logger := zap.NewNop()
	path := filepath.Join(t.TempDir(), "reviews.db")
	require.NoError(t, repository.Migrate(config.DatabaseSQLite, path, logger))
	db, err := repository.Connect(config.DatabaseSQLite, path, logger)
	require.NoError(t, err)
	repo := repository.NewReviewRepository(db, logger)
	require.NoError(t, repo.Close())

	r := routerFor(service.NewReviewer(repo, clockwork.NewFakeClock(), logger))

	rec := doRequest(r, http.MethodPost, "/reviews", `{"text":"хорошо"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode[models.ErrorResponse](t, rec).Message, "internal server error: ")
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestAdmin(t *testing.T) {
	healthy := true
	r := gin.New()
	NewAdminHandler(pingFunc(func(context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("connection refused")
	}), zap.NewNop()).RegisterRoutes(r)

	rec := doRequest(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])

	healthy = false
	rec = doRequest(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doRequest(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAdmin_OpenAPI(t *testing.T) {
	r := gin.New()
	NewAdminHandler(pingFunc(func(context.Context) error { return nil }), zap.NewNop()).RegisterRoutes(r)

	rec := doRequest(r, http.MethodGet, "/openapi.yaml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))

	var doc struct {
		OpenAPI string                               `yaml:"openapi"`
		Paths   map[string]map[string]map[string]any `yaml:"paths"`
	}
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	require.Len(t, doc.Paths, 1, "only the review endpoints are public")
	assert.Contains(t, doc.Paths["/reviews"], "post")
	assert.Contains(t, doc.Paths["/reviews"], "get")
}
