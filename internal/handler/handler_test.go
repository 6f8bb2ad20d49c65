package handler

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"movie-page-service/internal/model"
	"movie-page-service/internal/moviepage"
	"movie-page-service/internal/repository"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubFetcher struct {
	calls int32
	resp  *model.MovieResponse
	err   error
}

func (f *stubFetcher) FetchMovie(ctx context.Context, id string) (*model.MovieResponse, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.resp, f.err
}

type stubAnalytics struct {
	pingErr  error
	resetErr error
	lastPath string
}

func (s *stubAnalytics) GetOverallStats(ctx context.Context) (*repository.OverallStats, error) {
	return &repository.OverallStats{TotalCalls: 7}, nil
}

func (s *stubAnalytics) GetPathStats(ctx context.Context, path string) (*repository.PathStats, error) {
	s.lastPath = path
	return &repository.PathStats{Path: path, TotalCalls: 3}, nil
}

func (s *stubAnalytics) ResetMetrics(ctx context.Context) (int64, error) {
	return 5, s.resetErr
}

func (s *stubAnalytics) Ping(ctx context.Context) error {
	return s.pingErr
}

func successResponse() *model.MovieResponse {
	return &model.MovieResponse{
		Status: "success",
		Data: &model.Movie{
			Title:  model.MovieTitle{RU: "Иван Васильевич меняет профессию", EN: "Ivan Vasilievich: Back to the Future"},
			Poster: "https://example.com/ivan.jpg",
			Details: model.MovieDetails{
				Year:     "1973",
				Director: "Леонид Гайдай",
				Genres:   []model.Text{"комедия", "фантастика"},
				Country:  "СССР",
			},
		},
	}
}

func newTestRouter(fetcher moviepage.Fetcher, analytics Analytics, apiKey string) *gin.Engine {
	return NewRouter(RouterConfig{
		Movies:      NewMovieHandler(moviepage.NewLoader(fetcher), moviepage.NewLocale("ru")),
		Admin:       NewAdminHandler(analytics, StatusInfo{
			MovieAPIBaseURL: "http://backend/api",
			FetchAttempts:   1,
			FetchTimeout:    10 * time.Second,
			DefaultLocale:   "ru",
		}),
		AdminAPIKey: apiKey,
	})
}

func get(r *gin.Engine, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetMoviePage_Loaded(t *testing.T) {
	fetcher := &stubFetcher{resp: successResponse()}
	r := newTestRouter(fetcher, &stubAnalytics{}, "")

	w := get(r, "/movie/42")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	titles := doc.Find(".movie-title")
	require.Equal(t, 2, titles.Length())
	assert.Equal(t, "Иван Васильевич меняет профессию", titles.Eq(0).Text())
	assert.Equal(t, "Ivan Vasilievich: Back to the Future", titles.Eq(1).Text())
	assert.Equal(t, "https://example.com/ivan.jpg", doc.Find("img.movie-img").AttrOr("src", ""))
	assert.Equal(t, 2, doc.Find(".tag").Length())
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetcher.calls))
}

func TestGetMoviePage_MissingIdentifier(t *testing.T) {
	fetcher := &stubFetcher{resp: successResponse()}
	r := newTestRouter(fetcher, &stubAnalytics{}, "")

	w := get(r, "/movie", "Accept-Language", "en")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "movie identifier missing")
	assert.Zero(t, atomic.LoadInt32(&fetcher.calls))
}

func TestGetMoviePage_Phases(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *stubFetcher
		status  int
		class   string
		text    string
	}{
		{
			name:    "not success tagged",
			fetcher: &stubFetcher{resp: &model.MovieResponse{Status: "error"}},
			status:  http.StatusNotFound,
			class:   "not-found",
			text:    "Фильм не найден",
		},
		{
			name:    "transport failure",
			fetcher: &stubFetcher{err: errors.New("connection reset by peer")},
			status:  http.StatusBadGateway,
			class:   "error",
			text:    "Не удалось загрузить информацию о фильме",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(tt.fetcher, &stubAnalytics{}, "")

			w := get(r, "/movie/1")

			assert.Equal(t, tt.status, w.Code)
			doc, err := goquery.NewDocumentFromReader(w.Body)
			require.NoError(t, err)
			assert.True(t, doc.Find(".movie-page").HasClass(tt.class))
			assert.Contains(t, doc.Text(), tt.text)
			assert.NotContains(t, doc.Text(), "connection reset")
		})
	}
}

func TestGetMoviePage_LangOverride(t *testing.T) {
	r := newTestRouter(&stubFetcher{resp: successResponse()}, &stubAnalytics{}, "")

	w := get(r, "/movie/42?lang=en", "Accept-Language", "ru")

	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	assert.Equal(t, "en", doc.Find("html").AttrOr("lang", ""))
	assert.Equal(t, "About the movie", doc.Find(".descriptions-title").Text())
}

func TestGetMovieView(t *testing.T) {
	r := newTestRouter(&stubFetcher{resp: successResponse()}, &stubAnalytics{}, "")

	w := get(r, "/api/v1/movie/42")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Code int `json:"code"`
		Data struct {
			ID    string `json:"id"`
			State struct {
				Phase string `json:"phase"`
			} `json:"state"`
			View moviepage.View `json:"view"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 200, body.Code)
	assert.Equal(t, "42", body.Data.ID)
	assert.Equal(t, "loaded", body.Data.State.Phase)
	require.NotNil(t, body.Data.View.Movie)
	assert.Equal(t, "Иван Васильевич меняет профессию", body.Data.View.Movie.TitleRU)
}

func TestGetMovieView_Error(t *testing.T) {
	r := newTestRouter(&stubFetcher{err: errors.New("timeout")}, &stubAnalytics{}, "")

	w := get(r, "/api/v1/movie/42", "Accept-Language", "en")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var resp model.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "failed to load movie information", resp.Error)
}

func TestGetMoviePage_RequestLogCarriesOutcome(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	r := newTestRouter(&stubFetcher{err: errors.New("timeout")}, &stubAnalytics{}, "")
	require.Equal(t, http.StatusBadGateway, get(r, "/movie/42").Code)

	var request map[string]interface{}
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(line, &entry))
		if entry["message"] == "request" {
			request = entry
		}
	}
	require.NotNil(t, request, "request log line missing")
	assert.Equal(t, "error", request["level"])
	assert.Equal(t, "error", request["phase"])
	assert.Equal(t, moviepage.ErrLoadFailed.Error(), request["error"])
}

func TestStreamMovie(t *testing.T) {
	r := newTestRouter(&stubFetcher{resp: successResponse()}, &stubAnalytics{}, "")

	w := get(r, "/api/v1/movie/42/stream")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	var phases []string
	scanner := bufio.NewScanner(strings.NewReader(w.Body.String()))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		var event struct {
			ID    string `json:"id"`
			State struct {
				Phase string `json:"phase"`
			} `json:"state"`
		}
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &event))
		assert.Equal(t, "42", event.ID)
		phases = append(phases, event.State.Phase)
	}

	assert.Equal(t, []string{"loading", "loaded"}, phases)
	assert.Equal(t, 2, strings.Count(w.Body.String(), "event:state"))
}

func TestStaticStylesheet(t *testing.T) {
	r := newTestRouter(&stubFetcher{}, &stubAnalytics{}, "")

	w := get(r, "/static/movie-page.css")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ".movie-title")
}

func TestGetStatus(t *testing.T) {
	r := newTestRouter(&stubFetcher{}, &stubAnalytics{pingErr: errors.New("down")}, "")

	w := get(r, "/api/v1/status")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unavailable", body["redis"])
	assert.Equal(t, "http://backend/api", body["movie_api"])
	assert.Equal(t, float64(1), body["fetch_attempts"])
	assert.Equal(t, "10s", body["fetch_timeout"])
	assert.Equal(t, "ru", body["default_locale"])
}

func TestAnalyticsRoutes(t *testing.T) {
	analytics := &stubAnalytics{}
	r := newTestRouter(&stubFetcher{}, analytics, "key")

	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/analytics").Code)

	w := get(r, "/api/v1/analytics", "Authorization", "Bearer key")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_calls":7`)

	assert.Equal(t, http.StatusBadRequest, get(r, "/api/v1/analytics/endpoint", "Authorization", "Bearer key").Code)

	w = get(r, "/api/v1/analytics/endpoint?path=/movie/:id", "Authorization", "Bearer key")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/movie/:id", analytics.lastPath)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/analytics", nil)
	req.Header.Set("Authorization", "Bearer key")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deleted":5`)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusOK, statusFor(moviepage.Loaded(&model.Movie{})))
	assert.Equal(t, http.StatusNotFound, statusFor(moviepage.NotFound()))
	assert.Equal(t, http.StatusBadRequest, statusFor(moviepage.Failed(moviepage.ErrorMissingIdentifier)))
	assert.Equal(t, http.StatusBadGateway, statusFor(moviepage.Failed(moviepage.ErrorLoadFailed)))
	assert.Equal(t, http.StatusAccepted, statusFor(moviepage.Loading()))
}
