package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"marketmood/internal/analysis"
	"marketmood/internal/model"
	"marketmood/internal/normalize"
	"marketmood/pkg/feed"
)

type fakeStore struct {
	runs     []model.AnalysisRun
	total    int
	run      *model.AnalysisRun
	articles []model.ScoredArticle
	saved    []model.AnalysisRun
	err      error
}

func (f *fakeStore) SaveRun(run *model.AnalysisRun, articles []model.ScoredArticle) error {
	if f.err != nil {
		return f.err
	}
	run.ID = int64(len(f.saved) + 1)
	run.CreatedAt = time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	f.saved = append(f.saved, *run)
	return nil
}

func (f *fakeStore) GetRun(id int64) (*model.AnalysisRun, error) {
	return f.run, f.err
}

func (f *fakeStore) ListRuns(limit, offset int) ([]model.AnalysisRun, error) {
	return f.runs, f.err
}

func (f *fakeStore) GetRunsTotal() (int, error) {
	return f.total, f.err
}

func (f *fakeStore) GetRunArticles(runID int64) ([]model.ScoredArticle, error) {
	return f.articles, f.err
}

type fakeClient struct {
	records []normalize.Record
	err     error
}

func (f *fakeClient) Search(keyword string, limit int) ([]normalize.Record, error) {
	return f.records, f.err
}

func (f *fakeClient) Name() string { return "fake" }

func clientsOf(clients ...feed.Client) []feed.Client {
	return clients
}

type fakeCache struct {
	data map[string][]byte
}

func (f *fakeCache) Get(keyword string) ([]byte, error) {
	return f.data[keyword], nil
}

func (f *fakeCache) Set(keyword string, payload []byte) error {
	f.data[keyword] = payload
	return nil
}

func newTestRouter(h *AnalysisHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/analyze", h.PostAnalyze)
	r.POST("/upload", h.PostUpload)
	r.GET("/runs", h.GetRuns)
	r.GET("/runs/:id", h.GetRun)
	r.GET("/health", h.GetHealth)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestPostAnalyze_ReturnsScoredArticles(t *testing.T) {
	client := &fakeClient{records: []normalize.Record{
		{"title": "Bank posts record profit", "published": "2024-01-05", "url": "https://example.com/a"},
		{"title": "", "summary": ""},
	}}
	store := &fakeStore{}
	h := NewAnalysisHandler(analysis.NewEngine(), clientsOf(client), store, nil)

	r := newTestRouter(h)
	w := postJSON(r, "/analyze", `{"keyword":"ubs"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var res AnalysisResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "ubs", res.Keyword)
	assert.Equal(t, model.InputFeed, res.InputKind)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, 1, len(res.Articles))
	assert.Equal(t, model.LabelPositive, res.Articles[0].Label)
	assert.Equal(t, 1, res.Summary.Total)
	assert.Equal(t, 1, len(store.saved))
	assert.Equal(t, 1, store.saved[0].ArticleCount)
	assert.Equal(t, 1, store.saved[0].DroppedCount)
}

func TestPostAnalyze_EmptyKeyword(t *testing.T) {
	h := NewAnalysisHandler(analysis.NewEngine(), nil, &fakeStore{}, nil)
	r := newTestRouter(h)

	w := postJSON(r, "/analyze", `{"keyword":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostAnalyze_AllClientsFail(t *testing.T) {
	client := &fakeClient{err: errors.New("feed unreachable")}
	h := NewAnalysisHandler(analysis.NewEngine(), clientsOf(client), &fakeStore{}, nil)
	r := newTestRouter(h)

	w := postJSON(r, "/analyze", `{"keyword":"ubs"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, true, strings.Contains(w.Body.String(), "no data available"))
}

func TestPostAnalyze_NoArticlesFound(t *testing.T) {
	client := &fakeClient{records: nil}
	h := NewAnalysisHandler(analysis.NewEngine(), clientsOf(client), &fakeStore{}, nil)
	r := newTestRouter(h)

	w := postJSON(r, "/analyze", `{"keyword":"ubs"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostAnalyze_CacheHitSkipsFetch(t *testing.T) {
	cache := &fakeCache{data: map[string][]byte{
		"ubs": []byte(`{"keyword":"ubs","cached":true}`),
	}}
	client := &fakeClient{err: errors.New("should not be called")}
	h := NewAnalysisHandler(analysis.NewEngine(), clientsOf(client), &fakeStore{}, cache)
	r := newTestRouter(h)

	w := postJSON(r, "/analyze", `{"keyword":"ubs"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, strings.Contains(w.Body.String(), `"cached":true`))
}

func TestPostAnalyze_PopulatesCache(t *testing.T) {
	cache := &fakeCache{data: map[string][]byte{}}
	client := &fakeClient{records: []normalize.Record{
		{"title": "Bank posts record profit", "published": "2024-01-05"},
	}}
	h := NewAnalysisHandler(analysis.NewEngine(), clientsOf(client), &fakeStore{}, cache)
	r := newTestRouter(h)

	w := postJSON(r, "/analyze", `{"keyword":"ubs"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, 0, len(cache.data["ubs"]))
}

func TestPostUpload_CSV(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "articles.csv")
	fw.Write([]byte("title,summary,published\nBank posts record profit,,2024-01-05\n"))
	mw.Close()

	h := NewAnalysisHandler(analysis.NewEngine(), nil, &fakeStore{}, nil)
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res AnalysisResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, model.InputUpload, res.InputKind)
	assert.Equal(t, 1, len(res.Articles))
	assert.Equal(t, "Bank posts record profit", res.Articles[0].Summary)
}

func TestPostUpload_MissingFile(t *testing.T) {
	h := NewAnalysisHandler(analysis.NewEngine(), nil, &fakeStore{}, nil)
	r := newTestRouter(h)

	w := postJSON(r, "/upload", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, true, strings.Contains(w.Body.String(), "no data available"))
}

func TestGetRun_Found(t *testing.T) {
	published := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{
		run: &model.AnalysisRun{ID: 7, Keyword: "ubs", InputKind: model.InputFeed, ArticleCount: 1},
		articles: []model.ScoredArticle{
			{
				NewsItem:  model.NewsItem{Title: "t", Summary: "s", Source: "unknown", PublishedAt: published},
				Sentiment: model.SentimentResult{Label: model.LabelPositive, Urgency: model.UrgencyMedium},
			},
		},
	}
	h := NewAnalysisHandler(analysis.NewEngine(), nil, store, nil)
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/runs/7", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res AnalysisResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, int64(7), res.RunID)
	assert.Equal(t, 1, res.Summary.Counts[model.LabelPositive])
	assert.Equal(t, 1, len(res.Summary.Trend))
	assert.Equal(t, "2024-01-05", res.Summary.Trend[0].Date)
}

func TestGetRun_NotFound(t *testing.T) {
	h := NewAnalysisHandler(analysis.NewEngine(), nil, &fakeStore{}, nil)
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/runs/999", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRuns_DefaultLimit(t *testing.T) {
	h := NewAnalysisHandler(analysis.NewEngine(), nil, &fakeStore{}, nil)
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/runs", nil)
	r.ServeHTTP(w, req)

	var res RunsResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 10, res.Limit)
	assert.Equal(t, 0, res.Offset)
}

func TestGetRuns_DBError(t *testing.T) {
	h := NewAnalysisHandler(analysis.NewEngine(), nil, &fakeStore{err: errors.New("DB down")}, nil)
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/runs", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetHealth(t *testing.T) {
	h := NewAnalysisHandler(analysis.NewEngine(), nil, &fakeStore{}, nil)
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	hDown := NewAnalysisHandler(analysis.NewEngine(), nil, &fakeStore{err: errors.New("DB down")}, nil)
	rDown := newTestRouter(hDown)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/health", nil)
	rDown.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
