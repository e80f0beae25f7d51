package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"marketmood/internal/aggregate"
	"marketmood/internal/analysis"
	"marketmood/internal/model"
	"marketmood/internal/normalize"
	"marketmood/internal/upload"
	"marketmood/pkg/feed"
)

const noDataMessage = "no data available for this input"

type RunStore interface {
	SaveRun(run *model.AnalysisRun, articles []model.ScoredArticle) error
	GetRun(id int64) (*model.AnalysisRun, error)
	ListRuns(limit, offset int) ([]model.AnalysisRun, error)
	GetRunsTotal() (int, error)
	GetRunArticles(runID int64) ([]model.ScoredArticle, error)
}

// SummaryCache caches serialized analysis payloads per keyword. A nil cache
// disables caching.
type SummaryCache interface {
	Get(keyword string) ([]byte, error)
	Set(keyword string, payload []byte) error
}

type AnalysisHandler struct {
	engine  *analysis.Engine
	clients []feed.Client
	store   RunStore
	cache   SummaryCache
}

func NewAnalysisHandler(engine *analysis.Engine, clients []feed.Client, store RunStore, cache SummaryCache) *AnalysisHandler {
	return &AnalysisHandler{engine: engine, clients: clients, store: store, cache: cache}
}

type AnalyzeRequest struct {
	Keyword string `json:"keyword"`
}

// PostAnalyze fetches live news for a keyword, runs the pipeline, persists
// the run and returns the scored articles plus the aggregate summary.
func (h *AnalysisHandler) PostAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Keyword is required"})
		return
	}

	if h.cache != nil {
		cached, err := h.cache.Get(keyword)
		if err != nil {
			slog.Warn("summary cache read failed", "keyword", keyword, "error", err)
		}
		if cached != nil {
			c.Data(http.StatusOK, "application/json", cached)
			return
		}
	}

	var records []normalize.Record
	fetchErrors := 0
	for _, client := range h.clients {
		fetched, err := client.Search(keyword, 100)
		if err != nil {
			slog.Error("error fetching feed", "source", client.Name(), "keyword", keyword, "error", err)
			fetchErrors++
			continue
		}
		records = append(records, fetched...)
	}

	if len(records) == 0 {
		status := http.StatusNotFound
		if fetchErrors == len(h.clients) && len(h.clients) > 0 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": noDataMessage})
		return
	}

	res := h.runAndRespond(keyword, model.InputFeed, records)

	if h.cache != nil {
		payload, err := json.Marshal(res)
		if err == nil {
			err = h.cache.Set(keyword, payload)
		}
		if err != nil {
			slog.Warn("summary cache write failed", "keyword", keyword, "error", err)
		}
	}

	c.JSON(http.StatusOK, res)
}

// PostUpload analyzes an uploaded CSV/JSON/XML/RSS file.
func (h *AnalysisHandler) PostUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": noDataMessage})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": noDataMessage})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": noDataMessage})
		return
	}

	records, err := upload.Parse(fileHeader.Filename, data)
	if err != nil {
		slog.Warn("error parsing uploaded file", "filename", fileHeader.Filename, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": noDataMessage})
		return
	}

	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": noDataMessage})
		return
	}

	c.JSON(http.StatusOK, h.runAndRespond(fileHeader.Filename, model.InputUpload, records))
}

// runAndRespond executes the pipeline and persists the run. A persistence
// failure is logged but does not discard the computed result.
func (h *AnalysisHandler) runAndRespond(keyword, kind string, records []normalize.Record) *AnalysisResponse {
	result := h.engine.Run(records, time.Now().UTC())

	run := model.AnalysisRun{
		Keyword:      keyword,
		InputKind:    kind,
		ArticleCount: len(result.Articles),
		DroppedCount: result.Dropped,
	}

	if h.store != nil {
		if err := h.store.SaveRun(&run, result.Articles); err != nil {
			slog.Error("error saving analysis run", "keyword", keyword, "error", err)
		}
	}

	return BuildAnalysisResponse(run, result)
}

// BuildAnalysisResponse assembles the payload served for an analysis run.
// The collector uses it to pre-warm the summary cache with the same shape
// the API returns.
func BuildAnalysisResponse(run model.AnalysisRun, result *analysis.Result) *AnalysisResponse {
	articles := make([]ArticleResponse, 0, len(result.Articles))
	for _, a := range result.Articles {
		articles = append(articles, toArticleResponse(a))
	}

	return &AnalysisResponse{
		RunID:     run.ID,
		Keyword:   run.Keyword,
		InputKind: run.InputKind,
		Dropped:   result.Dropped,
		Articles:  articles,
		Summary:   toSummaryResponse(result.Summary),
	}
}

func (h *AnalysisHandler) GetRuns(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	runs, err := h.store.ListRuns(limit, offset)
	if err != nil {
		slog.Error("error listing runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.store.GetRunsTotal()
	if err != nil {
		slog.Error("error fetching runs total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	runsRes := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		runsRes = append(runsRes, RunResponse{
			ID:           run.ID,
			Keyword:      run.Keyword,
			InputKind:    run.InputKind,
			ArticleCount: run.ArticleCount,
			DroppedCount: run.DroppedCount,
			CreatedAt:    run.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, RunsResponse{
		Runs:   runsRes,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// GetRun returns a stored run with its articles and a summary recomputed
// from them.
func (h *AnalysisHandler) GetRun(c *gin.Context) {
	id := c.Param("id")

	runID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid run id"})
		return
	}

	run, err := h.store.GetRun(runID)
	if err != nil {
		slog.Error("error fetching run", "error", err, "run_id", runID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}

	articles, err := h.store.GetRunArticles(runID)
	if err != nil {
		slog.Error("error fetching run articles", "error", err, "run_id", runID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	articleRes := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		articleRes = append(articleRes, toArticleResponse(a))
	}

	c.JSON(http.StatusOK, AnalysisResponse{
		RunID:     run.ID,
		Keyword:   run.Keyword,
		InputKind: run.InputKind,
		Dropped:   run.DroppedCount,
		Articles:  articleRes,
		Summary:   toSummaryResponse(aggregate.Summarize(articles)),
	})
}

func (h *AnalysisHandler) GetHealth(c *gin.Context) {
	_, err := h.store.GetRunsTotal()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	param := c.Query(name)

	if param == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(param)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", param, "error", err)
		return defaultValue
	}

	return parsed
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 10
		maxLimit     = 100
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		slog.Warn("invalid query parameter, using default", "param", "offset", "value", offset, "default", 0)
		return 0
	}
	return offset
}
