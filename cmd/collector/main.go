package main

import (
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"marketmood/db"
	"marketmood/internal/analysis"
	"marketmood/internal/handler"
	"marketmood/internal/model"
	"marketmood/internal/normalize"
	"marketmood/internal/repository"
	"marketmood/pkg/feed"
)

// The collector keeps tracked keywords fresh: on a cron schedule it fetches
// each keyword's feed, runs the analysis pipeline, persists the run and
// refreshes the redis summary cache.
func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	cacheEnabled := true
	if err := db.ConnectRedis(); err != nil {
		slog.Warn("redis unavailable, summary caching disabled", "error", err)
		cacheEnabled = false
	} else {
		defer db.CloseRedis()
	}

	keywords := splitKeywords(os.Getenv("TRACKED_KEYWORDS"))
	if len(keywords) == 0 {
		slog.Error("no tracked keywords configured, set TRACKED_KEYWORDS")
		return
	}

	clients := []feed.Client{feed.NewGoogleNewsClient()}
	if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		clients = append(clients, feed.NewFinnhubClient(key))
	}

	c := collector{
		engine:       analysis.NewEngine(),
		clients:      clients,
		repo:         repository.NewRunRepository(db.DB),
		keywords:     keywords,
		cacheEnabled: cacheEnabled,
		cacheTTL:     db.CacheTTL(),
	}

	spec := os.Getenv("COLLECT_CRON")
	if spec == "" {
		spec = "*/30 * * * *"
	}

	scheduler := cron.New()
	_, err = scheduler.AddFunc(spec, c.runOnce)
	if err != nil {
		log.Fatalf("invalid COLLECT_CRON spec %q: %v", spec, err)
	}

	slog.Info("collector started", "keywords", keywords, "cron", spec)

	c.runOnce()
	scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	scheduler.Stop()
	slog.Info("collector stopped")
}

type collector struct {
	engine       *analysis.Engine
	clients      []feed.Client
	repo         *repository.RunRepository
	keywords     []string
	cacheEnabled bool
	cacheTTL     time.Duration
}

func (c *collector) runOnce() {
	var wg sync.WaitGroup
	for _, keyword := range c.keywords {
		keyword := keyword
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.collectKeyword(keyword)
		}()
	}
	wg.Wait()
	slog.Info("collect cycle done", "keywords", len(c.keywords))
}

func (c *collector) collectKeyword(keyword string) {
	var records []normalize.Record
	for _, client := range c.clients {
		fetched, err := client.Search(keyword, 100)
		if err != nil {
			slog.Error("error fetching feed", "source", client.Name(), "keyword", keyword, "error", err)
			continue
		}
		records = append(records, fetched...)
	}

	if len(records) == 0 {
		slog.Warn("no records fetched", "keyword", keyword)
		return
	}

	result := c.engine.Run(records, time.Now().UTC())

	run := model.AnalysisRun{
		Keyword:      keyword,
		InputKind:    model.InputFeed,
		ArticleCount: len(result.Articles),
		DroppedCount: result.Dropped,
	}

	if err := c.repo.SaveRun(&run, result.Articles); err != nil {
		slog.Error("error saving analysis run", "keyword", keyword, "error", err)
		return
	}

	if c.cacheEnabled {
		payload, err := json.Marshal(handler.BuildAnalysisResponse(run, result))
		if err == nil {
			err = db.CacheSummary(keyword, payload, c.cacheTTL)
		}
		if err != nil {
			slog.Warn("summary cache write failed", "keyword", keyword, "error", err)
		}
	}

	slog.Info("keyword collected", "keyword", keyword,
		"articles", run.ArticleCount, "dropped", run.DroppedCount, "run_id", run.ID)
}

func splitKeywords(raw string) []string {
	var keywords []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}
