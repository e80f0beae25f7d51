package repository

import (
	"database/sql"

	"marketmood/internal/model"
)

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// SaveRun inserts the run and its scored articles in one transaction.
func (r *RunRepository) SaveRun(run *model.AnalysisRun, articles []model.ScoredArticle) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		INSERT INTO analysis_run(keyword, input_kind, article_count, dropped_count)
		VALUES($1, $2, $3, $4)
		RETURNING id, created_at
	`, run.Keyword, run.InputKind, run.ArticleCount, run.DroppedCount).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return err
	}

	for i := range articles {
		a := &articles[i]
		err = tx.QueryRow(`
			INSERT INTO scored_article(run_id, title, summary, source, url, published_at, date_inferred, polarity, compound, label, urgency)
			VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id
		`, run.ID, a.Title, a.Summary, a.Source, a.URL, a.PublishedAt, a.DateInferred,
			a.Sentiment.Polarity, a.Sentiment.Compound, a.Sentiment.Label, a.Sentiment.Urgency).Scan(&a.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *RunRepository) GetRun(id int64) (*model.AnalysisRun, error) {
	var run model.AnalysisRun
	err := r.db.QueryRow(`
		SELECT id, keyword, input_kind, article_count, dropped_count, created_at
		FROM analysis_run
		WHERE id = $1
	`, id).Scan(&run.ID, &run.Keyword, &run.InputKind, &run.ArticleCount, &run.DroppedCount, &run.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &run, nil
}

func (r *RunRepository) ListRuns(limit, offset int) ([]model.AnalysisRun, error) {
	rows, err := r.db.Query(`
		SELECT id, keyword, input_kind, article_count, dropped_count, created_at
		FROM analysis_run
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.AnalysisRun
	for rows.Next() {
		var run model.AnalysisRun
		err := rows.Scan(&run.ID, &run.Keyword, &run.InputKind, &run.ArticleCount, &run.DroppedCount, &run.CreatedAt)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

func (r *RunRepository) GetRunsTotal() (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM analysis_run
	`).Scan(&total)
	return total, err
}

// GetRunArticles returns the scored articles of a run in insertion order.
func (r *RunRepository) GetRunArticles(runID int64) ([]model.ScoredArticle, error) {
	rows, err := r.db.Query(`
		SELECT id, title, summary, source, url, published_at, date_inferred, polarity, compound, label, urgency
		FROM scored_article
		WHERE run_id = $1
		ORDER BY id ASC
	`, runID)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []model.ScoredArticle
	for rows.Next() {
		var a model.ScoredArticle
		err := rows.Scan(&a.ID, &a.Title, &a.Summary, &a.Source, &a.URL, &a.PublishedAt, &a.DateInferred,
			&a.Sentiment.Polarity, &a.Sentiment.Compound, &a.Sentiment.Label, &a.Sentiment.Urgency)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return articles, nil
}
