package db

import (
	"time"
)

// SearchHistory represents a saved search query
type SearchHistory struct {
	ID          int64
	Query       string
	ResultCount int
	Outcome     string
	CreatedAt   time.Time
}

// AddSearchHistory adds a search to history
func AddSearchHistory(query string, resultCount int, outcome string) error {
	_, err := database.Exec(`
		INSERT INTO search_history (query, result_count, outcome)
		VALUES (?, ?, ?)`,
		query, resultCount, outcome,
	)
	return err
}

// GetSearchHistory retrieves recent search history, newest first
func GetSearchHistory(limit int) ([]*SearchHistory, error) {
	if limit <= 0 {
		limit = 20
	}

	return queryHistory(`
		SELECT id, query, result_count, outcome, created_at
		FROM search_history
		ORDER BY id DESC
		LIMIT ?`, limit)
}

// GetUniqueSearchHistory retrieves unique recent searches (no duplicates)
func GetUniqueSearchHistory(limit int) ([]*SearchHistory, error) {
	if limit <= 0 {
		limit = 20
	}

	return queryHistory(`
		SELECT id, query, result_count, outcome, created_at
		FROM search_history
		WHERE id IN (
			SELECT MAX(id) FROM search_history GROUP BY query
		)
		ORDER BY id DESC
		LIMIT ?`, limit)
}

func queryHistory(query string, args ...interface{}) ([]*SearchHistory, error) {
	rows, err := database.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []*SearchHistory
	for rows.Next() {
		h := &SearchHistory{}
		if err := rows.Scan(&h.ID, &h.Query, &h.ResultCount, &h.Outcome, &h.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

// ClearSearchHistory removes all search history
func ClearSearchHistory() error {
	_, err := database.Exec(`DELETE FROM search_history`)
	return err
}

// DeleteSearchHistoryOlderThan removes history older than the given duration
func DeleteSearchHistoryOlderThan(d time.Duration) error {
	cutoff := time.Now().UTC().Add(-d).Format("2006-01-02 15:04:05")
	_, err := database.Exec(`DELETE FROM search_history WHERE created_at < ?`, cutoff)
	return err
}
