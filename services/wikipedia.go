// services/wikipedia.go - Wikipedia summary fetch and cache
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"litdisplay/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const wikipediaAPIBase = "https://en.wikipedia.org/api/rest_v1/page/summary"

// WikipediaService fetches article summaries for feast days and caches them
// in the database.
type WikipediaService struct {
	db        *gorm.DB
	apiBase   string
	userAgent string
	ttl       time.Duration
	http      *http.Client
	log       *zap.Logger
}

func NewWikipediaService(db *gorm.DB, ttl time.Duration, log *zap.Logger) *WikipediaService {
	if log == nil {
		log = zap.NewNop()
	}
	return &WikipediaService{
		db:        db,
		apiBase:   wikipediaAPIBase,
		userAgent: "litdisplay/1.0 (liturgical eInk display)",
		ttl:       ttl,
		http:      &http.Client{Timeout: 10 * time.Second},
		log:       log,
	}
}

// ExtractArticleTitle pulls the article title out of a Wikipedia URL.
// Returns "" for anything that is not a /wiki/ article link.
func ExtractArticleTitle(wikipediaURL string) string {
	parsed, err := url.Parse(wikipediaURL)
	if err != nil || !strings.Contains(parsed.Host, "wikipedia.org") {
		return ""
	}
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != "wiki" {
		return ""
	}
	title, err := url.PathUnescape(parts[1])
	if err != nil {
		return parts[1]
	}
	return title
}

// Summary returns the article extract for a Wikipedia URL, or "" when the
// URL is unusable or the fetch fails. Never an error: the day page renders
// with or without it.
func (s *WikipediaService) Summary(ctx context.Context, wikipediaURL string) string {
	title := ExtractArticleTitle(wikipediaURL)
	if title == "" {
		return ""
	}

	var row models.WikiSummary
	cached := false
	if s.db != nil {
		if err := s.db.Where("title = ?", title).First(&row).Error; err == nil {
			cached = true
			if time.Since(row.FetchedAt) < s.ttl {
				return row.Extract
			}
		}
	}

	extract, err := s.fetch(ctx, title)
	if err != nil {
		s.log.Warn("wikipedia fetch failed", zap.String("title", title), zap.Error(err))
		if cached {
			return row.Extract
		}
		return ""
	}

	if s.db != nil {
		row.Title = title
		row.URL = wikipediaURL
		row.Extract = extract
		row.FetchedAt = time.Now().UTC()
		var dbErr error
		if cached {
			dbErr = s.db.Save(&row).Error
		} else {
			dbErr = s.db.Create(&row).Error
		}
		if dbErr != nil {
			s.log.Error("cache wikipedia summary", zap.Error(dbErr))
		}
	}
	return extract
}

func (s *WikipediaService) fetch(ctx context.Context, title string) (string, error) {
	u := s.apiBase + "/" + url.PathEscape(title)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wikipedia API returned status %d", resp.StatusCode)
	}

	var payload struct {
		Extract string `json:"extract"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode summary response: %w", err)
	}
	return payload.Extract, nil
}
