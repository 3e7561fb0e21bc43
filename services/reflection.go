// services/reflection.go - Daily devotional reflection generation
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"litdisplay/models"
	"litdisplay/scripture"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReflectionService generates a short devotional text for a date via an
// OpenAI-compatible chat API and caches one reflection per date. The text
// generator is an opaque collaborator; without an API key a seasonal
// fallback is used so the display never goes blank.
type ReflectionService struct {
	db      *gorm.DB
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewReflectionService(db *gorm.DB, apiKey, model, baseURL string, log *zap.Logger) *ReflectionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReflectionService{
		db:      db,
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// GetReflection returns the cached reflection for a date, generating and
// caching a new one when needed. It never fails; errors degrade to the
// fallback text.
func (s *ReflectionService) GetReflection(ctx context.Context, date string, day CalendarInfo, readings []scripture.ResolvedReading) string {
	if s.db != nil {
		var cached models.Reflection
		if err := s.db.Where("date = ?", date).First(&cached).Error; err == nil {
			return cached.Text
		}
	}

	text, model, err := s.generate(ctx, day, readings)
	if err != nil {
		s.log.Warn("reflection generation failed, using fallback",
			zap.String("date", date),
			zap.Error(err))
		text, model = s.fallback(day), "fallback"
	}

	if s.db != nil {
		if err := s.db.Create(&models.Reflection{Date: date, Text: text, Model: model}).Error; err != nil {
			s.log.Error("cache reflection", zap.Error(err))
		}
	}
	return text
}

func (s *ReflectionService) generate(ctx context.Context, day CalendarInfo, readings []scripture.ResolvedReading) (string, string, error) {
	if s.apiKey == "" {
		return "", "", fmt.Errorf("no API key configured")
	}

	var refs []string
	for _, r := range readings {
		refs = append(refs, r.Reference)
	}
	prompt := fmt.Sprintf(
		"Write a brief devotional reflection (3-4 sentences) for %s in the season of %s.",
		describeDay(day), day.Season)
	if len(refs) > 0 {
		prompt += " Today's readings: " + strings.Join(refs, "; ") + "."
	}

	body, err := json.Marshal(map[string]any{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "system", "content": "You write short, warm liturgical reflections for a daily devotional display."},
			{"role": "user", "content": prompt},
		},
		"max_tokens": 220,
	})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("chat API returned status %d", resp.StatusCode)
	}

	var payload struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(payload.Choices) == 0 || strings.TrimSpace(payload.Choices[0].Message.Content) == "" {
		return "", "", fmt.Errorf("chat API returned no content")
	}
	return strings.TrimSpace(payload.Choices[0].Message.Content), s.model, nil
}

func (s *ReflectionService) fallback(day CalendarInfo) string {
	season := strings.ToLower(day.Season)
	switch {
	case strings.Contains(season, "advent"):
		return "In this season of Advent we wait in hope for the coming of the Lord, preparing our hearts in watchfulness and prayer."
	case strings.Contains(season, "christmas"):
		return "In this season of Christmas we celebrate the Word made flesh, light shining in the darkness that the darkness cannot overcome."
	case strings.Contains(season, "lent"):
		return "In this season of Lent we turn again toward God in repentance and simplicity, trusting mercy greater than our failings."
	case strings.Contains(season, "easter"):
		return "In this season of Easter we rejoice in the risen Christ, and in the new life that rises wherever he is welcomed."
	default:
		return "Take a quiet moment today to give thanks, to remember those in need, and to walk gently with God."
	}
}

func describeDay(day CalendarInfo) string {
	if day.Name != "" {
		return day.Name
	}
	return "the day"
}
