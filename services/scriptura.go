// services/scriptura.go - Scriptura API verse-data provider
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"litdisplay/scripture"

	"go.uber.org/zap"
)

const scripturaTimeout = 10 * time.Second

// ScripturaClient fetches chapter data and provider-side parses from a
// Scriptura-style verse API. It satisfies both scripture.Provider and
// scripture.ReferenceParser.
type ScripturaClient struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewScripturaClient(baseURL string, log *zap.Logger) *ScripturaClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScripturaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: scripturaTimeout},
		log:     log,
	}
}

// GetChapter fetches a chapter's full verse map.
func (c *ScripturaClient) GetChapter(ctx context.Context, book, chapter, version string) (scripture.ChapterData, error) {
	query := url.Values{
		"book":    {book},
		"chapter": {chapter},
		"version": {version},
	}
	var payload struct {
		Verses map[string]string `json:"verses"`
	}
	if err := c.getJSON(ctx, "/api/chapter", query, &payload); err != nil {
		return scripture.ChapterData{}, err
	}
	if payload.Verses == nil {
		return scripture.ChapterData{}, fmt.Errorf("scriptura: malformed chapter response for %s %s", book, chapter)
	}
	return scripture.ChapterData{Book: book, Chapter: chapter, Verses: payload.Verses}, nil
}

// ParseReference asks the API to parse and format a whole reference.
func (c *ScripturaClient) ParseReference(ctx context.Context, reference, version string) (scripture.ParsedText, error) {
	query := url.Values{
		"reference": {reference},
		"version":   {version},
	}
	var payload struct {
		Parsed        bool   `json:"parsed"`
		FormattedText string `json:"formatted_text"`
		Error         string `json:"error"`
	}
	if err := c.getJSON(ctx, "/api/parse", query, &payload); err != nil {
		return scripture.ParsedText{}, err
	}
	return scripture.ParsedText{
		Parsed:        payload.Parsed,
		FormattedText: payload.FormattedText,
		Error:         payload.Error,
	}, nil
}

func (c *ScripturaClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("scriptura: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("scriptura: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scriptura: %s returned status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("scriptura: decode %s response: %w", path, err)
	}
	return nil
}
