// services/calendar.go - Liturgical calendar data collaborator
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CalendarInfo is one date's worth of calendar data: feast name, season,
// colour, and the day's reading references in lectionary order.
type CalendarInfo struct {
	Date     string   `json:"date"`
	Name     string   `json:"name"`
	Season   string   `json:"season"`
	Colour   string   `json:"colour"`
	Week     string   `json:"week"`
	URL      string   `json:"url"`
	Readings []string `json:"readings"`
}

// CalendarClient fetches liturgical data from an external calendar API.
// The calendar computation itself stays outside this system.
type CalendarClient struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewCalendarClient(baseURL string, log *zap.Logger) *CalendarClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &CalendarClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// GetDay returns calendar data for a YYYY-MM-DD date. Failures degrade to a
// minimal record; the page still renders without feast data.
func (c *CalendarClient) GetDay(ctx context.Context, date string) CalendarInfo {
	fallback := CalendarInfo{Date: date, Season: "Unknown", Colour: "Unknown"}
	if c.baseURL == "" {
		return fallback
	}

	info, err := c.fetch(ctx, date)
	if err != nil {
		c.log.Warn("calendar fetch failed", zap.String("date", date), zap.Error(err))
		return fallback
	}
	info.Date = date
	return info
}

func (c *CalendarClient) fetch(ctx context.Context, date string) (CalendarInfo, error) {
	u := c.baseURL + "/api/" + date
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return CalendarInfo{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return CalendarInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return CalendarInfo{}, fmt.Errorf("calendar API returned status %d", resp.StatusCode)
	}

	var info CalendarInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return CalendarInfo{}, fmt.Errorf("decode calendar response: %w", err)
	}
	return info, nil
}
