package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"litdisplay/models"
	"litdisplay/scripture"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	events []string
	data   []map[string]any
}

func (n *recordingNotifier) Broadcast(event string, data map[string]any) {
	n.events = append(n.events, event)
	n.data = append(n.data, data)
}

func newTestDayService(t *testing.T, calendarURL string) (*DayService, *recordingNotifier) {
	t.Helper()
	db := openTestDB(t)

	provider := &stubProvider{verses: map[string]string{"16": "For God so loved the world"}}
	resolver, err := scripture.NewResolver(provider)
	require.NoError(t, err)

	days := NewDayService(db, NewCalendarClient(calendarURL, nil), resolver,
		NewReflectionService(db, "", "", "", nil),
		NewWikipediaService(db, time.Hour, nil), nil)
	notifier := &recordingNotifier{}
	days.SetNotifier(notifier)
	return days, notifier
}

func TestDayServiceRefreshAssemblesPersistsNotifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"name": "Test Feast",
			"season": "Trinity",
			"colour": "green",
			"readings": ["John 3:16"]
		}`))
	}))
	defer srv.Close()

	days, notifier := newTestDayService(t, srv.URL)
	db := days.db

	day, err := days.Refresh(context.Background(), "2026-08-23")
	require.NoError(t, err)
	assert.Equal(t, "Test Feast", day.Name)
	assert.Equal(t, "green", day.Colour)
	assert.Contains(t, day.Readings, `"reference":"John 3:16"`)
	assert.Contains(t, day.Readings, "For God so loved the world")
	assert.NotEmpty(t, day.Reflection)

	var stored models.LiturgicalDay
	require.NoError(t, db.Where("date = ?", "2026-08-23").First(&stored).Error)
	assert.Equal(t, day.Readings, stored.Readings)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, "day-updated", notifier.events[0])
	assert.Equal(t, "2026-08-23", notifier.data[0]["date"])
}

func TestDayServiceGetDayServesCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name": "Test Feast", "season": "Trinity", "readings": []}`))
	}))
	defer srv.Close()

	days, notifier := newTestDayService(t, srv.URL)

	first, err := days.GetDay(context.Background(), "2026-08-23")
	require.NoError(t, err)

	// Second call hits the cached row: no rebuild, no second broadcast.
	second, err := days.GetDay(context.Background(), "2026-08-23")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, notifier.events, 1)
}

func TestDayServiceRefreshReplacesRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name": "Test Feast", "season": "Trinity", "readings": []}`))
	}))
	defer srv.Close()

	days, _ := newTestDayService(t, srv.URL)
	db := days.db

	first, err := days.Refresh(context.Background(), "2026-08-23")
	require.NoError(t, err)
	second, err := days.Refresh(context.Background(), "2026-08-23")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.LiturgicalDay{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDayServiceInvalidateDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name": "Test Feast", "season": "Lent", "readings": []}`))
	}))
	defer srv.Close()

	days, _ := newTestDayService(t, srv.URL)
	db := days.db

	_, err := days.Refresh(context.Background(), "2026-03-01")
	require.NoError(t, err)
	require.NoError(t, days.InvalidateDay("2026-03-01"))

	var count int64
	db.Model(&models.LiturgicalDay{}).Where("date = ?", "2026-03-01").Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&models.Reflection{}).Where("date = ?", "2026-03-01").Count(&count)
	assert.EqualValues(t, 0, count)
}
