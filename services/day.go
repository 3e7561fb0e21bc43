// services/day.go - Liturgical day assembly and cache
package services

import (
	"context"
	"encoding/json"
	"fmt"

	"litdisplay/models"
	"litdisplay/scripture"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notifier receives day-update events; the websocket hub implements it.
type Notifier interface {
	Broadcast(event string, data map[string]any)
}

// DayService assembles one LiturgicalDay per date from the calendar,
// resolved readings, reflection, and Wikipedia collaborators, and caches the
// result in the database.
type DayService struct {
	db          *gorm.DB
	calendar    *CalendarClient
	resolver    *scripture.Resolver
	reflections *ReflectionService
	wikipedia   *WikipediaService
	notifier    Notifier
	log         *zap.Logger
}

func NewDayService(
	db *gorm.DB,
	calendar *CalendarClient,
	resolver *scripture.Resolver,
	reflections *ReflectionService,
	wikipedia *WikipediaService,
	log *zap.Logger,
) *DayService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DayService{
		db:          db,
		calendar:    calendar,
		resolver:    resolver,
		reflections: reflections,
		wikipedia:   wikipedia,
		log:         log,
	}
}

// SetNotifier attaches the update broadcaster. Optional.
func (s *DayService) SetNotifier(n Notifier) {
	s.notifier = n
}

// GetDay returns the cached artifact for a date, assembling it on a miss.
func (s *DayService) GetDay(ctx context.Context, date string) (*models.LiturgicalDay, error) {
	var day models.LiturgicalDay
	if err := s.db.Where("date = ?", date).First(&day).Error; err == nil {
		return &day, nil
	}
	return s.Refresh(ctx, date)
}

// Refresh rebuilds the artifact for a date and replaces the cached row.
func (s *DayService) Refresh(ctx context.Context, date string) (*models.LiturgicalDay, error) {
	jobID := uuid.NewString()
	s.log.Info("assembling liturgical day",
		zap.String("job_id", jobID),
		zap.String("date", date))

	info := s.calendar.GetDay(ctx, date)
	readings := s.resolver.ResolveReadings(ctx, info.Readings)
	readingsJSON, err := json.Marshal(readings)
	if err != nil {
		return nil, fmt.Errorf("encode readings: %w", err)
	}

	day := models.LiturgicalDay{
		Date:         date,
		Name:         info.Name,
		Season:       info.Season,
		Colour:       info.Colour,
		Week:         info.Week,
		WikipediaURL: info.URL,
		Readings:     string(readingsJSON),
	}
	day.Reflection = s.reflections.GetReflection(ctx, date, info, readings)
	if info.URL != "" {
		day.WikipediaSummary = s.wikipedia.Summary(ctx, info.URL)
	}

	var existing models.LiturgicalDay
	if err := s.db.Where("date = ?", date).First(&existing).Error; err == nil {
		day.ID = existing.ID
		day.CreatedAt = existing.CreatedAt
		err = s.db.Save(&day).Error
		if err != nil {
			return nil, fmt.Errorf("update liturgical day: %w", err)
		}
	} else if err := s.db.Create(&day).Error; err != nil {
		return nil, fmt.Errorf("store liturgical day: %w", err)
	}

	s.log.Info("liturgical day assembled",
		zap.String("job_id", jobID),
		zap.String("date", date),
		zap.String("name", day.Name),
		zap.Int("readings", len(readings)))

	if s.notifier != nil {
		s.notifier.Broadcast("day-updated", map[string]any{
			"date":   date,
			"job_id": jobID,
		})
	}
	return &day, nil
}

// InvalidateDay drops the cached artifact and reflection for a date so the
// next request rebuilds them.
func (s *DayService) InvalidateDay(date string) error {
	if err := s.db.Where("date = ?", date).Delete(&models.LiturgicalDay{}).Error; err != nil {
		return err
	}
	return s.db.Where("date = ?", date).Delete(&models.Reflection{}).Error
}
