// services/verse_store.go - Database-backed chapter cache around a provider
package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"litdisplay/models"
	"litdisplay/scripture"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VerseStore decorates a verse-data provider with a per-translation chapter
// cache in the database. Fresh rows are served directly; on upstream failure
// a stale row is better than nothing.
type VerseStore struct {
	db    *gorm.DB
	inner scripture.Provider
	ttl   time.Duration
	log   *zap.Logger
}

func NewVerseStore(db *gorm.DB, inner scripture.Provider, ttl time.Duration, log *zap.Logger) *VerseStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &VerseStore{db: db, inner: inner, ttl: ttl, log: log}
}

func (s *VerseStore) GetChapter(ctx context.Context, book, chapter, version string) (scripture.ChapterData, error) {
	var row models.CachedChapter
	cacheErr := s.db.Where("book = ? AND chapter = ? AND version = ?", book, chapter, version).
		First(&row).Error
	cached := cacheErr == nil

	if cached && time.Since(row.FetchedAt) < s.ttl {
		return decodeChapter(row)
	}

	data, err := s.inner.GetChapter(ctx, book, chapter, version)
	if err != nil {
		if cached {
			s.log.Warn("chapter fetch failed, serving stale cache",
				zap.String("book", book),
				zap.String("chapter", chapter),
				zap.Error(err))
			return decodeChapter(row)
		}
		return scripture.ChapterData{}, err
	}

	s.save(row, data, version, cached)
	return data, nil
}

// ParseReference passes delegated parsing through to the wrapped provider.
func (s *VerseStore) ParseReference(ctx context.Context, reference, version string) (scripture.ParsedText, error) {
	parser, ok := s.inner.(scripture.ReferenceParser)
	if !ok {
		return scripture.ParsedText{}, errors.New("verse store: wrapped provider cannot parse references")
	}
	return parser.ParseReference(ctx, reference, version)
}

func (s *VerseStore) save(row models.CachedChapter, data scripture.ChapterData, version string, update bool) {
	raw, err := json.Marshal(data.Verses)
	if err != nil {
		s.log.Error("marshal chapter for cache", zap.Error(err))
		return
	}

	row.Book = data.Book
	row.Chapter = data.Chapter
	row.Version = version
	row.Verses = string(raw)
	row.FetchedAt = time.Now().UTC()

	var dbErr error
	if update {
		dbErr = s.db.Save(&row).Error
	} else {
		dbErr = s.db.Create(&row).Error
	}
	if dbErr != nil {
		s.log.Error("store chapter in cache", zap.Error(dbErr))
	}
}

func decodeChapter(row models.CachedChapter) (scripture.ChapterData, error) {
	verses := map[string]string{}
	if err := json.Unmarshal([]byte(row.Verses), &verses); err != nil {
		return scripture.ChapterData{}, err
	}
	return scripture.ChapterData{Book: row.Book, Chapter: row.Chapter, Verses: verses}, nil
}
