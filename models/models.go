// models/models.go - Persistence models for the liturgical day cache
package models

import "time"

// LiturgicalDay is one assembled daily artifact: calendar data, resolved
// readings, reflection, and Wikipedia summary, cached per date.
type LiturgicalDay struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Date             string    `json:"date" gorm:"uniqueIndex;size:10;not null"` // YYYY-MM-DD
	Name             string    `json:"name" gorm:"size:200"`
	Season           string    `json:"season" gorm:"size:100"`
	Colour           string    `json:"colour" gorm:"size:50"`
	Week             string    `json:"week" gorm:"size:150"`
	WikipediaURL     string    `json:"wikipedia_url" gorm:"size:500"`
	WikipediaSummary string    `json:"wikipedia_summary" gorm:"type:text"`
	Reflection       string    `json:"reflection" gorm:"type:text"`
	Readings         string    `json:"-" gorm:"type:text"` // JSON-encoded resolved readings
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CachedChapter stores a fetched chapter's verse map per translation.
type CachedChapter struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Book      string    `json:"book" gorm:"size:100;not null;uniqueIndex:idx_chapter_key"`
	Chapter   string    `json:"chapter" gorm:"size:10;not null;uniqueIndex:idx_chapter_key"`
	Version   string    `json:"version" gorm:"size:20;not null;uniqueIndex:idx_chapter_key"`
	Verses    string    `json:"-" gorm:"type:text;not null"` // JSON verse-number-to-text map
	FetchedAt time.Time `json:"fetched_at"`
}

// Reflection caches one generated devotional text per date.
type Reflection struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Date      string    `json:"date" gorm:"uniqueIndex;size:10;not null"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	Model     string    `json:"model" gorm:"size:100"`
	CreatedAt time.Time `json:"created_at"`
}

// WikiSummary caches a Wikipedia page summary.
type WikiSummary struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"uniqueIndex;size:300;not null"`
	URL       string    `json:"url" gorm:"size:500"`
	Extract   string    `json:"extract" gorm:"type:text"`
	FetchedAt time.Time `json:"fetched_at"`
}

// AdminUser is the single operator account for cache and display controls.
type AdminUser struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string    `json:"-" gorm:"size:200;not null"`
	LastLogin    time.Time `json:"last_login"`
	CreatedAt    time.Time `json:"created_at"`
}

func (LiturgicalDay) TableName() string { return "liturgical_days" }
func (CachedChapter) TableName() string { return "chapter_cache" }
func (Reflection) TableName() string    { return "reflections" }
func (WikiSummary) TableName() string   { return "wiki_summaries" }
func (AdminUser) TableName() string     { return "admin_users" }
