package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Provider identifies the external service an export was produced by.
type Provider string

const (
	ProviderLetterboxd  Provider = "LETTERBOXD"
	ProviderMyAnimeList Provider = "MY_ANIME_LIST"
)

// ImportStatus tracks progress of a batch or a single imported item.
// NOT_STARTED is the only status the decode/persist path ever writes;
// the remaining transitions belong to the background processor.
type ImportStatus string

const (
	ImportStatusNotStarted ImportStatus = "NOT_STARTED"
	ImportStatusPartial    ImportStatus = "PARTIAL"
	ImportStatusCompleted  ImportStatus = "COMPLETED"
	ImportStatusFailed     ImportStatus = "FAILED"
)

// UserItemStatus is the internal watch-state vocabulary that every
// provider-specific status is translated into.
type UserItemStatus string

const (
	ItemStatusWatched   UserItemStatus = "WATCHED"
	ItemStatusWatching  UserItemStatus = "WATCHING"
	ItemStatusWatchlist UserItemStatus = "WATCHLIST"
	ItemStatusDropped   UserItemStatus = "DROPPED"
)

// Metadata holds the verbatim provider record for an imported item as an
// opaque JSON document. Its shape varies per provider and is kept purely
// for auditing, so it is stored schema-less.
type Metadata map[string]any

// Value implements driver.Valuer, serializing to JSON text.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *Metadata) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}
}

// UserImport is the header row for one user-initiated import. It
// exclusively owns its movie and series children: they are created in the
// same transaction and removed with the header via cascade.
type UserImport struct {
	ID           string       `gorm:"primaryKey;size:36" json:"id"`
	UserID       string       `gorm:"index;size:36;not null" json:"user_id"`
	Provider     Provider     `gorm:"size:20;not null" json:"provider"`
	ItemsCount   int          `gorm:"not null" json:"items_count"`
	ImportStatus ImportStatus `gorm:"size:20;not null;default:'NOT_STARTED'" json:"import_status"`

	User   User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Movies []ImportMovie  `gorm:"foreignKey:ImportID;constraint:OnDelete:CASCADE" json:"movies"`
	Series []ImportSeries `gorm:"foreignKey:ImportID;constraint:OnDelete:CASCADE" json:"series"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ImportMovie is one movie entry from a provider export.
type ImportMovie struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	ImportID       string         `gorm:"index;size:36;not null" json:"import_id"`
	Name           string         `gorm:"size:512;not null" json:"name"`
	EndDate        *time.Time     `json:"end_date,omitempty"`
	UserItemStatus UserItemStatus `gorm:"size:20;not null" json:"user_item_status"`
	ImportStatus   ImportStatus   `gorm:"size:20;not null;default:'NOT_STARTED'" json:"import_status"`
	TmdbID         *int64         `json:"tmdb_id,omitempty"`
	Metadata       Metadata       `gorm:"type:text" json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ImportSeries is one series entry from a provider export. Unlike movies
// it carries a start date and episode counters when the provider reports
// them.
type ImportSeries struct {
	ID              string         `gorm:"primaryKey;size:36" json:"id"`
	ImportID        string         `gorm:"index;size:36;not null" json:"import_id"`
	Name            string         `gorm:"size:512;not null" json:"name"`
	StartDate       *time.Time     `json:"start_date,omitempty"`
	EndDate         *time.Time     `json:"end_date,omitempty"`
	WatchedEpisodes *int           `json:"watched_episodes,omitempty"`
	SeriesEpisodes  *int           `json:"series_episodes,omitempty"`
	UserItemStatus  UserItemStatus `gorm:"size:20;not null" json:"user_item_status"`
	ImportStatus    ImportStatus   `gorm:"size:20;not null;default:'NOT_STARTED'" json:"import_status"`
	TmdbID          *int64         `json:"tmdb_id,omitempty"`
	Metadata        Metadata       `gorm:"type:text" json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
