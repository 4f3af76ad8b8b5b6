// internal/memories/models.go

package memories

import (
	"errors"
	"time"
)

var (
	ErrMemoryNotFound = errors.New("memory not found")
	ErrUnauthorized   = errors.New("unauthorized")
)

// Memory is one scrapbook entry: a moment the couple wants to keep.
type Memory struct {
	ID         int64      `json:"id" db:"id"`
	UserID     int64      `json:"user_id" db:"user_id"`
	Title      string     `json:"title" db:"title"`
	Note       string     `json:"note" db:"note"`
	PhotoURL   *string    `json:"photo_url,omitempty" db:"photo_url"`
	MemoryDate time.Time  `json:"memory_date" db:"memory_date"`
	Favorite   bool       `json:"favorite" db:"favorite"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateMemoryRequest creates a scrapbook entry. The photo arrives as a
// separate multipart part.
type CreateMemoryRequest struct {
	Title      string    `json:"title" validate:"required,max=200"`
	Note       string    `json:"note" validate:"max=2000"`
	MemoryDate time.Time `json:"memory_date" validate:"required"`
}

// UpdateMemoryRequest edits an entry; nil fields are left alone.
type UpdateMemoryRequest struct {
	Title      *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Note       *string    `json:"note,omitempty" validate:"omitempty,max=2000"`
	MemoryDate *time.Time `json:"memory_date,omitempty"`
	Favorite   *bool      `json:"favorite,omitempty"`
}

// MemoriesResponse is the paginated scrapbook listing.
type MemoriesResponse struct {
	Memories   []*Memory `json:"memories"`
	TotalCount int       `json:"total_count"`
	HasMore    bool      `json:"has_more"`
}
