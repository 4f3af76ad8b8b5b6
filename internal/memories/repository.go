// internal/memories/repository.go

package memories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateMemory(ctx context.Context, memory *Memory) error
	GetMemory(ctx context.Context, memoryID int64) (*Memory, error)
	ListMemories(ctx context.Context, userID int64, limit, offset int, favoritesOnly bool) ([]*Memory, error)
	CountMemories(ctx context.Context, userID int64, favoritesOnly bool) (int, error)
	UpdateMemory(ctx context.Context, memoryID int64, updates map[string]interface{}) error
	DeleteMemory(ctx context.Context, memoryID int64) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// CreateMemory creates a scrapbook entry
func (r *postgresRepository) CreateMemory(ctx context.Context, memory *Memory) error {
	query := `
        INSERT INTO memories (user_id, title, note, photo_url, memory_date, favorite)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		memory.UserID, memory.Title, memory.Note, memory.PhotoURL,
		memory.MemoryDate, memory.Favorite,
	).Scan(&memory.ID, &memory.CreatedAt, &memory.UpdatedAt)
}

// GetMemory retrieves a scrapbook entry by ID
func (r *postgresRepository) GetMemory(ctx context.Context, memoryID int64) (*Memory, error) {
	var memory Memory
	query := `
        SELECT id, user_id, title, note, photo_url, memory_date, favorite, created_at, updated_at
        FROM memories
        WHERE id = $1`

	err := r.db.GetContext(ctx, &memory, query, memoryID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &memory, err
}

// ListMemories retrieves a user's entries, newest moment first
func (r *postgresRepository) ListMemories(ctx context.Context, userID int64, limit, offset int, favoritesOnly bool) ([]*Memory, error) {
	query := `
        SELECT id, user_id, title, note, photo_url, memory_date, favorite, created_at, updated_at
        FROM memories
        WHERE user_id = $1`

	if favoritesOnly {
		query += " AND favorite = true"
	}

	query += " ORDER BY memory_date DESC, id DESC LIMIT $2 OFFSET $3"

	var out []*Memory
	err := r.db.SelectContext(ctx, &out, query, userID, limit, offset)
	return out, err
}

// CountMemories counts a user's entries
func (r *postgresRepository) CountMemories(ctx context.Context, userID int64, favoritesOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM memories WHERE user_id = $1`

	if favoritesOnly {
		query += " AND favorite = true"
	}

	var count int
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}

// allowed memory columns for partial updates
var memoryColumns = map[string]bool{
	"title":       true,
	"note":        true,
	"photo_url":   true,
	"memory_date": true,
	"favorite":    true,
}

// UpdateMemory applies a partial update
func (r *postgresRepository) UpdateMemory(ctx context.Context, memoryID int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	query := "UPDATE memories SET updated_at = NOW()"
	args := []interface{}{memoryID}

	for key, value := range updates {
		if !memoryColumns[key] {
			return fmt.Errorf("unknown memory field: %s", key)
		}
		args = append(args, value)
		query += fmt.Sprintf(", %s = $%d", key, len(args))
	}

	query += " WHERE id = $1"

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// DeleteMemory deletes a scrapbook entry
func (r *postgresRepository) DeleteMemory(ctx context.Context, memoryID int64) error {
	query := `DELETE FROM memories WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, memoryID)
	return err
}
