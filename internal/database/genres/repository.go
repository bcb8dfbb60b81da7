// Package genres provides database operations for the genre catalog.
//
// Genres are deduplicated by exact name and created implicitly the first
// time a book references them.
//
// # Usage
//
//	repo := genres.NewRepository(db)
//	genre, err := repo.GetOrCreate(ctx, "Fiction")
package genres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

// Repository handles all genre database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new genres repository. db may be a transaction.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByName returns the genre with exactly this name, or nil when absent.
func (r *Repository) FindByName(ctx context.Context, name string) (*entities.Genre, error) {
	var genre entities.Genre
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&genre).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find genre %q: %w", name, err)
	}
	return &genre, nil
}

// GetOrCreate returns the genre named name, creating it if needed. When a
// concurrent insert wins the unique index the winner's row is re-read.
func (r *Repository) GetOrCreate(ctx context.Context, name string) (*entities.Genre, error) {
	genre, err := r.FindByName(ctx, name)
	if err != nil || genre != nil {
		return genre, err
	}

	genre = &entities.Genre{Name: name}
	err = r.db.WithContext(ctx).Create(genre).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		existing, findErr := r.FindByName(ctx, name)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			return nil, fmt.Errorf("create genre %q: %w", name, err)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create genre %q: %w", name, err)
	}
	return genre, nil
}

// List returns every genre ordered by name with its book count.
func (r *Repository) List(ctx context.Context) ([]entities.GenreCount, error) {
	genres := []entities.GenreCount{}
	err := r.db.WithContext(ctx).
		Table("genres").
		Select("genres.id, genres.name, COUNT(book_genres.book_id) AS book_count").
		Joins("LEFT JOIN book_genres ON book_genres.genre_id = genres.id").
		Group("genres.id, genres.name").
		Order("genres.name ASC").
		Scan(&genres).Error
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

// DeleteOrphans removes genres that no book links to.
func (r *Repository) DeleteOrphans(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM genres
		WHERE id NOT IN (SELECT genre_id FROM book_genres)
	`)
	if result.Error != nil {
		return 0, fmt.Errorf("delete orphan genres: %w", result.Error)
	}
	return result.RowsAffected, nil
}
