// Package books provides database operations for the book catalog.
//
// This package implements the BookStore interface defined in internal/http/books.go.
//
// # Interface Implementation
//
//	var _ http.BookStore = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	result, err := repo.GetBooks(ctx, books.ListParams{Search: "fiction", Page: 1, Limit: 10})
package books

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/bookcatalog/internal/database/genres"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// likeEscape is the LIKE escape character. Backslash is avoided because
// MySQL treats it specially inside string literals.
const likeEscape = "!"

// BookInput is the payload for creating a book.
type BookInput struct {
	Title         string
	Author        string
	PublishedYear int
	Stock         int
	Genres        []string
}

// BookUpdate carries the fields to change. Nil fields are left untouched.
// A nil Genres keeps the current links; a non-nil (possibly empty) slice
// replaces them.
type BookUpdate struct {
	Title         *string
	Author        *string
	PublishedYear *int
	Stock         *int
	Genres        []string
}

// ListParams filters and paginates GetBooks. Zero Page or Limit means absent.
type ListParams struct {
	Search string
	Page   int
	Limit  int
}

// ListResult is one page of books plus the unpaginated match count.
type ListResult struct {
	Books []entities.BookSummary
	Total int64
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// withGenres preloads join rows in link order together with their genres.
func withGenres(db *gorm.DB) *gorm.DB {
	return db.Preload("Genres", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Preload("Genres.Genre")
}

// matching restricts books to those whose title or author contains term,
// or that are linked to a genre named term. All comparisons ignore case,
// though sqlite's LOWER folds ASCII letters only.
func matching(term string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		lowered := strings.ToLower(term)
		pattern := "%" + escapeLike(lowered) + "%"
		return db.Where(
			"LOWER(books.title) LIKE ? ESCAPE '"+likeEscape+"'"+
				" OR LOWER(books.author) LIKE ? ESCAPE '"+likeEscape+"'"+
				" OR EXISTS ("+
				"SELECT 1 FROM book_genres"+
				" JOIN genres ON genres.id = book_genres.genre_id"+
				" WHERE book_genres.book_id = books.id AND LOWER(genres.name) = ?)",
			pattern, pattern, lowered,
		)
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(s)
}

// dedupe drops repeated names, keeping the first occurrence.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// linkGenres get-or-creates each genre and links it to the book in order.
func linkGenres(ctx context.Context, tx *gorm.DB, bookID string, names []string) error {
	genreRepo := genres.NewRepository(tx)
	for i, name := range dedupe(names) {
		genre, err := genreRepo.GetOrCreate(ctx, name)
		if err != nil {
			return err
		}
		link := &entities.BookGenre{BookID: bookID, GenreID: genre.ID, Position: i}
		if err := tx.WithContext(ctx).Create(link).Error; err != nil {
			return fmt.Errorf("link genre %q to book %s: %w", name, bookID, err)
		}
	}
	return nil
}

func (r *Repository) find(ctx context.Context, id string) (*entities.Book, error) {
	var book entities.Book
	err := withGenres(r.db.WithContext(ctx)).Where("books.id = ?", id).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get book %s: %w", id, err)
	}
	return &book, nil
}

// AddBook creates a book and links its genres, creating missing genres.
func (r *Repository) AddBook(ctx context.Context, in BookInput) (*entities.BookSummary, error) {
	book := entities.Book{
		Title:         in.Title,
		Author:        in.Author,
		PublishedYear: in.PublishedYear,
		Stock:         in.Stock,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Genres").Create(&book).Error; err != nil {
			return fmt.Errorf("create book: %w", err)
		}
		return linkGenres(ctx, tx, book.ID, in.Genres)
	})
	if err != nil {
		return nil, err
	}

	created, err := r.find(ctx, book.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("book %s missing after create", book.ID)
	}
	return entities.NewBookSummary(created), nil
}

// GetBooks returns books matching params.Search. Offset applies only when
// both Page and Limit are set; Limit alone caps the result size.
func (r *Repository) GetBooks(ctx context.Context, params ListParams) (*ListResult, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&entities.Book{}).
		Scopes(matching(params.Search)).
		Count(&total).Error
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	query := withGenres(r.db.WithContext(ctx)).
		Scopes(matching(params.Search)).
		Order("books.created_at ASC, books.id ASC")
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
		if params.Page > 1 {
			// An offset past math.MaxInt cannot address any row
			if params.Page-1 > math.MaxInt/params.Limit {
				return &ListResult{Books: []entities.BookSummary{}, Total: total}, nil
			}
			query = query.Offset((params.Page - 1) * params.Limit)
		}
	}

	var found []entities.Book
	if err := query.Find(&found).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	summaries := make([]entities.BookSummary, 0, len(found))
	for i := range found {
		summaries = append(summaries, *entities.NewBookSummary(&found[i]))
	}
	return &ListResult{Books: summaries, Total: total}, nil
}

// GetBook returns the book with full genre objects, or nil when absent.
func (r *Repository) GetBook(ctx context.Context, id string) (*entities.BookDetail, error) {
	book, err := r.find(ctx, id)
	if err != nil || book == nil {
		return nil, err
	}
	return entities.NewBookDetail(book), nil
}

// UpdateBook applies the non-nil fields of upd. The caller is expected to
// have checked that the book exists; nil is returned if it vanished.
func (r *Repository) UpdateBook(ctx context.Context, id string, upd BookUpdate) (*entities.BookSummary, error) {
	fields := map[string]any{}
	if upd.Title != nil {
		fields["title"] = *upd.Title
	}
	if upd.Author != nil {
		fields["author"] = *upd.Author
	}
	if upd.PublishedYear != nil {
		fields["published_year"] = *upd.PublishedYear
	}
	if upd.Stock != nil {
		fields["stock"] = *upd.Stock
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			if err := tx.Model(&entities.Book{}).Where("id = ?", id).Updates(fields).Error; err != nil {
				return fmt.Errorf("update book %s: %w", id, err)
			}
		}
		if upd.Genres == nil {
			return nil
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.BookGenre{}).Error; err != nil {
			return fmt.Errorf("unlink genres from book %s: %w", id, err)
		}
		return linkGenres(ctx, tx, id, upd.Genres)
	})
	if err != nil {
		return nil, err
	}

	updated, err := r.find(ctx, id)
	if err != nil || updated == nil {
		return nil, err
	}
	return entities.NewBookSummary(updated), nil
}

// DeleteBook removes the book's genre links and then the book itself,
// returning the deleted row. Nil means nothing was deleted.
func (r *Repository) DeleteBook(ctx context.Context, id string) (*entities.Book, error) {
	var deleted *entities.Book

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&entities.BookGenre{}).Error; err != nil {
			return fmt.Errorf("unlink genres from book %s: %w", id, err)
		}

		var book entities.Book
		err := tx.Where("id = ?", id).First(&book).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get book %s: %w", id, err)
		}

		result := tx.Where("id = ?", id).Delete(&entities.Book{})
		if result.Error != nil {
			return fmt.Errorf("delete book %s: %w", id, result.Error)
		}
		if result.RowsAffected > 0 {
			deleted = &book
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
