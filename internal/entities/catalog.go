package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Book struct {
	ID            string      `gorm:"primaryKey;size:36" json:"id"`
	Title         string      `gorm:"index;size:512;not null" json:"title"`
	Author        string      `gorm:"index;size:256;not null" json:"author"`
	PublishedYear int         `gorm:"not null;default:0" json:"publishedYear"`
	Stock         int         `gorm:"not null;default:0" json:"stock"`
	Genres        []BookGenre `gorm:"foreignKey:BookID" json:"-"`
	CreatedAt     time.Time   `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

type Genre struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	CreatedAt time.Time `json:"-"`
}

func (g *Genre) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// BookGenre links a book to a genre. Position keeps the order in which
// the genres were supplied so they read back the same way.
type BookGenre struct {
	BookID   string `gorm:"primaryKey;size:36"`
	GenreID  string `gorm:"primaryKey;size:36;index"`
	Position int    `gorm:"not null;default:0"`
	Genre    Genre  `gorm:"foreignKey:GenreID"`
}

func (Book) TableName() string {
	return "books"
}

func (Genre) TableName() string {
	return "genres"
}

func (BookGenre) TableName() string {
	return "book_genres"
}

// GenreNames returns the linked genre names in link order.
func (b *Book) GenreNames() []string {
	names := make([]string, 0, len(b.Genres))
	for _, bg := range b.Genres {
		names = append(names, bg.Genre.Name)
	}
	return names
}

// GenreList returns the linked genres in link order.
func (b *Book) GenreList() []Genre {
	genres := make([]Genre, 0, len(b.Genres))
	for _, bg := range b.Genres {
		genres = append(genres, bg.Genre)
	}
	return genres
}

// BookSummary is the list/create/update shape: genres are plain names.
type BookSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PublishedYear int       `json:"publishedYear"`
	Stock         int       `json:"stock"`
	Genres        []string  `json:"genres"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// BookDetail is the single-book shape: genres are full {id, name} objects.
type BookDetail struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PublishedYear int       `json:"publishedYear"`
	Stock         int       `json:"stock"`
	Genres        []Genre   `json:"genres"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewBookSummary(b *Book) *BookSummary {
	return &BookSummary{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
		Stock:         b.Stock,
		Genres:        b.GenreNames(),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func NewBookDetail(b *Book) *BookDetail {
	return &BookDetail{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
		Stock:         b.Stock,
		Genres:        b.GenreList(),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// Summary flattens the detail genres to names.
func (d *BookDetail) Summary() *BookSummary {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return &BookSummary{
		ID:            d.ID,
		Title:         d.Title,
		Author:        d.Author,
		PublishedYear: d.PublishedYear,
		Stock:         d.Stock,
		Genres:        names,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// GenreCount is a genre together with the number of books linked to it.
type GenreCount struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BookCount int64  `json:"bookCount"`
}
