// Command seed creates a catalog database with a handful of public domain books.
// Usage: go run cmd/seed/main.go [-db path/to/books.db] [-keep]
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/database/books"
)

func main() {
	dbPath := flag.String("db", config.DefaultDatabasePath, "path to the catalog database file")
	keep := flag.Bool("keep", false, "append to an existing database instead of recreating it")
	flag.Parse()

	log.Printf("Seeding catalog database at %s...", *dbPath)

	if !*keep {
		if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
			log.Fatalf("Failed to remove existing database: %v", err)
		}
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	repo := books.NewRepository(db.DB)
	ctx := context.Background()

	for _, in := range publicDomainBooks() {
		book, err := repo.AddBook(ctx, in)
		if err != nil {
			log.Printf("Failed to save book %s: %v", in.Title, err)
			continue
		}
		log.Printf("Saved: %s by %s (%v)", book.Title, book.Author, book.Genres)
	}

	log.Println("Catalog seeded successfully!")
}

func publicDomainBooks() []books.BookInput {
	return []books.BookInput{
		{Title: "Meditations", Author: "Marcus Aurelius", PublishedYear: 180, Stock: 4, Genres: []string{"Philosophy", "Classic"}},
		{Title: "Letters from a Stoic", Author: "Seneca", PublishedYear: 65, Stock: 2, Genres: []string{"Philosophy"}},
		{Title: "Pride and Prejudice", Author: "Jane Austen", PublishedYear: 1813, Stock: 7, Genres: []string{"Fiction", "Romance", "Classic"}},
		{Title: "Frankenstein", Author: "Mary Shelley", PublishedYear: 1818, Stock: 3, Genres: []string{"Fiction", "Horror"}},
		{Title: "On the Origin of Species", Author: "Charles Darwin", PublishedYear: 1859, Stock: 1, Genres: []string{"Science"}},
		{Title: "The Art of War", Author: "Sun Tzu", Stock: 5, Genres: []string{"Strategy", "Classic"}},
		{Title: "Moby-Dick", Author: "Herman Melville", PublishedYear: 1851, Stock: 0, Genres: []string{"Fiction", "Adventure"}},
	}
}
