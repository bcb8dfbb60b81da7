// Package database provides the data access layer for the catalog.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, driver selection, migrations
//	├── books/           # Book CRUD, search and pagination, genre linking
//	└── genres/          # Genre get-or-create, listing, orphan cleanup
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./books.db")
//
//	booksRepo := books.NewRepository(db.DB)
//	genresRepo := genres.NewRepository(db.DB)
//
//	book, err := booksRepo.GetBook(ctx, id)
//	genre, err := genresRepo.GetOrCreate(ctx, "Fiction")
//
// Repositories never classify errors: a missing row comes back as a nil
// result with a nil error, and any storage failure is returned as is.
package database
