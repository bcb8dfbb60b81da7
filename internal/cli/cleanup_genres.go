package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/database/genres"
)

// CleanupGenresCommand deletes genres that no book links to.
type CleanupGenresCommand struct {
	DatabasePath string
	List         bool

	out io.Writer
}

func NewCleanupGenresCommand() *CleanupGenresCommand {
	return &CleanupGenresCommand{out: os.Stdout}
}

func (cmd *CleanupGenresCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("cleanup-genres", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the sqlite catalog (defaults to DATABASE_PATH)")
	fs.BoolVar(&cmd.List, "list", false, "Print remaining genres with their book counts after cleanup")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s cleanup-genres [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Remove genres that are not linked to any book.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s cleanup-genres\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s cleanup-genres -db ./books.db -list\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run opens the configured catalog (or the -db override) and removes orphan genres.
func (cmd *CleanupGenresCommand) Run(cfg *config.Config) error {
	dbCfg := cfg.Database
	if cmd.DatabasePath != "" {
		dbCfg.Driver = "sqlite"
		dbCfg.Path = cmd.DatabasePath
	}

	db, err := database.Open(dbCfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return cmd.run(context.Background(), genres.NewRepository(db.DB))
}

func (cmd *CleanupGenresCommand) run(ctx context.Context, repo *genres.Repository) error {
	deleted, err := repo.DeleteOrphans(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete orphan genres: %w", err)
	}
	fmt.Fprintf(cmd.out, "Removed %d orphan genres\n", deleted)

	if !cmd.List {
		return nil
	}

	remaining, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list genres: %w", err)
	}
	for _, g := range remaining {
		fmt.Fprintf(cmd.out, "%-30s %d\n", g.Name, g.BookCount)
	}
	return nil
}
