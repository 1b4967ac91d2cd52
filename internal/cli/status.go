package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/plotwist/importer/internal/config"
	"github.com/plotwist/importer/internal/database"
	"github.com/plotwist/importer/internal/database/imports"
)

// StatusCommand prints a batch header with its per-item outcomes.
type StatusCommand struct {
	ImportID string
}

// NewStatusCommand creates a new StatusCommand.
func NewStatusCommand() *StatusCommand {
	return &StatusCommand{}
}

// ParseFlags parses command line flags.
func (cmd *StatusCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-status", flag.ExitOnError)

	fs.StringVar(&cmd.ImportID, "id", "", "Id of the import batch")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-status -id <import id>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.ImportID == "" {
		fs.Usage()
		return fmt.Errorf("-id is required")
	}

	return nil
}

// Run executes the command.
func (cmd *StatusCommand) Run() error {
	cfg := config.NewConfig()

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	userImport, err := imports.NewRepository(db.DB).GetDetailedUserImport(context.Background(), cmd.ImportID)
	if err != nil {
		return fmt.Errorf("failed to load import %s: %w", cmd.ImportID, err)
	}

	fmt.Printf("Import %s (%s) for user %s: %s, %d items\n",
		userImport.ID, userImport.Provider, userImport.UserID,
		userImport.ImportStatus, userImport.ItemsCount)

	for _, movie := range userImport.Movies {
		tmdb := "-"
		if movie.TmdbID != nil {
			tmdb = fmt.Sprintf("%d", *movie.TmdbID)
		}
		fmt.Printf("  movie  %-40s %-12s tmdb=%s\n", movie.Name, movie.ImportStatus, tmdb)
	}
	for _, s := range userImport.Series {
		tmdb := "-"
		if s.TmdbID != nil {
			tmdb = fmt.Sprintf("%d", *s.TmdbID)
		}
		fmt.Printf("  series %-40s %-12s tmdb=%s\n", s.Name, s.ImportStatus, tmdb)
	}

	return nil
}
