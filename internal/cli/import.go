// Package cli implements the one-shot commands exposed by main.go.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/plotwist/importer/internal/config"
	"github.com/plotwist/importer/internal/database"
	"github.com/plotwist/importer/internal/database/imports"
	"github.com/plotwist/importer/internal/entities"
	"github.com/plotwist/importer/internal/importers"
	"github.com/plotwist/importer/internal/services"
	"github.com/plotwist/importer/internal/tasks"
)

// providerFlags maps the CLI spelling to the provider enum.
var providerFlags = map[string]entities.Provider{
	"letterboxd":  entities.ProviderLetterboxd,
	"myanimelist": entities.ProviderMyAnimeList,
}

// ImportCommand decodes a provider export archive from disk and persists
// it for a user. Items are enqueued for background processing by the
// serve daemon.
type ImportCommand struct {
	FilePath string
	UserID   string
	Provider string
	NoQueue  bool
}

// NewImportCommand creates a new ImportCommand.
func NewImportCommand() *ImportCommand {
	return &ImportCommand{}
}

// ParseFlags parses command line flags.
func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the export archive (Letterboxd ZIP or MyAnimeList GZIP)")
	fs.StringVar(&cmd.UserID, "user", "", "Id of the user the import belongs to")
	fs.StringVar(&cmd.Provider, "provider", "", "Export provider: letterboxd or myanimelist")
	fs.BoolVar(&cmd.NoQueue, "no-queue", false, "Persist the batch without enqueueing background processing")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -file <archive> -user <id> -provider <name>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Decode a watch-history export and store it as a pending import batch.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file letterboxd-export.zip -user 1b4e... -provider letterboxd\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import -file animelist.xml.gz -user 1b4e... -provider myanimelist\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" || cmd.UserID == "" || cmd.Provider == "" {
		fs.Usage()
		return fmt.Errorf("-file, -user and -provider are required")
	}
	if _, ok := providerFlags[cmd.Provider]; !ok {
		return fmt.Errorf("unknown provider %q (want letterboxd or myanimelist)", cmd.Provider)
	}

	return nil
}

// Run executes the import.
func (cmd *ImportCommand) Run() error {
	cfg := config.NewConfig()

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	var publisher services.ItemPublisher
	if !cmd.NoQueue {
		taskClient, err := tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxAttempts:       cfg.Tasks.MaxAttempts,
			Backoff:           cfg.Tasks.Backoff,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		})
		if err != nil {
			return err
		}
		defer taskClient.Close()
		publisher = tasks.NewPublisher(taskClient)
	}

	repo := imports.NewRepository(db.DB)
	service := services.NewImportService(repo, publisher)

	f, err := os.Open(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("unable to open %s: %w", cmd.FilePath, err)
	}
	defer f.Close()

	provider := providerFlags[cmd.Provider]
	created, err := service.Import(context.Background(), cmd.UserID, provider, f)
	if err != nil {
		return describeImportError(err)
	}

	fmt.Printf("Created import %s (%s): %d items (%d movies, %d series), status %s\n",
		created.ID, created.Provider, created.ItemsCount,
		len(created.Movies), len(created.Series), created.ImportStatus)
	return nil
}

// describeImportError turns classified domain errors into messages
// suitable for the terminal.
func describeImportError(err error) error {
	var domainErr *importers.DomainError
	if errors.As(err, &domainErr) {
		return fmt.Errorf("%s (status %d)", domainErr.Message, domainErr.Status)
	}

	var notFound *imports.UserNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("user not found: %s", notFound.UserID)
	}

	var insertErr *imports.InsertError
	if errors.As(err, &insertErr) {
		return fmt.Errorf("failed to insert import")
	}

	return err
}
