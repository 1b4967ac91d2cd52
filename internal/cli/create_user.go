package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/plotwist/importer/internal/config"
	"github.com/plotwist/importer/internal/database"
	"github.com/plotwist/importer/internal/database/users"
)

// CreateUserCommand creates an account row to import into.
type CreateUserCommand struct {
	Username string
	Email    string
}

// NewCreateUserCommand creates a new CreateUserCommand.
func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

// ParseFlags parses command line flags.
func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "", "Username for the new account")
	fs.StringVar(&cmd.Email, "email", "", "Email for the new account")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user -username <name> -email <address>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" || cmd.Email == "" {
		fs.Usage()
		return fmt.Errorf("-username and -email are required")
	}

	return nil
}

// Run executes the command.
func (cmd *CreateUserCommand) Run() error {
	cfg := config.NewConfig()

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	user, err := users.NewRepository(db.DB).CreateUser(cmd.Username, cmd.Email)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("Created user %s (%s)\n", user.ID, user.Username)
	return nil
}
