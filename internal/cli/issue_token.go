package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/booktracker/booktracker/internal/auth"
	"github.com/booktracker/booktracker/internal/config"
	"github.com/booktracker/booktracker/internal/database"
)

// IssueTokenCommand mints an API token for an existing account.
type IssueTokenCommand struct {
	Username     string
	DatabasePath string
}

// NewIssueTokenCommand creates a new IssueTokenCommand
func NewIssueTokenCommand() *IssueTokenCommand {
	return &IssueTokenCommand{}
}

// ParseFlags parses command line flags
func (cmd *IssueTokenCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("issue-token", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "", "Account to issue the token for (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s issue-token [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Issue a bearer token for API access. Replaces any existing token.\n")
		fmt.Fprintf(os.Stderr, "The token is printed once and cannot be recovered later.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" {
		fs.Usage()
		return fmt.Errorf("-username is required")
	}

	return nil
}

// Run executes the issue-token command
func (cmd *IssueTokenCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	cfg := config.NewConfig()
	service := auth.NewService(db.DB, cfg.Auth)
	defer service.Close()

	user, err := db.GetUserByUsername(cmd.Username)
	if err != nil {
		return fmt.Errorf("failed to look up user %q: %w", cmd.Username, err)
	}

	token, err := service.IssueToken(user.ID)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	fmt.Printf("Token for %s:\n%s\n", user.Username, token)
	return nil
}
