package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mywallet/internal/auth"
	"mywallet/internal/log"
	"mywallet/internal/sanitize"
	"mywallet/internal/storage"
	"mywallet/internal/validate"
)

const defaultDBPath = "wallet.db"

func main() {
	_ = godotenv.Load()

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := newCommand()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.Execute()
}

func newCommand() *cobra.Command {
	var name, email, password, dbPath string

	cmd := &cobra.Command{
		Use:           "adduser",
		Short:         "Create a wallet account",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				var err error
				password, err = readPassword(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout()) // Print newline after password input
			}

			// DB_PATH applies unless --db was given explicitly
			if path := os.Getenv("DB_PATH"); path != "" && !cmd.Flags().Changed("db") {
				dbPath = path
			}

			return addUser(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), dbPath, name, email, password)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "account holder name (required)")
	cmd.Flags().StringVar(&email, "email", "", "login email (required)")
	cmd.Flags().StringVar(&password, "password", "", "password (optional, will prompt if omitted)")
	cmd.Flags().StringVar(&dbPath, "db", defaultDBPath, "path to database file")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// addUser applies the same validation, sanitization and conflict rules as
// the sign-up endpoint.
func addUser(ctx context.Context, stdout, stderr io.Writer, dbPath, name, email, password string) error {
	req, err := validate.Signup(validate.Payload{"name": name, "email": email, "password": password})
	if err != nil {
		return fmt.Errorf("invalid account: %w", err)
	}

	db, err := storage.NewDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	logger := log.New(log.Config{Level: slog.LevelWarn, Component: "adduser", Output: stderr})
	credentials := auth.NewCredentials(db, logger)

	email = sanitize.Clean(req.Email)
	user, err := credentials.Register(ctx, sanitize.Clean(req.Name), email, sanitize.Clean(req.Password))
	if err != nil {
		if errors.Is(err, auth.ErrConflict) {
			return fmt.Errorf("user %s already exists", email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d\n", user.Email, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	// Check if stdin is a terminal
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal (e.g. tests, pipes)
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
