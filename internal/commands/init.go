package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/gitops"
	"github.com/cleared-dev/tally/internal/journal"
)

const (
	configFile       = "tally.yaml"
	accountsFile     = "accounts.csv"
	transactionsFile = "transactions.yaml"
)

func newInitCommand() *cobra.Command {
	var currencyCode string
	var force, git bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter config, chart of accounts and transaction file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, strings.ToUpper(currencyCode), force, git)
		},
	}

	cmd.Flags().StringVar(&currencyCode, "currency", "USD", "default currency")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	cmd.Flags().BoolVar(&git, "git", false, "commit the new files to a git repository, creating it if needed")

	return cmd
}

func runInit(out io.Writer, dir, currencyCode string, force, git bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if !force {
		for _, name := range []string{configFile, accountsFile, transactionsFile} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", name)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("checking %s: %w", name, err)
			}
		}
	}

	// Write tally.yaml.
	cfg := config.Default()
	cfg.Parse.DefaultCurrency = currencyCode
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(filepath.Join(dir, configFile), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write chart of accounts.
	svc := accounts.NewService(accounts.DefaultChart(currencyCode))
	if err := svc.Save(filepath.Join(dir, accountsFile)); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	// Write an empty transaction file.
	f, err := os.Create(filepath.Join(dir, transactionsFile))
	if err != nil {
		return fmt.Errorf("creating transaction file: %w", err)
	}
	defer f.Close()
	if err := journal.Write(f, nil, cfg.FormatConfig()); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing transaction file: %w", err)
	}

	if !git {
		fmt.Fprintf(out, "Initialized tally project at %s (%s)\n", dir, currencyCode)
		return nil
	}

	// Initialize git and commit the project files.
	if !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return err
		}
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.Commit(dir, "init: tally project ("+currencyCode+")", author,
		configFile, accountsFile, transactionsFile)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized tally project at %s (%s, commit %s)\n", dir, currencyCode, hash)
	return nil
}
