package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"subfetch/internal/config"
	"subfetch/internal/language"
	"subfetch/internal/logging"
	"subfetch/internal/retriever"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var flags runFlags

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "subfetch [flags] <file>...",
		Short: "Download subtitles from OpenSubtitles",
		Long: `Download subtitles from OpenSubtitles.

subfetch can do a hash-based and a name-based search. The hash-based search
fingerprints the video file's content, so its results should be compatible
with the video regardless of how the file is named; the first such result is
downloaded automatically. The name-based search matches the file name only,
so by default subfetch asks which of its results to download. Hash-based
results are marked with an asterisk in the 'H' column of the table.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, ctx, flags, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.Flags().StringVarP(&flags.languages, "lang", "l", "", "Comma-separated list of languages to search for, e.g. 'eng,ger' ('all' for every language)")
	rootCmd.Flags().BoolVarP(&flags.alwaysAsk, "always-ask", "a", false, "Always ask which subtitle to download, even for hash-based results")
	rootCmd.Flags().BoolVarP(&flags.neverAsk, "never-ask", "n", false, "Never ask which subtitle to download; take the first result")
	rootCmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite the output file if it already exists")
	rootCmd.Flags().BoolVarP(&flags.hashOnly, "hash-search-only", "o", false, "Only do a hash-based search")
	rootCmd.Flags().BoolVarP(&flags.nameOnly, "name-search-only", "O", false, "Only do a name-based search (useful on hash false positives)")
	rootCmd.Flags().BoolVarP(&flags.sameName, "same-name", "s", false, "Name the subtitle after the video file, replacing only the extension")
	rootCmd.Flags().IntVarP(&flags.limit, "limit", "t", 0, "Maximum number of search results")
	rootCmd.Flags().BoolVarP(&flags.noExitOnFail, "no-exit-on-fail", "e", false, "Keep processing remaining files when one of them fails")
	rootCmd.Flags().CountVarP(&flags.quiet, "quiet", "q", "Suppress the table when no choice is needed; twice to suppress everything but warnings and errors")

	rootCmd.AddCommand(newLanguagesCommand(ctx))
	rootCmd.AddCommand(newHashCommand())
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

// runFlags carries the per-run flag values before they are folded into the
// retrieval policy.
type runFlags struct {
	languages    string
	alwaysAsk    bool
	neverAsk     bool
	hashOnly     bool
	nameOnly     bool
	sameName     bool
	force        bool
	limit        int
	noExitOnFail bool
	quiet        int
}

func runFetch(cmd *cobra.Command, ctx *commandContext, flags runFlags, files []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := newRunLogger(cfg, flags.quiet)
	if err != nil {
		return err
	}

	policy, err := buildPolicy(cfg, flags)
	if err != nil {
		return err
	}

	interactive := isatty.IsTerminal(os.Stdin.Fd())
	if !interactive && !policy.NeverAsk {
		// A piped stdin cannot answer prompts; degrade to taking the
		// first candidate instead of blocking forever.
		logger.Debug("stdin is not a terminal, disabling prompts")
		policy.NeverAsk = true
	}

	client, err := ctx.dialAuthenticatedClient(interactive)
	if err != nil {
		return err
	}
	defer client.Close()

	token, err := client.Login()
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	logger.Debug("session established")

	console := newConsole(os.Stdin, cmd.OutOrStdout())
	fetcher, err := retriever.New(client, console, policy, token, logger)
	if err != nil {
		return err
	}

	var lastErr error
	for _, file := range files {
		if err := fetcher.Process(file); err != nil {
			if errors.Is(err, retriever.ErrCancelled) {
				logger.Debug("selection cancelled", logging.String("file", file))
			} else {
				logger.Error("failed", logging.String("file", file), logging.Error(err))
			}
			if !flags.noExitOnFail {
				return err
			}
			lastErr = err
		}
	}
	return lastErr
}

func buildPolicy(cfg *config.Config, flags runFlags) (retriever.Policy, error) {
	languages := flags.languages
	if languages == "" {
		languages = cfg.Search.Languages
	}
	normalized, err := language.NormalizeFilter(languages)
	if err != nil {
		return retriever.Policy{}, err
	}

	limit := flags.limit
	if limit == 0 {
		limit = cfg.Search.Limit
	}

	policy := retriever.Policy{
		Languages:      normalized,
		AlwaysAsk:      flags.alwaysAsk,
		NeverAsk:       flags.neverAsk,
		HashOnly:       flags.hashOnly,
		NameOnly:       flags.nameOnly,
		SameName:       flags.sameName || cfg.Output.SameName,
		ForceOverwrite: flags.force,
		Limit:          limit,
		Quiet:          flags.quiet >= 1,
	}
	if err := policy.Validate(); err != nil {
		return retriever.Policy{}, err
	}
	return policy, nil
}

func newRunLogger(cfg *config.Config, quiet int) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if quiet >= 2 {
		level = "warn"
	}
	return logging.New(logging.Options{Level: level, Format: cfg.Logging.Format})
}
