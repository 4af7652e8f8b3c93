package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// localeSubdir is the deeds and UX locale directory inside the data repository.
const localeSubdir = "locale"

func newTransStatsCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	var localeDir, outputFile string

	cmd := &cobra.Command{
		Use:   "transstats",
		Short: "Write deeds and UX translation statistics",
		Long: `Count the messages of every deeds and UX catalog
(<locale-dir>/<locale>/LC_MESSAGES/django.po). Text output is CSV with the
columns lang_django, lang_locale, lang_transifex, num_messages, num_trans,
num_fuzzy and percent_trans.

The locale directory defaults to locale_dir from the language settings, then
to the locale directory of DATA_REPOSITORY_DIR.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTransStats(cmd, localeDir, outputFile, deps, opts)
		},
	}

	cmd.Flags().StringVar(&localeDir, "locale-dir", "", "Deeds and UX locale directory")
	cmd.Flags().StringVar(&outputFile, "output-file", "", "Write to this file instead of stdout")

	return cmd
}

func runTransStats(cmd *cobra.Command, localeDir, outputFile string, deps *Dependencies, opts *rootOptions) error {
	s, err := newSession(cmd, deps, opts)
	if err != nil {
		return err
	}
	if deps.StatsReader == nil {
		return errors.New("translation statistics are not available")
	}

	if localeDir == "" {
		localeDir = s.cfg.Settings.LocaleDir
	}
	if localeDir == "" {
		localeDir = filepath.Join(s.cfg.DataRepositoryDir, localeSubdir)
	}

	stats, err := deps.StatsReader(localeDir)
	if err != nil {
		s.log.Error(s.ctx, "failed to read translation statistics", err, map[string]interface{}{
			"locale_dir": localeDir,
		})
		return fmt.Errorf("translation statistics error: %w", err)
	}

	s.log.Info(s.ctx, "translation statistics complete", map[string]interface{}{
		"locale_dir": localeDir,
		"languages":  len(stats),
	})

	writer := s.writer
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return s.writeResult(err)
		}
		defer s.closeQuietly("output file", f)
		writer = deps.OutputWriterFactory(s.format, f)
	}

	return s.writeResult(writer.WriteTranslationStats(stats))
}
