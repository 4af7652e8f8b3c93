package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/legal-tools/internal/adapters/output"
	"github.com/MyCarrier-DevOps/legal-tools/internal/domain"
	"github.com/MyCarrier-DevOps/legal-tools/internal/i18n"
)

func newNormalizeCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	var jurisdiction, lang string

	cmd := &cobra.Command{
		Use:   "normalize <path>",
		Short: "Resolve the canonical path and language of a document request",
		Long: `Resolve the language to serve for a document request and append it to the
path when missing. Without --lang the jurisdiction's default language is
used, falling back to the site default.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, deps, opts)
			if err != nil {
				return err
			}
			n, err := s.normalizer()
			if err != nil {
				return err
			}

			path, language := n.NormalizePathAndLang(args[0], jurisdiction, lang)
			return s.writeResult(s.writer.WriteValues(
				output.Pair{Key: "path", Value: path},
				output.Pair{Key: "language", Value: language},
			))
		},
	}

	cmd.Flags().StringVarP(&jurisdiction, "jurisdiction", "j", "", "Jurisdiction code of the document")
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Requested language code")

	return cmd
}

type relPathOptions struct {
	pathStart string
	lang      string
	fallback  string
}

func (o *relPathOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.pathStart, "path-start", "/", "Path prefix to strip")
	cmd.Flags().StringVarP(&o.lang, "lang", "l", "", "Language code in the URL")
	cmd.Flags().StringVar(&o.fallback, "lang-default", "",
		"Fallback language code (defaults to the site default)")
	_ = cmd.MarkFlagRequired("lang")
}

func newDeedPathCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	rel := &relPathOptions{}

	cmd := &cobra.Command{
		Use:   "deed-path <deed-url>",
		Short: "Compute a deed path relative to a path prefix",
		Long: `Compute a deed path relative to --path-start. Languages that are not mostly
translated are replaced by --lang-default, or by the site default when that
language is not mostly translated either.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, deps, opts)
			if err != nil {
				return err
			}
			n, err := s.normalizer()
			if err != nil {
				return err
			}

			fallback := rel.fallback
			if fallback == "" {
				fallback = n.DefaultLanguage()
			}
			return s.writeResult(s.writer.WriteValue("path",
				n.DeedRelPath(args[0], rel.pathStart, rel.lang, fallback)))
		},
	}
	rel.register(cmd)

	return cmd
}

func newLegalCodePathCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	rel := &relPathOptions{}
	var available []string

	cmd := &cobra.Command{
		Use:   "legalcode-path <legalcode-url>",
		Short: "Compute a legal code path relative to a path prefix",
		Long: `Compute a legal code path relative to --path-start. When the legal code is
not available in --lang, --lang-default is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, deps, opts)
			if err != nil {
				return err
			}
			n, err := s.normalizer()
			if err != nil {
				return err
			}

			fallback := rel.fallback
			if fallback == "" {
				fallback = n.DefaultLanguage()
			}
			return s.writeResult(s.writer.WriteValue("path",
				n.LegalCodeRelPath(args[0], rel.pathStart, rel.lang, fallback, available)))
		},
	}
	rel.register(cmd)
	cmd.Flags().StringSliceVar(&available, "available", nil,
		"Languages the legal code is available in (comma separated)")

	return cmd
}

func newCategoryCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	var category, toolCategory string

	cmd := &cobra.Command{
		Use:   "category",
		Short: "Resolve a category and its display title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, deps, opts)
			if err != nil {
				return err
			}
			n, err := s.normalizer()
			if err != nil {
				return err
			}

			var tool *domain.Tool
			if toolCategory != "" {
				tool = &domain.Tool{Category: toolCategory}
			}
			resolved, title, err := n.CategoryAndTitle(category, tool)
			if err != nil {
				if errors.Is(err, domain.ErrUnknownCategory) {
					return fmt.Errorf("unknown category: %w", err)
				}
				return err
			}

			return s.writeResult(s.writer.WriteValues(
				output.Pair{Key: "category", Value: resolved},
				output.Pair{Key: "title", Value: title},
			))
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Explicit category")
	cmd.Flags().StringVar(&toolCategory, "tool-category", "", "Category of the legal tool being shown")

	return cmd
}

func newJurisdictionCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	var tool domain.Tool

	cmd := &cobra.Command{
		Use:   "jurisdiction",
		Short: "Show the jurisdiction name of a legal tool",
		Long: `Show the English jurisdiction name of a legal tool. Unported licenses are
named after their version family; public domain tools are universal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, deps, opts)
			if err != nil {
				return err
			}
			return s.writeResult(s.writer.WriteValue("jurisdiction", i18n.JurisdictionName(tool)))
		},
	}

	cmd.Flags().StringVar(&tool.Category, "category", "licenses", "Category of the legal tool")
	cmd.Flags().StringVar(&tool.Unit, "unit", "", "Unit of the legal tool, such as by-sa or zero")
	cmd.Flags().StringVar(&tool.Version, "version", "", "Version of the legal tool")
	cmd.Flags().StringVarP(&tool.JurisdictionCode, "jurisdiction", "j", "", "Jurisdiction code of a ported license")

	return cmd
}

func newLanguagesCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the mostly translated languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, deps, opts)
			if err != nil {
				return err
			}
			n, err := s.normalizer()
			if err != nil {
				return err
			}

			codes := n.MostlyTranslated()
			languages := make([]domain.LanguageInfo, 0, len(codes))
			for _, code := range codes {
				languages = append(languages, i18n.LanguageInfo(code))
			}
			return s.writeResult(s.writer.WriteLanguages(languages))
		},
	}
}

func newLanguageCodesCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "language-codes <code>",
		Short: "Show the Django, Transifex and redirect forms of a language code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, deps, opts)
			if err != nil {
				return err
			}

			django := i18n.MapLegacyToDjangoLanguageCode(args[0])
			return s.writeResult(s.writer.WriteValues(
				output.Pair{Key: "django", Value: django},
				output.Pair{Key: "transifex", Value: i18n.MapDjangoToTransifexLanguageCode(django)},
				output.Pair{Key: "redirects", Value: strings.Join(i18n.MapDjangoToRedirectsLanguageCodes(django), ",")},
				output.Pair{Key: "redirects_lowercase", Value: strings.Join(i18n.MapDjangoToRedirectsLanguageCodesLowercase(django), ",")},
			))
		},
	}
}
