package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/legal-tools/internal/domain"
	"github.com/MyCarrier-DevOps/legal-tools/internal/i18n"
)

func newBranchesCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branches",
		Short: "Manage translation branch records",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List translation branches",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runBranchesList(cmd, deps, opts)
			},
		},
		newBranchesAddCmd(deps, opts),
	)

	return cmd
}

func runBranchesList(cmd *cobra.Command, deps *Dependencies, opts *rootOptions) error {
	s, err := newSession(cmd, deps, opts)
	if err != nil {
		return err
	}

	branchStore, err := s.openStore()
	if err != nil {
		return err
	}
	defer s.closeQuietly("branch store", branchStore)

	branches, err := branchStore.List(s.ctx)
	if err != nil {
		s.log.Error(s.ctx, "failed to list branches", err, nil)
		return fmt.Errorf("database error: %w", err)
	}

	return s.writeResult(s.writer.WriteBranches(branches))
}

type branchAddOptions struct {
	language string
	version  string
	complete bool
	updated  string
}

func newBranchesAddCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	add := &branchAddOptions{}

	cmd := &cobra.Command{
		Use:   "add <branch-name>",
		Short: "Record a translation branch, or update the record with the same name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBranchesAdd(cmd, args[0], add, deps, opts)
		},
	}

	cmd.Flags().StringVarP(&add.language, "language", "l", "",
		"Language code of the translation (legacy codes are mapped)")
	cmd.Flags().StringVar(&add.version, "version", "", "Legal code version, e.g. 4.0")
	cmd.Flags().BoolVar(&add.complete, "complete", false, "Mark the translation complete")
	cmd.Flags().StringVar(&add.updated, "last-transifex-update", "",
		"Time of the last Transifex update (RFC 3339)")
	_ = cmd.MarkFlagRequired("language")

	return cmd
}

func runBranchesAdd(cmd *cobra.Command, name string, add *branchAddOptions, deps *Dependencies, opts *rootOptions) error {
	s, err := newSession(cmd, deps, opts)
	if err != nil {
		return err
	}

	branch := &domain.TranslationBranch{
		BranchName:   name,
		LanguageCode: i18n.MapLegacyToDjangoLanguageCode(add.language),
		Version:      add.version,
		Complete:     add.complete,
	}
	if add.updated != "" {
		updated, err := time.Parse(time.RFC3339, add.updated)
		if err != nil {
			return fmt.Errorf("invalid --last-transifex-update: %w", err)
		}
		branch.LastTransifexUpdate = &updated
	}

	branchStore, err := s.openStore()
	if err != nil {
		return err
	}
	defer s.closeQuietly("branch store", branchStore)

	if err := branchStore.Save(s.ctx, branch); err != nil {
		s.log.Error(s.ctx, "failed to save branch", err, map[string]interface{}{
			"branch": name,
		})
		return fmt.Errorf("database error: %w", err)
	}

	s.log.Info(s.ctx, "saved translation branch", map[string]interface{}{
		"id":       branch.ID,
		"branch":   branch.BranchName,
		"language": branch.LanguageCode,
	})

	return s.writeResult(s.writer.WriteBranches([]domain.TranslationBranch{*branch}))
}
