package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rokartur/xcstrings-editor-sub000/internal/catalog"
	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

func newSetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "set FILE KEY LOCALE VALUE",
		Short: "Set the value of a key in one language",
		Long: `Set the value of a key in one language.

The review state follows the edit: a new translation is marked
translated, clearing it resets the state.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd, args[0], func(s *catalog.Session) error {
				return s.SetValue(args[1], args[2], args[3])
			})
		},
	}
}

func newCommentCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "comment FILE KEY [COMMENT]",
		Short: "Set or clear the comment of a key",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var comment string
			if len(args) == 3 {
				comment = args[2]
			}
			return c.edit(cmd, args[0], func(s *catalog.Session) error {
				return s.SetComment(args[1], comment)
			})
		},
	}
}

func newStateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "state FILE KEY LOCALE STATE",
		Short: "Set the review state of a key in one language",
		Long: `Set the review state of a key in one language.

STATE is one of new, translated, needs_review or stale. Pass "" to
clear it.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd, args[0], func(s *catalog.Session) error {
				return s.SetState(args[1], args[2], domain.ReviewState(args[3]))
			})
		},
	}
}

func newTranslatableCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "translatable FILE KEY true|false",
		Short: "Mark a key as translatable or not",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			flag, err := strconv.ParseBool(args[2])
			if err != nil {
				return fmt.Errorf("translatable: %w", domain.NewValidationError("flag", "must be true or false"))
			}
			return c.edit(cmd, args[0], func(s *catalog.Session) error {
				return s.SetShouldTranslate(args[1], flag)
			})
		},
	}
}

func newAddLanguageCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "add-language FILE LOCALE",
		Short: "Declare a new language in the catalog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd, args[0], func(s *catalog.Session) error {
				added, err := s.AddLanguage(args[1])
				if err == nil && !added {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s is already declared\n", args[1])
				}
				return err
			})
		},
	}
}

func newRemoveLanguageCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-language FILE LOCALE",
		Short: "Remove a language and all of its translations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd, args[0], func(s *catalog.Session) error {
				locale := domain.NormalizeLocale(args[1])
				if domain.EqualLocale(locale, s.SourceLanguage()) {
					return fmt.Errorf("%s is the source language and cannot be removed", args[1])
				}
				removed, err := s.RemoveLanguage(locale)
				if err == nil && !removed {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s is not declared\n", args[1])
				}
				return err
			})
		},
	}
}

func newRestoreCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "restore FILE [KEY [LOCALE]]",
		Short: "Reset the catalog, a key or one translation to --baseline",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.baseline == "" {
				return fmt.Errorf("restore needs --baseline")
			}
			return c.edit(cmd, args[0], func(s *catalog.Session) error {
				switch len(args) {
				case 1:
					return s.RestoreAll()
				case 2:
					return s.RestoreKey(args[1])
				default:
					return s.RestoreField(args[1], args[2])
				}
			})
		},
	}
}
