package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rokartur/xcstrings-editor-sub000/internal/catalog"
	"github.com/rokartur/xcstrings-editor-sub000/internal/config"
)

// stdoutPath makes --out write the result to standard output.
const stdoutPath = "-"

type cli struct {
	baseline  string
	collation string
	out       string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Inspect and edit Xcode string catalogs",
		Long: `catalogctl applies catalog edits to .xcstrings files.

Formatting of the file is preserved: only the entries an edit touches
are rewritten. With --baseline the file is compared against an older
revision, which enables the restore and summary commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.baseline, "baseline", "", "catalog revision to compare against (default: the file itself)")
	flags.StringVar(&c.collation, "collation", "", "BCP 47 tag for key ordering (default: root collation)")
	flags.StringVarP(&c.out, "out", "o", "", `write the edited catalog here instead of in place ("-" for stdout)`)
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log session activity to stderr")

	root.AddCommand(
		newInspectCmd(c),
		newSummaryCmd(c),
		newSetCmd(c),
		newCommentCmd(c),
		newStateCmd(c),
		newTranslatableCmd(c),
		newAddLanguageCmd(c),
		newRemoveLanguageCmd(c),
		newRestoreCmd(c),
		newTokenCmd(),
	)
	return root
}

func (c *cli) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// open loads path into an inline session. Serialization runs inside each
// operator, so Export is current as soon as an edit returns.
func (c *cli) open(cmd *cobra.Command, path string) (*catalog.Session, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var original []byte
	if c.baseline != "" {
		if original, err = os.ReadFile(c.baseline); err != nil {
			return nil, fmt.Errorf("baseline: %w", err)
		}
	}

	tag, err := config.EditorConfig{Collation: c.collation}.CollationTag()
	if err != nil {
		return nil, err
	}

	sess, err := catalog.NewSession(c.logger(cmd), nil, catalog.NewParser(tag), catalog.SessionInput{
		FileName:        filepath.Base(path),
		Content:         string(content),
		OriginalContent: string(original),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sess, nil
}

// save writes the exported catalog back. The file is replaced through a
// temporary sibling so a failed write never truncates the original.
func (c *cli) save(cmd *cobra.Command, sess *catalog.Session, path string) error {
	content := sess.Export().Content

	target := path
	if c.out != "" {
		target = c.out
	}
	if target == stdoutPath {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}

// edit opens path, applies fn and saves the result.
func (c *cli) edit(cmd *cobra.Command, path string, fn func(*catalog.Session) error) error {
	sess, err := c.open(cmd, path)
	if err != nil {
		return err
	}
	if err := fn(sess); err != nil {
		return err
	}
	return c.save(cmd, sess, path)
}
