package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/rokartur/xcstrings-editor-sub000/internal/catalog"
	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

type inspectReport struct {
	FileName       string        `json:"file_name"`
	SourceLanguage string        `json:"source_language"`
	Languages      []string      `json:"languages"`
	DirtyKeys      []string      `json:"dirty_keys,omitempty"`
	Entries        []entryReport `json:"entries"`
}

type entryReport struct {
	Key             string                        `json:"key"`
	Comment         string                        `json:"comment,omitempty"`
	ShouldTranslate bool                          `json:"should_translate"`
	Dirty           bool                          `json:"dirty,omitempty"`
	Values          map[string]string             `json:"values,omitempty"`
	States          map[string]domain.ReviewState `json:"states,omitempty"`
}

type summaryReport struct {
	ChangedKeys      []string `json:"changed_keys"`
	Added            []string `json:"added,omitempty"`
	Removed          []string `json:"removed,omitempty"`
	Modified         []string `json:"modified,omitempty"`
	Locales          []string `json:"locales,omitempty"`
	AddedLanguages   []string `json:"added_languages,omitempty"`
	RemovedLanguages []string `json:"removed_languages,omitempty"`
	Title            string   `json:"title"`
	Body             string   `json:"body"`
}

func newInspectCmd(c *cli) *cobra.Command {
	var (
		output    string
		dirtyOnly bool
	)
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the entries of a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.open(cmd, args[0])
			if err != nil {
				return err
			}
			report := buildInspectReport(sess, dirtyOnly)
			if output == "text" {
				return writeInspectText(cmd.OutOrStdout(), report)
			}
			return writeStructured(cmd.OutOrStdout(), output, report)
		},
	}
	cmd.Flags().StringVar(&output, "output", "text", "output format: text, json or yaml")
	cmd.Flags().BoolVar(&dirtyOnly, "dirty", false, "only list entries that differ from the baseline")
	return cmd
}

func newSummaryCmd(c *cli) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "summary FILE",
		Short: "Describe the changes of a catalog relative to --baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.open(cmd, args[0])
			if err != nil {
				return err
			}
			sum := sess.Summary()
			if output == "text" {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", sum.Title, sum.Body)
				return err
			}
			return writeStructured(cmd.OutOrStdout(), output, summaryReport{
				ChangedKeys:      nonNil(sum.ChangedKeys),
				Added:            sum.Added,
				Removed:          sum.Removed,
				Modified:         sum.Modified,
				Locales:          sum.Locales,
				AddedLanguages:   sum.AddedLanguages,
				RemovedLanguages: sum.RemovedLanguages,
				Title:            sum.Title,
				Body:             sum.Body,
			})
		},
	}
	cmd.Flags().StringVar(&output, "output", "text", "output format: text, json or yaml")
	return cmd
}

func buildInspectReport(sess *catalog.Session, dirtyOnly bool) inspectReport {
	report := inspectReport{
		FileName:       sess.FileName(),
		SourceLanguage: sess.SourceLanguage(),
		Languages:      sess.Languages(),
		DirtyKeys:      sess.DirtyKeys(),
		Entries:        []entryReport{},
	}
	for _, e := range sess.Entries() {
		dirty := sess.IsDirty(e.Key)
		if dirtyOnly && !dirty {
			continue
		}
		report.Entries = append(report.Entries, entryReport{
			Key:             e.Key,
			Comment:         e.Comment,
			ShouldTranslate: e.ShouldTranslate,
			Dirty:           dirty,
			Values:          e.Values,
			States:          e.States,
		})
	}
	return report
}

func writeInspectText(w io.Writer, r inspectReport) error {
	fmt.Fprintf(w, "%s: %d entries, source %s, languages %s\n\n",
		r.FileName, len(r.Entries), r.SourceLanguage, strings.Join(r.Languages, ", "))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "KEY\t%s\n", strings.ToUpper(strings.Join(r.Languages, "\t")))
	for _, e := range r.Entries {
		key := e.Key
		if e.Dirty {
			key = "* " + key
		}
		cells := make([]string, 0, len(r.Languages))
		for _, lang := range r.Languages {
			cell := e.Values[lang]
			if state := e.States[lang]; state != domain.ReviewStateNone {
				cell += " [" + state.String() + "]"
			}
			cells = append(cells, cell)
		}
		fmt.Fprintf(tw, "%s\t%s\n", key, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func writeStructured(w io.Writer, format string, v any) error {
	var (
		out []byte
		err error
	)
	switch format {
	case "json":
		out, err = json.MarshalIndent(v, "", "  ")
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
