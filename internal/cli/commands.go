package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akhdanfadh/notekeep/internal/notes"
)

// noteFlags are the flags create and update use to build a note body.
type noteFlags struct {
	title  string
	data   string
	fields []string
}

func (f *noteFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Note title")
	cmd.Flags().StringVarP(&f.data, "data", "d", "", `Raw JSON object to send, e.g. '{"title":"x","body":"y"}'`)
	cmd.Flags().StringArrayVarP(&f.fields, "field", "f", nil, "Extra field as key=value, repeatable; JSON values are decoded")
}

// build merges --data, then --field, then --title into one note.
func (f *noteFlags) build(cmd *cobra.Command) (notes.Note, error) {
	note := notes.Note{}

	if f.data != "" {
		if err := json.Unmarshal([]byte(f.data), &note); err != nil {
			return nil, fmt.Errorf("parsing --data: %w", err)
		}
	}

	for _, field := range f.fields {
		key, value, ok := strings.Cut(field, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --field %q: want key=value", field)
		}
		note[key] = parseFieldValue(value)
	}

	if cmd.Flags().Changed("title") {
		note["title"] = f.title
	}
	return note, nil
}

// parseFieldValue decodes JSON scalars/objects (true, 3, {"a":1}) and falls
// back to the raw string.
func parseFieldValue(value string) any {
	var v any
	if err := json.Unmarshal([]byte(value), &v); err == nil {
		return v
	}
	return value
}

func (a *app) newListCmd() *cobra.Command {
	var search string
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes, optionally filtered by title",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.client.List(cmd.Context(), notes.ListOptions{Search: search})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(a.out, list)
			}
			return writeNoteTable(a.out, list)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only notes whose title contains this text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON instead of a table")
	return cmd
}

func (a *app) newCreateCmd() *cobra.Command {
	var f noteFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			note, err := f.build(cmd)
			if err != nil {
				return err
			}
			if len(note) == 0 {
				return errors.New("nothing to create: pass --title, --field or --data")
			}

			created, err := a.client.Create(cmd.Context(), note)
			if err != nil {
				return err
			}
			writeStatus(a.errOut, "Created note %s", created.ID())
			return writeJSON(a.out, created)
		},
	}
	f.bind(cmd)
	return cmd
}

func (a *app) newUpdateCmd() *cobra.Command {
	var f noteFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a note's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			note, err := f.build(cmd)
			if err != nil {
				return err
			}
			if len(note) == 0 {
				return errors.New("nothing to update: pass --title, --field or --data")
			}

			updated, err := a.client.Update(cmd.Context(), id, note)
			if err != nil {
				return err
			}
			writeStatus(a.errOut, "Updated note %s", id)
			return writeJSON(a.out, updated)
		},
	}
	f.bind(cmd)
	return cmd
}

func (a *app) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			deleted, err := a.client.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			writeStatus(a.errOut, "Deleted note %s", id)
			return writeJSON(a.out, deleted)
		},
	}
}
