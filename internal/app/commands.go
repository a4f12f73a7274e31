package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"richdoc/internal/storage"
	"richdoc/internal/ui"
	"richdoc/pkg/richdoc"
)

var ErrExists = errors.New("app: document already exists")

func newNewCmd(a *App) *cobra.Command {
	var title string
	var force bool
	cmd := &cobra.Command{
		Use:   "new <key>",
		Short: "Create an empty document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			ctx := cmd.Context()
			if !force {
				_, err := a.store.Load(ctx, key)
				if err == nil {
					return fmt.Errorf("%w: %q (use --force to replace it)", ErrExists, key)
				}
				if !errors.Is(err, storage.ErrNotFound) {
					return err
				}
			}
			doc := richdoc.NewDocumentWithStyle(title, a.cfg.DefaultStyle())
			if _, err := a.store.Save(ctx, key, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", key)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Document title")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing document")
	return cmd
}

func newShowCmd(a *App) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "show <key>",
		Short: "Render a document on a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if width <= 0 {
				width = a.cfg.Render.Width
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.DrawShell(lipgloss.NewRenderer(out), s, ui.DefaultTheme(), width))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "Terminal width (default: render.width)")
	return cmd
}

func newTextCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "text <key>",
		Short: "Print a document's plain text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.PlainText())
			return nil
		},
	}
}

func newJSONCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "json <key>",
		Short: "Print a document's serialized record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.store.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rec, err := richdoc.ToSerialized(doc)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		},
	}
}

func newMetricsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics <key>",
		Short: "Print word and character counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.StatusLine(s.Metrics()))
			return nil
		},
	}
}

func newListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List saved documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := a.store.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

func newRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <key>",
		Short: "Delete a saved document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.store.Delete(cmd.Context(), args[0])
		},
	}
}

func newCopyCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <key>",
		Short: "Copy a document's plain text to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.clipboard(s.PlainText()); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "copied %d characters\n", s.Metrics().CharacterCount)
			return nil
		},
	}
}

func newEditCmd(a *App) *cobra.Command {
	var show bool
	cmd := &cobra.Command{
		Use:   "edit <key> [script]",
		Short: "Run an editing script against a document and save it",
		Long: strings.TrimSpace(`
Runs one action per line against the document, then saves it. The script is
read from the given file, or from stdin when no file is given.

Actions: select A B, caret N, bold, italic, underline,
align left|center|right|justify, list none|bullet|numbered, font NAME,
size N, grow N, insert TEXT, delete, backspace, forward, undo, redo,
title TEXT. Quote insert text ("...") to use escapes such as \n.
`),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			var src io.Reader = cmd.InOrStdin()
			if len(args) == 2 {
				f, err := os.Open(args[1])
				if err != nil {
					return err
				}
				defer f.Close()
				src = f
			}
			steps, err := parseScript(src)
			if err != nil {
				return err
			}
			s, err := a.load(cmd.Context(), key)
			if err != nil {
				return err
			}
			if err := runScript(s, steps); err != nil {
				return err
			}
			if _, err := a.store.Save(cmd.Context(), key, s.Document()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if show {
				fmt.Fprintln(out, ui.DrawShell(lipgloss.NewRenderer(out), s, ui.DefaultTheme(), a.cfg.Render.Width))
				return nil
			}
			fmt.Fprintf(out, "saved %s: %s\n", key, ui.StatusLine(s.Metrics()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "Render the document after saving")
	return cmd
}
