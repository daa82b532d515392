package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/services/factory"
	"github.com/AtRiskMedia/pagebuilder-go/internal/presentation/templates"
)

// readInput reads a file argument, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func readDescriptors(cmd *cobra.Command, path string) ([]factory.Descriptor, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	var descs []factory.Descriptor
	if err := json.Unmarshal(data, &descs); err != nil {
		return nil, fmt.Errorf("descriptors must be a JSON array: %w", err)
	}
	return descs, nil
}

func newRenderCmd() *cobra.Command {
	var (
		breakpoint string
		mode       string
		title      string
		full       bool
	)
	cmd := &cobra.Command{
		Use:   "render <document.json|->",
		Short: "Render a saved document to HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			doc, err := page.ParseDocument(data)
			if err != nil {
				return fmt.Errorf("invalid document: %w", err)
			}

			renderer := templates.NewNodeRenderer(&rendering.RenderContext{
				Mode:       rendering.ParseMode(mode),
				Breakpoint: page.ParseBreakpoint(breakpoint),
			})
			out := renderer.RenderDocument(doc)
			if full {
				out = renderer.RenderPage(doc, title)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&breakpoint, "breakpoint", "b", string(page.Desktop), "Breakpoint (desktop, tablet, mobile)")
	cmd.Flags().StringVarP(&mode, "mode", "m", string(rendering.ModeInert), "Render mode (inert, interactive)")
	cmd.Flags().StringVar(&title, "title", "Preview", "Page title for --page output")
	cmd.Flags().BoolVar(&full, "page", false, "Emit a standalone HTML page with the hover stylesheet")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <descriptors.json|->",
		Short: "Validate AI layout descriptors against the element schemas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			descs, err := readDescriptors(cmd, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printTitle(w, "Validating descriptors")
			invalid := 0
			for i, d := range descs {
				if err := factory.Validate(d); err != nil {
					invalid++
					printFail(w, "%d %s: %v", i, d.Kind, err)
					continue
				}
				printOK(w, "%d %s", i, d.Kind)
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d descriptors are invalid", invalid, len(descs))
			}
			printMuted(w, "%d descriptors valid", len(descs))
			return nil
		},
	}
}

func newHydrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hydrate <descriptors.json|->",
		Short: "Turn AI layout descriptors into document JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			descs, err := readDescriptors(cmd, args[0])
			if err != nil {
				return err
			}
			for i, d := range descs {
				if err := factory.Validate(d); err != nil {
					return fmt.Errorf("descriptor %d: %w", i, err)
				}
			}
			doc := page.Document{Content: factory.HydrateAll(descs)}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(page.MarshalDocument(doc)))
			return err
		},
	}
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the element kinds of the palette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tLABEL\tCATEGORY\tFLAGS")
			for _, e := range factory.Catalog() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Kind, e.Label, e.Category, flags(e))
			}
			return w.Flush()
		},
	}
}

func flags(e factory.Entry) string {
	out := ""
	add := func(on bool, name string) {
		if !on {
			return
		}
		if out != "" {
			out += ","
		}
		out += name
	}
	add(e.CanvasOnly, "canvas-only")
	add(e.Timed, "timed")
	add(e.RichText, "rich-text")
	if out == "" {
		return "-"
	}
	return out
}
