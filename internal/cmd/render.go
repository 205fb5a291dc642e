package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/azhar-beg/backstage/internal/core"
)

// Output formats of the render command.
const (
	outputYAML  = "yaml"
	outputTable = "table"
	outputLink  = "link"
)

type RenderInjector func() (*core.ObjectViewUseCase, func(), error)

type renderFlags struct {
	file          string
	cluster       string
	kind          string
	output        string
	managedFields bool
}

func NewRenderCommand(newUseCase RenderInjector) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render Kubernetes manifests the way the object drawer shows them",
		Example: "kubectl get pod web-0 -o yaml | backstage render -f - --output table\n" +
			"backstage render -f deploy.yaml --cluster prod --output link",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, cleanup, err := newUseCase()
			if err != nil {
				return fmt.Errorf("failed to initialize renderer: %w", err)
			}
			defer cleanup()

			in, err := openInput(flags.file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer in.Close()

			return runRender(cmd.Context(), uc, flags, in, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", stdinPath, "Manifest file to render, - for stdin")
	cmd.Flags().StringVar(&flags.cluster, "cluster", "", "Cluster whose dashboard links are generated")
	cmd.Flags().StringVar(&flags.kind, "kind", "", "Kind used for dashboard links instead of the object's own")
	cmd.Flags().StringVarP(&flags.output, "output", "o", outputYAML, "Output format: yaml, table or link")
	cmd.Flags().BoolVar(&flags.managedFields, "managed-fields", false, "Include metadata.managedFields in yaml output")

	return cmd
}

func runRender(ctx context.Context, uc *core.ObjectViewUseCase, flags *renderFlags, in io.Reader, out io.Writer) error {
	mode := core.DisplayStructured
	switch flags.output {
	case outputYAML:
		mode = core.DisplayRaw
	case outputTable:
	case outputLink:
		if flags.cluster == "" {
			return fmt.Errorf("--output=%s requires --cluster", outputLink)
		}
	default:
		return fmt.Errorf("unknown output format %q", flags.output)
	}

	docs, err := readDocuments(in)
	if err != nil {
		return err
	}

	reqs := make([]core.RenderRequest, 0, len(docs))
	for _, doc := range docs {
		reqs = append(reqs, core.RenderRequest{
			Cluster: flags.cluster,
			Kind:    flags.kind,
			Object:  doc,
			State:   core.DrawerState{Open: true, Mode: mode, ManagedFields: flags.managedFields},
		})
	}

	views, err := uc.RenderBatch(ctx, reqs)
	if err != nil {
		return err
	}

	switch flags.output {
	case outputTable:
		return writeTables(out, views)
	case outputLink:
		return writeLinks(out, views)
	default:
		return writeYAML(out, views)
	}
}

func writeYAML(out io.Writer, views []*core.ObjectView) error {
	for i, view := range views {
		if i > 0 {
			if _, err := io.WriteString(out, "---\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(out, view.YAML); err != nil {
			return err
		}
	}
	return nil
}

func writeTables(out io.Writer, views []*core.ObjectView) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i, view := range views {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "# %s (%s)\n", view.Title, view.Kind)
		fmt.Fprintln(w, "PATH\tVALUE")
		for _, row := range view.Rows {
			fmt.Fprintf(w, "%s\t%s\n", row.Path, row.Value)
		}
	}
	return w.Flush()
}

func writeLinks(out io.Writer, views []*core.ObjectView) error {
	for _, view := range views {
		switch {
		case view.Link.Link != "":
			fmt.Fprintf(out, "%s\t%s\n", view.Title, view.Link.Link)
		case view.Link.Error != "":
			fmt.Fprintf(out, "%s\terror: %s\n", view.Title, view.Link.Error)
		default:
			fmt.Fprintf(out, "%s\t-\n", view.Title)
		}
	}
	return nil
}
