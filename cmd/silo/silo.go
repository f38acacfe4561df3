package silo

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tata-ai/tata/cmd/common"
	silocore "github.com/tata-ai/tata/pkg/silo"
	siloservice "github.com/tata-ai/tata/pkg/silo/service"
	"github.com/tata-ai/tata/pkg/silo/store"
)

// NewSiloCmd groups the template commands. Everything except migrate talks
// to a running server at $TATA_API_URL.
func NewSiloCmd(rt *common.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "silo",
		Aliases: []string{"templates"},
		Short:   "Read and edit node templates",
	}
	cmd.AddCommand(
		newListCmd(),
		newGetCmd(),
		newSetCmd(),
		newSummaryCmd(),
		newCompareCmd(),
		newExportCmd(),
		newImportCmd(),
		newEnvCmd(),
		newMigrateCmd(rt),
	)
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List node types with their completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := common.NewClientFromEnv().ListNodeTypes()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NODE\tSERVICE\tPORT\tCOMPLETION")
			for _, n := range nodes {
				fmt.Fprintf(w, "%s %s\t%s\t%d\t%d%%\n", n.Icon, n.ID, n.Service, n.DefaultPort, n.Completion)
			}
			return w.Flush()
		},
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <node-type> [band]",
		Short: "Print a node's template, or one band of it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := common.NewClientFromEnv()
			var out interface{}
			if len(args) == 2 {
				band, err := client.GetBand(args[0], args[1])
				if err != nil {
					return err
				}
				out = band.Data
			} else {
				tpl, err := client.GetTemplate(args[0])
				if err != nil {
					return err
				}
				out = tpl
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newSetCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "set <node-type> <band> [json]",
		Short: "Replace one band of a node's template",
		Example: `  tata silo set Core database '{"type":"postgresql","host":"db"}'
  tata silo set Core database --file database.json`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			switch {
			case len(args) == 3 && file != "":
				return fmt.Errorf("pass the band data inline or with --file, not both")
			case len(args) == 3:
				raw = args[2]
			case file != "":
				b, err := readInput(cmd, file)
				if err != nil {
					return err
				}
				raw = string(b)
			default:
				return fmt.Errorf("band data is required")
			}

			data, err := siloservice.ParseBandData(raw)
			if err != nil {
				return err
			}
			resp, err := common.NewClientFromEnv().UpdateBand(args[0], args[1], data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s/%s\n", resp.NodeType, resp.BandID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read band data from a file (- for stdin)")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show completion per node and coverage per band",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overview, err := common.NewClientFromEnv().Summary()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NODE\tVERSION\tBANDS\tCOMPLETION")
			for _, n := range overview.Nodes {
				version := n.Version
				if version == "" {
					version = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%d/%d\t%d%%\n", n.NodeType, version, n.Configured, n.Total, n.Completion)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "BAND\tCOVERAGE")
			for _, b := range overview.Bands {
				fmt.Fprintf(w, "%s\t%d/%d\n", b.Name, b.Coverage, b.Total)
			}
			return w.Flush()
		},
	}
}

func newCompareCmd() *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "compare <band>",
		Short: "Compare one band across every node type",
		Example: `  tata silo compare database
  tata silo compare resources --field cpu --field scaling.max_replicas`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := common.NewClientFromEnv().Compare(args[0], fields)
			if err != nil {
				return err
			}

			nodeIDs := silocore.NodeTypeIDs()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			header := []string{"FIELD"}
			for _, id := range nodeIDs {
				header = append(header, string(id))
			}
			fmt.Fprintln(w, strings.Join(header, "\t"))
			for _, row := range result.Rows {
				cells := []string{row.Label}
				for _, id := range nodeIDs {
					cells = append(cells, formatCell(row.Values[id]))
				}
				fmt.Fprintln(w, strings.Join(cells, "\t"))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringArrayVar(&fields, "field", nil, "Dotted field path to compare (repeatable)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every template as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := siloservice.ParseFormat(format); err != nil {
				return err
			}
			content, err := common.NewClientFromEnv().Export(format)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(content)
				return err
			}
			if err := os.WriteFile(output, content, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported templates to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format (json or yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newImportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace templates from an exported JSON or YAML document",
		Long: `Replace the templates contained in the document. Node types absent from
the document are left untouched. Nothing is written if any entry is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if format == "" {
				format = formatFromPath(args[0])
			}
			result, err := common.NewClientFromEnv().Import(content, format)
			if err != nil {
				return err
			}
			imported := make([]string, len(result.Imported))
			for i, id := range result.Imported {
				imported[i] = string(id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d templates: %s\n", len(imported), strings.Join(imported, ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Document format (json or yaml); inferred from the file extension by default")
	return cmd
}

func newEnvCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "env <node-type>",
		Short: "Render a node's template as an environment file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := common.NewClientFromEnv().Env(args[0])
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = io.WriteString(cmd.OutOrStdout(), env)
				return err
			}
			return os.WriteFile(output, []byte(env), 0600)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newMigrateCmd(rt *common.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <legacy-dir>",
		Short: "Adopt a directory of hand-written template files into the configured store",
		Long: `Read every .json file in the directory, infer its owning node type from
the file name or its nodeName annotation, and write it to the store named
by the configuration. This command works on disk and does not need a
running server.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(rt.Config.Store.Config, rt.Logger)
			if err != nil {
				return fmt.Errorf("failed to open template store: %w", err)
			}
			defer st.Close()

			report, err := store.MigrateLegacyDir(cmd.Context(), args[0], st)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tRESULT\tDETAIL")
			for _, imp := range report.Imported {
				fmt.Fprintf(w, "%s\t%s\tmatched by %s\n", imp.File, imp.NodeType, imp.Rule)
			}
			for _, skip := range report.Skipped {
				fmt.Fprintf(w, "%s\tskipped\t%s\n", skip.File, skip.Reason)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			rt.Logger.Info("Migrated legacy templates",
				"dir", args[0],
				"imported", len(report.Imported),
				"skipped", len(report.Skipped),
			)
			return nil
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return b, nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		return val
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
