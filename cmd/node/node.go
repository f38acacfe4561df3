package node

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tata-ai/tata/cmd/common"
	"github.com/tata-ai/tata/pkg/nodes"
	"github.com/tata-ai/tata/pkg/silo"
)

// NewNodeCmd groups the placeholder backend commands
func NewNodeCmd(rt *common.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Run placeholder backends for the Tata node services",
		Long: `Each placeholder backend answers GET /api/health and GET /api/status
on the node type's default port so that the monitor has something to probe
during local development.`,
	}
	cmd.AddCommand(newRunCmd(rt), newListCmd())
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List node types and their default ports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NODE\tSERVICE\tPORT")
			for _, nt := range silo.ListNodeTypes() {
				fmt.Fprintf(w, "%s\t%s\t%d\n", nt.ID, nt.Service, nt.DefaultPort)
			}
			return w.Flush()
		},
	}
}

func newRunCmd(rt *common.Runtime) *cobra.Command {
	var (
		all  bool
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "run [node-type]",
		Short: "Run one placeholder backend, or all five with --all",
		Example: `  tata node run Core
  tata node run tata-memex --port 9003
  tata node run --all`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return fmt.Errorf("--all does not take a node type")
			}
			if !all && len(args) != 1 {
				return fmt.Errorf("expected one node type or --all")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var types []silo.NodeType
			if all {
				if cmd.Flags().Changed("port") {
					return fmt.Errorf("--port cannot be combined with --all")
				}
				types = silo.ListNodeTypes()
			} else {
				nt, ok := silo.ResolveNodeType(args[0])
				if !ok {
					return fmt.Errorf("unknown node type %q (expected one of %s)", args[0], nodeTypeNames())
				}
				if port > 0 {
					nt.DefaultPort = port
				}
				types = []silo.NodeType{nt}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runNodes(ctx, types, host, rt)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Run every node type on its default port")
	cmd.Flags().StringVar(&host, "host", "", "Interface to listen on (default all interfaces)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Override the node type's default port")
	return cmd
}

// runNodes serves every node type until ctx ends. The first backend that
// fails to listen stops the others.
func runNodes(ctx context.Context, types []silo.NodeType, host string, rt *common.Runtime) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, nt := range types {
		wg.Add(1)
		go func(nt silo.NodeType) {
			defer wg.Done()
			addr := fmt.Sprintf("%s:%d", host, nt.DefaultPort)
			if err := nodes.Serve(ctx, nodes.NewNode(nt), addr, rt.Logger); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				cancel()
			}
		}(nt)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func nodeTypeNames() string {
	ids := silo.NodeTypeIDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return strings.Join(names, ", ")
}
