package monitor

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tata-ai/tata/cmd/common"
	"github.com/tata-ai/tata/pkg/monitoring"
	notificationservice "github.com/tata-ai/tata/pkg/notifications/service"
)

// NewMonitorCmd groups the health monitor commands
func NewMonitorCmd(rt *common.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Probe the health endpoints of the Tata node services",
	}
	cmd.AddCommand(newRunCmd(rt), newStatusCmd())
	return cmd
}

func newRunCmd(rt *common.Runtime) *cobra.Command {
	var (
		once bool
		host string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Poll every service until interrupted, or once with --once",
		Long: `Poll the configured services, or every node type's /api/health on its
default port when none are configured. Transitions to down and back up are
logged and, when SMTP is configured, mailed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rt.Config.Monitoring
			if len(cfg.Services) == 0 || cmd.Flags().Changed("host") {
				cfg.Services = monitoring.DefaultTargets(host)
			}

			notifier, err := notificationservice.NewNotificationService(rt.Config.Notifications.SMTP, rt.Logger)
			if err != nil {
				return err
			}
			svc, err := monitoring.NewService(&cfg, notifier, rt.Logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if once {
				checks := svc.CheckNow(ctx)
				if err := printChecks(cmd.OutOrStdout(), checks); err != nil {
					return err
				}
				if failed := countFailed(checks); failed > 0 {
					return fmt.Errorf("%d of %d services failed their health check", failed, len(checks))
				}
				return nil
			}

			if err := svc.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			return svc.Stop()
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Check every service once, print the results and exit")
	cmd.Flags().StringVar(&host, "host", "localhost", "Host of the default node type targets")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the statuses tracked by a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			checks, err := common.NewClientFromEnv().ListServiceStatuses()
			if err != nil {
				return err
			}
			ptrs := make([]*monitoring.ServiceCheck, len(checks))
			for i := range checks {
				ptrs[i] = &checks[i]
			}
			return printChecks(cmd.OutOrStdout(), ptrs)
		},
	}
}

func printChecks(out io.Writer, checks []*monitoring.ServiceCheck) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tSTATUS\tCODE\tTIME\tFAILURES\tERROR")
	for _, c := range checks {
		code := "-"
		if c.StatusCode > 0 {
			code = fmt.Sprintf("%d", c.StatusCode)
		}
		errText := c.Error
		if errText == "" {
			errText = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", c.Service, c.Status, code, c.ResponseTime, c.FailureCount, errText)
	}
	return w.Flush()
}

func countFailed(checks []*monitoring.ServiceCheck) int {
	n := 0
	for _, c := range checks {
		if c.Error != "" {
			n++
		}
	}
	return n
}
