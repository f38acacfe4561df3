/*
Copyright © 2025 Tata AI
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tata-ai/tata/cmd/backup"
	"github.com/tata-ai/tata/cmd/common"
	"github.com/tata-ai/tata/cmd/monitor"
	"github.com/tata-ai/tata/cmd/node"
	"github.com/tata-ai/tata/cmd/serve"
	"github.com/tata-ai/tata/cmd/silo"
	"github.com/tata-ai/tata/cmd/version"
	"github.com/tata-ai/tata/pkg/config"
	"github.com/tata-ai/tata/pkg/logger"
)

// NewRootCmd builds the tata command tree
func NewRootCmd() *cobra.Command {
	var cfgFile string
	rt := &common.Runtime{}

	rootCmd := &cobra.Command{
		Use:   "tata",
		Short: "Template silo server for the Tata AI services",
		Long: `tata serves and edits the configuration templates of the five Tata AI
node types (Core, Flow, Memex, Moto, ZKP), monitors their health and runs
placeholder backends for local development.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetViper(), cfgFile)
			if err != nil {
				return err
			}
			log, err := logger.New(&cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			rt.Config = cfg
			rt.Logger = log
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./tata.yaml or ~/.config/tata/config.yaml)")

	rootCmd.AddCommand(serve.Command(rt))
	rootCmd.AddCommand(silo.NewSiloCmd(rt))
	rootCmd.AddCommand(node.NewNodeCmd(rt))
	rootCmd.AddCommand(monitor.NewMonitorCmd(rt))
	rootCmd.AddCommand(backup.NewBackupCmd())
	rootCmd.AddCommand(version.NewVersionCmd())
	return rootCmd
}
