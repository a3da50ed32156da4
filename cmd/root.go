package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/uyouii/percentile-chart/config"
	"github.com/uyouii/percentile-chart/svgchart"
	"github.com/uyouii/percentile-chart/utils"
	"go.uber.org/zap"
)

var (
	debug      bool
	configPath string
	cfg        config.Config

	rootCmd = &cobra.Command{
		Use:           "percentilechart",
		Short:         "percentile distribution chart",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// propagate debug flag
			utils.SetDebug(debug)

			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				utils.GetLogger(cmd.Context()).Error("load config failed", zap.String("path", configPath),
					zap.Error(err))
				return err
			}
			return nil
		},
	}
)

func Execute() {
	if err := ExecuteContext(context.Background()); err != nil {
		utils.GetLogger(context.Background()).Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "yaml config file")

	rootCmd.AddCommand(renderCmd, serveCmd, estimateCmd)
}

func frame() svgchart.Frame {
	f := svgchart.DefaultFrame()
	f.Width, f.Height = cfg.Width, cfg.Height
	return f
}
