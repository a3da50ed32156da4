package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/uyouii/percentile-chart/server"
	"github.com/uyouii/percentile-chart/state"
	"github.com/uyouii/percentile-chart/utils"
	"go.uber.org/zap"
)

var (
	serveAddr string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart over http",
		Long: `Serve the chart as /chart.svg and /chart.png, the current percentile on /percentile
and prometheus metrics on /metrics. ctrl-c to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			logger := utils.GetLogger(ctx)

			renderer, err := cfg.Renderer()
			if err != nil {
				return err
			}
			store, err := state.NewStore(cfg.InitialPercentile())
			if err != nil {
				return err
			}

			srv := server.New(ctx, renderer, store, frame())
			defer srv.Close()

			addr := serveAddr
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if err := srv.ListenAndServe(ctx, addr); err != nil {
				logger.Error("http listen", zap.String("addr", addr), zap.Error(err))
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}
