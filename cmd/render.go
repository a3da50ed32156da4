package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/uyouii/percentile-chart/common"
	"github.com/uyouii/percentile-chart/gochart"
	"github.com/uyouii/percentile-chart/model"
	"github.com/uyouii/percentile-chart/plotchart"
	"github.com/uyouii/percentile-chart/svgchart"
	"github.com/uyouii/percentile-chart/utils"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
)

const (
	EngineSVG     = "svg"
	EnginePlot    = "plot"
	EngineGoChart = "gochart"
)

var (
	renderPercentile string
	renderHover      int
	renderEngine     string
	renderOut        string

	renderCmd = &cobra.Command{
		Use:   "render",
		Short: "Render the chart to a file",
		Long: `Render the distribution chart with the percentile marker and an optional hovered point.
The output format follows the --out extension: svg, png, or pdf for the plot engine.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := utils.GetLogger(cmd.Context())

			percentile, err := percentileFlag(renderPercentile, cfg.InitialPercentile())
			if err != nil {
				return err
			}
			hover := model.NoHover()
			if renderHover >= 0 {
				hover = model.HoverAt(renderHover)
			}

			var buf bytes.Buffer
			if err := render(cmd, &buf, percentile, hover); err != nil {
				logger.Error("render failed", zap.String("engine", renderEngine), zap.Error(err))
				return err
			}

			if renderOut == "" || renderOut == "-" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(renderOut, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", renderOut, err)
			}
			logger.Info("chart written", zap.String("out", renderOut), zap.String("engine", renderEngine),
				zap.Stringer("percentile", percentile), zap.Stringer("hover", hover))
			return nil
		},
	}
)

func init() {
	renderCmd.Flags().StringVar(&renderPercentile, "percentile", "", `percentile to mark, "none" for no marker (default from config)`)
	renderCmd.Flags().IntVar(&renderHover, "hover", -1, "index of the hovered control point, -1 for none")
	renderCmd.Flags().StringVar(&renderEngine, "engine", EngineSVG, "rendering engine: svg, plot or gochart")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "-", "output file, - for stdout")
}

func render(cmd *cobra.Command, w io.Writer, percentile model.Percentile, hover model.HoverState) error {
	renderer, err := cfg.Renderer()
	if err != nil {
		return err
	}
	format := outputFormat(renderOut)

	switch renderEngine {
	case EngineSVG:
		if format != "svg" {
			return fmt.Errorf("%w: svg engine cannot write %s", common.ErrorInvalidValue, format)
		}
		return svgchart.Render(w, renderer, percentile, hover, frame())
	case EngineGoChart:
		return gochart.Render(cmd.Context(), w, renderer, percentile, hover, cfg.Width, cfg.Height,
			gochart.Format(format))
	case EnginePlot:
		c, err := plotchart.New(cmd.Context(), renderer, percentile, hover)
		if err != nil {
			return err
		}
		return c.WriteTo(w, vg.Points(float64(cfg.Width)), vg.Points(float64(cfg.Height)), format)
	}
	return fmt.Errorf("%w: engine %q", common.ErrorInvalidValue, renderEngine)
}

// outputFormat is the lower case extension of out, svg for stdout.
func outputFormat(out string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(out), "."))
	if ext == "" {
		return "svg"
	}
	return ext
}

func percentileFlag(v string, fallback model.Percentile) (model.Percentile, error) {
	switch v {
	case "":
		return fallback, nil
	case "none":
		return model.NoPercentile, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return model.NoPercentile, fmt.Errorf("%w: --percentile %q", common.ErrorInvalidPercentile, v)
	}
	p := model.NewPercentile(f)
	return p, p.Validate()
}
