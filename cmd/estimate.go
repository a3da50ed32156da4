package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/uyouii/percentile-chart/kde"
	"github.com/uyouii/percentile-chart/model"
	"gopkg.in/yaml.v3"
)

var (
	estimateScores   string
	estimateScore    float64
	estimateGridSize int

	estimateCmd = &cobra.Command{
		Use:   "estimate",
		Short: "Estimate control points from a score sample",
		Long: `Estimate the distribution curve of a yaml list of scores and print it as config yaml,
followed by the score quartiles. With --score the percentile of that score is included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			scores, err := readScores(estimateScores)
			if err != nil {
				return err
			}

			opts := kde.DefaultDistributionOptions()
			opts.GridSize = estimateGridSize
			points, err := kde.Distribution(ctx, scores, opts)
			if err != nil {
				return err
			}

			quantiles, err := kde.ScoreQuantiles(ctx, scores, kde.DefaultScoreQuantiles)
			if err != nil {
				return err
			}

			out := estimate{Points: points, Quantiles: quantiles}
			if cmd.Flags().Changed("score") {
				p, err := kde.PercentileOfScore(ctx, scores, estimateScore)
				if err != nil {
					return err
				}
				v, _ := p.Value()
				out.Percentile = &v
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(out)
		},
	}
)

type estimate struct {
	Percentile *float64              `yaml:"percentile,omitempty"`
	Points     []model.ControlPoint  `yaml:"points"`
	Quantiles  []model.ScoreQuantile `yaml:"quantiles"`
}

func init() {
	estimateCmd.Flags().StringVar(&estimateScores, "scores", "", "yaml file holding a list of scores")
	estimateCmd.Flags().Float64Var(&estimateScore, "score", 0, "score to place on the distribution")
	estimateCmd.Flags().IntVar(&estimateGridSize, "points", kde.DefaultDistributionGridSize, "number of control points")
	estimateCmd.MarkFlagRequired("scores")
}

func readScores(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading scores file: %w", err)
	}
	var scores []float64
	if err := yaml.Unmarshal(data, &scores); err != nil {
		return nil, fmt.Errorf("error parsing scores file: %w", err)
	}
	return scores, nil
}
