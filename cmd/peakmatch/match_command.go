package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/natelgrw/peak-prophet/internal/domain/match"
	"github.com/natelgrw/peak-prophet/internal/usecase/assign"
)

type matchOutput struct {
	Strategy       string            `json:"strategy"`
	Degraded       bool              `json:"degraded"`
	Total          float64           `json:"total"`
	Matches        []matchOutputItem `json:"matches"`
	UnmatchedPreds []int             `json:"unmatched_predicted,omitempty"`
	UnmatchedObs   []int             `json:"unmatched_observed,omitempty"`
}

type matchOutputItem struct {
	PredIndex int     `json:"pred_index"`
	ObsIndex  int     `json:"obs_index"`
	Label     string  `json:"label"`
	PeakRef   string  `json:"peak_ref,omitempty"`
	Score     float64 `json:"score"`
}

func newMatchCommand() *cobra.Command {
	var (
		strategyName string
		msWeight     float64
		rtWeight     float64
		lmaxWeight   float64
		mzTolDa      float64
		mzTolPPM     float64
		rtSigma      float64
		lmaxSigma    float64
		workers      int
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "match <predicted.json> <observed.json>",
		Short: "Match predicted compounds against observed peaks",
		Long: `Match predicted compound records against observed peak records.

Both files hold JSON arrays. Each record may carry a centroided mass
spectrum, a retention time in minutes, and an absorption maximum in nm;
any field may be omitted. Scores combine the available channels per pair.

Examples:
  peakmatch match predicted.json observed.json
  peakmatch match predicted.json observed.json --strategy greedy
  peakmatch match predicted.json observed.json --mz-tol-ppm 5 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			preds, err := loadPredicted(args[0])
			if err != nil {
				return err
			}
			obs, err := loadObserved(args[1])
			if err != nil {
				return err
			}

			params := match.DefaultParams()
			if cmd.Flags().Changed("weight-ms") {
				params.Weights[match.ChannelMS] = msWeight
			}
			if cmd.Flags().Changed("weight-rt") {
				params.Weights[match.ChannelRT] = rtWeight
			}
			if cmd.Flags().Changed("weight-lmax") {
				params.Weights[match.ChannelLambdaMax] = lmaxWeight
			}
			if cmd.Flags().Changed("mz-tol-da") && cmd.Flags().Changed("mz-tol-ppm") {
				return fmt.Errorf("--mz-tol-da and --mz-tol-ppm are mutually exclusive")
			}
			if cmd.Flags().Changed("mz-tol-da") {
				params.Tolerance = match.AbsoluteDa(mzTolDa)
			}
			if cmd.Flags().Changed("mz-tol-ppm") {
				params.Tolerance = match.PartsPerMillion(mzTolPPM)
			}
			if cmd.Flags().Changed("rt-sigma") {
				params.RTSigma = rtSigma
			}
			if cmd.Flags().Changed("lmax-sigma") {
				params.LambdaSigma = lmaxSigma
			}

			strategy, err := assign.ForName(strategyName)
			if err != nil {
				return err
			}

			svc := assign.New(strategy)
			if workers > 0 {
				svc = svc.WithWorkers(workers)
			}

			res, err := svc.Match(preds, obs, params)
			if err != nil {
				return fmt.Errorf("match: %w", err)
			}

			out := buildOutput(res)
			if asJSON {
				return writeJSON(cmd, out)
			}
			renderOutput(cmd, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategyName, "strategy", "", "Assignment strategy: hungarian (default) or greedy")
	cmd.Flags().Float64Var(&msWeight, "weight-ms", 0.5, "Weight of the mass-spectral channel")
	cmd.Flags().Float64Var(&rtWeight, "weight-rt", 0.3, "Weight of the retention-time channel")
	cmd.Flags().Float64Var(&lmaxWeight, "weight-lmax", 0.2, "Weight of the absorption-maximum channel")
	cmd.Flags().Float64Var(&mzTolDa, "mz-tol-da", 0.01, "Absolute spectral alignment window in Da")
	cmd.Flags().Float64Var(&mzTolPPM, "mz-tol-ppm", 0, "Relative spectral alignment window in ppm")
	cmd.Flags().Float64Var(&rtSigma, "rt-sigma", 0.5, "Gaussian width for retention time, minutes")
	cmd.Flags().Float64Var(&lmaxSigma, "lmax-sigma", 15.0, "Gaussian width for absorption maximum, nm")
	cmd.Flags().IntVar(&workers, "workers", 0, "Matrix-build parallelism (0 = number of CPUs)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")

	return cmd
}

func buildOutput(res *match.Result) matchOutput {
	out := matchOutput{
		Strategy:       res.Strategy,
		Degraded:       res.Degraded,
		Total:          res.Total,
		Matches:        make([]matchOutputItem, 0, len(res.Matches)),
		UnmatchedPreds: res.UnmatchedPreds,
		UnmatchedObs:   res.UnmatchedObs,
	}
	for _, m := range res.Matches {
		out.Matches = append(out.Matches, matchOutputItem{
			PredIndex: m.Pred,
			ObsIndex:  m.Obs,
			Label:     m.Predicted.Label,
			PeakRef:   m.Observed.PeakRef,
			Score:     m.Score,
		})
	}
	return out
}

func renderOutput(cmd *cobra.Command, out matchOutput) {
	rows := make([][]string, 0, len(out.Matches))
	for _, m := range out.Matches {
		peak := m.PeakRef
		if peak == "" {
			peak = "#" + strconv.Itoa(m.ObsIndex)
		}
		rows = append(rows, []string{
			strconv.Itoa(m.PredIndex),
			m.Label,
			peak,
			strconv.FormatFloat(m.Score, 'f', 4, 64),
		})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, renderTable(
		[]string{"PRED", "LABEL", "PEAK", "SCORE"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
	))
	fmt.Fprintf(w, "strategy: %s", out.Strategy)
	if out.Degraded {
		fmt.Fprint(w, " (degraded)")
	}
	fmt.Fprintf(w, "  total: %.4f\n", out.Total)
	if len(out.UnmatchedPreds) > 0 {
		fmt.Fprintf(w, "unmatched predicted: %v\n", out.UnmatchedPreds)
	}
	if len(out.UnmatchedObs) > 0 {
		fmt.Fprintf(w, "unmatched observed: %v\n", out.UnmatchedObs)
	}
}
