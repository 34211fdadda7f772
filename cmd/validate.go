package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/venture-cli/internal/model"
)

var (
	validateIdea     string
	validateCategory string
	validateStream   bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a startup idea",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		req := model.ValidationRequest{
			Idea:     validateIdea,
			Category: validateCategory,
		}

		if validateStream {
			var result *model.ValidationResult
			for ev := range env.Pipeline.Stream(ctx, req) {
				if ev.Err != "" {
					return eris.New(ev.Err)
				}
				if ev.Result != nil {
					result = ev.Result
					continue
				}
				fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", ev.Step, ev.Total, ev.Message)
			}
			if result == nil {
				return eris.New("stream closed without a result")
			}
			return printResult(result)
		}

		result, err := env.Pipeline.Run(ctx, req)
		if err != nil {
			return eris.Wrap(err, "validate")
		}

		zap.L().Info("validation complete",
			zap.Int("opportunity_score", result.OpportunityScore),
			zap.String("category", string(result.Category)),
			zap.Int("competitors", len(result.Competitors)))

		return printResult(result)
	},
}

func printResult(result *model.ValidationResult) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func init() {
	validateCmd.Flags().StringVar(&validateIdea, "idea", "", "the idea to validate (required)")
	validateCmd.Flags().StringVar(&validateCategory, "category", "", "explicit category, skips classification (mobile_app|hardware|fintech|saas_web)")
	validateCmd.Flags().BoolVar(&validateStream, "stream", false, "print per-stage progress to stderr")
	_ = validateCmd.MarkFlagRequired("idea")
	rootCmd.AddCommand(validateCmd)
}
