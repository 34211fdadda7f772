package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/venture-cli/internal/model"
	"github.com/sells-group/venture-cli/internal/store"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export completed validation runs to an XLSX workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		runs, err := st.ListRuns(ctx, store.RunFilter{Status: model.RunStatusComplete, Limit: 1000})
		if err != nil {
			return eris.Wrap(err, "export: list runs")
		}
		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No completed runs to export.")
			return nil
		}

		f, err := buildWorkbook(runs)
		if err != nil {
			return err
		}
		if err := f.Save(exportOut); err != nil {
			return eris.Wrapf(err, "export: save %s", exportOut)
		}

		zap.L().Info("export complete", zap.String("file", exportOut), zap.Int("runs", len(runs)))
		return nil
	},
}

func buildWorkbook(runs []model.Run) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Validations")
	if err != nil {
		return nil, eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{
		"Run ID", "Idea", "Category", "Score",
		"Pain Severity", "Market Gap", "MVP Feasibility", "Competition Density",
		"Monetization", "Community Demand", "Startup Saturation",
		"Pricing", "Target Platform", "Competitors", "Created",
	} {
		header.AddCell().SetString(h)
	}

	for _, r := range runs {
		if r.Result == nil {
			continue
		}
		res := r.Result
		row := sheet.AddRow()
		row.AddCell().SetString(r.ID)
		row.AddCell().SetString(r.Idea)
		row.AddCell().SetString(string(res.Category))
		row.AddCell().SetInt(res.OpportunityScore)
		row.AddCell().SetInt(res.Breakdown.PainSeverity)
		row.AddCell().SetInt(res.Breakdown.MarketGap)
		row.AddCell().SetInt(res.Breakdown.MVPFeasibility)
		row.AddCell().SetInt(res.Breakdown.CompetitionDensity)
		row.AddCell().SetInt(res.Breakdown.MonetizationPotential)
		row.AddCell().SetInt(res.Breakdown.CommunityDemand)
		row.AddCell().SetInt(res.Breakdown.StartupSaturation)
		row.AddCell().SetString(res.Pricing)
		row.AddCell().SetString(res.TargetPlatform)
		row.AddCell().SetString(strings.Join(competitorNames(res.Competitors), ", "))
		row.AddCell().SetString(res.CreatedAt.Format("2006-01-02 15:04"))
	}

	return f, nil
}

func competitorNames(competitors []model.Competitor) []string {
	names := make([]string, 0, len(competitors))
	for _, c := range competitors {
		names = append(names, c.Title)
	}
	return names
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "validations.xlsx", "output file path")
	rootCmd.AddCommand(exportCmd)
}
