package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vicbot/landprice-cli/internal/realprice"
)

var queryJSON bool

var queryCmd = &cobra.Command{
	Use:   "query <area>",
	Short: "Query price statistics for a district or road",
	Long: "Filters the dataset by district or road name (e.g. 北屯, 文心路) and prints " +
		"transaction counts, price statistics, and per-road groupings.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng := newEngine()
		filter := realprice.QueryFilter(args[0])

		summary, err := eng.Query(ctx, filter)
		if err != nil {
			return err
		}

		if queryJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		}

		if summary.Count == 0 {
			fmt.Fprintf(os.Stderr, "查無「%s」的成交紀錄\n", summary.Area)
			if sugg := realprice.SuggestDistricts(args[0]); len(sugg) > 0 {
				fmt.Fprintln(os.Stderr, "您是否要查詢：")
				for _, s := range sugg {
					fmt.Fprintf(os.Stderr, "  - %s\n", s)
				}
			}
			return nil
		}

		formatSummary(os.Stdout, summary)
		return nil
	},
}

func init() {
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print the summary as JSON")
	rootCmd.AddCommand(queryCmd)
}

// formatSummary writes a human-readable summary to w.
func formatSummary(out io.Writer, s *realprice.QuerySummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintf(w, "查詢區域:\t%s\n", s.Area)
	_, _ = fmt.Fprintf(w, "成交期間:\t%s\n", s.Period)
	_, _ = fmt.Fprintf(w, "成交筆數:\t%d\n", s.Count)
	_, _ = fmt.Fprintf(w, "平均總價:\t%.1f 萬\n", s.AvgPrice)
	_, _ = fmt.Fprintf(w, "總價區間:\t%.1f ~ %.1f 萬\n", s.MinPrice, s.MaxPrice)
	_, _ = fmt.Fprintf(w, "平均單價:\t%.2f 萬/坪\n", s.AvgUnitPrice)
	_, _ = fmt.Fprintf(w, "單價區間:\t%.2f ~ %.2f 萬/坪\n", s.MinUnitPrice, s.MaxUnitPrice)
	if s.Stale {
		_, _ = fmt.Fprintf(w, "注意:\t資料更新失敗，以下為 %s 的快取資料\n",
			s.LoadedAt.Format("2006-01-02 15:04"))
	}
	_ = w.Flush()

	if len(s.Groups) == 0 {
		return
	}

	_, _ = fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "路段\t筆數\t門牌範圍\t平均總價(萬)\t平均單價(萬/坪)")
	_, _ = fmt.Fprintln(w, "----\t----\t--------\t------------\t---------------")
	for _, g := range s.Groups {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%.1f\t%.2f\n",
			g.RoadName,
			g.Count,
			g.AddressRange,
			g.AvgPrice,
			g.AvgUnitPrice,
		)
	}
	_ = w.Flush()
}
