package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vicbot/landprice-cli/internal/opendata"
)

var (
	fetchForce bool
	fetchAll   bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [city...]",
	Short: "Download the latest real-price batch extracts",
	Long: "Downloads the quarterly 實價登錄 batch zip from the MOI open-data portal, " +
		"extracts the city's transaction CSV, and transcodes it to UTF-8. " +
		"Without arguments the configured city is fetched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cities := args
		if fetchAll {
			cities = opendata.Cities()
		} else if len(cities) == 0 {
			cities = []string{cfg.Data.City}
		}

		dl := newDownloader()

		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(3)
		for _, city := range cities {
			g.Go(func() error {
				path, err := dl.Ensure(ctx, city, fetchForce)
				if err != nil {
					return fmt.Errorf("fetch %s: %w", city, err)
				}
				zap.L().Info("extract ready",
					zap.String("city", city),
					zap.String("path", path),
				)
				return nil
			})
		}
		return g.Wait()
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "redownload even if the local copy is fresh")
	fetchCmd.Flags().BoolVar(&fetchAll, "all", false, "fetch every registered city")
	rootCmd.AddCommand(fetchCmd)
}
