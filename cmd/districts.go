package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var districtsCmd = &cobra.Command{
	Use:   "districts",
	Short: "List the districts present in the dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		eng := newEngine()

		districts, stale, err := eng.Districts(cmd.Context())
		if err != nil {
			return err
		}

		for _, d := range districts {
			fmt.Println(d)
		}
		if stale {
			fmt.Fprintln(os.Stderr, "(資料更新失敗，以上為快取資料)")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(districtsCmd)
}
