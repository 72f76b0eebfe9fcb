package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the chaintrader CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("chaintrader version %s\n", version)
		fmt.Println("A crypto trading strategy backtester and research harness")
		fmt.Println("https://github.com/rustyeddy/chaintrader")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
