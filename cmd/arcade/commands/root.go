package commands

import (
	"fmt"
	"os"

	"github.com/battlesnakeio/arcade/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "arcade",
	Short:   "arcade plays snake in the terminal or serves it over http",
	Version: version.Version,
	Args:    playCmd.Args,
	Run: func(c *cobra.Command, args []string) {
		playCmd.Run(c, args)
	},
}

var (
	apiAddr      = "http://localhost:3005"
	storeBackend = "file"
	storeArgs    = ""
	gameID       string
)

// Execute runs the root command
func Execute() {
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api-addr", apiAddr, "address of the api server")
	rootCmd.PersistentFlags().StringVarP(&storeBackend, "backend", "b", storeBackend, "high score backend, as one of: [inmem, file, redis, sql]")
	rootCmd.PersistentFlags().StringVarP(&storeArgs, "backend-args", "a", storeArgs, "options to pass to the backend being used")
	rootCmd.Flags().AddFlagSet(playCmd.Flags())

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(scoresCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
