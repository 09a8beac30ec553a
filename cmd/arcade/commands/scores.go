package commands

import (
	"context"
	"fmt"

	"github.com/battlesnakeio/arcade/config"
	"github.com/spf13/cobra"
)

var scoresRemote bool

func init() {
	scoresCmd.Flags().BoolVarP(&scoresRemote, "remote", "r", false, "ask the api server instead of the local backend")
}

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "prints the stored high score",
	RunE: func(*cobra.Command, []string) error {
		score, err := readHighScore()
		if err != nil {
			return err
		}
		fmt.Println(score)
		return nil
	},
}

func readHighScore() (int, error) {
	if scoresRemote {
		return getHighScore()
	}
	store, err := openStore(storeBackend, storeArgs)
	if err != nil {
		return 0, err
	}
	defer closeStore(store)

	ctx, cancel := context.WithTimeout(context.Background(), config.StoreTimeout)
	defer cancel()
	return store.Get(ctx)
}
