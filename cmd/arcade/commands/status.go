package commands

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/battlesnakeio/arcade/api"
	"github.com/battlesnakeio/arcade/rules"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "gets the current frame of a game from the arcade server",
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	RunE: func(*cobra.Command, []string) error {
		frame, err := getStatus(gameID)
		if err != nil {
			return err
		}
		spew.Dump(frame)
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVarP(&gameID, "game-id", "g", "", "the game id of the game to get the status of")
}

func getStatus(id string) (*rules.Frame, error) {
	frame := &rules.Frame{}
	if err := callAPI(http.MethodGet, fmt.Sprintf("/games/%s", id), nil, frame); err != nil {
		return nil, err
	}
	return frame, nil
}

func getHighScore() (int, error) {
	resp := &api.HighScoreResponse{}
	if err := callAPI(http.MethodGet, "/highscore", nil, resp); err != nil {
		return 0, err
	}
	return resp.HighScore, nil
}
