package commands

import (
	"fmt"
	"net/http"

	"github.com/battlesnakeio/arcade/api"
	"github.com/battlesnakeio/arcade/rules"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cr = &api.CreateRequest{}

func init() {
	createCmd.Flags().StringVarP(&cr.Mode, "mode", "m", string(rules.ModeKeypad), "movement model, as one of: [keypad, gesture]")
	createCmd.Flags().IntVar(&cr.GridWidth, "width", 0, "board width in cells")
	createCmd.Flags().IntVar(&cr.GridHeight, "height", 0, "board height in cells")
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "creates a new game on the arcade server",
	Args: func(c *cobra.Command, args []string) error {
		if _, ok := rules.ParseMode(cr.Mode); !ok {
			return errors.Errorf("invalid mode %q", cr.Mode)
		}
		return nil
	},
	RunE: func(*cobra.Command, []string) error {
		resp, err := createGame(cr)
		if err != nil {
			return err
		}
		fmt.Printf(`{"ID": "%s"}`+"\n", resp.ID)
		return nil
	},
}

func createGame(req *api.CreateRequest) (*api.CreateResponse, error) {
	resp := &api.CreateResponse{}
	if err := callAPI(http.MethodPost, "/games", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
