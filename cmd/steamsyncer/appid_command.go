package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"steamsyncer/internal/appid"
	"steamsyncer/internal/artwork"
	"steamsyncer/internal/games"
)

type appIDOutput struct {
	Name      string            `json:"name"`
	Exe       string            `json:"exe"`
	AppID     uint32            `json:"appid"`
	RunGameID uint64            `json:"rungameid"`
	Key       string            `json:"key"`
	Artwork   map[string]string `json:"artwork"`
}

func newAppIDCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "appid <name> <exe>",
		Short:       "Compute the shortcut identifier Steam assigns to a game",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			name, exe := args[0], args[1]
			id := appid.ForCandidate(name, exe)
			out := appIDOutput{
				Name:      name,
				Exe:       appid.Quote(exe),
				AppID:     id,
				RunGameID: appid.RunGameID(id),
				Key:       games.Key(name, exe),
				Artwork:   make(map[string]string, len(artwork.AllKinds)),
			}
			for _, kind := range artwork.AllKinds {
				out.Artwork[string(kind)] = artwork.FileName(id, kind, ".png")
			}
			if jsonOutput {
				return writeJSON(cmd, out)
			}

			rows := [][]string{
				{"AppID", fmt.Sprintf("%d", out.AppID)},
				{"Launch URL", fmt.Sprintf("steam://rungameid/%d", out.RunGameID)},
				{"Key", out.Key},
			}
			for _, kind := range artwork.AllKinds {
				rows = append(rows, []string{"Artwork " + string(kind), out.Artwork[string(kind)]})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
