package cmd

import (
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

type coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type pathView struct {
	ID          uint         `json:"id"`
	Description string       `json:"description"`
	Color       string       `json:"color"`
	StartPoint  coordinate   `json:"start_point"`
	EndPoint    coordinate   `json:"end_point"`
	Points      []coordinate `json:"points"`
}

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Manage paths",
}

var pathGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a path with its points",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p pathView
		if err := newClient().Do(cmd.Context(), http.MethodGet, "/paths/"+args[0], nil, &p); err != nil {
			return err
		}
		return printPath(cmd.OutOrStdout(), p)
	},
}

var pathCreateCmd = &cobra.Command{
	Use:   "create [file.json]",
	Short: "Create a path (start_point, end_point, points) from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readJSONArg(cmd, args[0])
		if err != nil {
			return err
		}
		var p pathView
		if err := newClient().Do(cmd.Context(), http.MethodPost, "/paths", body, &p); err != nil {
			return err
		}
		return printPath(cmd.OutOrStdout(), p)
	},
}

func printPath(w io.Writer, p pathView) error {
	if output != "table" {
		return writeJSON(w, p)
	}
	fmt.Fprintf(w, "path %d %q (%s)\n", p.ID, p.Description, p.Color)
	fmt.Fprintf(w, "  start %.6f,%.6f\n", p.StartPoint.Latitude, p.StartPoint.Longitude)
	for i, pt := range p.Points {
		fmt.Fprintf(w, "  %4d  %.6f,%.6f\n", i, pt.Latitude, pt.Longitude)
	}
	fmt.Fprintf(w, "  end   %.6f,%.6f\n", p.EndPoint.Latitude, p.EndPoint.Longitude)
	return nil
}

func init() {
	rootCmd.AddCommand(pathCmd)
	pathCmd.AddCommand(pathGetCmd, pathCreateCmd)
}
