package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// ue mirrors the fields of the service's UE record that the CLI prints.
type ue struct {
	SUPI      string  `json:"supi"`
	Name      string  `json:"name"`
	GNBID     uint    `json:"gNB_id"`
	CellID    uint    `json:"Cell_id"`
	PathID    uint    `json:"path_id"`
	Speed     string  `json:"speed"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	OwnerID   uint    `json:"owner_id"`
}

var (
	listSkip  int
	listLimit int
)

var ueCmd = &cobra.Command{
	Use:   "ue",
	Short: "Manage UEs",
}

var ueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the UEs visible to you",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		q.Set("skip", strconv.Itoa(listSkip))
		q.Set("limit", strconv.Itoa(listLimit))
		var ues []ue
		if err := newClient().Do(cmd.Context(), http.MethodGet, "/ue?"+q.Encode(), nil, &ues); err != nil {
			return err
		}
		return printUEs(cmd.OutOrStdout(), ues)
	},
}

var ueGetCmd = &cobra.Command{
	Use:   "get [supi]",
	Short: "Show a UE",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var u ue
		if err := newClient().Do(cmd.Context(), http.MethodGet, "/ue/"+url.PathEscape(args[0]), nil, &u); err != nil {
			return err
		}
		return printUEs(cmd.OutOrStdout(), []ue{u})
	},
}

var ueCreateCmd = &cobra.Command{
	Use:   "create [file.json]",
	Short: "Create a UE from a JSON file (use - for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readJSONArg(cmd, args[0])
		if err != nil {
			return err
		}
		var u ue
		if err := newClient().Do(cmd.Context(), http.MethodPost, "/ue", body, &u); err != nil {
			return err
		}
		return printUEs(cmd.OutOrStdout(), []ue{u})
	},
}

var ueDeleteCmd = &cobra.Command{
	Use:   "delete [supi]",
	Short: "Delete a UE",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var u ue
		if err := newClient().Do(cmd.Context(), http.MethodDelete, "/ue/"+url.PathEscape(args[0]), nil, &u); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted UE %s\n", u.SUPI)
		return nil
	},
}

var ueExportCmd = &cobra.Command{
	Use:   "export [file.xlsx]",
	Short: "Download your UEs as an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return newClient().Download(cmd.Context(), "/ue/export", f)
	},
}

func printUEs(w io.Writer, ues []ue) error {
	if output != "table" {
		return writeJSON(w, ues)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SUPI\tNAME\tGNB\tCELL\tPATH\tSPEED\tLAT\tLON")
	for _, u := range ues {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%.6f\t%.6f\n",
			u.SUPI, u.Name, u.GNBID, u.CellID, u.PathID, u.Speed, u.Latitude, u.Longitude)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readJSONArg reads a JSON document from a file path or stdin ("-").
func readJSONArg(cmd *cobra.Command, path string) (json.RawMessage, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%s is not valid JSON", path)
	}
	return raw, nil
}

func init() {
	rootCmd.AddCommand(ueCmd)
	ueListCmd.Flags().IntVar(&listSkip, "skip", 0, "number of records to skip")
	ueListCmd.Flags().IntVar(&listLimit, "limit", 100, "maximum number of records")
	ueCmd.AddCommand(ueListCmd, ueGetCmd, ueCreateCmd, ueDeleteCmd, ueExportCmd)
}
