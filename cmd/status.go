package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harborlight/ipsearch/internal/records"
)

// newStatusCmd creates the 'status' subcommand, a single status lookup.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status KIND ID",
		Short: "Look up the prosecution status of one patent or trademark",
		Long: `Fetches the current prosecution status of a patent number or trademark
serial number and prints it as JSON. Lookups degrade rather than fail: when
the record page is unreachable the result is a synthetic status pointing at
the official lookup URL, tagged sourceUsed "fallback".`,
		Args: cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			kind, err := records.ParseKind(args[0])
			if err != nil {
				return fmt.Errorf("invalid kind %q (want patent or trademark)", args[0])
			}

			rec := appInstance.Checker().Check(cmd.Context(), kind, args[1])
			return printJSON(cmd, statusOutput{SourceUsed: rec.Source, Record: rec})
		},
	}
}

// statusOutput is the status envelope, mirroring the HTTP API.
type statusOutput struct {
	SourceUsed string               `json:"sourceUsed"`
	Record     records.StatusRecord `json:"record"`
}
