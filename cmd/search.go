package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harborlight/ipsearch/internal/records"
)

// newSearchCmd creates the 'search' subcommand: one orchestrated search,
// results printed as JSON on stdout.
func newSearchCmd() *cobra.Command {
	var (
		kind      string
		limit     int
		inventor  string
		applicant string
		owner     string
		state     string
		classCode string
		goods     string
		dateFrom  string
		dateTo    string
	)

	cmd := &cobra.Command{
		Use:   "search [flags] QUERY...",
		Short: "Run one search through the adapter chain and print the results",
		Long: `Runs a single patent or trademark search through the configured adapter
chain and prints the normalized records as JSON. The sourceUsed field names
the adapter that answered, or "fallback" when none could.`,
		Args: cobra.MinimumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			q := records.SearchQuery{
				Text:               strings.Join(args, " "),
				Inventor:           inventor,
				Applicant:          applicant,
				Owner:              owner,
				DateFrom:           dateFrom,
				DateTo:             dateTo,
				Status:             state,
				ClassificationCode: classCode,
				GoodsServices:      goods,
				Limit:              limit,
			}

			switch kind {
			case "patent":
				recs, source := appInstance.Engine().SearchPatents(cmd.Context(), q)
				return printJSON(cmd, searchOutput{
					Kind:       kind,
					Query:      q.Text,
					SourceUsed: source,
					Count:      len(recs),
					Records:    recs,
				})
			case "trademark":
				recs, source := appInstance.Engine().SearchTrademarks(cmd.Context(), q)
				return printJSON(cmd, searchOutput{
					Kind:       kind,
					Query:      q.Text,
					SourceUsed: source,
					Count:      len(recs),
					Records:    recs,
				})
			default:
				return fmt.Errorf("unknown kind %q (want patent or trademark)", kind)
			}
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "patent", "record kind: patent or trademark")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum records to return (1-100, 0 for the default)")
	cmd.Flags().StringVar(&inventor, "inventor", "", "filter patents by inventor name")
	cmd.Flags().StringVar(&applicant, "applicant", "", "filter patents by applicant or assignee")
	cmd.Flags().StringVar(&owner, "owner", "", "filter trademarks by owner name")
	cmd.Flags().StringVar(&state, "status", "", "filter by prosecution status")
	cmd.Flags().StringVar(&classCode, "class", "", "filter patents by classification code")
	cmd.Flags().StringVar(&goods, "goods", "", "filter trademarks by goods and services text")
	cmd.Flags().StringVar(&dateFrom, "date-from", "", "earliest filing date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&dateTo, "date-to", "", "latest filing date (YYYY-MM-DD)")

	return cmd
}

// printJSON writes v to the command's stdout with indentation.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// searchOutput is the one-shot search envelope, mirroring the HTTP API.
type searchOutput struct {
	Kind       string `json:"kind"`
	Query      string `json:"query"`
	SourceUsed string `json:"sourceUsed"`
	Count      int    `json:"count"`
	Records    any    `json:"records"`
}
