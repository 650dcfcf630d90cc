package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/harborlight/ipsearch/internal/records"
)

// newCrawlCmd creates the 'crawl' subcommand, which extracts structured
// content from a list of URLs through the delegated extraction process.
func newCrawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl URL...",
		Short: "Extract structured content from the given URLs",
		Long: `Hands each URL to the delegated extraction process in paced batches and
prints the per-URL outcomes as JSON. Pages are classified first so the
extractor can choose between selector-based and instructed extraction.`,
		Args: cobra.MinimumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			crawler := appInstance.Crawler()
			if crawler == nil {
				return errors.New("delegate adapter unavailable; check the extraction interpreter configuration")
			}

			results := crawler.CrawlMultiple(cmd.Context(), args)
			succeeded := 0
			for _, res := range results {
				if res.Success {
					succeeded++
				}
			}

			return printJSON(cmd, crawlOutput{
				SourceUsed: records.SourceDelegate,
				Count:      len(results),
				Succeeded:  succeeded,
				Results:    results,
			})
		},
	}
}

// crawlOutput is the bulk-crawl envelope, mirroring the HTTP API.
type crawlOutput struct {
	SourceUsed string                `json:"sourceUsed"`
	Count      int                   `json:"count"`
	Succeeded  int                   `json:"succeeded"`
	Results    []records.CrawlResult `json:"results"`
}
