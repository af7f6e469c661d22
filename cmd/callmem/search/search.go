// Package searchcmder provides the search command, a client of a running
// callmem server's retrieve endpoint.
package searchcmder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	apisearch "github.com/papercomputeco/callmem/api/search"
	"github.com/papercomputeco/callmem/pkg/config"
	"github.com/papercomputeco/callmem/pkg/memory"
	"github.com/papercomputeco/callmem/pkg/utils"
)

var (
	rankStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	kindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	previewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type searchCommander struct {
	query    string
	callerID string
	limit    int
	quiet    bool

	apiTarget string
}

const searchLongDesc string = `Search a caller's memories via a running callmem server.

Sends the query to the server's /retrieve endpoint and prints the ranked
memories. The server address defaults to the configured api.listen address
on localhost.

Use --quiet to print only memory text, one per line.

Example:
  callmem search "delivery address" --caller +16129782029
  callmem search "billing" -c +16129782029 --limit 5 --api-target http://memory.internal:8080`

const searchShortDesc string = "Search a caller's memories"

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("api-target") {
				return nil
			}

			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.apiTarget = TargetFromListen(v.GetString("api.listen"))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]
			return cmder.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&cmder.callerID, "caller", "c", "", "Caller phone number whose memories are searched")
	cmd.Flags().IntVarP(&cmder.limit, "limit", "k", apisearch.DefaultLimit, "Number of memories to return")
	cmd.Flags().BoolVarP(&cmder.quiet, "quiet", "q", false, "Output only memory text, one per line")
	cmd.Flags().StringVar(&cmder.apiTarget, "api-target", "", "callmem server URL")
	_ = cmd.MarkFlagRequired("caller")

	return cmd
}

func (c *searchCommander) run(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	output, err := SearchAPI(ctx, c.apiTarget, apisearch.SearchInput{
		Query:  c.query,
		UserID: c.callerID,
		Limit:  c.limit,
	})
	if err != nil {
		return err
	}

	if len(output.Memories) == 0 {
		if !c.quiet {
			fmt.Fprintln(w, "No memories found.")
		}
		return nil
	}

	if c.quiet {
		for _, m := range output.Memories {
			fmt.Fprintln(w, m.Text)
		}
		return nil
	}

	fmt.Fprintf(w, "\n%s %s\n\n",
		headerStyle.Render("Memories for "+c.callerID+" matching:"),
		kindStyle.Render(fmt.Sprintf("%q", c.query)),
	)
	for i, m := range output.Memories {
		printMemory(w, i+1, m)
	}
	return nil
}

func printMemory(w io.Writer, rank int, m memory.Memory) {
	kind := m.Kind()
	if kind == "" {
		kind = memory.KindFactual
	}

	fmt.Fprintf(w, "  %s  %s  %s\n",
		rankStyle.Render(fmt.Sprintf("#%d", rank)),
		scoreStyle.Render(fmt.Sprintf("score: %.4f", m.Score)),
		kindStyle.Render(string(kind)),
	)
	fmt.Fprintf(w, "  %s\n", previewStyle.Render(strings.ReplaceAll(utils.Truncate(m.Text, 160), "\n", " ")))
	if !m.CreatedAt.IsZero() {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render(m.CreatedAt.Format(time.RFC3339)))
	}
	fmt.Fprintln(w)
}

// TargetFromListen turns a listen address such as ":8080" into a URL on
// localhost.
func TargetFromListen(listen string) string {
	listen = strings.TrimSpace(listen)
	switch {
	case listen == "":
		return "http://localhost:8080"
	case strings.HasPrefix(listen, ":"):
		return "http://localhost" + listen
	case strings.HasPrefix(listen, "0.0.0.0:"):
		return "http://localhost" + strings.TrimPrefix(listen, "0.0.0.0")
	case strings.Contains(listen, "://"):
		return listen
	default:
		return "http://" + listen
	}
}

// SearchAPI posts in to the server's retrieve endpoint and decodes the reply.
func SearchAPI(ctx context.Context, apiTarget string, in apisearch.SearchInput) (*apisearch.SearchOutput, error) {
	retrieveURL, err := url.Parse(apiTarget)
	if err != nil {
		return nil, fmt.Errorf("invalid API target URL: %w", err)
	}
	retrieveURL.Path = "/retrieve"

	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, retrieveURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to callmem at %s: %w", apiTarget, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request failed (HTTP %d): %s", resp.StatusCode, string(respBody))
	}

	var output apisearch.SearchOutput
	if err := json.Unmarshal(respBody, &output); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}
	return &output, nil
}
