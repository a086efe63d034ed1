package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/strata/internal/query"
)

// QueryResult holds the query command's JSON payload.
type QueryResult struct {
	Matches bool `json:"matches"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	var itemPath string
	var queryPath string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Evaluate a query against an item",
		Long: `Evaluate one declarative query (JSON fixture, the same nested shape the
parameter codec uses) against one item fixture and report whether it matches.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, itemPath, queryPath, cmd)
		},
	}

	cmd.Flags().StringVar(&itemPath, "item", "", "path to the item fixture (JSON)")
	cmd.Flags().StringVar(&queryPath, "query", "", "path to the query fixture (JSON)")
	_ = cmd.MarkFlagRequired("item")
	_ = cmd.MarkFlagRequired("query")

	return cmd
}

func runQuery(opts *RootOptions, itemPath, queryPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	item, err := LoadItemFixture(itemPath)
	if err != nil {
		return commandError(formatter, err)
	}
	q, err := loadQueryFixture(queryPath)
	if err != nil {
		return commandError(formatter, err)
	}

	match, err := query.Matches(item, q)
	if err != nil {
		_ = formatter.Error(ErrCodeQueryMalformed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "malformed query", err)
	}

	if opts.Format == "json" {
		return formatter.Success(QueryResult{Matches: match})
	}
	if match {
		fmt.Fprintln(formatter.Writer, "✓ item matches")
		return nil
	}
	fmt.Fprintln(formatter.Writer, "✗ item does not match")
	return NewExitError(ExitFailure, "item does not match")
}

// loadQueryFixture reads a query in the nested wire shape. The flat
// parameter-map encoding wraps the same clauses; fixtures use the nested
// form directly.
func loadQueryFixture(path string) (query.ItemQuery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return query.ItemQuery{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("query fixture: %v", err)}
	}
	q, err := query.DecodeWire(json.RawMessage(data))
	if err != nil {
		return query.ItemQuery{}, &LoadError{Code: ErrCodeBadFixture, Message: fmt.Sprintf("query fixture: %v", err)}
	}
	return q, nil
}
