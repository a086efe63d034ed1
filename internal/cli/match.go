package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/strata/internal/subscription"
)

// MatchResult holds the match command's JSON payload.
type MatchResult struct {
	Matched []string `json:"matched"`
	Total   int      `json:"total"`
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	var eventPath string
	var subsPath string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match a change event against a subscription list",
		Long: `Run the subscription matcher over fixture input.

Reads one change event and a list of subscriptions (both JSON fixtures) and
prints the ids of the subscriptions that would receive the event, in input
order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(rootOpts, eventPath, subsPath, cmd)
		},
	}

	cmd.Flags().StringVar(&eventPath, "event", "", "path to the change event fixture (JSON)")
	cmd.Flags().StringVar(&subsPath, "subscriptions", "", "path to the subscription list fixture (JSON)")
	_ = cmd.MarkFlagRequired("event")
	_ = cmd.MarkFlagRequired("subscriptions")

	return cmd
}

func runMatch(opts *RootOptions, eventPath, subsPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	event, err := LoadEventFixture(eventPath)
	if err != nil {
		return commandError(formatter, err)
	}
	subs, err := LoadSubscriptionsFixture(subsPath)
	if err != nil {
		return commandError(formatter, err)
	}
	formatter.VerboseLog("Matching %s event against %d subscription(s)", event.EventType, len(subs))

	matched := subscription.FindMatching(event, subs)
	ids := make([]string, len(matched))
	for i, sub := range matched {
		ids[i] = sub.ID()
	}

	if opts.Format == "json" {
		return formatter.Success(MatchResult{Matched: ids, Total: len(subs)})
	}

	if len(ids) == 0 {
		fmt.Fprintln(formatter.Writer, "no matching subscriptions")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(formatter.Writer, id)
	}
	return nil
}
