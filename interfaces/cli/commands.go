package cli

import (
	"context"
	"fmt"

	"lineage/application/queries"
	querybus "lineage/application/queries/bus"
	"lineage/domain/core/valueobjects"

	"github.com/spf13/cobra"
)

// Options are the global flags shared by every subcommand
type Options struct {
	ConfigFile     string
	APIBaseURL     string
	StorageBaseURL string
	// MaxDepth overrides the configured rendering ceiling when >= 0
	MaxDepth int
}

// BusFactory builds a query bus for one command run. The returned func releases it.
type BusFactory func(opts Options) (*querybus.QueryBus, func(), error)

// NewRootCommand builds the lineage CLI
func NewRootCommand(factory BusFactory) *cobra.Command {
	opts := Options{MaxDepth: -1}

	root := &cobra.Command{
		Use:           "lineage",
		Short:         "Browse the Awlyaa spiritual lineage chart from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&opts.APIBaseURL, "api", "", "content API base URL (overrides CONTENT_API_BASE_URL)")
	root.PersistentFlags().StringVar(&opts.StorageBaseURL, "storage", "", "media storage base URL (overrides STORAGE_BASE_URL)")

	root.AddCommand(
		newTreeCommand(factory, &opts),
		newInspectCommand(factory, &opts),
		newRootsCommand(factory, &opts),
	)
	return root
}

func newTreeCommand(factory BusFactory, opts *Options) *cobra.Command {
	var page int
	var all bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print a page of master teachers with their students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := ask(cmd.Context(), factory, *opts, queries.GetChartQuery{Page: page, ShowAll: all})
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), RenderChart(result.(*queries.GetChartResult)))
			return err
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page of master teachers to show")
	cmd.Flags().BoolVar(&all, "all", false, "show every master teacher")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", -1, "deepest generation to render (default from configuration)")
	return cmd
}

func newInspectCommand(factory BusFactory, opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ID",
		Short: "Show the teachers and students of one person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := valueobjects.NewNodeIDFromString(args[0])
			if err != nil {
				return err
			}
			result, err := ask(cmd.Context(), factory, *opts, queries.GetNodeDetailQuery{NodeID: id})
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), RenderDetail(result.(*queries.GetNodeDetailResult)))
			return err
		},
	}
}

func newRootsCommand(factory BusFactory, opts *Options) *cobra.Command {
	var page int
	var all bool

	cmd := &cobra.Command{
		Use:   "roots",
		Short: "List master teachers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := ask(cmd.Context(), factory, *opts, queries.ListRootsQuery{Page: page, ShowAll: all})
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), RenderRoots(result.(*queries.ListRootsResult)))
			return err
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page of master teachers to show")
	cmd.Flags().BoolVar(&all, "all", false, "show every master teacher")
	return cmd
}

func ask(ctx context.Context, factory BusFactory, opts Options, query querybus.Query) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	queryBus, release, err := factory(opts)
	if err != nil {
		return nil, err
	}
	defer release()
	return queryBus.Ask(ctx, query)
}
