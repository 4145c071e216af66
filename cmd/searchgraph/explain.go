package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"searchgraph/internal/datastore"
	"searchgraph/internal/filter"
	"searchgraph/internal/pagination"
	"searchgraph/internal/planner"

	"github.com/spf13/cobra"
)

// queryFile is the on-disk query description the explain command reads.
type queryFile struct {
	Filters []filter.Filter `json:"filters"`
	Sort    []sortClause    `json:"sort"`

	First  *int   `json:"first"`
	Last   *int   `json:"last"`
	After  string `json:"after"`
	Before string `json:"before"`

	TotalCount bool `json:"total_count"`
}

type sortClause struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

func newExplainCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <query.json>",
		Short: "Plan a query and print the resulting search request",
		Long: "Read a query description (filters, sort, pagination arguments) and print " +
			"the plan: routing values, index expression, and pagination decisions. " +
			"The known sub-index inventory comes from --known-index flags.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogPath, _ := cmd.Flags().GetString("catalog")
			known, _ := cmd.Flags().GetStringSlice("known-index")
			routingPaths, _ := cmd.Flags().GetStringSlice("routing-field")
			defaultSize, _ := cmd.Flags().GetInt("default-page-size")
			maxSize, _ := cmd.Flags().GetInt("max-page-size")
			requireIndices, _ := cmd.Flags().GetBool("require-indices")
			output, _ := cmd.Flags().GetString("output")
			return runExplain(cmd, logger, args[0], explainOptions{
				catalogPath:    catalogPath,
				knownIndices:   known,
				routingPaths:   routingPaths,
				defaultSize:    defaultSize,
				maxSize:        maxSize,
				requireIndices: requireIndices,
				output:         output,
			})
		},
	}

	cmd.Flags().String("catalog", "indices.json", "index catalog file")
	cmd.Flags().StringSlice("known-index", nil, "concrete index known to exist (repeatable)")
	cmd.Flags().StringSlice("routing-field", nil, "document field path used for shard routing (repeatable)")
	cmd.Flags().Int("default-page-size", 50, "page size when neither first nor last is given")
	cmd.Flags().Int("max-page-size", 500, "upper bound on page size")
	cmd.Flags().Bool("require-indices", true, "always name at least one index in the expression")
	cmd.Flags().StringP("output", "o", "plan", "output format: plan, json, or msearch")

	return cmd
}

type explainOptions struct {
	catalogPath    string
	knownIndices   []string
	routingPaths   []string
	defaultSize    int
	maxSize        int
	requireIndices bool
	output         string
}

func runExplain(cmd *cobra.Command, logger *slog.Logger, queryPath string, opts explainOptions) error {
	query, err := readQuery(queryPath)
	if err != nil {
		return err
	}

	catalog, err := datastore.LoadCatalog(opts.catalogPath)
	if err != nil {
		return err
	}

	lister := &datastore.MemoryLister{Indices: opts.knownIndices}
	refresher, err := datastore.NewSnapshotRefresher(cmd.Context(), lister, catalog, time.Hour, logger)
	if err != nil {
		return err
	}
	defer refresher.Stop()

	p := planner.New(catalog, planner.Config{
		RoutingFieldPaths: opts.routingPaths,
		DefaultPageSize:   opts.defaultSize,
		MaxPageSize:       opts.maxSize,
		RequireIndices:    opts.requireIndices,
	}, logger)

	plan, err := p.Plan(query, refresher.Current())
	if err != nil {
		return err
	}

	return writePlan(cmd.OutOrStdout(), plan, opts.output)
}

func readQuery(path string) (planner.Query, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return planner.Query{}, fmt.Errorf("read query file: %w", err)
	}

	var qf queryFile
	if err := json.Unmarshal(data, &qf); err != nil {
		return planner.Query{}, fmt.Errorf("parse query file: %w", err)
	}

	query := planner.Query{
		Filters:          qf.Filters,
		First:            qf.First,
		Last:             qf.Last,
		After:            qf.After,
		Before:           qf.Before,
		DocsNeeded:       true,
		TotalCountNeeded: qf.TotalCount,
	}
	for _, clause := range qf.Sort {
		direction := pagination.Asc
		switch clause.Direction {
		case "", "asc":
		case "desc":
			direction = pagination.Desc
		default:
			return planner.Query{}, fmt.Errorf("unknown sort direction %q for %s", clause.Direction, clause.Field)
		}
		query.Sort = append(query.Sort, pagination.SortClause{Field: clause.Field, Direction: direction})
	}
	return query, nil
}

func writePlan(w io.Writer, plan *planner.Plan, output string) error {
	switch output {
	case "plan":
		_, err := io.WriteString(w, plan.Describe())
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case "msearch":
		return datastore.EncodeMSearch(w, []datastore.SearchRequest{plan.Request})
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
