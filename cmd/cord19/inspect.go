package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/cognicore/cord19/pkg/cord19/store/sqlite"
)

func newInspectCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "inspect <db-path>",
		Short: "Print row counts of an articles database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := sqlite.Open(ctx, args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			stats, err := r.Stats(ctx)
			if err != nil {
				return fmt.Errorf("read stats: %w", err)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Table", "Rows", "Tagged"})
			t.AppendRow(table.Row{"articles", stats.Articles, stats.TaggedArticles})
			t.AppendRow(table.Row{"sections", stats.Sections, stats.TaggedSections})
			t.Render()

			if limit <= 0 {
				return nil
			}

			articles, err := r.Articles(ctx)
			if err != nil {
				return fmt.Errorf("read articles: %w", err)
			}
			if len(articles) > limit {
				articles = articles[:limit]
			}

			at := table.NewWriter()
			at.SetOutputMirror(cmd.OutOrStdout())
			at.SetStyle(table.StyleLight)
			at.AppendHeader(table.Row{"Id", "Published", "Tags", "Title"})
			for _, a := range articles {
				published := ""
				if a.Published.Valid {
					published = a.Published.Time.Format("2006-01-02")
				}
				at.AppendRow(table.Row{a.ID, published, a.Tags.String, a.Title})
			}
			at.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "articles", 0, "also list the first N articles")
	return cmd
}
