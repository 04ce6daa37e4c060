package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/GriffinCanCode/AppShelf/pkg/client"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var q client.Query

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List installed applications",
		Aliases: []string{"ls"},
		Long: `List installed applications with their category and launch count.

Examples:
  shelfctl list                      # Cached catalog, by name
  shelfctl list --refresh            # Re-run discovery first
  shelfctl list --category Design    # One category
  shelfctl list --sort usage         # Most launched first`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.client.Catalog(cmd.Context(), q)
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(a.out, "No applications found")
				return nil
			}

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCATEGORY\tLAUNCHES\tSYSTEM\tPATH")
			for _, e := range entries {
				category := e.Category
				if category == "" {
					category = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", e.Name, category, e.UsageCount, yesNo(e.IsSystem), e.Path)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&q.Refresh, "refresh", false, "run discovery before listing")
	cmd.Flags().StringVar(&q.Search, "search", "", "case-insensitive name filter")
	cmd.Flags().StringVar(&q.Category, "category", "", "only this category (Frequent for most used)")
	cmd.Flags().StringVar(&q.Sort, "sort", "", "order: name, usage or date")
	return cmd
}

func newUsageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "usage <path>",
		Short: "Record a launch of an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.client.RecordUsage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(map[string]any{"path": args[0], "count": n})
			}
			fmt.Fprintf(a.out, "%s launched %d times\n", args[0], n)
			return nil
		},
	}
}

func newCategorizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categorize <path> [category]",
		Short: "Assign a category to an application, or clear it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := ""
			if len(args) == 2 {
				category = args[1]
			}
			if err := a.client.SetCategory(cmd.Context(), args[0], category); err != nil {
				return err
			}
			if category == "" {
				fmt.Fprintf(a.out, "Cleared category of %s\n", args[0])
			} else {
				fmt.Fprintf(a.out, "%s -> %s\n", args[0], category)
			}
			return nil
		},
	}
}

func newCategoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage user categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := a.client.Categories(cmd.Context())
			if err != nil {
				return err
			}
			return a.printCategories(cats)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Register a user category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cats, err := a.client.AddCategory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.printCategories(cats)
			},
		},
		&cobra.Command{
			Use:     "remove <name>",
			Aliases: []string{"rm"},
			Short:   "Delete a user category and its assignments",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cats, err := a.client.RemoveCategory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.printCategories(cats)
			},
		},
	)
	return cmd
}

func (a *app) printCategories(cats client.Categories) error {
	if a.asJSON {
		return a.printJSON(cats)
	}
	for _, name := range cats.CategoryOrder {
		marker := " "
		if slices.Contains(cats.UserCategories, name) {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %s\n", marker, name)
	}
	return nil
}

func newAutoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "auto",
		Short: "Categorize uncategorized applications from their bundle metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.client.AutoCategorize(cmd.Context())
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(res)
			}
			fmt.Fprintf(a.out, "Examined %d, assigned %d, unmatched %d, failed %d\n",
				res.Examined, res.Assigned, res.Unmatched, res.Failed)
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize launches and categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.client.Stats(cmd.Context(), top)
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(s)
			}

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Applications\t%d (%d system)\n", s.Apps, s.SystemApps)
			fmt.Fprintf(w, "Categorized\t%d\n", s.Categorized)
			fmt.Fprintf(w, "Launches\t%d (mean %.1f, median %.1f, stddev %.1f)\n",
				s.TotalLaunches, s.MeanUsage, s.MedianUsage, s.StdDevUsage)

			names := make([]string, 0, len(s.ByCategory))
			for name := range s.ByCategory {
				names = append(names, name)
			}
			slices.Sort(names)
			for _, name := range names {
				fmt.Fprintf(w, "  %s\t%d\n", name, s.ByCategory[name])
			}
			if len(s.TopUsed) > 0 {
				fmt.Fprintln(w, "Most used\t")
				for i, u := range s.TopUsed {
					fmt.Fprintf(w, "  %d. %s\t%d\n", i+1, u.Name, u.Count)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "number of most-used applications to show")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the persisted metadata record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := a.client.Config(cmd.Context())
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := json.Indent(&buf, raw, "", "  "); err != nil {
				return fmt.Errorf("format config: %w", err)
			}
			_, err = fmt.Fprintln(a.out, strings.TrimSpace(buf.String()))
			return err
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
