package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	listLimit  int
	listFilter string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List prompts, newest first",
	Long: `List walks the gallery page by page and prints every prompt.

Example:
  gallery list
  gallery list --limit 20 --filter sunset`,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "page size used while fetching")
	listCmd.Flags().StringVar(&listFilter, "filter", "", "case-insensitive substring filter on title or description")
}

func runList(cmd *cobra.Command, args []string) error {
	pager := api.NewPager(listLimit)
	for pager.HasMore() {
		if err := pager.LoadMore(cmd.Context()); err != nil {
			return fmt.Errorf("fetching prompts: %w", err)
		}
	}

	prompts := pager.Filter(listFilter)
	if len(prompts) == 0 {
		fmt.Println("No prompts found")
		return nil
	}
	for _, p := range prompts {
		fmt.Printf("%s  %s\n", p.ID, p.Title)
	}
	return nil
}
