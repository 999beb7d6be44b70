package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MightyChubz/tag-parser/internal/searcher"
)

var (
	searchMode  string
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <directory> <query>",
	Short: "Search an indexed library",
	Long: `Searches a previously indexed library. Tag mode runs a full-text
search over tag lines; group mode looks up groups by exact name.

Examples:
  tagctl search ./media "action adventure"
  tagctl search --mode groups ./media Generic
  tagctl search --limit 25 ./media 102349`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchMode, "mode", "m", "tags", "Search mode: tags or groups")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", searcher.DefaultLimit, "Maximum number of results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	rootPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	query := strings.Join(args[1:], " ")

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	library, err := store.GetLibrary(context.Background(), rootPath)
	if err != nil {
		return fmt.Errorf("library not indexed; run: tagctl index %s", args[0])
	}

	resp, err := searcher.NewSearcher(store).Search(context.Background(), searcher.SearchRequest{
		Query:     query,
		Limit:     searchLimit,
		Mode:      searcher.SearchMode(searchMode),
		LibraryID: library.ID,
	})
	if err != nil {
		return err
	}

	if resp.TotalResults == 0 {
		fmt.Println("No results")
		return nil
	}

	for _, r := range resp.Results {
		if resp.SearchMode == searcher.SearchModeGroups {
			fmt.Printf("%2d. [%s] %s (%d tags)\n", r.Rank, r.GroupName, r.SourcePath, r.TagCount)
			continue
		}
		fmt.Printf("%2d. %s\n    group: [%s]  source: %s\n", r.Rank, r.Line, r.GroupName, r.SourcePath)
	}

	fmt.Printf("\n%d results in %s\n", resp.TotalResults, resp.Duration)
	return nil
}
