package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MightyChubz/tag-parser/internal/indexer"
)

var (
	indexForce      bool
	indexWorkers    int
	indexExtensions []string
)

var indexCmd = &cobra.Command{
	Use:   "index <directory>",
	Short: "Index a directory of tag files",
	Long: `Indexes every tag file under the given directory so its groups and
tags become searchable. Unchanged files are skipped on re-index.

Examples:
  tagctl index ./media
  tagctl index --force ./media
  tagctl index --ext .tags --ext .taglist ./media`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().BoolVarP(&indexForce, "force", "f", false, "Re-index all files ignoring content hashes")
	indexCmd.Flags().IntVarP(&indexWorkers, "workers", "w", 0, "Concurrent workers (0 = number of CPUs)")
	indexCmd.Flags().StringArrayVar(&indexExtensions, "ext", nil, "File extensions to index (default .tags)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	rootPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	delim, err := delimiterRune()
	if err != nil {
		return err
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	config := &indexer.Config{
		Workers:      indexWorkers,
		Delimiter:    delim,
		Extensions:   indexExtensions,
		ForceReindex: indexForce,
	}

	stats, err := indexer.New(store).IndexLibrary(context.Background(), rootPath, config)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("Indexed %s in %s\n", rootPath, stats.Duration.Round(time.Millisecond))
	fmt.Printf("  Sources indexed: %d\n", stats.SourcesIndexed)
	fmt.Printf("  Sources skipped: %d\n", stats.SourcesSkipped)
	fmt.Printf("  Sources failed:  %d\n", stats.SourcesFailed)
	fmt.Printf("  Groups stored:   %d\n", stats.GroupsStored)
	fmt.Printf("  Tags stored:     %d\n", stats.TagsStored)

	if len(stats.ErrorMessages) > 0 {
		fmt.Printf("Errors:\n  %s\n", strings.Join(stats.ErrorMessages, "\n  "))
	}
	return nil
}
