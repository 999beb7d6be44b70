package cmd

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

var (
	dbPath    string
	delimiter string
)

var rootCmd = &cobra.Command{
	Use:   "tagctl",
	Short: "tagctl - parse, index and search tag files",
	Long: `tagctl works with tag files: line-delimited lists of tags organized
into named groups by [bracketed] header lines.

Commands:
  parse    - parse a tag file and print its groups
  index    - index a directory of tag files
  search   - search an indexed library
  version  - show version information`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Index database directory (default: TAGFILE_DB_PATH or ~/.tagfile/indices)")
	rootCmd.PersistentFlags().StringVarP(&delimiter, "delimiter", "d", "\n", "Single character separating entries")
}

// delimiterRune validates the --delimiter flag and returns its rune value.
func delimiterRune() (rune, error) {
	if delimiter == "" {
		return '\n', nil
	}
	if utf8.RuneCountInString(delimiter) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}
	r, _ := utf8.DecodeRuneInString(delimiter)
	return r, nil
}
