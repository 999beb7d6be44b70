package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MightyChubz/tag-parser/internal/parser"
	"github.com/MightyChubz/tag-parser/internal/tagset"
)

var parseSplit bool

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a tag file and print its groups",
	Long: `Parses a tag file and prints each group with its tags.

Use "-" to read from standard input.

Examples:
  tagctl parse media.tags
  tagctl parse --delimiter ';' inline.tags
  tagctl parse --split media.tags`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseSplit, "split", false, "Decompose tag lines into individual tags with negation markers")
}

func runParse(cmd *cobra.Command, args []string) error {
	var input []byte
	var err error

	if args[0] == "-" {
		input, err = io.ReadAll(os.Stdin)
	} else {
		input, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	delim, err := delimiterRune()
	if err != nil {
		return err
	}

	result, err := parser.New(parser.WithDelimiter(delim)).Parse(string(input))
	if err != nil {
		return err
	}

	for i, group := range result.Groups {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s (%d tags)\n", group.Header(), len(group.Tags))

		if parseSplit {
			for _, tag := range tagset.Expand(group) {
				if tag.Negated {
					fmt.Printf("  %s (negated)\n", tag.Name)
				} else {
					fmt.Printf("  %s\n", tag.Name)
				}
			}
			continue
		}

		for _, line := range group.Tags {
			fmt.Printf("  %s\n", line)
		}
	}

	fmt.Printf("\n%d groups, %d tag lines\n", result.GroupCount(), result.TagCount())
	return nil
}
