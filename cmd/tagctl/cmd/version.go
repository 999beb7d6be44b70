package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/MightyChubz/tag-parser/internal/storage"
)

var (
	// Version is set at build time via -ldflags.
	Version   = "dev"
	GitCommit = "development"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tagctl v%s\n", Version)
		fmt.Printf("  Git Commit:    %s\n", GitCommit)
		fmt.Printf("  Build Date:    %s\n", BuildDate)
		fmt.Printf("  Build Mode:    %s\n", storage.BuildMode)
		fmt.Printf("  SQLite Driver: %s\n", storage.DriverName)
		fmt.Printf("  Go Version:    %s\n", runtime.Version())
		fmt.Printf("  OS/Arch:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
