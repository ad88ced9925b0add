package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modkit-labs/modkit/internal/layout"
)

func init() {
	rootCmd.AddCommand(layoutsCmd)
}

var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "List the available module layouts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, k := range layout.Kinds() {
			line := fmt.Sprintf("%-8s %s", k, k.Describe())
			if k == layout.Default {
				line += MutedStyle.Render(" (default)")
			}
			fmt.Println(line)
		}
		return nil
	},
}
