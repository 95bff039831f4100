package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sluggable"
	"github.com/dmitrymomot/sluggable/pkg/sanitizer"
)

func (a *app) normalizeCmd() *cobra.Command {
	var stripMarkup bool

	cmd := &cobra.Command{
		Use:   "normalize TEXT...",
		Short: "Print the slug for a piece of text",
		Long: `Print the slug for a piece of text. Arguments are joined with spaces.

Examples:
  slugctl normalize "  Caffè   & Co.!!  "
  slugctl normalize --strip-markup "<b>Hello</b> world"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if stripMarkup {
				text = sanitizer.PlainText(text)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), sluggable.Normalize(text))
			return err
		},
	}

	cmd.Flags().BoolVar(&stripMarkup, "strip-markup", false, "Remove HTML before normalizing")

	return cmd
}
