package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sluggable"
	"github.com/dmitrymomot/sluggable/pkg/logger"
)

func (a *app) lookupCmd() *cobra.Command {
	var cacheOnly bool

	cmd := &cobra.Command{
		Use:   "lookup TYPE KEY",
		Short: "Resolve an id or slug to a record",
		Long: `Resolve KEY to a record of TYPE. KEY may be an id, a slug, or a slug
ending in "-<id>". With --cache-only, resolve KEY against the slug cache
alone and print the record id without reading the record.

Examples:
  slugctl lookup articles 42
  slugctl lookup articles hello-world
  slugctl lookup articles hello-world-42
  slugctl lookup articles hello-world --cache-only`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, key := args[0], args[1]
			ctx := logger.WithRecordType(cmd.Context(), name)

			c, _, err := a.controller(ctx, name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if cacheOnly {
				id, err := c.Lookup(ctx, key)
				if errors.Is(err, sluggable.ErrNotFound) {
					failure(cmd.ErrOrStderr(), "%s: %q is not cached", name, key)
					return err
				}
				if err != nil {
					return err
				}
				field(out, "id", id)
				return nil
			}

			rec, err := c.Find(ctx, key)
			if errors.Is(err, sluggable.ErrNotFound) {
				failure(cmd.ErrOrStderr(), "%s: no record for %q", name, key)
				return err
			}
			if err != nil {
				return err
			}

			field(out, "id", rec.RecordID())
			field(out, "slug", c.Slug(rec))
			field(out, "title", c.Sluggable(rec))
			return nil
		},
	}

	cmd.Flags().BoolVar(&cacheOnly, "cache-only", false, "Resolve through the slug cache only and print the id")

	return cmd
}
