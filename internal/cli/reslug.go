package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sluggable"
	"github.com/dmitrymomot/sluggable/pkg/logger"
)

// ErrReslugIncomplete is returned when some records kept their old slug.
var ErrReslugIncomplete = errors.New("cli: some records could not be reslugged")

func (a *app) reslugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reslug TYPE",
		Short: "Recompute the slug of every record",
		Long: `Commit every record of TYPE again so its slug is recomputed from the
sluggable field. Records whose new slug collides with another record are
reported and left unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			ctx := logger.WithRecordType(cmd.Context(), name)

			c, store, err := a.controller(ctx, name)
			if err != nil {
				return err
			}

			recs, err := store.All(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var changed, failed int
			for _, rec := range recs {
				before := c.Slug(rec)

				err := c.Commit(ctx, rec)
				if errors.Is(err, sluggable.ErrValidationFailed) {
					failed++
					warning(out, "%s: %s", rec.RecordID(), err)
					continue
				}
				if err != nil {
					return err
				}

				if after := c.Slug(rec); after != before {
					changed++
					field(out, rec.RecordID(), fmt.Sprintf("%s -> %s", before, after))
				}
			}

			a.log.InfoContext(ctx, "reslug finished",
				slog.Int("records", len(recs)),
				slog.Int("changed", changed),
				slog.Int("failed", failed),
			)

			if failed > 0 {
				failure(cmd.ErrOrStderr(), "%s: %d of %d records failed", name, failed, len(recs))
				return fmt.Errorf("%w: %d of %d", ErrReslugIncomplete, failed, len(recs))
			}

			success(out, "%s: %d records, %d changed", name, len(recs), changed)
			return nil
		},
	}
}
