package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/bootstrap"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
)

const recomputePageSize = 200

var (
	recomputeKind string
	recomputeID   string
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Bring stored embeddings in line with current content",
	Long: "Recompute the embedding of one entity (--id) or of every public profile / published posting.\n" +
		"Entities whose vector is already fresh are left untouched.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		kind, err := parseKind(recomputeKind)
		if err != nil {
			return err
		}
		return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
			if recomputeID != "" {
				return recomputeOne(ctx, c, kind, recomputeID)
			}
			return recomputeAll(ctx, c, kind)
		})
	},
}

func init() {
	rootCmd.AddCommand(recomputeCmd)
	recomputeCmd.Flags().StringVar(&recomputeKind, "kind", "", "profile or posting")
	recomputeCmd.Flags().StringVar(&recomputeID, "id", "", "single entity id (default: all visible entities)")
	_ = recomputeCmd.MarkFlagRequired("kind")
}

func recomputeOne(ctx context.Context, c *bootstrap.Container, kind models.EntityKind, id string) error {
	res, err := c.Refresh.Refresh(ctx, kind, id)
	if err != nil {
		c.Log.WithError(err).WithFields(fieldsFor(kind, id)).Error("recompute failed")
		return err
	}
	c.Log.WithFields(fieldsFor(kind, id)).
		WithField("computed", res.Computed).
		WithField("stale", res.Stale).
		WithField("model", c.Vectors.Model()).
		Info("recompute finished")
	return nil
}

func recomputeAll(ctx context.Context, c *bootstrap.Container, kind models.EntityKind) error {
	var failed int
	for offset := 0; ; offset += recomputePageSize {
		ids, err := visibleIDs(ctx, c, kind, offset)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := recomputeOne(ctx, c, kind, id); err != nil {
				failed++
			}
		}
		if len(ids) < recomputePageSize {
			break
		}
	}
	if failed > 0 {
		return errors.New("some recomputes failed, see log")
	}
	return nil
}

func visibleIDs(ctx context.Context, c *bootstrap.Container, kind models.EntityKind, offset int) ([]string, error) {
	var ids []string
	switch kind {
	case models.KindProfile:
		rows, err := c.Profiles.ListPublic(ctx, recomputePageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, p := range rows {
			ids = append(ids, p.ID)
		}
	case models.KindPosting:
		rows, err := c.Postings.ListPublished(ctx, recomputePageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, p := range rows {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}
