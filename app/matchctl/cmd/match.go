package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/bootstrap"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
)

var (
	matchProfileID string
	matchPostingID string
	matchLevel     string
	matchLocations string
	matchDefaults  bool
	matchLimit     int
	matchOffset    int
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Run a ranked match and print the page as JSON",
}

var matchPostingsCmd = &cobra.Command{
	Use:   "postings",
	Short: "Rank published postings for a profile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		filters := models.MatchFilters{
			Locations:          splitList(matchLocations),
			UseProfileDefaults: matchDefaults,
		}
		if matchLevel != "" {
			lvl := matchLevel
			filters.ExperienceLevel = &lvl
		}
		page := models.PageRequest{Limit: matchLimit, Offset: matchOffset}

		return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
			res, err := c.Matching.MatchPostingsForProfile(ctx, matchProfileID, filters, page)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		})
	},
}

var matchProfilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Rank public profiles for a posting",
	RunE: func(cmd *cobra.Command, _ []string) error {
		page := models.PageRequest{Limit: matchLimit, Offset: matchOffset}
		return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
			res, err := c.Matching.MatchProfilesForPosting(ctx, matchPostingID, page)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		})
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.AddCommand(matchPostingsCmd, matchProfilesCmd)

	matchCmd.PersistentFlags().IntVar(&matchLimit, "limit", 20, "page size")
	matchCmd.PersistentFlags().IntVar(&matchOffset, "offset", 0, "page offset")

	matchPostingsCmd.Flags().StringVar(&matchProfileID, "profile", "", "anchor profile id")
	matchPostingsCmd.Flags().StringVar(&matchLevel, "level", "", "experience level filter")
	matchPostingsCmd.Flags().StringVar(&matchLocations, "locations", "", "comma separated location filter")
	matchPostingsCmd.Flags().BoolVar(&matchDefaults, "use-profile-defaults", false, "fill absent filters from the profile")
	_ = matchPostingsCmd.MarkFlagRequired("profile")

	matchProfilesCmd.Flags().StringVar(&matchPostingID, "posting", "", "anchor posting id")
	_ = matchProfilesCmd.MarkFlagRequired("posting")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
