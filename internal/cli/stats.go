package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Player stats commands",
	}

	cmd.AddCommand(newStatsGetCmd())
	cmd.AddCommand(newStatsSetCmd())

	return cmd
}

func newStatsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the current player's stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result StatsResult
			if err := client.Get("/api/stats", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

// statFlags are the updatable counters, in the order they are shown
var statFlags = []string{
	"kills",
	"deaths",
	"assists",
	"headshots",
	"matches-played",
	"matches-won",
	"playtime-hours",
	"level",
	"experience",
}

// flagToField maps a CLI flag name to the API field name
func flagToField(flag string) string {
	switch flag {
	case "matches-played":
		return "matches_played"
	case "matches-won":
		return "matches_won"
	case "playtime-hours":
		return "playtime_hours"
	default:
		return flag
	}
}

func newStatsSetCmd() *cobra.Command {
	values := make(map[string]*int64, len(statFlags))

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Overwrite stat counters for the current player",
		Long: `Overwrite one or more stat counters for the current player.

Only the flags you pass are written; each is an absolute value, not an
increment. The response shows the freshly recomputed ratios and rank.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := make(map[string]int64)
			for _, flag := range statFlags {
				if cmd.Flags().Changed(flag) {
					patch[flagToField(flag)] = *values[flag]
				}
			}

			if len(patch) == 0 {
				return fmt.Errorf("pass at least one stat flag (e.g. --kills)")
			}

			var result StatsResult
			if err := client.Post("/api/stats", patch, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	for _, flag := range statFlags {
		var v int64
		values[flag] = &v
		cmd.Flags().Int64Var(&v, flag, 0, fmt.Sprintf("Set %s", flagToField(flag)))
	}

	return cmd
}
