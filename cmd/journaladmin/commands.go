package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	userFlag string
	daysFlag int
	skipFlag int
	limFlag  int
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables and indexes",
	Long:  `Connects to the configured store and ensures the users, journal_entries and articles tables exist.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Tables are ensured while connecting.
		state.log.Info().Str("driver", state.cfg.DatabaseDriver).Msg("schema is up to date")
		return nil
	},
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "Show a user's most frequent themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUser()
		if err != nil {
			return err
		}
		items, err := state.insights.ThemeFrequency(cmd.Context(), userID, daysFlag)
		if err != nil {
			return fmt.Errorf("failed to load themes: %w", err)
		}
		return printJSON(cmd, items)
	},
}

var moodsCmd = &cobra.Command{
	Use:   "moods",
	Short: "Show a user's mood history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUser()
		if err != nil {
			return err
		}
		points, err := state.insights.MoodHistory(cmd.Context(), userID, daysFlag)
		if err != nil {
			return fmt.Errorf("failed to load mood history: %w", err)
		}
		return printJSON(cmd, points)
	},
}

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "List a user's journal entries, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUser()
		if err != nil {
			return err
		}
		entries, err := state.journal.ListEntries(cmd.Context(), userID, skipFlag, limFlag)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		return printJSON(cmd, entries)
	},
}

var deleteUserCmd = &cobra.Command{
	Use:   "delete-user",
	Short: "Delete a user with all their entries and articles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUser()
		if err != nil {
			return err
		}
		user, err := state.journal.DeleteUser(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		if user == nil {
			return fmt.Errorf("user not found: %s", userID)
		}
		return printJSON(cmd, user)
	},
}

func parseUser() (uuid.UUID, error) {
	if userFlag == "" {
		return uuid.Nil, errors.New("--user is required")
	}
	id, err := uuid.Parse(userFlag)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user ID: %w", err)
	}
	return id, nil
}

func init() {
	for _, cmd := range []*cobra.Command{themesCmd, moodsCmd, entriesCmd, deleteUserCmd} {
		cmd.Flags().StringVar(&userFlag, "user", "", "user ID")
	}
	for _, cmd := range []*cobra.Command{themesCmd, moodsCmd} {
		cmd.Flags().IntVar(&daysFlag, "days", 30, "size of the window in days")
	}
	entriesCmd.Flags().IntVar(&skipFlag, "skip", 0, "entries to skip")
	entriesCmd.Flags().IntVar(&limFlag, "limit", 20, "maximum entries to return")

	rootCmd.AddCommand(migrateCmd, themesCmd, moodsCmd, entriesCmd, deleteUserCmd)
}
