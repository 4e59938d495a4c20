package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skydev929/us-resume-v2/internal/db"
	"github.com/skydev929/us-resume-v2/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage stored candidate profiles",
}

var (
	profileLoadFile string
	profileLoadKey  string
)

var profileLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a profile JSON file into the database",
	RunE:  runProfileLoad,
}

func init() {
	profileLoadCmd.Flags().StringVarP(&profileLoadFile, "file", "f", "", "Path to profile JSON file (required)")
	profileLoadCmd.Flags().StringVarP(&profileLoadKey, "key", "k", "", "Profile key to store under (defaults to the file's key field)")
	_ = profileLoadCmd.MarkFlagRequired("file")

	profileCmd.AddCommand(profileLoadCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileLoad(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	record, err := profile.LoadFile(profileLoadFile)
	if err != nil {
		return err
	}
	if profileLoadKey != "" {
		record.Key = profileLoadKey
	}
	if record.Key == "" {
		return fmt.Errorf("profile key is required: set --key or a key field in the file")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := database.UpsertProfile(ctx, record); err != nil {
		return err
	}

	fmt.Printf("Stored profile %q (%d experience, %d education entries)\n",
		record.Key, len(record.Experience), len(record.Education))
	return nil
}
