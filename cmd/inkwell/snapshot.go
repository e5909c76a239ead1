package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkwellhq/inkwell/internal/config"
	"github.com/inkwellhq/inkwell/internal/snapshot"
	"github.com/inkwellhq/inkwell/internal/store"
)

var snapshotUpload bool

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Generate a database snapshot",
	Long:  "Generate a consistent point-in-time snapshot of the database, optionally uploading it to configured S3 storage.",
	RunE:  runSnapshot,
}

func init() {
	snapshotCmd.Flags().BoolVar(&snapshotUpload, "upload", false, "upload snapshot to configured S3 storage")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	start := time.Now()
	if err := db.GenerateSnapshot(ctx); err != nil {
		return fmt.Errorf("generate snapshot: %w", err)
	}

	path, err := db.GetSnapshotPath(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Snapshot written to %s (%s)\n", path, time.Since(start).Round(time.Millisecond))

	if !snapshotUpload {
		return nil
	}

	uploader, err := snapshot.NewUploader(cfg.Snapshot)
	if err != nil {
		return err
	}
	if err := uploader.Upload(ctx, path); err != nil {
		return fmt.Errorf("upload snapshot: %w", err)
	}
	fmt.Println("Snapshot uploaded")
	return nil
}
