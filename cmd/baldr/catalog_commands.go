package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"baldr/internal/catalog"
	"baldr/internal/config"
	"baldr/internal/logging"
	"baldr/internal/mediauri"
	"baldr/internal/schedule"
)

type exportSummary struct {
	Catalog  string `json:"catalog"`
	Snapshot string `json:"snapshot,omitempty"`
	Assets   int    `json:"assets"`
	Samples  int    `json:"samples"`
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var snapshotPath string

	cmd := &cobra.Command{
		Use:   "export [uri...]",
		Short: "Write resolved assets and samples to the catalog",
		Long: "Export resolves the given addresses, or every declaration below the\n" +
			"media directory when none are given, and replaces the catalog contents.",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx := invocationContext(cmd)
			sess, err := ctx.openSession(runCtx, cmd, schedule.NewLoop())
			if err != nil {
				return err
			}
			logger := logging.WithContext(runCtx, logging.NewComponentLogger(sess.logger, "export"))

			uris := args
			if len(uris) == 0 {
				for _, ref := range sess.index.Refs() {
					uris = append(uris, mediauri.Compose(mediauri.SchemeRef, ref, ""))
				}
			}
			if len(uris) > 0 {
				if _, err := sess.resolver.Resolve(runCtx, uris...); err != nil {
					return err
				}
			}
			snapshot := catalog.FromRegistry(sess.resolver.Registry(), time.Now())

			store, err := catalog.Open(sess.cfg)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()
			if err := store.Replace(runCtx, snapshot); err != nil {
				logging.ErrorWithContext(logger, "catalog export failed", "catalog_export_failed",
					logging.String("catalog", store.Path()),
					logging.Int("assets", len(snapshot.Assets)),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check that the catalog directory is writable"),
				)
				return fmt.Errorf("export catalog: %w", err)
			}

			summary := exportSummary{
				Catalog: store.Path(),
				Assets:  len(snapshot.Assets),
				Samples: snapshot.SampleCount(),
			}
			if snapshotPath != "" {
				target, err := config.ExpandPath(snapshotPath)
				if err != nil {
					return fmt.Errorf("resolve snapshot path: %w", err)
				}
				if err := catalog.WriteSnapshot(target, snapshot); err != nil {
					logging.ErrorWithContext(logger, "snapshot write failed", "snapshot_write_failed",
						logging.String("path", target),
						logging.Error(err),
						logging.Alert("catalog_without_snapshot"),
					)
					return err
				}
				summary.Snapshot = target
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, summary)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Exported %d assets (%d samples) to %s\n", summary.Assets, summary.Samples, summary.Catalog)
			if summary.Snapshot != "" {
				fmt.Fprintf(out, "Wrote snapshot to %s\n", summary.Snapshot)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Also write a JSON snapshot; a .gz suffix compresses it")
	return cmd
}

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the exported catalog",
	}
	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	return catalogCmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List exported assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := catalog.Open(cfg)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			records, err := store.List(invocationContext(cmd))
			if err != nil {
				return fmt.Errorf("list catalog: %w", err)
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, records)
			}
			writeAssetTable(cmd.OutOrStdout(), records)
			return nil
		},
	}
}
