package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"contentstore/internal/assets"
	"contentstore/internal/blobstore"
	"contentstore/internal/config"
	"contentstore/internal/jats"
	"contentstore/internal/migrate"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	var itemID string
	var version int64
	var outPath string
	var baseURI string

	cmd := &cobra.Command{
		Use:   "migrate FILE",
		Short: "Migrate the assets of one JATS document and write the rewritten XML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(itemID) == "" {
				return errors.New("--item is required")
			}
			if version < 1 {
				return errors.New("--version must be at least 1")
			}
			data, err := readDocument(args[0])
			if err != nil {
				return err
			}
			doc, err := jats.Parse(data)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			if base := strings.TrimSpace(baseURI); base != "" {
				doc.SetURL(base)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			return ctx.withBlobStore(func(store *blobstore.Store) error {
				migrator, err := migrate.NewMigrator(cfg, store, logger)
				if err != nil {
					return err
				}
				report, err := migrator.Migrate(cmd.Context(), &assets.Task{ItemID: itemID, Version: version, Document: doc})
				if err != nil {
					return errors.New(assets.Describe(err).String())
				}

				var buf bytes.Buffer
				if _, err := doc.WriteTo(&buf); err != nil {
					return fmt.Errorf("serialize document: %w", err)
				}

				summary := cmd.OutOrStdout()
				if strings.TrimSpace(outPath) == "" {
					if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
						return err
					}
					summary = cmd.ErrOrStderr()
				} else if err := writeDocument(outPath, buf.Bytes()); err != nil {
					return err
				}
				printMigrationSummary(summary, report)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&itemID, "item", "", "Content item id used in storage paths")
	cmd.Flags().Int64Var(&version, "version", 0, "Content item version used in storage paths")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the rewritten document here instead of stdout")
	cmd.Flags().StringVar(&baseURI, "base", "", "URI relative references in the document resolve against")
	return cmd
}

func readDocument(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return data, nil
}

func writeDocument(path string, data []byte) error {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(expanded, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func printMigrationSummary(out io.Writer, report assets.Report) {
	fmt.Fprintf(out, "Migrated %d of %d linked assets (%d eligible) in %s\n",
		report.Migrated(), report.Discovered, report.Eligible, report.Duration.Round(time.Millisecond))
	if len(report.Assets) == 0 {
		return
	}
	rows := make([][]string, 0, len(report.Assets))
	for i, asset := range report.Assets {
		rows = append(rows, []string{strconv.Itoa(i + 1), asset.Element, asset.Origin, asset.MediaType, asset.PublicURL})
	}
	fmt.Fprint(out, renderTable(
		[]string{"#", "Element", "Origin", "Type", "Public URL"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	))
}
