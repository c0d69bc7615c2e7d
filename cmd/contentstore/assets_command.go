package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"contentstore/internal/blobstore"
)

func newAssetsCommand(ctx *commandContext) *cobra.Command {
	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "Inspect stored assets",
	}
	assetsCmd.AddCommand(newAssetsListCommand(ctx))
	return assetsCmd
}

func newAssetsListCommand(ctx *commandContext) *cobra.Command {
	var prefix string
	var showURL bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBlobStore(func(store *blobstore.Store) error {
				objects, err := store.List(cmd.Context(), prefix)
				if err != nil {
					return err
				}
				if len(objects) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No assets stored")
					return nil
				}
				headers := []string{"Path", "Type", "Size", "Updated"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}
				if showURL {
					headers = append(headers, "Public URL")
					aligns = append(aligns, alignLeft)
				}
				rows := make([][]string, 0, len(objects))
				var total int64
				for _, obj := range objects {
					total += obj.Size
					row := []string{obj.Path, obj.MimeType, humanSize(obj.Size), formatTimestamp(obj.UpdatedAt)}
					if showURL {
						row = append(row, store.PublicURL(obj.Path))
					}
					rows = append(rows, row)
				}
				footer := []string{fmt.Sprintf("Total (%d)", len(objects)), "", humanSize(total)}
				fmt.Fprint(cmd.OutOrStdout(), renderTableWithFooter(headers, rows, aligns, footer))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Only list paths starting with this prefix, e.g. item/v1/")
	cmd.Flags().BoolVar(&showURL, "url", false, "Include the public URL of each asset")
	return cmd
}

func humanSize(size int64) string {
	const unit = 1024
	if size < unit {
		return strconv.FormatInt(size, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
