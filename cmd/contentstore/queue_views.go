package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"contentstore/internal/queue"
)

// itemView is the JSON shape printed by `queue show --json`.
type itemView struct {
	ID              int64      `json:"id"`
	ContentID       string     `json:"content_id"`
	Version         int64      `json:"version"`
	Status          string     `json:"status"`
	SourcePath      string     `json:"source_path,omitempty"`
	AssetCount      int        `json:"asset_count"`
	ProgressMessage string     `json:"progress_message,omitempty"`
	ErrorKind       string     `json:"error_kind,omitempty"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	ErrorDetail     string     `json:"error_detail,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastHeartbeat   *time.Time `json:"last_heartbeat,omitempty"`
	Document        string     `json:"document,omitempty"`
}

func writeItemJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func toItemView(item *queue.Item) itemView {
	return itemView{
		ID:              item.ID,
		ContentID:       item.ContentID,
		Version:         item.Version,
		Status:          string(item.Status),
		SourcePath:      item.SourcePath,
		AssetCount:      item.AssetCount,
		ProgressMessage: item.ProgressMessage,
		ErrorKind:       item.ErrorKind,
		ErrorMessage:    item.ErrorMessage,
		ErrorDetail:     item.ErrorDetail,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
		LastHeartbeat:   item.LastHeartbeat,
		Document:        item.DocumentXML,
	}
}

func buildQueueStatusRows(stats map[queue.Status]int) [][]string {
	rows := make([][]string, 0, len(stats))
	for _, status := range queue.AllStatuses() {
		count, ok := stats[status]
		if !ok || count == 0 {
			continue
		}
		rows = append(rows, []string{queueStatusLabel(status), strconv.Itoa(count)})
	}
	return rows
}

func buildQueueListRows(items []*queue.Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatInt(item.ID, 10),
			item.ContentID,
			strconv.FormatInt(item.Version, 10),
			queueStatusLabel(item.Status),
			strconv.Itoa(item.AssetCount),
			formatTimestamp(item.UpdatedAt),
		})
	}
	return rows
}

func renderItemDetail(out io.Writer, item *queue.Item, colorize bool) {
	fmt.Fprintf(out, "Item #%d: %s\n", item.ID, item.Label())
	fmt.Fprintln(out, renderStatusLine("Status", queueStatusKind(item.Status), queueStatusLabel(item.Status), colorize))
	fmt.Fprintln(out, renderStatusLine("Source", statusInfo, sourceLabel(item.SourcePath), colorize))
	fmt.Fprintln(out, renderStatusLine("Assets", statusInfo, strconv.Itoa(item.AssetCount), colorize))
	if msg := strings.TrimSpace(item.ProgressMessage); msg != "" {
		fmt.Fprintln(out, renderStatusLine("Progress", statusInfo, msg, colorize))
	}
	if item.ErrorMessage != "" {
		fmt.Fprintln(out, renderStatusLine("Error", statusError, item.ErrorMessage, colorize))
		if item.ErrorKind != "" {
			fmt.Fprintln(out, renderStatusLine("Error kind", statusInfo, item.ErrorKind, colorize))
		}
		if item.ErrorDetail != "" {
			fmt.Fprintln(out, renderStatusLine("Detail", statusInfo, item.ErrorDetail, colorize))
		}
	}
	fmt.Fprintln(out, renderStatusLine("Heartbeat", statusInfo, yesNo(item.LastHeartbeat != nil), colorize))
	fmt.Fprintln(out, renderStatusLine("Created", statusInfo, formatTimestamp(item.CreatedAt), colorize))
	fmt.Fprintln(out, renderStatusLine("Updated", statusInfo, formatTimestamp(item.UpdatedAt), colorize))
	if item.DocumentXML != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, item.DocumentXML)
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
