package queue

import (
	"database/sql"
	"errors"
	"time"
)

const itemColumns = "id, content_id, version, status, source_path, document_xml, error_message, error_kind, error_detail, progress_message, asset_count, created_at, updated_at, last_heartbeat"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id               int64
		contentID        string
		version          int64
		statusStr        string
		sourcePath       sql.NullString
		document         string
		errorMessage     sql.NullString
		errorKind        sql.NullString
		errorDetail      sql.NullString
		progressMessage  sql.NullString
		assetCount       sql.NullInt64
		createdRaw       sql.NullString
		updatedRaw       sql.NullString
		lastHeartbeatRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&contentID,
		&version,
		&statusStr,
		&sourcePath,
		&document,
		&errorMessage,
		&errorKind,
		&errorDetail,
		&progressMessage,
		&assetCount,
		&createdRaw,
		&updatedRaw,
		&lastHeartbeatRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:              id,
		ContentID:       contentID,
		Version:         version,
		Status:          Status(statusStr),
		SourcePath:      sourcePath.String,
		DocumentXML:     document,
		ErrorMessage:    errorMessage.String,
		ErrorKind:       errorKind.String,
		ErrorDetail:     errorDetail.String,
		ProgressMessage: progressMessage.String,
		AssetCount:      int(assetCount.Int64),
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	if lastHeartbeatRaw.Valid {
		if heartbeat, err := parseTimeString(lastHeartbeatRaw.String); err == nil {
			item.LastHeartbeat = &heartbeat
		}
	}
	return item, nil
}

func scanItems(rows *sql.Rows) ([]*Item, error) {
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return formatTime(*value)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}

func statusArgs(statuses []Status) []any {
	args := make([]any, len(statuses))
	for i, status := range statuses {
		args[i] = status
	}
	return args
}

// timestampLayout keeps fractional seconds fixed-width so stored timestamps
// sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
