package logging

import (
	"log/slog"
	"strings"
)

type infoField struct {
	label string
	value string
}

var infoHighlightKeys = []string{
	FieldAlert,
	FieldEventType,
	FieldDecisionType,
	"decision_result",
	"decision_reason",
	"error",
	"error_message",
	FieldErrorHint,
	FieldImpact,
	"status",
	"asset_origin",
	"asset_path",
	"public_url",
	"media_type",
	"discovered",
	"eligible",
	"migrated",
	"stage_duration",
	"duration",
	"reason",
}

// selectInfoFields orders highlighted keys first, followed by the rest in
// logged order. Keys already shown in the header and debug-only keys are
// skipped.
func selectInfoFields(attrs []kv) []infoField {
	if len(attrs) == 0 {
		return nil
	}
	used := make([]bool, len(attrs))
	result := make([]infoField, 0, len(attrs))

	for _, key := range infoHighlightKeys {
		for idx, attr := range attrs {
			if used[idx] || attr.key != key {
				continue
			}
			used[idx] = true
			result = append(result, infoField{label: displayLabel(attr.key), value: formatValueForKey(attr.key, attr.value)})
			break
		}
	}

	for idx, attr := range attrs {
		if used[idx] || skipInfoKey(attr.key) || isDebugOnlyKey(attr.key) {
			continue
		}
		result = append(result, infoField{label: displayLabel(attr.key), value: formatValueForKey(attr.key, attr.value)})
	}
	return result
}

func formatValueForKey(key string, v slog.Value) string {
	v = v.Resolve()
	if isByteSizeKey(key) && v.Kind() == slog.KindInt64 {
		return formatBytes(v.Int64())
	}
	if v.Kind() == slog.KindDuration {
		return formatDurationHuman(v.Duration())
	}
	if v.Kind() == slog.KindBool {
		if v.Bool() {
			return "yes"
		}
		return "no"
	}
	value := formatValue(v)
	if key == "error" || key == "error_message" {
		value = truncateErrorValue(value)
	}
	return value
}

func isByteSizeKey(key string) bool {
	return strings.HasSuffix(key, "_bytes") || key == "size"
}

func truncateErrorValue(value string) string {
	value = strings.TrimSpace(value)
	const maxLen = 200
	if len(value) > maxLen {
		value = value[:maxLen] + "…"
	}
	return value
}

func skipInfoKey(key string) bool {
	switch key {
	case "", FieldItemID, FieldStage, FieldContentID, FieldContentVersion, FieldComponent:
		return true
	default:
		return false
	}
}

func isDebugOnlyKey(key string) bool {
	switch key {
	case FieldCorrelationID, "user_agent", "spool_path":
		return true
	}
	return strings.HasSuffix(key, "_dir") || (strings.Contains(key, "_path") && key != "asset_path")
}

// repeatableInfoLabel marks labels that always print even when unchanged.
func repeatableInfoLabel(label string) bool {
	switch label {
	case "Event", "Decision", "Error", "Hint":
		return true
	}
	return false
}

func displayLabel(key string) string {
	switch key {
	case FieldAlert:
		return "Alert"
	case FieldEventType:
		return "Event"
	case FieldDecisionType:
		return "Decision"
	case "decision_result":
		return "Result"
	case "decision_reason":
		return "Reason"
	case FieldErrorHint:
		return "Hint"
	case "asset_origin":
		return "Origin"
	case "asset_path":
		return "Path"
	case "public_url":
		return "Public URL"
	case "media_type":
		return "Type"
	case "stage_duration":
		return "Duration"
	default:
		return titleizeKey(key)
	}
}

func titleizeKey(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for i, part := range parts {
		parts[i] = capitalizeASCII(part)
	}
	return strings.Join(parts, " ")
}

func capitalizeASCII(value string) string {
	switch len(value) {
	case 0:
		return ""
	case 1:
		return strings.ToUpper(value)
	default:
		lower := strings.ToLower(value)
		return strings.ToUpper(lower[:1]) + lower[1:]
	}
}

func infoSummaryKey(header logHeader) string {
	if id := strings.TrimSpace(header.itemID); id != "" {
		return "item:" + id
	}
	if header.contentID != "" {
		return "content:" + header.contentID + "@" + header.version
	}
	return ""
}
