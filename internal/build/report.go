package build

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FailedEntry is one failed task in the run report.
type FailedEntry struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
	Source    string `json:"source"`
	Reason    string `json:"reason"`
}

// WriteRunReport writes .lastrun.success.json and .lastrun.failed.json under dir.
func WriteRunReport(dir string, s Summary) error {
	if len(s.Succeeded) == 0 && len(s.FailedList) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if len(s.Succeeded) > 0 {
		p := filepath.Join(dir, ".lastrun.success.json")
		if err := writeJSON(p, s.Succeeded); err != nil {
			return err
		}
		slog.Info("report wrote success", "path", p, "sources", len(s.Succeeded))
	}
	if len(s.FailedList) > 0 {
		p := filepath.Join(dir, ".lastrun.failed.json")
		if err := writeJSON(p, s.FailedList); err != nil {
			return err
		}
		slog.Info("report wrote failed", "path", p, "count", len(s.FailedList))
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func joinFailedReasons(failedList []FailedEntry) string {
	if len(failedList) == 0 {
		return ""
	}
	var b strings.Builder
	for i, f := range failedList {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f.Symbol)
		b.WriteString("_")
		b.WriteString(f.Timeframe)
		b.WriteString(": ")
		b.WriteString(f.Reason)
		if i >= 4 && len(failedList) > 6 {
			b.WriteString(fmt.Sprintf(" (+%d more)", len(failedList)-5))
			break
		}
	}
	return b.String()
}
