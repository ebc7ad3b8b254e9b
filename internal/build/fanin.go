package build

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

func runLogWriter(lines <-chan string) {
	for s := range lines {
		fmt.Println(s)
	}
}

type errorEntry struct {
	Symbol    string
	Timeframe string
	Err       error
}

func runErrorHandler(errors <-chan errorEntry, logger *slog.Logger) {
	for e := range errors {
		logger.Error("extract error", "symbol", e.Symbol, "timeframe", e.Timeframe, "error", e.Err)
	}
}

func runHeartbeat(ctx context.Context, interval time.Duration, total int, mu *sync.Mutex, s *Summary, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mu.Lock()
			done := s.Written + s.Skipped + s.Failed
			written, failed, rows := s.Written, s.Failed, s.Rows
			mu.Unlock()
			logger.Info("heartbeat", "done", done, "total", total, "written", written, "failed", failed, "rows", rows)
		}
	}
}
