package build

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"dukas-data/internal/extract"
	"dukas-data/internal/slogx"
)

// RunFunc executes one task. (*extract.Executor).Run satisfies it.
type RunFunc func(ctx context.Context, t extract.Task) (extract.Outcome, error)

// JobResult is sent by workers for fan-in.
type JobResult struct {
	Ok        bool
	Symbol    string
	Timeframe string
	Source    string
	Result    extract.Result
	Rows      int64
	Reason    string
}

// Summary aggregates the results of one run.
type Summary struct {
	Written    int
	Skipped    int
	Failed     int
	Rows       int64
	Succeeded  []string
	FailedList []FailedEntry
	RowsBySym  map[string]int64
}

func (s *Summary) add(r JobResult) {
	if !r.Ok {
		s.Failed++
		s.FailedList = append(s.FailedList, FailedEntry{Symbol: r.Symbol, Timeframe: r.Timeframe, Source: r.Source, Reason: r.Reason})
		return
	}
	if r.Result == extract.Skipped {
		s.Skipped++
		return
	}
	s.Written++
	s.Rows += r.Rows
	s.RowsBySym[r.Symbol] += r.Rows
	s.Succeeded = append(s.Succeeded, r.Symbol+"_"+r.Timeframe)
}

// Pool runs tasks with a bounded number of workers. Tasks are independent:
// a failed task is recorded and the others keep going.
type Pool struct {
	Run       RunFunc
	Workers   int
	Heartbeat time.Duration
	// Logger receives pool logs. When nil, logs fan in through a channel to
	// stdout using LogLevel and LogFormat.
	Logger    *slog.Logger
	LogLevel  string
	LogFormat string
}

// RunParallel executes every task and returns the summary. Cancelling ctx stops
// new tasks from starting; running tasks see the cancellation through ctx.
func (p *Pool) RunParallel(ctx context.Context, tasks []extract.Task) Summary {
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	heartbeat := p.Heartbeat
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}

	logs := make(chan string, 2048)
	logger := p.Logger
	if logger == nil {
		logger = slogx.NewChanLogger(logs, slogx.ParseLevel(p.LogLevel), p.LogFormat)
	}
	errs := make(chan errorEntry, 64)
	var logWg, errWg sync.WaitGroup
	logWg.Add(1)
	go func() {
		defer logWg.Done()
		runLogWriter(logs)
	}()
	errWg.Add(1)
	go func() {
		defer errWg.Done()
		runErrorHandler(errs, logger)
	}()

	summary := Summary{RowsBySym: make(map[string]int64)}
	var mu sync.Mutex
	results := make(chan JobResult, len(tasks)+64)
	var resWg sync.WaitGroup
	resWg.Add(1)
	go func() {
		defer resWg.Done()
		for r := range results {
			mu.Lock()
			summary.add(r)
			mu.Unlock()
		}
	}()

	hbCtx, stopHeartbeat := context.WithCancel(ctx)
	var hbWg sync.WaitGroup
	hbWg.Add(1)
	go func() {
		defer hbWg.Done()
		runHeartbeat(hbCtx, heartbeat, len(tasks), &mu, &summary, logger)
	}()

	logger.Info("pool start", "tasks", len(tasks), "workers", workers)
	var g errgroup.Group
	g.SetLimit(workers)
	for _, task := range tasks {
		if ctx.Err() != nil {
			logger.Warn("pool canceled, not starting remaining tasks")
			break
		}
		g.Go(func() error {
			results <- p.runOne(ctx, task, logger, errs)
			return nil
		})
	}
	g.Wait()
	close(results)
	resWg.Wait()
	stopHeartbeat()
	hbWg.Wait()
	close(errs)
	errWg.Wait()

	logger.Info("summary", "written", summary.Written, "skipped", summary.Skipped, "failed", summary.Failed, "rows", summary.Rows)
	syms := make([]string, 0, len(summary.RowsBySym))
	for s := range summary.RowsBySym {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	for _, s := range syms {
		logger.Info("summary symbol", "symbol", s, "rows", summary.RowsBySym[s])
	}
	if len(summary.FailedList) > 0 {
		logger.Info("summary failed", "count", len(summary.FailedList), "reasons", joinFailedReasons(summary.FailedList))
	}

	// every sender to logs has finished
	close(logs)
	logWg.Wait()
	sort.Strings(summary.Succeeded)
	return summary
}

func (p *Pool) runOne(ctx context.Context, t extract.Task, logger *slog.Logger, errs chan<- errorEntry) JobResult {
	start := time.Now()
	out, err := p.Run(ctx, t)
	r := JobResult{Symbol: t.Symbol, Timeframe: t.Timeframe, Source: t.InputPath}
	if err != nil {
		r.Reason = err.Error()
		logger.Error("extract fail", "symbol", t.Symbol, "timeframe", t.Timeframe, "source", t.InputPath, "reason", r.Reason)
		select {
		case errs <- errorEntry{Symbol: t.Symbol, Timeframe: t.Timeframe, Err: err}:
		default:
		}
		return r
	}
	r.Ok, r.Result, r.Rows = true, out.Result, out.Rows
	logger.Info("extract ok", "symbol", t.Symbol, "timeframe", t.Timeframe, "result", out.Result, "mode", out.Mode,
		"rows", out.Rows, "files", len(out.Files), "took", time.Since(start).Round(time.Millisecond))
	return r
}
