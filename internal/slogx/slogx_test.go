package slogx

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	} {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestChanWriterSplitsLines(t *testing.T) {
	ch := make(chan string, 4)
	w := &ChanWriter{Ch: ch}
	_, err := w.Write([]byte("a=1\nb="))
	require.NoError(t, err)
	_, err = w.Write([]byte("2\n"))
	require.NoError(t, err)
	assert.Equal(t, "a=1", <-ch)
	assert.Equal(t, "b=2", <-ch)
	assert.Empty(t, w.Buf)
}

func TestChanWriterDropsWhenFull(t *testing.T) {
	ch := make(chan string, 1)
	w := &ChanWriter{Ch: ch}
	_, err := w.Write([]byte("one\ntwo\n"))
	require.NoError(t, err)
	assert.Len(t, ch, 1)
	assert.Equal(t, "one", <-ch)
}

func TestChanLogger(t *testing.T) {
	ch := make(chan string, 4)
	l := NewChanLogger(ch, slog.LevelWarn, "")
	l.Info("hidden")
	l.Warn("shown", "symbol", "EURUSD")
	require.Len(t, ch, 1)
	assert.Contains(t, <-ch, "symbol=EURUSD")
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "debug", "json").Debug("dry run", "mode", "parquet")
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "dry run", m["msg"])
	assert.Equal(t, "parquet", m["mode"])
}

func TestChanLoggerJSON(t *testing.T) {
	ch := make(chan string, 4)
	NewChanLogger(ch, slog.LevelInfo, "json").Info("pool start", "tasks", 3)
	require.Len(t, ch, 1)
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(<-ch), &m))
	assert.Equal(t, "pool start", m["msg"])
	assert.EqualValues(t, 3, m["tasks"])
}
