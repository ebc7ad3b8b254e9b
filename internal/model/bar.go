package model

import "time"

// Source column names, in the fixed order every input file must follow.
const (
	ColTime   = "time"
	ColOpen   = "open"
	ColHigh   = "high"
	ColLow    = "low"
	ColClose  = "close"
	ColVolume = "volume"
)

// SourceColumns is the fixed six-column schema of a raw bar file.
var SourceColumns = []string{ColTime, ColOpen, ColHigh, ColLow, ColClose, ColVolume}

// Output-only columns.
const (
	ColSymbol    = "symbol"
	ColTimeframe = "timeframe"
	ColYear      = "year"
)

// RowColumns is the column order of a fully projected output row.
var RowColumns = []string{ColSymbol, ColTimeframe, ColYear, ColTime, ColOpen, ColHigh, ColLow, ColClose, ColVolume}

// SourceBar is one record of a raw bar file after binding to the source schema.
type SourceBar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Row is one normalized output bar (flat layouts).
type Row struct {
	Symbol    string    `json:"symbol" parquet:"symbol"`
	Timeframe string    `json:"timeframe" parquet:"timeframe"`
	Year      string    `json:"year" parquet:"year"`
	Time      time.Time `json:"time" parquet:"time,timestamp(microsecond)"`
	Open      float64   `json:"open" parquet:"open"`
	High      float64   `json:"high" parquet:"high"`
	Low       float64   `json:"low" parquet:"low"`
	Close     float64   `json:"close" parquet:"close"`
	Volume    float64   `json:"volume" parquet:"volume"`
}

// PartitionRow is a Row written inside a symbol=/year= partition.
// The partition columns live in the directory names, not in the file.
type PartitionRow struct {
	Timeframe string    `json:"timeframe" parquet:"timeframe"`
	Time      time.Time `json:"time" parquet:"time,timestamp(microsecond)"`
	Open      float64   `json:"open" parquet:"open"`
	High      float64   `json:"high" parquet:"high"`
	Low       float64   `json:"low" parquet:"low"`
	Close     float64   `json:"close" parquet:"close"`
	Volume    float64   `json:"volume" parquet:"volume"`
}

// PartitionRowColumns is the column order of PartitionRow.
var PartitionRowColumns = []string{ColTimeframe, ColTime, ColOpen, ColHigh, ColLow, ColClose, ColVolume}

// Partition strips the partition columns from r.
func (r Row) Partition() PartitionRow {
	return PartitionRow{
		Timeframe: r.Timeframe,
		Time:      r.Time,
		Open:      r.Open,
		High:      r.High,
		Low:       r.Low,
		Close:     r.Close,
		Volume:    r.Volume,
	}
}
