package extract

import (
	"fmt"

	"dukas-data/internal/engine"
	"dukas-data/internal/model"
)

// Layout is the shape of a task's output, chosen once per task:
//
//	output_type  partition  shape          partitioned by  file name
//	parquet      ignored    directory      symbol, year    part_{uuid}.parquet
//	csv          true       directory      symbol, year    part_{uuid}.csv
//	csv          false      single file    -               {symbol}_{timeframe}_{uuid}.csv
//
// Partitioned layouts never replace an existing part file.
type Layout struct {
	Format            engine.Format
	Partitioned       bool
	FilenamePattern   string
	Header            bool
	OverwriteOrIgnore bool
}

// SelectLayout applies the decision table to t.
func SelectLayout(t Task) Layout {
	switch {
	case t.Options.OutputType == OutputCSV && !t.Options.Partition:
		return Layout{
			Format:          engine.FormatCSV,
			FilenamePattern: fmt.Sprintf("%s_%s_%s", engine.EscapePathValue(t.Symbol), engine.EscapePathValue(t.Timeframe), engine.UUIDPlaceholder),
			Header:          true,
		}
	case t.Options.OutputType == OutputCSV:
		return Layout{
			Format:            engine.FormatCSV,
			Partitioned:       true,
			FilenamePattern:   "part_" + engine.UUIDPlaceholder,
			Header:            true,
			OverwriteOrIgnore: true,
		}
	default:
		return Layout{
			Format:            engine.FormatParquet,
			Partitioned:       true,
			FilenamePattern:   "part_" + engine.UUIDPlaceholder,
			OverwriteOrIgnore: true,
		}
	}
}

// Mode names the layout for logs.
func (l Layout) Mode() string {
	if l.Format == engine.FormatCSV && l.Partitioned {
		return "csv-partitioned"
	}
	return string(l.Format)
}

// Destination turns the layout into an engine copy target under opts.OutputDir.
func (l Layout) Destination(opts Options) engine.Destination {
	d := engine.Destination{
		Dir:               opts.OutputDir,
		Format:            l.Format,
		FilenamePattern:   l.FilenamePattern,
		Compression:       opts.Compression,
		Header:            l.Header,
		OverwriteOrIgnore: l.OverwriteOrIgnore,
	}
	if l.Partitioned {
		d.PartitionBy = []string{model.ColSymbol, model.ColYear}
	}
	if l.Format == engine.FormatCSV {
		d.Delimiter = ','
	}
	return d
}
