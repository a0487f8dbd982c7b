// Command seriesalign merges, subtracts, re-buckets and smooths time series
// held in tabular dataset JSON files.
package main

import (
	"os"

	"github.com/banshee-data/series.align/internal/fsutil"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, fsutil.OSFileSystem{}))
}
