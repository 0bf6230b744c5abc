// Command frostdepth computes Modified Berggren frost (or thaw) depth for a
// single site from the command line.
//
// Usage:
//
//	frostdepth compute --lat 64.84 --lon -147.72 \
//	  --dry-density 90 --water-content 20 --duration 150 \
//	  --n-factor 0.9 --conductivity 0.8 --trace
//
// Climate values come from the SNAP Data API at --snap-url, unless both
// --mat and --freezing-index (or --thawing-index in thaw mode) are given.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
