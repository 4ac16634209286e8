// Package main hosts the ptfill command line tool.
//
// ptfill classifies mediainfo reports into upload form codes, fills saved or
// live upload pages from a publish JSON payload, and batch-classifies NDJSON
// payload streams. Heavy lifting lives in internal/autofill; commands here
// only parse flags and render output.
package main
