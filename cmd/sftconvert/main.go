// sftconvert turns raw-annotation JSONL into instruction-tuning records.
//
// Usage:
//
//	sftconvert --input-file=<path> [--output-file=<path>] [--config=<path>]
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
