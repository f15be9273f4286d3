// slueval scores SLU predictions against ground truth.
//
// Usage:
//
//	slueval <prediction.jsonl> <ground_truth.jsonl> [--config=<path>] [--format=text|json]
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
