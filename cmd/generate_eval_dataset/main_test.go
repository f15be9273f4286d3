package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	var stdout bytes.Buffer
	cmd := newRootCmd(&stdout)
	cmd.SetArgs([]string{"--size", "25", "--seed", "9", "--output-dir", dir})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, stdout.String(), "seed 9")
	assert.Contains(t, stdout.String(), "(25 samples)")
	for _, name := range []string{"ground_truth.jsonl", "prediction.jsonl"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestGenerate_InvalidSize(t *testing.T) {
	cmd := newRootCmd(&bytes.Buffer{})
	cmd.SetArgs([]string{"--size", "0", "--output-dir", t.TempDir()})
	assert.Error(t, cmd.Execute())
}
