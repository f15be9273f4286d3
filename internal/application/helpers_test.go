package application

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-slueval/infrastructure/jsonl"
	"github.com/ahrav/go-slueval/infrastructure/normalize"
)

// lines joins records into a JSONL document.
func lines(records ...string) string {
	return strings.Join(records, "\n") + "\n"
}

func readerOf(records ...string) *jsonl.Reader {
	return jsonl.NewReader(strings.NewReader(lines(records...)), 0)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newSemantics(t *testing.T) *normalize.SemanticsNormalizer {
	t.Helper()
	text, err := normalize.NewTextNormalizer(normalize.DefaultTextConfig())
	require.NoError(t, err)
	sem, err := normalize.NewSemanticsNormalizer(text)
	require.NoError(t, err)
	return sem
}
