package utils_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jagill/chainz"
	"github.com/jagill/chainz/utils"
)

// =============================================================================
// WriteFile
// =============================================================================

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	err := chainz.FromSlice([]string{"one", "two"}).
		Transform(utils.WriteFile(path, false)).
		Sink()
	require.NoError(t, err)

	got := collectSeq(t, chainz.New(utils.ReadFile(path)))
	require.Equal(t, []string{"one", "two"}, got)
}

func TestWriteFileReYields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	// Downstream stages still see every element the writer persisted.
	n, err := chainz.FromSlice([]string{"a", "b", "c"}).
		Transform(utils.WriteFile(path, false)).
		Count()
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}

func TestWriteFileAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, chainz.FromSlice([]string{"one"}).
		Transform(utils.WriteFile(path, false)).Sink())
	require.NoError(t, chainz.FromSlice([]string{"two"}).
		Transform(utils.WriteFile(path, true)).Sink())

	got := collectSeq(t, chainz.New(utils.ReadFile(path)))
	require.Equal(t, []string{"one", "two"}, got)
}

func TestWriteFileClosedOnEarlyTermination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	// The consumer stops after two elements; the writer must still flush
	// and close, leaving exactly the elements that passed through.
	err := chainz.FromSlice([]string{"a", "b", "c", "d"}).
		Transform(utils.WriteFile(path, false)).
		Slice(2).
		Sink()
	require.NoError(t, err)

	got := collectSeq(t, chainz.New(utils.ReadFile(path)))
	require.Equal(t, []string{"a", "b"}, got)
}

func TestWriteFileClosedOnUnrecoveredError(t *testing.T) {
	boom := errors.New("bad line")
	path := filepath.Join(t.TempDir(), "out.txt")

	// A downstream stage fails with no handler installed; the terminal
	// aborts, and the writer must still flush and close everything it
	// persisted up to the failure.
	err := chainz.FromSlice([]string{"a", "b", "c"}).
		Transform(utils.WriteFile(path, false)).
		Map(func(s string) (string, error) {
			if s == "b" {
				return "", boom
			}
			return s, nil
		}).
		Sink()
	require.ErrorIs(t, err, boom)

	got := collectSeq(t, chainz.New(utils.ReadFile(path)))
	require.Equal(t, []string{"a", "b"}, got)
}

// =============================================================================
// JSONL / CSV / YAML Writers
// =============================================================================

func TestWriteJSONLFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	err := chainz.FromRecords([]chainz.Record{
		{"id": float64(1), "name": "a"},
		{"id": float64(2), "name": "b"},
	}).
		Transform(utils.WriteJSONLFile(path, false)).
		Sink()
	require.NoError(t, err)

	got := collectSeq(t, chainz.New(utils.ReadJSONLFile(path)))
	require.Equal(t, []chainz.Record{
		{"id": float64(1), "name": "a"},
		{"id": float64(2), "name": "b"},
	}, got)
}

func TestWriteCSVFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	err := chainz.FromSlice([][]string{{"1", "alice"}, {"2", "bob"}}).
		Transform(utils.WriteCSVFile(path, []string{"id", "name"}, false)).
		Sink()
	require.NoError(t, err)

	got := collectSeq(t, chainz.New(utils.ReadCSVFile(path)))
	require.Equal(t, [][]string{{"id", "name"}, {"1", "alice"}, {"2", "bob"}}, got)
}

func TestWriteCSVFilePanicsOnAppendWithHeader(t *testing.T) {
	require.Panics(t, func() {
		utils.WriteCSVFile("out.csv", []string{"id"}, true)
	})
}

func TestWriteCSVDictFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	err := chainz.FromRecords([]chainz.Record{
		{"id": "1", "name": "alice", "extra": "dropped"},
		{"id": "2"},
	}).
		Transform(utils.WriteCSVDictFile(path, []string{"id", "name"}, true, false)).
		Sink()
	require.NoError(t, err)

	got := collectSeq(t, chainz.New(utils.ReadCSVDictFile(path)))
	require.Equal(t, []chainz.Record{
		{"id": "1", "name": "alice"},
		{"id": "2", "name": ""},
	}, got, "absent keys produce empty cells, extra keys are dropped")
}

func TestWriteYAMLFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")

	err := chainz.FromRecords([]chainz.Record{
		{"id": 1, "name": "a"},
		{"id": 2, "name": "b"},
	}).
		Transform(utils.WriteYAMLFile(path, false)).
		Sink()
	require.NoError(t, err)

	got := collectSeq(t, chainz.New(utils.ReadYAMLFile(path)))
	require.Equal(t, []chainz.Record{
		{"id": 1, "name": "a"},
		{"id": 2, "name": "b"},
	}, got)
}

func TestWriteFileOpenFailure(t *testing.T) {
	err := chainz.FromSlice([]string{"a"}).
		Transform(utils.WriteFile(filepath.Join(t.TempDir(), "no", "such", "dir.txt"), false)).
		Sink()
	require.ErrorIs(t, err, os.ErrNotExist)
}
