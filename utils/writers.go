package utils

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"iter"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jagill/chainz"
)

// Transform is a whole-sequence transformation suitable for
// Chain.Transform: it receives the current sequence and returns a new one.
type Transform[T any] func(iter.Seq2[T, error]) iter.Seq2[T, error]

func openOut(path string, appendTo bool) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appendTo {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	return os.OpenFile(path, flags, 0o644)
}

// writeThrough builds a pass-through transform that opens path, calls write
// for each live element, and re-yields everything it sees. The file handle
// is held for the whole traversal and released on every exit path, early
// termination included. Upstream error pairs are passed through unwritten.
func writeThrough[T any](path string, appendTo bool, write func(w *bufio.Writer, x T) error) Transform[T] {
	return func(in iter.Seq2[T, error]) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			f, err := openOut(path, appendTo)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			defer f.Close()
			w := bufio.NewWriter(f)
			defer w.Flush()

			for x, err := range in {
				if err != nil {
					var zero T
					if !yield(zero, err) {
						return
					}
					continue
				}
				if err := write(w, x); err != nil {
					var zero T
					yield(zero, err)
					return
				}
				if !yield(x, nil) {
					return
				}
			}
		}
	}
}

// WriteFile is a transform that writes the incoming strings to path, one per
// line, re-yielding each so downstream stages still see the data.
//
//	err := chain.Transform(utils.WriteFile("out.txt", false)).Sink()
//
// If appendTo is true the file is appended to instead of overwritten.
func WriteFile(path string, appendTo bool) Transform[string] {
	return writeThrough(path, appendTo, func(w *bufio.Writer, line string) error {
		if _, err := w.WriteString(line); err != nil {
			return err
		}
		return w.WriteByte('\n')
	})
}

// WriteJSONLFile is a transform that writes the incoming records to path as
// JSON, one object per line, re-yielding each.
//
// If appendTo is true the file is appended to instead of overwritten.
func WriteJSONLFile(path string, appendTo bool) Transform[chainz.Record] {
	return writeThrough(path, appendTo, func(w *bufio.Writer, rec chainz.Record) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		return w.WriteByte('\n')
	})
}

// WriteCSVFile is a transform that writes the incoming rows to path as CSV,
// re-yielding each. If fieldnames is non-empty it is written as the first
// row. WriteCSVFile panics if both appendTo and fieldnames are given, since
// a header in the middle of a CSV file is never wanted.
func WriteCSVFile(path string, fieldnames []string, appendTo bool) Transform[[]string] {
	if appendTo && len(fieldnames) > 0 {
		panic("utils: cannot append with fieldnames")
	}
	return func(in iter.Seq2[[]string, error]) iter.Seq2[[]string, error] {
		return func(yield func([]string, error) bool) {
			f, err := openOut(path, appendTo)
			if err != nil {
				yield(nil, err)
				return
			}
			defer f.Close()
			w := csv.NewWriter(f)
			defer w.Flush()

			if len(fieldnames) > 0 {
				if err := w.Write(fieldnames); err != nil {
					yield(nil, err)
					return
				}
			}
			for row, err := range in {
				if err != nil {
					if !yield(nil, err) {
						return
					}
					continue
				}
				if err := w.Write(row); err != nil {
					yield(nil, err)
					return
				}
				if !yield(row, nil) {
					return
				}
			}
		}
	}
}

// WriteCSVDictFile is a transform that writes the incoming records to path
// as CSV rows in fieldnames order, re-yielding each. Keys absent from a
// record produce empty cells; non-string values are formatted with
// fmt.Sprint. If includeHeader is true the
// fieldnames are written first. WriteCSVDictFile panics if both appendTo and
// includeHeader are given.
func WriteCSVDictFile(path string, fieldnames []string, includeHeader, appendTo bool) Transform[chainz.Record] {
	if appendTo && includeHeader {
		panic("utils: cannot append with includeHeader")
	}
	return func(in iter.Seq2[chainz.Record, error]) iter.Seq2[chainz.Record, error] {
		return func(yield func(chainz.Record, error) bool) {
			f, err := openOut(path, appendTo)
			if err != nil {
				yield(nil, err)
				return
			}
			defer f.Close()
			w := csv.NewWriter(f)
			defer w.Flush()

			if includeHeader {
				if err := w.Write(fieldnames); err != nil {
					yield(nil, err)
					return
				}
			}
			for rec, err := range in {
				if err != nil {
					if !yield(nil, err) {
						return
					}
					continue
				}
				row := make([]string, len(fieldnames))
				for i, name := range fieldnames {
					if v, ok := rec[name]; ok {
						row[i] = formatCell(v)
					}
				}
				if err := w.Write(row); err != nil {
					yield(nil, err)
					return
				}
				if !yield(rec, nil) {
					return
				}
			}
		}
	}
}

func formatCell(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// WriteYAMLFile is a transform that writes the incoming records to path as a
// multi-document YAML stream, re-yielding each.
//
// If appendTo is true the file is appended to instead of overwritten.
func WriteYAMLFile(path string, appendTo bool) Transform[chainz.Record] {
	return func(in iter.Seq2[chainz.Record, error]) iter.Seq2[chainz.Record, error] {
		return func(yield func(chainz.Record, error) bool) {
			f, err := openOut(path, appendTo)
			if err != nil {
				yield(nil, err)
				return
			}
			defer f.Close()
			enc := yaml.NewEncoder(f)
			defer enc.Close()

			for rec, err := range in {
				if err != nil {
					if !yield(nil, err) {
						return
					}
					continue
				}
				if err := enc.Encode(rec); err != nil {
					yield(nil, err)
					return
				}
				if !yield(rec, nil) {
					return
				}
			}
		}
	}
}
