package utils

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jagill/chainz"
)

// ReadFile iterates over a file line by line, yielding each line without its
// trailing newline. Open and read failures are yielded as error pairs, so a
// chain built over the sequence routes them through its error protocol.
func ReadFile(path string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield("", err)
			return
		}
		defer f.Close()

		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for sc.Scan() {
			if !yield(sc.Text(), nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield("", fmt.Errorf("read %s: %w", path, err))
		}
	}
}

// maxLineSize caps a single line read by ReadFile and ReadJSONLFile.
const maxLineSize = 16 * 1024 * 1024

// ReadJSONLFile iterates over a JSON-lines file, yielding one record per
// line. A line that fails to decode is yielded as an error pair; with an
// error handler on the consuming chain, decoding resumes on the next line.
func ReadJSONLFile(path string) iter.Seq2[chainz.Record, error] {
	return func(yield func(chainz.Record, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield(nil, err)
			return
		}
		defer f.Close()

		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		line := 0
		for sc.Scan() {
			line++
			var rec chainz.Record
			if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
				if !yield(nil, fmt.Errorf("%s:%d: %w", path, line, err)) {
					return
				}
				continue
			}
			if !yield(rec, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(nil, fmt.Errorf("read %s: %w", path, err))
		}
	}
}

// ReadCSVFile iterates over a CSV file, yielding each row as a slice of
// fields.
func ReadCSVFile(path string) iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield(nil, err)
			return
		}
		defer f.Close()

		r := csv.NewReader(f)
		for {
			row, err := r.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// ReadCSVDictFile iterates over a CSV file, yielding each row as a record
// keyed by column name. If fieldnames are supplied they name the columns and
// every row is data; otherwise the first row is read as the header.
func ReadCSVDictFile(path string, fieldnames ...string) iter.Seq2[chainz.Record, error] {
	return func(yield func(chainz.Record, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield(nil, err)
			return
		}
		defer f.Close()

		r := csv.NewReader(f)
		header := fieldnames
		if len(header) == 0 {
			header, err = r.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
		}
		for {
			row, err := r.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			rec := make(chainz.Record, len(header))
			for i, name := range header {
				if i < len(row) {
					rec[name] = row[i]
				}
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// ReadYAMLFile iterates over a YAML file, yielding one record per document.
// Multi-document files ("---" separated) yield each document in turn.
func ReadYAMLFile(path string) iter.Seq2[chainz.Record, error] {
	return func(yield func(chainz.Record, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield(nil, err)
			return
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		for {
			var rec chainz.Record
			err := dec.Decode(&rec)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				// The decoder cannot resync after a malformed document.
				yield(nil, fmt.Errorf("read %s: %w", path, err))
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}
