// Package utils provides sequence sources and sinks for chains.
//
// These are the adapters around the core chainz package: readers that
// produce an iter.Seq2 from a file (plain lines, JSONL, CSV, YAML) or a
// directory walk, and writer transforms for the Chain.Transform escape hatch
// that persist elements while re-yielding them, so downstream stages still
// see the data.
//
// Reader errors are yielded in-stream as error pairs, which means a chain's
// error handler governs them like any stage failure: a malformed JSONL line,
// for example, is reported to the handler and reading resumes on the next
// line.
//
// Writer transforms hold their file handle for the whole traversal and
// release it on every exit path, including early termination by the
// consumer:
//
//	err := chainz.New(utils.ReadJSONLFile("in.jsonl")).
//	    KeepKeys("id", "name").
//	    Transform(utils.WriteJSONLFile("out.jsonl", false)).
//	    Sink()
package utils
