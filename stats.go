package chainz

import (
	"encoding/json"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
)

// Stats records how many elements each stage emitted, in stage order. It is
// populated only on chains where WithDebug was called before the stages were
// installed. Keys have the form "<index>:<name>", e.g. "0:map", "1:filter".
//
// Counter reads are safe at any time; counters use atomic operations so a
// snapshot taken mid-drive (from a Do stage or an error handler) is
// coherent.
type Stats struct {
	names  []string
	counts map[string]*atomic.Int64
}

func newStats() *Stats {
	return &Stats{counts: make(map[string]*atomic.Int64)}
}

// register adds a stage counter. Called at stage-install time, which is
// single-threaded by the chain's contract.
func (s *Stats) register(name string) func() {
	ctr := &atomic.Int64{}
	s.names = append(s.names, name)
	s.counts[name] = ctr
	return func() { ctr.Add(1) }
}

// Stages returns the stage keys in installation order.
func (s *Stats) Stages() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Count returns the number of elements the named stage has emitted, or zero
// for an unknown stage.
func (s *Stats) Count(stage string) int64 {
	if ctr, ok := s.counts[stage]; ok {
		return ctr.Load()
	}
	return 0
}

// Counts returns a snapshot of all stage counters.
func (s *Stats) Counts() map[string]int64 {
	out := make(map[string]int64, len(s.counts))
	for name, ctr := range s.counts {
		out[name] = ctr.Load()
	}
	return out
}

// LogValue implements slog.LogValuer for structured logging.
func (s *Stats) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(s.names))
	for _, name := range s.names {
		attrs = append(attrs, slog.Int64(name, s.Count(name)))
	}
	return slog.GroupValue(attrs...)
}

// MarshalJSON implements json.Marshaler for Stats serialization.
func (s *Stats) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Counts())
}

// UnmarshalJSON implements json.Unmarshaler for Stats deserialization.
// Stage order is restored from the "<index>:" prefix of the keys.
func (s *Stats) UnmarshalJSON(data []byte) error {
	var v map[string]int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.names = s.names[:0]
	s.counts = make(map[string]*atomic.Int64, len(v))
	for name, n := range v {
		ctr := &atomic.Int64{}
		ctr.Store(n)
		s.names = append(s.names, name)
		s.counts[name] = ctr
	}
	sort.Slice(s.names, func(i, j int) bool {
		return stageIndex(s.names[i]) < stageIndex(s.names[j])
	})
	return nil
}

// stageIndex parses the numeric prefix of a "<index>:<name>" stage key.
func stageIndex(key string) int {
	prefix, _, _ := strings.Cut(key, ":")
	n, _ := strconv.Atoi(prefix)
	return n
}
