package report

import (
	"encoding/json"
	"slices"

	"github.com/L1nMay/cidrscan/internal/model"
)

type Entry struct {
	Target  model.Target  `json:"target"`
	Outcome model.Outcome `json:"outcome"`
}

// Report is the read-only result of a scan. Entries are ordered by host, then
// port, whatever order the probes finished in.
type Report struct {
	complete bool
	entries  []Entry
	index    map[model.Target]int
}

func newReport(entries []Entry, complete bool) *Report {
	slices.SortFunc(entries, func(a, b Entry) int {
		if c := a.Target.Host.Compare(b.Target.Host); c != 0 {
			return c
		}
		return int(a.Target.Port) - int(b.Target.Port)
	})

	index := make(map[model.Target]int, len(entries))
	for i, e := range entries {
		index[e.Target] = i
	}
	return &Report{complete: complete, entries: entries, index: index}
}

// Complete is false for snapshots taken while the scan was still running.
func (r *Report) Complete() bool {
	return r.complete
}

func (r *Report) Len() int {
	return len(r.entries)
}

func (r *Report) Lookup(t model.Target) (model.Outcome, bool) {
	i, ok := r.index[t]
	if !ok {
		return model.Outcome{}, false
	}
	return r.entries[i].Outcome, true
}

// Entries returns a copy of all entries.
func (r *Report) Entries() []Entry {
	return slices.Clone(r.entries)
}

func (r *Report) Open() []Entry {
	return r.Filter(model.StatusOpen)
}

func (r *Report) Filter(s model.Status) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if e.Outcome.Status == s {
			out = append(out, e)
		}
	}
	return out
}

func (r *Report) Count(s model.Status) int {
	n := 0
	for _, e := range r.entries {
		if e.Outcome.Status == s {
			n++
		}
	}
	return n
}

func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Complete bool    `json:"complete"`
		Entries  []Entry `json:"entries"`
	}{r.complete, r.entries})
}
