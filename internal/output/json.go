package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/spiffcs/statcard/internal/stats"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

// jsonRun is a snapshot plus its change since the previous run.
type jsonRun struct {
	stats.Snapshot
	Changes *jsonChanges `json:"changes,omitempty"`
}

type jsonChanges struct {
	Contributions int `json:"contributions"`
	Commits       int `json:"commits"`
	Stars         int `json:"stars"`
	Followers     int `json:"followers"`
}

// Format outputs the runs as a JSON array, newest first.
func (f *JSONFormatter) Format(runs []Run, _ time.Time, w io.Writer) error {
	out := make([]jsonRun, 0, len(runs))
	for _, r := range runs {
		jr := jsonRun{Snapshot: r.Snapshot}
		if p := r.Previous; p != nil {
			jr.Changes = &jsonChanges{
				Contributions: r.TotalContributions - p.TotalContributions,
				Commits:       r.Commits - p.Commits,
				Stars:         r.Stars - p.Stars,
				Followers:     r.Followers - p.Followers,
			}
		}
		out = append(out, jr)
	}

	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(out)
}
