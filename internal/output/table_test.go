package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spiffcs/statcard/internal/stats"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testRecords() []stats.Snapshot {
	return []stats.Snapshot{
		{Timestamp: testNow.Add(-48 * time.Hour), Username: "octocat", TotalContributions: 100, Commits: 50, Stars: 5},
		{Timestamp: testNow.Add(-24 * time.Hour), Username: "hubot", TotalContributions: 10},
		{Timestamp: testNow.Add(-time.Hour), Username: "octocat", TotalContributions: 120, Commits: 50, Stars: 4, TopLanguage: "Go", DurationMs: 2340},
	}
}

func TestRuns(t *testing.T) {
	runs := Runs(testRecords())
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}

	if runs[0].Username != "octocat" || runs[0].TotalContributions != 120 {
		t.Errorf("newest run should come first, got %+v", runs[0].Snapshot)
	}
	if runs[0].Previous == nil || runs[0].Previous.TotalContributions != 100 {
		t.Errorf("newest octocat run should point at the earlier octocat run")
	}
	if runs[1].Previous != nil {
		t.Error("hubot has no earlier run")
	}
	if runs[2].Previous != nil {
		t.Error("oldest run has no previous")
	}
}

func TestCells(t *testing.T) {
	runs := Runs(testRecords())

	tests := []struct {
		name  string
		run   Run
		index int
		want  string
	}{
		{"when", runs[0], 0, "1h ago"},
		{"contributions delta", runs[0], 2, "120 +20"},
		{"unchanged commits", runs[0], 3, "50"},
		{"stars drop", runs[0], 4, "4 -1"},
		{"top language", runs[0], 6, "Go"},
		{"took", runs[0], 7, "2.3s"},
		{"first run has no delta", runs[1], 2, "10"},
		{"missing top language", runs[2], 6, "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := Cells(tt.run, testNow)
			if got := cells[tt.index]; got != tt.want {
				t.Errorf("cell %d = %q, want %q", tt.index, got, tt.want)
			}
		})
	}
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatTable).Format(Runs(testRecords()), testNow, &buf); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header, rule and 3 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "When") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[2], "octocat") {
		t.Errorf("first row should be the newest run, got %q", lines[2])
	}
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatMarkdown).Format(Runs(testRecords()), testNow, &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"# statcard run history",
		"| When | User |",
		"| --- | --- | ---: |",
		"| 1h ago | octocat | 120 +20 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatJSON).Format(Runs(testRecords()), testNow, &buf); err != nil {
		t.Fatal(err)
	}

	var got []struct {
		User    string `json:"user"`
		Changes *struct {
			Contributions int `json:"contributions"`
			Stars         int `json:"stars"`
		} `json:"changes"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(got))
	}
	if got[0].Changes == nil || got[0].Changes.Contributions != 20 || got[0].Changes.Stars != -1 {
		t.Errorf("unexpected changes for newest run: %+v", got[0].Changes)
	}
	if got[1].Changes != nil {
		t.Error("first run of a user should have no changes")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"json", FormatJSON, false},
		{"markdown", FormatMarkdown, false},
		{"csv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
