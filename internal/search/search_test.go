package search

import (
	"encoding/json"
	"testing"
)

var entries = []Entry{
	{ExtensionID: "github", ExtensionTitle: "GitHub", Command: "search-issues", Title: "Search Issues", Mode: "list"},
	{ExtensionID: "github", ExtensionTitle: "GitHub", Command: "my-prs", Title: "My Pull Requests", Mode: "list"},
	{ExtensionID: "snippets", ExtensionTitle: "Snippets", Command: "search", Title: "Search Snippets", Keywords: []string{"clip", "paste"}, Mode: "list"},
	{ExtensionID: "weather", ExtensionTitle: "Weather", Command: "forecast", Title: "Show Forecast", Mode: "detail"},
}

func TestEmptyQueryReturnsAll(t *testing.T) {
	hits := Commands(entries, "")
	if len(hits) != len(entries) {
		t.Fatalf("hits = %d, want %d", len(hits), len(entries))
	}
	for i := 1; i < len(hits); i++ {
		if hits[i-1].Title > hits[i].Title {
			t.Fatalf("not sorted: %q before %q", hits[i-1].Title, hits[i].Title)
		}
	}
}

func TestFuzzyMatch(t *testing.T) {
	hits := Commands(entries, "srch iss")
	if len(hits) == 0 {
		t.Fatal("no hits")
	}
	if hits[0].Command != "search-issues" {
		t.Errorf("top hit = %+v", hits[0])
	}
}

func TestKeywordMatch(t *testing.T) {
	hits := Commands(entries, "paste")
	if len(hits) == 0 || hits[0].ExtensionID != "snippets" {
		t.Fatalf("hits = %+v", hits)
	}
}

func TestExtensionTitleMatch(t *testing.T) {
	hits := Commands(entries, "github")
	if len(hits) < 2 {
		t.Fatalf("hits = %+v", hits)
	}
	for _, h := range hits[:2] {
		if h.ExtensionID != "github" {
			t.Errorf("hit = %+v", h)
		}
	}
}

func TestNoMatch(t *testing.T) {
	if hits := Commands(entries, "zzzzqqqq"); len(hits) != 0 {
		t.Errorf("hits = %+v", hits)
	}
}

func TestEncodeEnvelope(t *testing.T) {
	data, err := Encode(Commands(entries, "forecast"))
	if err != nil {
		t.Fatal(err)
	}
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Type != "command" {
		t.Fatalf("resp = %+v", resp)
	}
	var hit CommandHit
	if err := json.Unmarshal(resp.Results[0].Data, &hit); err != nil {
		t.Fatal(err)
	}
	if hit.Command != "forecast" || hit.Mode != "detail" {
		t.Errorf("hit = %+v", hit)
	}
}
