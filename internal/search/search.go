// Package search ranks extension commands against the launcher query.
package search

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Result is one search hit in wire form. Data is the typed payload the
// embedding UI renders; Type tells it which payload to expect.
type Result struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// CommandHit is the Data payload for type "command".
type CommandHit struct {
	ExtensionID    string `json:"extensionId"`
	ExtensionTitle string `json:"extensionTitle"`
	Command        string `json:"command"`
	Title          string `json:"title"`
	Subtitle       string `json:"subtitle,omitempty"`
	Mode           string `json:"mode"`
	Score          int    `json:"score"`
}

// Entry is one searchable command as fed by the host.
type Entry struct {
	ExtensionID    string
	ExtensionTitle string
	Command        string
	Title          string
	Description    string
	Mode           string
	Keywords       []string
}

// haystack is what the fuzzy matcher sees for one entry: title plus keywords
// plus the extension title, so "gh" finds "Search Issues" under "GitHub".
func (e Entry) haystack() string {
	parts := []string{e.Title}
	parts = append(parts, e.Keywords...)
	parts = append(parts, e.ExtensionTitle)
	return strings.Join(parts, " ")
}

type entrySource []Entry

func (s entrySource) String(i int) string { return s[i].haystack() }
func (s entrySource) Len() int            { return len(s) }

// Commands ranks entries against query. An empty query returns every entry
// in stable title order.
func Commands(entries []Entry, query string) []CommandHit {
	query = strings.TrimSpace(query)
	if query == "" {
		hits := make([]CommandHit, 0, len(entries))
		for _, e := range entries {
			hits = append(hits, hitFrom(e, 0))
		}
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].Title < hits[j].Title })
		return hits
	}

	matches := fuzzy.FindFrom(query, entrySource(entries))
	hits := make([]CommandHit, 0, len(matches))
	for _, m := range matches {
		hits = append(hits, hitFrom(entries[m.Index], m.Score))
	}
	return hits
}

func hitFrom(e Entry, score int) CommandHit {
	return CommandHit{
		ExtensionID:    e.ExtensionID,
		ExtensionTitle: e.ExtensionTitle,
		Command:        e.Command,
		Title:          e.Title,
		Subtitle:       e.Description,
		Mode:           e.Mode,
		Score:          score,
	}
}

// Response is the envelope returned over the FFI boundary.
type Response struct {
	Results []Result `json:"results"`
}

// Encode wraps command hits into the wire envelope.
func Encode(hits []CommandHit) ([]byte, error) {
	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		data, err := json.Marshal(h)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Type: "command", Data: data})
	}
	return json.Marshal(Response{Results: results})
}
