package directory

import (
	"context"
	"strings"
)

type Outcome string

const (
	// OutcomePrompt is returned for an empty query.
	OutcomePrompt Outcome = "prompt"
	// OutcomeUnavailable means no collection could be loaded at all.
	OutcomeUnavailable Outcome = "unavailable"
	// OutcomeNoResults means the collection loaded but nothing matched.
	OutcomeNoResults Outcome = "no_results"
	OutcomeMatches   Outcome = "matches"
)

type SearchResult struct {
	Outcome Outcome `json:"outcome"`
	Query   string  `json:"query"`
	Users   []User  `json:"users"`
	Status  Status  `json:"status,omitempty"`
}

// NormalizeQuery trims and lower-cases a raw search term.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Search filters the users of res by query. An empty query yields
// OutcomePrompt whatever res holds.
func Search(query string, res Result) SearchResult {
	q := NormalizeQuery(query)
	if q == "" {
		return SearchResult{Outcome: OutcomePrompt}
	}
	if !res.Available() {
		return SearchResult{Outcome: OutcomeUnavailable, Query: q, Status: res.Status}
	}

	matched := Match(res.Users, q)
	if len(matched) == 0 {
		return SearchResult{Outcome: OutcomeNoResults, Query: q, Status: res.Status}
	}
	return SearchResult{Outcome: OutcomeMatches, Query: q, Users: matched, Status: res.Status}
}

// Match returns the users whose name, email or username contains q, keeping
// their relative order. q must already be normalized.
func Match(users []User, q string) []User {
	var matched []User
	for _, u := range users {
		if u.Matches(q) {
			matched = append(matched, u)
		}
	}
	return matched
}

func (u User) Matches(q string) bool {
	return strings.Contains(strings.ToLower(u.Name), q) ||
		strings.Contains(strings.ToLower(u.Email), q) ||
		strings.Contains(strings.ToLower(u.Username), q)
}

// Search runs Search against the current collection. The source is not
// consulted for an empty query.
func (f *Fetcher) Search(ctx context.Context, query string) SearchResult {
	if NormalizeQuery(query) == "" {
		return SearchResult{Outcome: OutcomePrompt}
	}
	return Search(query, f.Get(ctx))
}
