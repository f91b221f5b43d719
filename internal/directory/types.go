package directory

import "time"

type User struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone,omitempty"`
	Website  string  `json:"website,omitempty"`
	Address  Address `json:"address"`
	Company  Company `json:"company"`
}

type Address struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
}

type Company struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs"`
}

type Status string

const (
	// StatusFresh means the users were fetched from the source by this call.
	StatusFresh Status = "fresh"
	// StatusCached means the snapshot was inside its freshness window.
	StatusCached Status = "cached"
	// StatusStale means the refresh failed and the last good snapshot was served.
	StatusStale Status = "stale"
	// StatusEmpty means the refresh failed and nothing was cached.
	StatusEmpty Status = "empty"
)

// Result is what Fetcher.Get hands back. Err carries the refresh failure for
// StatusStale and StatusEmpty and is informational only.
type Result struct {
	Users     []User    `json:"users"`
	Status    Status    `json:"status"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`
	Err       error     `json:"-"`
}

// Available reports whether the result carries a usable collection, even an
// empty one returned by a successful fetch.
func (r Result) Available() bool {
	return r.Status != StatusEmpty
}
