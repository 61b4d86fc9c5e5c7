package store

import "github.com/oklog/ulid/v2"

// newResultID returns a ULID: unique and sortable by creation time.
func newResultID() string {
	return ulid.Make().String()
}
