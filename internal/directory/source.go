package directory

import "context"

// Source is an upstream that can list users. A limit of zero means no limit.
type Source interface {
	ID() string
	FetchUsers(ctx context.Context, limit int) ([]User, error)
}
