package member

import "context"

// Member is an entry of the upstream member directory.
type Member struct {
	ID   int64
	Name string
}

// Repository caches the member directory between upstream fetches.
type Repository interface {
	UpsertAll(ctx context.Context, members []Member) error
	ListAll(ctx context.Context) ([]Member, error)
}
