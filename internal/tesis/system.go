package tesis

import "context"

// System defines the thesis store operations: metadata queries, binary
// round-tripping, and lifecycle mutations. Find reports absence as
// ErrNotFound; Search reports an empty match set the same way. Callers
// that need empty-is-not-error semantics translate at their boundary.
type System interface {
	List(ctx context.Context) ([]Tesis, error)
	Find(ctx context.Context, id int) (*Tesis, error)
	Search(ctx context.Context, fragment string) ([]Tesis, error)
	Exists(ctx context.Context, id int) (bool, error)
	Insert(ctx context.Context, cmd DepositCommand, archivo []byte) error
	Download(ctx context.Context, id int) ([]byte, error)
	Update(ctx context.Context, id int, cmd UpdateCommand) error
	Delete(ctx context.Context, id int) error
}
