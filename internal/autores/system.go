package autores

import "context"

// System defines the association operations. The ingestion pipeline uses
// Create; the remaining operations back the HTTP surface.
type System interface {
	List(ctx context.Context) ([]Asociacion, error)
	Find(ctx context.Context, id int) (*Asociacion, error)
	Create(ctx context.Context, cmd CreateCommand) (*Asociacion, error)
	Delete(ctx context.Context, id int) error
}
