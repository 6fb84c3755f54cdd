package flights

import "context"

// Resource is any backend entity with a numeric id.
type Resource interface {
	Airline | Airport | Flight | Layover | Reservation
}

// Repo is CRUD access to one backend collection.
type Repo[T Resource] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id int64, item T) (T, error)
	Delete(ctx context.Context, id int64) error
}
