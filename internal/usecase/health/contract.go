package health

import "context"

// DBPinger checks run-store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}
