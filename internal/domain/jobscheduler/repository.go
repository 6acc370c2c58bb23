package jobscheduler

import "context"

type Repository interface {
	// UpsertEvent moves the dispatch identified by DispatchID into event.Status.
	UpsertEvent(ctx context.Context, event DispatchEvent) error
}
