// Package tracking forwards discovery activity to an analytics sink.
package tracking

import (
	"github.com/matst80/slask-discovery/pkg/events"
	"github.com/matst80/slask-discovery/pkg/state"
)

type Tracking interface {
	Attach(bus *events.Bus, searchState *state.SearchState)
	Close() error
}
