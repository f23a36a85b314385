package state

import (
	"github.com/matst80/slask-discovery/pkg/events"
	"github.com/matst80/slask-discovery/pkg/types"
)

const (
	SearchTopic events.Topic = "search"
	NextTopic   events.Topic = "next"
	ErrorTopic  events.Topic = "error"
)

// ErrorMessage is shown to the user when a search request fails.
const ErrorMessage = "There was an error, try searching again."

// SearchEvent is published when a first page has been merged.
type SearchEvent struct {
	Query string
	Total int
}

// NextEvent is published when a following page has been appended.
type NextEvent struct {
	Page  int
	Cards []types.CourseCard
}

type ErrorEvent struct {
	Message string
	Err     error
}
