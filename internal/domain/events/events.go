package events

import (
	"github.com/maxaizer/job-board/internal/domain/models"
)

var (
	BookmarkToggledTopic       = "BookmarkToggledEvent"
	BookmarkPersistFailedTopic = "BookmarkPersistFailedEvent"
	SearchCommittedTopic       = "SearchCommittedEvent"
	QueryChangedTopic          = "QueryChangedEvent"
)

type BookmarkToggled struct {
	JobID      models.JobID
	Bookmarked bool
	Total      int
}

// BookmarkPersistFailed is a recoverable warning: the in-memory bookmark set is still authoritative.
type BookmarkPersistFailed struct {
	JobID models.JobID
	Err   error
}

type SearchCommitted struct {
	Query string
}

// QueryChanged is published after every accepted query state mutation; the current page should be re-derived.
type QueryChanged struct {
	Filters      models.Filters
	SortBy       models.SortKey
	Page         int
	ItemsPerPage int
	ViewMode     models.ViewMode
}
