package services

import (
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-board/internal/domain/events"
	"github.com/maxaizer/job-board/internal/metrics"
	"github.com/maxaizer/job-board/pkg/debounce"
	log "github.com/sirupsen/logrus"
	"sync"
	"time"
)

type searchQueryFilter interface {
	SearchQuery() string
	SetSearchQuery(query string) bool
}

// SearchInput keeps the uncommitted text of the search field and commits it to the board
// once typing pauses for the configured delay.
type SearchInput struct {
	mu        sync.Mutex
	value     string
	delay     time.Duration
	filter    searchQueryFilter
	bus       EventBus.Bus
	debouncer *debounce.Debouncer[string]
}

func NewSearchInput(filter searchQueryFilter, bus EventBus.Bus, delay time.Duration) *SearchInput {
	if delay <= 0 {
		delay = debounce.DefaultDelay
	}

	s := &SearchInput{
		value:  filter.SearchQuery(),
		delay:  delay,
		filter: filter,
		bus:    bus,
	}
	s.debouncer = debounce.New(s.commit)
	return s
}

// Type replaces the local value and restarts the quiet period.
func (s *SearchInput) Type(value string) {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()

	s.debouncer.Schedule(value, s.delay)
}

func (s *SearchInput) Clear() {
	s.Type("")
}

func (s *SearchInput) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.value
}

func (s *SearchInput) Pending() bool {
	return s.debouncer.Pending()
}

// Close cancels a pending commit. Call it when the view owning the field goes away.
func (s *SearchInput) Close() {
	s.debouncer.Cancel()
}

func (s *SearchInput) commit(query string) {
	if query == s.filter.SearchQuery() {
		return
	}

	s.filter.SetSearchQuery(query)
	metrics.SearchCommitsCounter.Inc()
	log.Debugf("search query committed: %q", query)

	if s.bus != nil {
		s.bus.Publish(events.SearchCommittedTopic, events.SearchCommitted{Query: query})
	}
}
