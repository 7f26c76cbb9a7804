package services

import (
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-board/internal/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
	"time"
)

type recordingFilter struct {
	mu      sync.Mutex
	query   string
	commits []string
}

func (f *recordingFilter) SearchQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

func (f *recordingFilter) SetSearchQuery(query string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.query = query
	f.commits = append(f.commits, query)
	return true
}

func (f *recordingFilter) Commits() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commits...)
}

func Test_SearchInput_Burst_ShouldCommitOnceWithLastValue(t *testing.T) {
	filter := &recordingFilter{}
	bus := EventBus.New()

	committed := make(chan string, 10)
	require.NoError(t, bus.Subscribe(events.SearchCommittedTopic, func(e events.SearchCommitted) {
		committed <- e.Query
	}))

	input := NewSearchInput(filter, bus, 50*time.Millisecond)
	defer input.Close()

	word := "Developer"
	for i := 1; i <= len(word); i++ {
		input.Type(word[:i])
	}
	assert.Equal(t, "Developer", input.Value())
	assert.True(t, input.Pending())
	assert.Empty(t, filter.Commits())

	select {
	case query := <-committed:
		assert.Equal(t, "Developer", query)
	case <-time.After(time.Second):
		t.Fatal("search was not committed")
	}

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{"Developer"}, filter.Commits())
	assert.False(t, input.Pending())
}

func Test_SearchInput_Close_ShouldCancelPendingCommit(t *testing.T) {
	filter := &recordingFilter{}
	input := NewSearchInput(filter, nil, 30*time.Millisecond)

	input.Type("react")
	input.Close()

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, filter.Commits())
	assert.False(t, input.Pending())
}

func Test_SearchInput_WhenValueUnchanged_ShouldNotCommit(t *testing.T) {
	filter := &recordingFilter{query: "golang"}
	input := NewSearchInput(filter, nil, 20*time.Millisecond)
	defer input.Close()
	assert.Equal(t, "golang", input.Value())

	input.Type("golan")
	input.Type("golang")

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, filter.Commits())
}

func Test_SearchInput_Clear_ShouldCommitEmptyQuery(t *testing.T) {
	filter := &recordingFilter{query: "golang"}
	input := NewSearchInput(filter, nil, 20*time.Millisecond)
	defer input.Close()

	input.Clear()

	assert.Eventually(t, func() bool {
		return len(filter.Commits()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "", filter.SearchQuery())
}

func Test_SearchInput_WithBoard_ShouldResetPage(t *testing.T) {
	board, _ := newTestBoard(t, nil, manyJobs(25)...)
	require.True(t, board.SetCurrentPage(3))
	input := NewSearchInput(board, nil, 20*time.Millisecond)
	defer input.Close()

	input.Type("frontend")

	assert.Eventually(t, func() bool {
		return board.SearchQuery() == "frontend"
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, board.State().CurrentPage)
}

func Test_NewSearchInput_WhenDelayNotPositive_ShouldUseDefault(t *testing.T) {
	input := NewSearchInput(&recordingFilter{}, nil, 0)
	defer input.Close()

	assert.Equal(t, 300*time.Millisecond, input.delay)
}
