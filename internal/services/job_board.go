package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-board/internal/domain/events"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/logger"
	"github.com/maxaizer/job-board/internal/metrics"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"slices"
	"sync"
	"time"
)

// ErrBookmarksNotPersisted is returned by ToggleBookmark when the toggle applied in memory
// but could not be saved. It is a warning, not a failure of the toggle.
var ErrBookmarksNotPersisted = errors.New("bookmarks were not persisted")

type bookmarkStorage interface {
	Load(ctx context.Context) []models.JobID
	Save(ctx context.Context, ids []models.JobID) error
}

type Options struct {
	ItemsPerPage int
	// CacheTTL <= 0 disables memoization of the filter and sort stages.
	CacheTTL time.Duration
}

// JobBoard owns the mutable query state and the bookmark set.
// Every mutation is applied under one lock, so readers never see a partial update.
type JobBoard struct {
	mu             sync.RWMutex
	store          entityStore
	storage        bookmarkStorage
	bus            EventBus.Bus
	cache          *derivationCache
	state          QueryState
	bookmarks      []models.JobID
	bookmarkSet    map[models.JobID]struct{}
	unsavedChanges bool
}

func NewJobBoard(ctx context.Context, store entityStore, storage bookmarkStorage, bus EventBus.Bus,
	opts Options) (*JobBoard, error) {

	if store == nil {
		return nil, errors.New("entity store is nil")
	}

	if storage == nil {
		return nil, errors.New("bookmark storage is nil")
	}

	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	state := DefaultQueryState()
	if opts.ItemsPerPage > 0 {
		state.ItemsPerPage = opts.ItemsPerPage
	}

	b := &JobBoard{
		store:       store,
		storage:     storage,
		bus:         bus,
		cache:       newDerivationCache(opts.CacheTTL),
		state:       state,
		bookmarkSet: make(map[models.JobID]struct{}),
	}

	for _, id := range storage.Load(ctx) {
		if _, exists := b.bookmarkSet[id]; exists {
			continue
		}
		b.bookmarkSet[id] = struct{}{}
		b.bookmarks = append(b.bookmarks, id)
	}

	log.Infof("job board ready: %d bookmarks restored, %d items per page", len(b.bookmarks), state.ItemsPerPage)
	return b, nil
}

// State returns a copy of the current query state.
func (b *JobBoard) State() QueryState {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.stateLocked()
}

func (b *JobBoard) SearchQuery() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.state.Filters.SearchQuery
}

// SetFilter is the untyped entry point for presentation code. Values of the wrong type or
// outside the field's domain leave the state unchanged and return false.
func (b *JobBoard) SetFilter(field models.FilterField, value any) bool {
	switch field {
	case models.JobTypeField:
		jobType, ok := asEnum(value, models.ToJobType)
		return ok && b.SetJobType(jobType)
	case models.ExperienceLevelField:
		level, ok := asEnum(value, models.ToExperienceLevel)
		return ok && b.SetExperienceLevel(level)
	case models.SkillsField:
		skills, ok := value.([]string)
		return ok && b.SetSkills(skills)
	case models.SalaryRangeField:
		salaryRange, ok := asSalaryRange(value)
		return ok && b.SetSalaryRange(salaryRange.Min(), salaryRange.Max())
	case models.SearchQueryField:
		query, ok := value.(string)
		return ok && b.SetSearchQuery(query)
	default:
		log.Debugf("ignoring unknown filter field %q", field)
		return false
	}
}

func (b *JobBoard) SetJobType(jobType models.JobType) bool {
	if _, err := models.ToJobType(string(jobType)); err != nil {
		log.Debugf("ignoring filter: %v", err)
		return false
	}
	b.updateFilters(func(f *models.Filters) { f.JobType = jobType })
	return true
}

func (b *JobBoard) SetExperienceLevel(level models.ExperienceLevel) bool {
	if _, err := models.ToExperienceLevel(string(level)); err != nil {
		log.Debugf("ignoring filter: %v", err)
		return false
	}
	b.updateFilters(func(f *models.Filters) { f.ExperienceLevel = level })
	return true
}

// SetSkills replaces the selected skills. A job must list all of them to match.
func (b *JobBoard) SetSkills(skills []string) bool {
	selected := lo.Uniq(lo.Compact(skills))
	b.updateFilters(func(f *models.Filters) { f.Skills = selected })
	return true
}

func (b *JobBoard) SetSalaryRange(minSalary, maxSalary int) bool {
	salaryRange := models.SalaryRange{minSalary, maxSalary}
	if !salaryRange.Valid() {
		log.Debugf("ignoring invalid salary range %v", salaryRange)
		return false
	}
	b.updateFilters(func(f *models.Filters) { f.SalaryRange = salaryRange })
	return true
}

func (b *JobBoard) SetSearchQuery(query string) bool {
	b.updateFilters(func(f *models.Filters) { f.SearchQuery = query })
	return true
}

// ClearAllFilters restores default filters and sort order. Page size and view mode are kept.
func (b *JobBoard) ClearAllFilters() {
	b.mu.Lock()
	b.state.Filters = models.DefaultFilters()
	b.state.SortBy = models.SortByDate
	b.state.CurrentPage = 1
	changed := b.queryChangedLocked()
	b.mu.Unlock()

	b.bus.Publish(events.QueryChangedTopic, changed)
}

func (b *JobBoard) SetSortBy(key models.SortKey) bool {
	sortBy, err := models.ToSortKey(string(key))
	if err != nil {
		log.Debugf("ignoring sort: %v", err)
		return false
	}

	b.mu.Lock()
	b.state.SortBy = sortBy
	b.state.CurrentPage = 1
	changed := b.queryChangedLocked()
	b.mu.Unlock()

	b.bus.Publish(events.QueryChangedTopic, changed)
	return true
}

// SetCurrentPage does not clamp to the number of pages; GetPage returns an empty page past the end.
func (b *JobBoard) SetCurrentPage(page int) bool {
	if page < 1 {
		log.Debugf("ignoring page number %d", page)
		return false
	}

	b.mu.Lock()
	b.state.CurrentPage = page
	changed := b.queryChangedLocked()
	b.mu.Unlock()

	b.bus.Publish(events.QueryChangedTopic, changed)
	return true
}

func (b *JobBoard) SetItemsPerPage(itemsPerPage int) bool {
	if itemsPerPage < 1 {
		log.Debugf("ignoring page size %d", itemsPerPage)
		return false
	}

	b.mu.Lock()
	b.state.ItemsPerPage = itemsPerPage
	b.state.CurrentPage = 1
	changed := b.queryChangedLocked()
	b.mu.Unlock()

	b.bus.Publish(events.QueryChangedTopic, changed)
	return true
}

func (b *JobBoard) SetViewMode(mode models.ViewMode) bool {
	viewMode, err := models.ToViewMode(string(mode))
	if err != nil {
		log.Debugf("ignoring view mode: %v", err)
		return false
	}

	b.mu.Lock()
	b.state.ViewMode = viewMode
	changed := b.queryChangedLocked()
	b.mu.Unlock()

	b.bus.Publish(events.QueryChangedTopic, changed)
	return true
}

// ToggleBookmark flips the bookmark for jobID and saves the whole set. Only jobs present in the
// store can be added; a stale id can always be removed. When the save fails the flip stands and
// the returned error wraps ErrBookmarksNotPersisted.
func (b *JobBoard) ToggleBookmark(ctx context.Context, jobID models.JobID) (bool, error) {
	b.mu.Lock()

	_, bookmarked := b.bookmarkSet[jobID]
	if !bookmarked {
		if _, exists := b.store.GetJobByID(jobID); !exists {
			b.mu.Unlock()
			log.Debugf("ignoring bookmark toggle for unknown job %v", jobID)
			return false, nil
		}
	}

	if bookmarked {
		delete(b.bookmarkSet, jobID)
		b.bookmarks = lo.Without(b.bookmarks, jobID)
	} else {
		b.bookmarkSet[jobID] = struct{}{}
		b.bookmarks = append(b.bookmarks, jobID)
	}
	bookmarked = !bookmarked
	total := len(b.bookmarks)

	saveErr := b.storage.Save(ctx, slices.Clone(b.bookmarks))
	b.unsavedChanges = saveErr != nil
	b.mu.Unlock()

	metrics.BookmarkTogglesCounter.Inc()
	b.bus.Publish(events.BookmarkToggledTopic, events.BookmarkToggled{JobID: jobID, Bookmarked: bookmarked, Total: total})

	if saveErr != nil {
		metrics.BookmarkPersistFailuresCounter.Inc()
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeStorage).
			Warnf("bookmark change for job %v kept in memory only: %v", jobID, saveErr)
		b.bus.Publish(events.BookmarkPersistFailedTopic, events.BookmarkPersistFailed{JobID: jobID, Err: saveErr})
		return bookmarked, errors.Wrapf(ErrBookmarksNotPersisted, "%v", saveErr)
	}

	return bookmarked, nil
}

// ResyncBookmarks saves the in-memory set again if the last save failed.
// It reports whether a save was attempted.
func (b *JobBoard) ResyncBookmarks(ctx context.Context) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.unsavedChanges {
		return false, nil
	}

	if err := b.storage.Save(ctx, slices.Clone(b.bookmarks)); err != nil {
		metrics.BookmarkPersistFailuresCounter.Inc()
		return true, errors.Wrapf(ErrBookmarksNotPersisted, "%v", err)
	}
	b.unsavedChanges = false
	return true, nil
}

func (b *JobBoard) HasUnsavedBookmarks() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.unsavedChanges
}

func (b *JobBoard) IsBookmarked(jobID models.JobID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.bookmarkSet[jobID]
	return ok
}

// BookmarkedIDs returns the ids in the order they were bookmarked.
func (b *JobBoard) BookmarkedIDs() []models.JobID {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return slices.Clone(b.bookmarks)
}

func (b *JobBoard) BookmarkCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.bookmarks)
}

// BookmarkedJobs returns the bookmarked postings in store order. Ids of jobs missing from the store are skipped.
func (b *JobBoard) BookmarkedJobs() []models.JobPosting {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return lo.Filter(b.store.GetAllJobs(), func(job models.JobPosting, _ int) bool {
		_, ok := b.bookmarkSet[job.ID]
		return ok
	})
}

// GetFilteredJobs returns the full filtered and sorted list, before pagination.
func (b *JobBoard) GetFilteredJobs() []models.JobPosting {
	state := b.State()
	return slices.Clone(b.cache.filteredAndSorted(b.store, state.Filters, state.SortBy))
}

func (b *JobBoard) GetPage() Page {
	state := b.State()
	jobs := b.cache.filteredAndSorted(b.store, state.Filters, state.SortBy)
	return Paginate(jobs, state.CurrentPage, state.ItemsPerPage)
}

// PageNumbers is the page-link window for the current page.
func (b *JobBoard) PageNumbers() []int {
	page := b.GetPage()
	return PageNumbers(page.CurrentPage, page.TotalPages)
}

func (b *JobBoard) GetCompanyName(id models.CompanyID) string {
	company, ok := b.store.GetCompanyByID(id)
	if !ok || company.Name == "" {
		return UnknownCompanyName
	}
	return company.Name
}

func (b *JobBoard) GetJobByID(id models.JobID) (models.JobPosting, bool) {
	return b.store.GetJobByID(id)
}

func (b *JobBoard) GetCompanyByID(id models.CompanyID) (models.Company, bool) {
	return b.store.GetCompanyByID(id)
}

func (b *JobBoard) AvailableSkills() []string {
	return AvailableSkills(b.store.GetAllJobs())
}

func (b *JobBoard) ActiveFiltersCount() int {
	return b.State().Filters.ActiveCount()
}

// InvalidateCache drops memoized derivations.
func (b *JobBoard) InvalidateCache() {
	b.cache.flush()
}

func (b *JobBoard) updateFilters(update func(f *models.Filters)) {
	b.mu.Lock()
	filters := b.state.Filters.Clone()
	update(&filters)
	b.state.Filters = filters
	b.state.CurrentPage = 1
	changed := b.queryChangedLocked()
	b.mu.Unlock()

	b.bus.Publish(events.QueryChangedTopic, changed)
}

func (b *JobBoard) stateLocked() QueryState {
	state := b.state
	state.Filters = b.state.Filters.Clone()
	return state
}

func (b *JobBoard) queryChangedLocked() events.QueryChanged {
	return events.QueryChanged{
		Filters:      b.state.Filters.Clone(),
		SortBy:       b.state.SortBy,
		Page:         b.state.CurrentPage,
		ItemsPerPage: b.state.ItemsPerPage,
		ViewMode:     b.state.ViewMode,
	}
}

func asEnum[T ~string](value any, parse func(string) (T, error)) (T, bool) {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case T:
		raw = string(v)
	default:
		var zero T
		return zero, false
	}

	parsed, err := parse(raw)
	if err != nil {
		log.Debugf("ignoring filter: %v", err)
		return parsed, false
	}
	return parsed, true
}

func asSalaryRange(value any) (models.SalaryRange, bool) {
	switch v := value.(type) {
	case models.SalaryRange:
		return v, true
	case [2]int:
		return v, true
	case []int:
		if len(v) == 2 {
			return models.SalaryRange{v[0], v[1]}, true
		}
	}
	return models.SalaryRange{}, false
}
