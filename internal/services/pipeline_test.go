package services

import (
	"fmt"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/repositories"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

var baseDate = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

func newJob(id string, mutate func(job *models.JobPosting)) models.JobPosting {
	job := models.JobPosting{
		ID:              models.JobID(id),
		Title:           "Frontend Developer",
		CompanyID:       "1",
		Location:        "Berlin",
		JobType:         models.Remote,
		ExperienceLevel: models.Mid,
		Skills:          []string{"React", "Node"},
		Salary:          100000,
		PostedDate:      models.NewPostedDate(baseDate),
	}
	if mutate != nil {
		mutate(&job)
	}
	return job
}

func newStore(jobs ...models.JobPosting) *repositories.Entities {
	return repositories.NewEntities(jobs, []models.Company{
		{ID: "1", Name: "Acme Corp"},
		{ID: "2", Name: "Globex"},
	})
}

func ids(jobs []models.JobPosting) []models.JobID {
	return lo.Map(jobs, func(job models.JobPosting, _ int) models.JobID { return job.ID })
}

func matchingFilters() models.Filters {
	filters := models.DefaultFilters()
	filters.JobType = models.Remote
	filters.ExperienceLevel = models.Mid
	filters.Skills = []string{"React"}
	filters.SalaryRange = models.SalaryRange{90000, 110000}
	filters.SearchQuery = "frontend"
	return filters
}

func Test_FilterJobs_WhenOneCriterionFails_ShouldExcludeJob(t *testing.T) {

	tests := []struct {
		name string
		job  models.JobPosting
	}{
		{"job type", newJob("1", func(j *models.JobPosting) { j.JobType = models.Onsite })},
		{"experience level", newJob("2", func(j *models.JobPosting) { j.ExperienceLevel = models.Senior })},
		{"skills", newJob("3", func(j *models.JobPosting) { j.Skills = []string{"Vue"} })},
		{"salary", newJob("4", func(j *models.JobPosting) { j.Salary = 150000 })},
		{"search", newJob("5", func(j *models.JobPosting) { j.Title = "Backend Engineer" })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(tt.job)
			assert.Empty(t, FilterJobs(store.GetAllJobs(), store, matchingFilters()))
		})
	}

	store := newStore(newJob("ok", nil))
	assert.Equal(t, []models.JobID{"ok"}, ids(FilterJobs(store.GetAllJobs(), store, matchingFilters())))
}

func Test_FilterJobs_WhenDefaultFilters_ShouldKeepEverythingInRange(t *testing.T) {
	store := newStore(newJob("1", nil), newJob("2", nil), newJob("3", func(j *models.JobPosting) { j.Salary = 250000 }))

	result := FilterJobs(store.GetAllJobs(), store, models.DefaultFilters())

	assert.Equal(t, []models.JobID{"1", "2"}, ids(result))
}

func Test_FilterJobs_SkillsUseSubsetSemantics(t *testing.T) {
	reactOnly := newJob("react", func(j *models.JobPosting) { j.Skills = []string{"React"} })
	fullStack := newJob("full", func(j *models.JobPosting) { j.Skills = []string{"SQL", "Node", "React"} })
	store := newStore(reactOnly, fullStack)

	filters := models.DefaultFilters()
	filters.Skills = []string{"React", "Node"}

	assert.Equal(t, []models.JobID{"full"}, ids(FilterJobs(store.GetAllJobs(), store, filters)))
}

func Test_FilterJobs_SalaryRangeIsInclusive(t *testing.T) {
	store := newStore(
		newJob("below", func(j *models.JobPosting) { j.Salary = 49999 }),
		newJob("min", func(j *models.JobPosting) { j.Salary = 50000 }),
		newJob("max", func(j *models.JobPosting) { j.Salary = 80000 }),
		newJob("above", func(j *models.JobPosting) { j.Salary = 80001 }),
	)

	filters := models.DefaultFilters()
	filters.SalaryRange = models.SalaryRange{50000, 80000}

	assert.Equal(t, []models.JobID{"min", "max"}, ids(FilterJobs(store.GetAllJobs(), store, filters)))
}

func Test_FilterJobs_SearchIsCaseInsensitiveAndSafeForMissingCompany(t *testing.T) {
	acme := newJob("acme", func(j *models.JobPosting) { j.Title = "Designer"; j.CompanyID = "1" })
	orphan := newJob("orphan", func(j *models.JobPosting) { j.Title = "Designer"; j.CompanyID = "404" })
	titled := newJob("titled", func(j *models.JobPosting) { j.Title = "ACME Evangelist"; j.CompanyID = "404" })
	store := newStore(acme, orphan, titled)

	filters := models.DefaultFilters()
	filters.SearchQuery = "acme"

	assert.NotPanics(t, func() {
		assert.Equal(t, []models.JobID{"acme", "titled"}, ids(FilterJobs(store.GetAllJobs(), store, filters)))
	})

	filters.SearchQuery = "DESIGN"
	assert.Equal(t, []models.JobID{"acme", "orphan"}, ids(FilterJobs(store.GetAllJobs(), store, filters)))
}

func Test_SortJobs_ByDate_ShouldBeNewestFirstAndStable(t *testing.T) {
	jobs := []models.JobPosting{
		newJob("old", func(j *models.JobPosting) { j.PostedDate = models.NewPostedDate(baseDate.AddDate(0, 0, -5)) }),
		newJob("same-a", nil),
		newJob("new", func(j *models.JobPosting) { j.PostedDate = models.NewPostedDate(baseDate.AddDate(0, 0, 3)) }),
		newJob("same-b", nil),
	}

	SortJobs(jobs, models.SortByDate)

	assert.Equal(t, []models.JobID{"new", "same-a", "same-b", "old"}, ids(jobs))
}

func Test_SortJobs_BySalary(t *testing.T) {
	salaries := map[string]int{"a": 70000, "b": 120000, "c": 70000, "d": 90000}
	build := func() []models.JobPosting {
		return lo.Map([]string{"a", "b", "c", "d"}, func(id string, _ int) models.JobPosting {
			return newJob(id, func(j *models.JobPosting) { j.Salary = salaries[id] })
		})
	}

	desc := build()
	SortJobs(desc, models.SortBySalaryDesc)
	assert.Equal(t, []models.JobID{"b", "d", "a", "c"}, ids(desc))

	asc := build()
	SortJobs(asc, models.SortBySalaryAsc)
	assert.Equal(t, []models.JobID{"a", "c", "d", "b"}, ids(asc))
}

func Test_Paginate_Arithmetic(t *testing.T) {
	jobs := make([]models.JobPosting, 23)
	for i := range jobs {
		jobs[i] = newJob(fmt.Sprint(i), nil)
	}

	first := Paginate(jobs, 1, 10)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, 23, first.TotalMatching)
	assert.Equal(t, 3, first.TotalPages)
	assert.False(t, first.HasPrevious)
	assert.True(t, first.HasNext)

	last := Paginate(jobs, 3, 10)
	assert.Len(t, last.Items, 3)
	assert.Equal(t, models.JobID("20"), last.Items[0].ID)
	assert.False(t, last.HasNext)

	beyond := Paginate(jobs, 4, 10)
	assert.NotNil(t, beyond.Items)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 3, beyond.TotalPages)
	assert.Equal(t, 23, beyond.TotalMatching)
}

func Test_Paginate_WhenNoJobs_ShouldHaveZeroPages(t *testing.T) {
	page := Paginate(nil, 1, 10)

	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 0, page.TotalMatching)
	assert.False(t, page.HasNext)
}

func Test_Derive_ShouldFilterSortAndPaginate(t *testing.T) {
	store := newStore(
		newJob("cheap", func(j *models.JobPosting) { j.Salary = 60000 }),
		newJob("onsite", func(j *models.JobPosting) { j.JobType = models.Onsite; j.Salary = 190000 }),
		newJob("rich", func(j *models.JobPosting) { j.Salary = 150000 }),
	)

	state := DefaultQueryState()
	state.Filters.JobType = models.Remote
	state.SortBy = models.SortBySalaryDesc
	state.ItemsPerPage = 1
	state.CurrentPage = 2

	page := Derive(store, state)

	assert.Equal(t, 2, page.TotalMatching)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, []models.JobID{"cheap"}, ids(page.Items))
}

func Test_AvailableSkills_ShouldBeSortedAndUnique(t *testing.T) {
	jobs := []models.JobPosting{
		newJob("1", func(j *models.JobPosting) { j.Skills = []string{"React", "Node"} }),
		newJob("2", func(j *models.JobPosting) { j.Skills = []string{"Go", "React"} }),
		newJob("3", func(j *models.JobPosting) { j.Skills = nil }),
	}

	assert.Equal(t, []string{"Go", "Node", "React"}, AvailableSkills(jobs))
}
