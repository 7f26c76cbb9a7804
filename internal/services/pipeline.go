package services

import (
	"cmp"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/samber/lo"
	"slices"
	"strings"
)

const (
	DefaultItemsPerPage = 10
	UnknownCompanyName  = "Unknown Company"
)

type companyResolver interface {
	GetCompanyByID(id models.CompanyID) (models.Company, bool)
}

type entityStore interface {
	companyResolver
	GetAllJobs() []models.JobPosting
	GetJobByID(id models.JobID) (models.JobPosting, bool)
	Version() string
}

// QueryState is the part of the board state the pipeline reads.
type QueryState struct {
	Filters      models.Filters
	SortBy       models.SortKey
	CurrentPage  int
	ItemsPerPage int
	ViewMode     models.ViewMode
}

func DefaultQueryState() QueryState {
	return QueryState{
		Filters:      models.DefaultFilters(),
		SortBy:       models.SortByDate,
		CurrentPage:  1,
		ItemsPerPage: DefaultItemsPerPage,
		ViewMode:     models.GridView,
	}
}

type Page struct {
	Items         []models.JobPosting
	TotalMatching int
	TotalPages    int
	CurrentPage   int
	ItemsPerPage  int
	HasPrevious   bool
	HasNext       bool
}

// Derive runs filter, sort and paginate over the store for the given state.
func Derive(store entityStore, state QueryState) Page {
	jobs := FilterJobs(store.GetAllJobs(), store, state.Filters)
	SortJobs(jobs, state.SortBy)
	return Paginate(jobs, state.CurrentPage, state.ItemsPerPage)
}

// FilterJobs keeps the jobs that satisfy every criterion in filters. The input is not modified.
func FilterJobs(jobs []models.JobPosting, companies companyResolver, filters models.Filters) []models.JobPosting {
	query := strings.ToLower(filters.SearchQuery)
	return lo.Filter(jobs, func(job models.JobPosting, _ int) bool {
		return matchesFilters(job, companies, filters, query)
	})
}

func matchesFilters(job models.JobPosting, companies companyResolver, filters models.Filters, query string) bool {
	if filters.JobType != "" && job.JobType != filters.JobType {
		return false
	}

	if filters.ExperienceLevel != "" && job.ExperienceLevel != filters.ExperienceLevel {
		return false
	}

	if len(filters.Skills) > 0 && !job.HasSkills(filters.Skills) {
		return false
	}

	if !filters.SalaryRange.Contains(job.Salary) {
		return false
	}

	if query == "" {
		return true
	}

	if strings.Contains(strings.ToLower(job.Title), query) {
		return true
	}
	return strings.Contains(strings.ToLower(companyName(companies, job.CompanyID)), query)
}

// companyName resolves a missing company to "" so that it never matches a search.
func companyName(companies companyResolver, id models.CompanyID) string {
	company, ok := companies.GetCompanyByID(id)
	if !ok {
		return ""
	}
	return company.Name
}

// SortJobs sorts in place. Ties keep their relative order; unknown keys sort by date.
func SortJobs(jobs []models.JobPosting, sortBy models.SortKey) {
	switch sortBy {
	case models.SortBySalaryDesc:
		slices.SortStableFunc(jobs, func(a, b models.JobPosting) int {
			return cmp.Compare(b.Salary, a.Salary)
		})
	case models.SortBySalaryAsc:
		slices.SortStableFunc(jobs, func(a, b models.JobPosting) int {
			return cmp.Compare(a.Salary, b.Salary)
		})
	default:
		slices.SortStableFunc(jobs, func(a, b models.JobPosting) int {
			return b.PostedDate.Compare(a.PostedDate.Time)
		})
	}
}

// Paginate slices the 1-based page out of jobs. A page past the end is empty, not clamped.
func Paginate(jobs []models.JobPosting, currentPage, itemsPerPage int) Page {
	if itemsPerPage < 1 {
		itemsPerPage = DefaultItemsPerPage
	}

	total := len(jobs)
	totalPages := (total + itemsPerPage - 1) / itemsPerPage

	page := Page{
		Items:         []models.JobPosting{},
		TotalMatching: total,
		TotalPages:    totalPages,
		CurrentPage:   currentPage,
		ItemsPerPage:  itemsPerPage,
		HasPrevious:   currentPage > 1,
		HasNext:       currentPage >= 1 && currentPage < totalPages,
	}

	if currentPage < 1 {
		return page
	}

	start := (currentPage - 1) * itemsPerPage
	if start >= total {
		return page
	}

	end := min(start+itemsPerPage, total)
	page.Items = slices.Clone(jobs[start:end])
	return page
}

// AvailableSkills is the sorted union of all skills in jobs.
func AvailableSkills(jobs []models.JobPosting) []string {
	skills := lo.Uniq(lo.FlatMap(jobs, func(job models.JobPosting, _ int) []string {
		return job.Skills
	}))
	slices.Sort(skills)
	return skills
}
