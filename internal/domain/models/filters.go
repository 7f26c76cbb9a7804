package models

import (
	"fmt"
	"slices"
)

type SortKey string

const (
	SortByDate       SortKey = "date-desc"
	SortBySalaryDesc SortKey = "salary-desc"
	SortBySalaryAsc  SortKey = "salary-asc"
)

func ToSortKey(s string) (SortKey, error) {
	switch s {
	case string(SortByDate), "date":
		return SortByDate, nil
	case string(SortBySalaryDesc):
		return SortBySalaryDesc, nil
	case string(SortBySalaryAsc):
		return SortBySalaryAsc, nil
	default:
		return "", fmt.Errorf("invalid sort key: %q", s)
	}
}

type ViewMode string

const (
	GridView ViewMode = "grid"
	ListView ViewMode = "list"
)

func ToViewMode(s string) (ViewMode, error) {
	switch s {
	case string(GridView):
		return GridView, nil
	case string(ListView):
		return ListView, nil
	default:
		return "", fmt.Errorf("invalid view mode: %q", s)
	}
}

type FilterField string

const (
	JobTypeField         FilterField = "jobType"
	ExperienceLevelField FilterField = "experienceLevel"
	SkillsField          FilterField = "skills"
	SalaryRangeField     FilterField = "salaryRange"
	SearchQueryField     FilterField = "searchQuery"
)

// SalaryRange is inclusive on both ends.
type SalaryRange [2]int

var DefaultSalaryRange = SalaryRange{0, 200000}

func (r SalaryRange) Min() int { return r[0] }
func (r SalaryRange) Max() int { return r[1] }

func (r SalaryRange) Contains(salary int) bool {
	return salary >= r[0] && salary <= r[1]
}

func (r SalaryRange) Valid() bool {
	return r[0] >= 0 && r[0] <= r[1]
}

type Filters struct {
	JobType         JobType         `json:"jobType"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
	Skills          []string        `json:"skills"`
	SalaryRange     SalaryRange     `json:"salaryRange"`
	SearchQuery     string          `json:"searchQuery"`
}

func DefaultFilters() Filters {
	return Filters{
		Skills:      []string{},
		SalaryRange: DefaultSalaryRange,
	}
}

// Clone returns a copy that does not share the skills slice.
func (f Filters) Clone() Filters {
	f.Skills = slices.Clone(f.Skills)
	if f.Skills == nil {
		f.Skills = []string{}
	}
	return f
}

// ActiveCount is the number of fields that differ from their defaults.
func (f Filters) ActiveCount() int {
	count := 0
	if f.JobType != "" {
		count++
	}
	if f.ExperienceLevel != "" {
		count++
	}
	if len(f.Skills) > 0 {
		count++
	}
	if f.SalaryRange != DefaultSalaryRange {
		count++
	}
	if f.SearchQuery != "" {
		count++
	}
	return count
}
