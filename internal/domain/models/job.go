package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/samber/lo"
	"strconv"
	"strings"
	"time"
)

type JobType string

const (
	Remote JobType = "Remote"
	Hybrid JobType = "Hybrid"
	Onsite JobType = "Onsite"
)

// ToJobType accepts the empty string as "any job type".
func ToJobType(s string) (JobType, error) {
	switch s {
	case "", string(Remote), string(Hybrid), string(Onsite):
		return JobType(s), nil
	default:
		return "", fmt.Errorf("invalid job type: %q", s)
	}
}

type ExperienceLevel string

const (
	Internship ExperienceLevel = "Internship"
	Junior     ExperienceLevel = "Junior"
	Mid        ExperienceLevel = "Mid"
	Senior     ExperienceLevel = "Senior"
)

func ToExperienceLevel(s string) (ExperienceLevel, error) {
	switch s {
	case "", string(Internship), string(Junior), string(Mid), string(Senior):
		return ExperienceLevel(s), nil
	default:
		return "", fmt.Errorf("invalid experience level: %q", s)
	}
}

// JobID identifies a posting. Source documents may carry it as a string or a number.
type JobID string

func (id *JobID) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*id = JobID(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("id must be a string or a number, got %s", string(b))
	}
	*id = JobID(num.String())
	return nil
}

type CompanyID = JobID

type Company struct {
	ID   CompanyID `json:"id" validate:"required"`
	Name string    `json:"name"`
}

type JobPosting struct {
	ID              JobID           `json:"id" validate:"required"`
	Title           string          `json:"title"`
	CompanyID       CompanyID       `json:"companyId"`
	Location        string          `json:"location"`
	JobType         JobType         `json:"jobType"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
	Skills          []string        `json:"skills"`
	Salary          int             `json:"salary"`
	PostedDate      PostedDate      `json:"postedDate"`
}

// HasSkills reports whether every required skill is listed on the posting.
func (j JobPosting) HasSkills(required []string) bool {
	return lo.Every(j.Skills, required)
}

var postedDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// PostedDate parses both plain dates and full timestamps. A missing value stays zero.
type PostedDate struct {
	time.Time
}

func NewPostedDate(t time.Time) PostedDate {
	return PostedDate{Time: t}
}

func (d *PostedDate) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		if unixMillis, numErr := strconv.ParseInt(string(b), 10, 64); numErr == nil {
			d.Time = time.UnixMilli(unixMillis).UTC()
			return nil
		}
		return err
	}

	str = strings.TrimSpace(str)
	if str == "" {
		return nil
	}

	var errs []error
	for _, layout := range postedDateLayouts {
		t, err := time.Parse(layout, str)
		if err == nil {
			d.Time = t
			return nil
		}
		errs = append(errs, err)
	}
	return fmt.Errorf("parsing posted date %s: %w", str, errors.Join(errs...))
}

func (d PostedDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Format(time.RFC3339))
}
