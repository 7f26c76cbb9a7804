package repositories

import (
	"bytes"
	"encoding/json"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/logger"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// jobRecord mirrors models.JobPosting with every field except the id left raw,
// so a badly typed optional field does not cost the whole posting.
type jobRecord struct {
	ID              models.JobID    `json:"id"`
	Title           json.RawMessage `json:"title"`
	CompanyID       json.RawMessage `json:"companyId"`
	Location        json.RawMessage `json:"location"`
	JobType         json.RawMessage `json:"jobType"`
	ExperienceLevel json.RawMessage `json:"experienceLevel"`
	Skills          json.RawMessage `json:"skills"`
	Salary          json.RawMessage `json:"salary"`
	PostedDate      json.RawMessage `json:"postedDate"`
}

type companyRecord struct {
	ID   models.CompanyID `json:"id"`
	Name json.RawMessage  `json:"name"`
}

func decodeJob(raw json.RawMessage) (models.JobPosting, error) {
	var record jobRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return models.JobPosting{}, err
	}

	job := models.JobPosting{ID: record.ID}
	decodeField(record.ID, "title", record.Title, &job.Title)
	decodeField(record.ID, "companyId", record.CompanyID, &job.CompanyID)
	decodeField(record.ID, "location", record.Location, &job.Location)
	decodeField(record.ID, "jobType", record.JobType, &job.JobType)
	decodeField(record.ID, "experienceLevel", record.ExperienceLevel, &job.ExperienceLevel)
	decodeField(record.ID, "postedDate", record.PostedDate, &job.PostedDate)
	job.Skills = decodeSkills(record.ID, record.Skills)
	job.Salary = decodeSalary(record.ID, record.Salary)
	return job, nil
}

func decodeCompany(raw json.RawMessage) (models.Company, error) {
	var record companyRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return models.Company{}, err
	}

	company := models.Company{ID: record.ID}
	decodeField(record.ID, "name", record.Name, &company.Name)
	return company, nil
}

// decodeField leaves dst at its zero value when raw is absent, null or of the wrong type.
func decodeField[T any](id models.JobID, name string, raw json.RawMessage, dst *T) {
	if isEmptyField(raw) {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		var zero T
		*dst = zero
		warnField(id, name, err)
	}
}

// decodeSkills keeps the string entries of an array. Anything else is an empty set.
func decodeSkills(id models.JobID, raw json.RawMessage) []string {
	if isEmptyField(raw) {
		return []string{}
	}

	var values []any
	if err := json.Unmarshal(raw, &values); err != nil {
		warnField(id, "skills", err)
		return []string{}
	}

	skills := lo.FilterMap(values, func(value any, _ int) (string, bool) {
		skill, ok := value.(string)
		return skill, ok && skill != ""
	})
	if len(skills) != len(values) {
		warnField(id, "skills", errors.Errorf("%d entries are not skill names", len(values)-len(skills)))
	}
	return skills
}

// decodeSalary accepts a number, fractional or not, and a number written as a string. Anything else is 0.
func decodeSalary(id models.JobID, raw json.RawMessage) int {
	if isEmptyField(raw) {
		return 0
	}

	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		warnField(id, "salary", err)
		return 0
	}

	if salary, err := number.Int64(); err == nil {
		return int(salary)
	}
	salary, err := number.Float64()
	if err != nil {
		warnField(id, "salary", err)
		return 0
	}
	return int(salary)
}

func isEmptyField(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func warnField(id models.JobID, name string, err error) {
	log.WithField(logger.ErrorTypeField, logger.ErrorTypeData).
		Warnf("record %v: invalid %s ignored: %v", id, name, err)
}
