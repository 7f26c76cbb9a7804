package repositories

import (
	"encoding/json"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/logger"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"io"
	"os"
)

type document struct {
	Jobs      []json.RawMessage `json:"jobs"`
	Companies []json.RawMessage `json:"companies"`
}

// Entities is the read-only source collection of postings and companies.
// It is never mutated after construction.
type Entities struct {
	jobs      []models.JobPosting
	jobsByID  map[models.JobID]int
	companies map[models.CompanyID]models.Company
}

func NewEntities(jobs []models.JobPosting, companies []models.Company) *Entities {
	e := &Entities{
		jobs:      make([]models.JobPosting, 0, len(jobs)),
		jobsByID:  make(map[models.JobID]int, len(jobs)),
		companies: make(map[models.CompanyID]models.Company, len(companies)),
	}

	for _, job := range jobs {
		if job.Skills == nil {
			job.Skills = []string{}
		}
		if _, exists := e.jobsByID[job.ID]; exists {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeData).Warnf("duplicate job id %v ignored", job.ID)
			continue
		}
		e.jobsByID[job.ID] = len(e.jobs)
		e.jobs = append(e.jobs, job)
	}

	for _, company := range companies {
		if _, exists := e.companies[company.ID]; !exists {
			e.companies[company.ID] = company
		}
	}
	return e
}

func LoadEntitiesFile(path string) (*Entities, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open entities file %s", path)
	}
	defer file.Close()

	return LoadEntities(file)
}

// LoadEntities decodes a document with top-level "jobs" and "companies" arrays.
// Records without a usable id are skipped with a warning. Badly typed optional fields
// fall back to their zero values and the record is kept.
func LoadEntities(r io.Reader) (*Entities, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("error decoding entities document: %w", err)
	}

	validate := validator.New()

	jobs := decodeRecords(doc.Jobs, validate, "job", decodeJob)
	companies := decodeRecords(doc.Companies, validate, "company", decodeCompany)

	log.Infof("loaded %d of %d jobs and %d of %d companies", len(jobs), len(doc.Jobs), len(companies), len(doc.Companies))
	return NewEntities(jobs, companies), nil
}

func decodeRecords[T any](raw []json.RawMessage, validate *validator.Validate, kind string,
	decode func(json.RawMessage) (T, error)) []T {

	records := make([]T, 0, len(raw))
	for i, item := range raw {
		record, err := decode(item)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeData).
				Warnf("skipping %s #%d: %v", kind, i, err)
			continue
		}
		if err = validate.Struct(record); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeData).
				Warnf("skipping %s #%d: %v", kind, i, err)
			continue
		}
		records = append(records, record)
	}
	return records
}

// GetAllJobs returns the same backing slice for the whole process lifetime. Callers must not modify it.
func (e *Entities) GetAllJobs() []models.JobPosting {
	return e.jobs
}

func (e *Entities) GetJobByID(id models.JobID) (models.JobPosting, bool) {
	i, ok := e.jobsByID[id]
	if !ok {
		return models.JobPosting{}, false
	}
	return e.jobs[i], true
}

func (e *Entities) GetCompanyByID(id models.CompanyID) (models.Company, bool) {
	company, ok := e.companies[id]
	return company, ok
}

// Version identifies the collection snapshot in derivation cache keys.
func (e *Entities) Version() string {
	return fmt.Sprintf("%d/%d", len(e.jobs), len(e.companies))
}
