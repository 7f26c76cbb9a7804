package repositories

import (
	"context"
	"encoding/json"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/logger"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const DefaultBookmarksKey = "bookmarkedJobs"

type dataRepository interface {
	Save(ctx context.Context, id string, data []byte) error
	Load(ctx context.Context, id string) ([]byte, error)
	Remove(ctx context.Context, id string) error
}

// Bookmarks keeps the bookmark id set as a JSON array under a single key.
type Bookmarks struct {
	data dataRepository
	key  string
}

func NewBookmarksRepository(data dataRepository, key string) *Bookmarks {
	if key == "" {
		key = DefaultBookmarksKey
	}
	return &Bookmarks{data: data, key: key}
}

// Load never fails: missing, unreadable or corrupt data all mean "no bookmarks".
// Corrupt data is removed so the next start doesn't trip over it again.
func (b *Bookmarks) Load(ctx context.Context) []models.JobID {
	raw, err := b.data.Load(ctx, b.key)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Warnf("can't read bookmarks under key %s, starting with none: %v", b.key, err)
		return []models.JobID{}
	}
	if raw == nil {
		return []models.JobID{}
	}

	var ids []models.JobID
	if err = json.Unmarshal(raw, &ids); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeStorage).
			Warnf("stored bookmarks under key %s are corrupt, starting with none: %v", b.key, err)
		if err = b.data.Remove(ctx, b.key); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Warnf("can't remove corrupt bookmarks under key %s: %v", b.key, err)
		}
		return []models.JobID{}
	}

	return lo.Uniq(ids)
}

func (b *Bookmarks) Save(ctx context.Context, ids []models.JobID) error {
	if ids == nil {
		ids = []models.JobID{}
	}

	raw, err := json.Marshal(ids)
	if err != nil {
		return errors.Wrap(err, "can't encode bookmarks")
	}

	if err = b.data.Save(ctx, b.key, raw); err != nil {
		return errors.Wrapf(err, "can't save bookmarks under key %s", b.key)
	}
	return nil
}
