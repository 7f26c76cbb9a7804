package services

import (
	"context"
	"github.com/maxaizer/job-board/internal/logger"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type bookmarkResyncer interface {
	ResyncBookmarks(ctx context.Context) (bool, error)
}

// BookmarksResync retries saving bookmarks that are only held in memory after a failed save.
type BookmarksResync struct {
	board bookmarkResyncer
	cron  *cron.Cron
}

func NewBookmarksResync(board bookmarkResyncer, schedule string) (*BookmarksResync, error) {

	if schedule == "" {
		return nil, errors.New("resync schedule must not be empty")
	}

	r := &BookmarksResync{
		board: board,
		cron:  cron.New(),
	}

	_, err := r.cron.AddFunc(schedule, r.resync)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid resync schedule %q", schedule)
	}

	r.cron.Start()
	log.Infof("bookmarks resync started, schedule: %s", schedule)
	return r, nil
}

func (r *BookmarksResync) Stop() {
	<-r.cron.Stop().Done()
}

func (r *BookmarksResync) resync() {
	attempted, err := r.board.ResyncBookmarks(context.Background())
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeStorage).Warnf("bookmarks are still not persisted: %v", err)
	} else if attempted {
		log.Info("bookmarks persisted after earlier failure")
	}
}
