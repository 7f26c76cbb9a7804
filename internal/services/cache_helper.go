package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/metrics"
	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"time"
)

// derivationCache memoizes the filtered and sorted list per (store version, filters, sort key).
// Pagination is cheap and not cached.
type derivationCache struct {
	cache *gocache.Cache
}

func newDerivationCache(ttl time.Duration) *derivationCache {
	if ttl <= 0 {
		return nil
	}
	return &derivationCache{cache: gocache.New(ttl, 2*ttl)}
}

func (h *derivationCache) filteredAndSorted(store entityStore, filters models.Filters, sortBy models.SortKey) []models.JobPosting {
	if h == nil {
		return filterAndSort(store, filters, sortBy)
	}

	cacheID, err := createDerivationCacheID(store.Version(), filters, sortBy)
	if err != nil {
		log.Errorf("failed to build derivation cache key: %v", err)
		return filterAndSort(store, filters, sortBy)
	}

	if cached, found := h.cache.Get(cacheID); found {
		metrics.DerivationCacheCounter.WithLabelValues("hit").Inc()
		return cached.([]models.JobPosting)
	}

	metrics.DerivationCacheCounter.WithLabelValues("miss").Inc()
	jobs := filterAndSort(store, filters, sortBy)
	h.cache.Set(cacheID, jobs, gocache.DefaultExpiration)
	return jobs
}

func (h *derivationCache) flush() {
	if h != nil {
		h.cache.Flush()
	}
}

func filterAndSort(store entityStore, filters models.Filters, sortBy models.SortKey) []models.JobPosting {
	start := time.Now()
	jobs := FilterJobs(store.GetAllJobs(), store, filters)
	SortJobs(jobs, sortBy)
	metrics.DerivationDuration.Observe(time.Since(start).Seconds())
	return jobs
}

func createDerivationCacheID(version string, filters models.Filters, sortBy models.SortKey) (string, error) {
	raw, err := json.Marshal(struct {
		Version string
		Filters models.Filters
		SortBy  models.SortKey
	}{version, filters, sortBy})
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(raw)
	return hex.EncodeToString(hash[:]), nil
}
