package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
	"time"
)

type BoardConfig struct {
	DataFile                string        `mapstructure:"data_file"`
	ItemsPerPage            int           `mapstructure:"items_per_page"`
	SearchDebounce          time.Duration `mapstructure:"search_debounce"`
	BookmarksKey            string        `mapstructure:"bookmarks_key"`
	BookmarksResyncSchedule string        `mapstructure:"bookmarks_resync_schedule"`
	CacheTTL                time.Duration `mapstructure:"cache_ttl"`
}

func (config BoardConfig) setDefaults() {
	viper.SetDefault("board.items_per_page", 10)
	viper.SetDefault("board.search_debounce", "300ms")
	viper.SetDefault("board.bookmarks_key", "bookmarkedJobs")
	viper.SetDefault("board.bookmarks_resync_schedule", "@every 1m")
	viper.SetDefault("board.cache_ttl", "5m")
}

func (config BoardConfig) validate() error {
	var errs []error

	if config.DataFile == "" {
		errs = append(errs, fmt.Errorf("missing variable: data_file"))
	}
	if config.ItemsPerPage <= 0 {
		errs = append(errs, fmt.Errorf("items_per_page must be positive, got %d", config.ItemsPerPage))
	}
	if config.SearchDebounce < 0 {
		errs = append(errs, fmt.Errorf("search_debounce must not be negative, got %v", config.SearchDebounce))
	}
	if config.BookmarksKey == "" {
		errs = append(errs, fmt.Errorf("missing variable: bookmarks_key"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config BoardConfig) bindEnvironmentVariables() error {
	var errs []error
	if err := viper.BindEnv("board.data_file", "DATA_FILE"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("board.items_per_page", "ITEMS_PER_PAGE"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("board.search_debounce", "SEARCH_DEBOUNCE"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
