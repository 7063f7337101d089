package services

import (
	"fmt"
	"time"

	"apiary_app_go/models"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// DefaultTaskCacheTTL is how long the task catalogue stays cached
const DefaultTaskCacheTTL = 10 * time.Minute

const taskCacheKey = "tasks"

// The catalogue is shared by all beekeepers and changes only when seeded
var taskCache = cache.New(DefaultTaskCacheTTL, 2*DefaultTaskCacheTTL)

// ConfigureTaskCache replaces the task cache with one using ttl
func ConfigureTaskCache(ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTaskCacheTTL
	}
	taskCache = cache.New(ttl, 2*ttl)
}

// InvalidateTaskCache drops the cached catalogue
func InvalidateTaskCache() {
	taskCache.Delete(taskCacheKey)
}

// ListTasks returns the task catalogue ordered by name
func ListTasks(db *gorm.DB) ([]models.Task, error) {
	if cached, found := taskCache.Get(taskCacheKey); found {
		if tasks, ok := cached.([]models.Task); ok {
			return append([]models.Task(nil), tasks...), nil
		}
	}

	tasks := []models.Task{}
	if err := db.Order("name ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	taskCache.Set(taskCacheKey, tasks, cache.DefaultExpiration)
	return append([]models.Task(nil), tasks...), nil
}
