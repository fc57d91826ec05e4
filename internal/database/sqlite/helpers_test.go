package sqlite

import (
	"time"

	"github.com/JonMunkholm/personsvc/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Import:     config.ImportConfig{MaxConcurrent: 1, MaxWaitTime: time.Second, Timeout: 10 * time.Second},
		Pagination: config.PaginationConfig{DefaultLimit: 20, MaxLimit: 100},
	}
}
