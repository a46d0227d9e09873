package services

import (
	"fmt"
	"log"

	"github.com/localsite/planboard/internal/config"
	"github.com/localsite/planboard/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Upstream     string            `json:"upstream"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck pings the mirror database and the upstream API host.
func HealthCheck(cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		log.Printf("Health check failed - database connection: %v", err)
	} else {
		if err := sqlDB.Ping(); err != nil {
			result.Status = "unhealthy"
			result.Database = "unreachable"
			result.Details["database_ping_error"] = err.Error()
			result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
			log.Printf("Health check failed - database ping: %v", err)
		} else {
			result.Database = "ok"
			result.Details["database_type"] = cfg.DBType
			result.Details["database_name"] = cfg.DBDatabase
		}
	}

	// Check upstream API reachability
	if err := utils.PingUpstream(cfg.UpstreamAPIURL); err != nil {
		result.Status = "unhealthy"
		result.Upstream = "unreachable"
		result.Details["upstream_error"] = err.Error()
		if result.ErrorMessage == "" {
			result.ErrorMessage = fmt.Sprintf("Upstream ping failed: %v", err)
		} else {
			result.ErrorMessage += fmt.Sprintf("; upstream ping failed: %v", err)
		}
		log.Printf("Health check failed - upstream ping: %v", err)
	} else {
		result.Upstream = "ok"
		result.Details["upstream_url"] = cfg.UpstreamAPIURL
	}

	if result.Status == "healthy" {
		log.Println("Health check passed - all systems operational")
	}

	return result
}
