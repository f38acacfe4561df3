package monitoring

import (
	"time"
)

// ServiceStatus represents the current status of a monitored service
type ServiceStatus string

const (
	// ServiceStatusUnknown is reported until the first check decides
	ServiceStatusUnknown ServiceStatus = "unknown"
	// ServiceStatusUp indicates the service passes its health check
	ServiceStatusUp ServiceStatus = "up"
	// ServiceStatusDown indicates the failure threshold was reached
	ServiceStatusDown ServiceStatus = "down"
)

// target is the runtime state of one TargetConfig
type target struct {
	TargetConfig
	status       ServiceStatus
	since        time.Time
	failureCount int
	last         *ServiceCheck
}

// ServiceCheck represents the result of the latest check of a service
type ServiceCheck struct {
	Service      string        `json:"service"`
	URL          string        `json:"url"`
	Status       ServiceStatus `json:"status"`
	StatusCode   int           `json:"statusCode,omitempty"`
	ResponseTime time.Duration `json:"responseTime" swaggertype:"integer"`
	Error        string        `json:"error,omitempty"`
	FailureCount int           `json:"failureCount"`
	CheckedAt    time.Time     `json:"checkedAt"`
	// Since is when Status last changed
	Since time.Time `json:"since"`
}
