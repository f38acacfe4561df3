package notifications

import "time"

// NotificationType represents different types of notifications
type NotificationType string

const (
	NotificationTypeServiceDown     NotificationType = "SERVICE_DOWN"
	NotificationTypeServiceRecovery NotificationType = "SERVICE_RECOVERY"
	NotificationTypeSnapshotFailure NotificationType = "SNAPSHOT_FAILURE"
	NotificationTypeTest            NotificationType = "TEST"
)

// SMTPConfig represents SMTP delivery configuration
type SMTPConfig struct {
	Enabled  bool     `mapstructure:"enabled" json:"enabled"`
	Host     string   `mapstructure:"host" json:"host" validate:"required_if=Enabled true"`
	Port     int      `mapstructure:"port" json:"port" validate:"min=0,max=65535"`
	Username string   `mapstructure:"username" json:"username"`
	Password string   `mapstructure:"password" json:"-"`
	From     string   `mapstructure:"from" json:"from" validate:"required_if=Enabled true"`
	To       []string `mapstructure:"to" json:"to" validate:"required_if=Enabled true"`
	TLS      bool     `mapstructure:"tls" json:"tls"`
}

// ServiceDownData represents data for service downtime notifications
type ServiceDownData struct {
	Service      string    `json:"service"`
	URL          string    `json:"url"`
	DownSince    time.Time `json:"downSince"`
	FailureCount int       `json:"failureCount"`
	Error        string    `json:"error"`
}

// ServiceRecoveryData represents data for service recovery notifications
type ServiceRecoveryData struct {
	Service      string        `json:"service"`
	URL          string        `json:"url"`
	DownSince    time.Time     `json:"downSince"`
	RecoveredAt  time.Time     `json:"recoveredAt"`
	Downtime     time.Duration `json:"downtime"`
	ResponseTime time.Duration `json:"responseTime"`
}

// SnapshotFailureData represents data for snapshot failure notifications
type SnapshotFailureData struct {
	Schedule string    `json:"schedule"`
	Dir      string    `json:"dir"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failedAt"`
}
