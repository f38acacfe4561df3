package silo

import (
	"encoding/json"
	"fmt"
)

// Typed views over well-known band shapes. The store never enforces them;
// callers decode when they need structured access.

type DatabaseBand struct {
	Type             string `json:"type"`
	Host             string `json:"host"`
	Port             int    `json:"port"`
	Username         string `json:"username"`
	Password         string `json:"password"`
	DatabaseName     string `json:"database_name"`
	Schema           string `json:"schema,omitempty"`
	AutoMigration    bool   `json:"auto_migration"`
	FailoverStrategy string `json:"failover_strategy,omitempty"`
	Encryption       string `json:"encryption,omitempty"`
}

type AuthenticationBand struct {
	Method               string            `json:"method"`
	APIKeys              map[string]string `json:"api_keys,omitempty"`
	AutoRotateKeys       bool              `json:"auto_rotate_keys"`
	RotationIntervalDays int               `json:"rotation_interval_days,omitempty"`
	Encryption           *struct {
		Protocol         string `json:"protocol"`
		EnableMutualAuth bool   `json:"enable_mutual_auth"`
	} `json:"encryption,omitempty"`
}

type CommunicationBand struct {
	Protocol           string `json:"protocol"`
	Fallback           string `json:"fallback,omitempty"`
	HeartbeatInterval  string `json:"heartbeat_interval,omitempty"`
	ReconnectOnFailure bool   `json:"reconnect_on_failure"`
	LoadBalancing      string `json:"load_balancing,omitempty"`
}

type SchemaManagementBand struct {
	Adaptive               bool `json:"adaptive"`
	ValidationBeforeUpdate bool `json:"validation_before_update"`
	SafeMode               *struct {
		Enabled               bool `json:"enabled"`
		RollbackOnFailure     bool `json:"rollback_on_failure"`
		AdminApprovalRequired bool `json:"admin_approval_required"`
	} `json:"safe_mode,omitempty"`
	Versioning *struct {
		Enabled        bool `json:"enabled"`
		RetainVersions int  `json:"retain_versions"`
	} `json:"versioning,omitempty"`
}

type ResourcesBand struct {
	CPU     string `json:"cpu"`
	Memory  string `json:"memory"`
	Storage string `json:"storage"`
	Scaling *struct {
		MinReplicas          int `json:"min_replicas"`
		MaxReplicas          int `json:"max_replicas"`
		TargetCPUUtilization int `json:"target_cpu_utilization"`
	} `json:"scaling,omitempty"`
}

type SecurityBand struct {
	CredentialRotation *struct {
		Enabled          bool   `json:"enabled"`
		RotationInterval int    `json:"rotationInterval"`
		RotationMethod   string `json:"rotationMethod"`
	} `json:"credentialRotation,omitempty"`
	CredentialExpiration *struct {
		Enabled        bool   `json:"enabled"`
		ExpirationDate string `json:"expirationDate"`
	} `json:"credentialExpiration,omitempty"`
	Auditing *struct {
		Enabled   bool `json:"enabled"`
		AuditLogs *struct {
			Endpoint string `json:"endpoint"`
			LogLevel string `json:"logLevel"`
		} `json:"auditLogs,omitempty"`
	} `json:"auditing,omitempty"`
}

// DecodeBand converts opaque band data into one of the typed views
func DecodeBand(data BandData, v any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal band data: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode band data: %w", err)
	}
	return nil
}

// NewBandView returns a pointer to the typed view for a band
func NewBandView(id BandID) any {
	switch id {
	case BandDatabase:
		return &DatabaseBand{}
	case BandAuthentication:
		return &AuthenticationBand{}
	case BandCommunication:
		return &CommunicationBand{}
	case BandSchemaManagement:
		return &SchemaManagementBand{}
	case BandResources:
		return &ResourcesBand{}
	case BandSecurity:
		return &SecurityBand{}
	}
	return nil
}
