package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tata-ai/tata/pkg/logger"
	"github.com/tata-ai/tata/pkg/notifications"
	"github.com/tata-ai/tata/pkg/silo"
	silosvc "github.com/tata-ai/tata/pkg/silo/service"
)

const (
	snapshotPrefix = "templates-"
	snapshotSuffix = ".json"
	// sortable and unique down to the nanosecond
	snapshotTimeLayout = "20060102T150405.000000000Z"
)

// TemplateExchanger is the part of the template service snapshots need
type TemplateExchanger interface {
	Export(ctx context.Context, format silosvc.Format) ([]byte, error)
	Import(ctx context.Context, content []byte, format silosvc.Format) (*silosvc.ImportResult, error)
}

// BackupService writes template snapshots on a cron schedule
type BackupService struct {
	config          Config
	templates       TemplateExchanger
	notificationSvc notifications.Service
	logger          *logger.Logger
	cron            *cron.Cron
	entryID         cron.EntryID
	mu              sync.Mutex
	now             func() time.Time
}

// NewBackupService creates a snapshot service. The schedule is validated
// here so that a bad expression fails at startup.
func NewBackupService(
	config Config,
	templates TemplateExchanger,
	notificationSvc notifications.Service,
	logger *logger.Logger,
) (*BackupService, error) {
	if config.Dir == "" {
		return nil, fmt.Errorf("snapshot directory is required")
	}
	if config.Retain < 0 {
		return nil, fmt.Errorf("snapshot retain must not be negative")
	}

	c := cron.New(cron.WithSeconds())
	s := &BackupService{
		config:          config,
		templates:       templates,
		notificationSvc: notificationSvc,
		logger:          logger,
		cron:            c,
		now:             time.Now,
	}

	if config.Schedule != "" {
		entryID, err := c.AddFunc(config.Schedule, s.runScheduled)
		if err != nil {
			return nil, fmt.Errorf("invalid snapshot schedule %q: %w", config.Schedule, err)
		}
		s.entryID = entryID
	}
	return s, nil
}

// Start starts the scheduler in its own goroutine
func (s *BackupService) Start() {
	if s.entryID == 0 {
		return
	}
	s.cron.Start()
	s.logger.Info("Scheduled template snapshots",
		"schedule", s.config.Schedule,
		"dir", s.config.Dir,
		"retain", s.config.Retain,
	)
}

// Stop stops the scheduler and waits for a running snapshot
func (s *BackupService) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *BackupService) runScheduled() {
	ctx := context.Background()
	snapshot, err := s.CreateSnapshot(ctx)
	if err != nil {
		s.logger.Error("Scheduled snapshot failed", "error", err)
		data := notifications.SnapshotFailureData{
			Schedule: s.config.Schedule,
			Dir:      s.config.Dir,
			Error:    err.Error(),
			FailedAt: s.now(),
		}
		if err := s.notificationSvc.SendSnapshotFailureNotification(ctx, data); err != nil {
			s.logger.Error("Failed to send snapshot failure notification", "error", err)
		}
		return
	}
	s.logger.Info("Scheduled snapshot written", "name", snapshot.Name, "size", snapshot.Size)
}

// CreateSnapshot exports every template to a new file and prunes old ones
func (s *BackupService) CreateSnapshot(ctx context.Context) (*SnapshotDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := s.templates.Export(ctx, silosvc.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to export templates: %w", err)
	}

	if err := os.MkdirAll(s.config.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	createdAt := s.now().UTC()
	name := snapshotPrefix + createdAt.Format(snapshotTimeLayout) + snapshotSuffix
	path := filepath.Join(s.config.Dir, name)

	tmp, err := os.CreateTemp(s.config.Dir, ".snapshot-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot file: %w", err)
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := s.prune(); err != nil {
		s.logger.Warn("Failed to prune old snapshots", "error", err)
	}

	return &SnapshotDTO{
		Name:      name,
		Size:      int64(len(content)),
		CreatedAt: createdAt,
		Nodes:     documentNodes(content),
	}, nil
}

// ListSnapshots returns snapshots newest first
func (s *BackupService) ListSnapshots(ctx context.Context) ([]*SnapshotDTO, error) {
	names, err := s.snapshotNames()
	if err != nil {
		return nil, err
	}

	snapshots := make([]*SnapshotDTO, 0, len(names))
	for i := len(names) - 1; i >= 0; i-- {
		info, err := os.Stat(filepath.Join(s.config.Dir, names[i]))
		if err != nil {
			continue
		}
		createdAt, _ := parseSnapshotTime(names[i])
		snapshots = append(snapshots, &SnapshotDTO{
			Name:      names[i],
			Size:      info.Size(),
			CreatedAt: createdAt,
		})
	}
	return snapshots, nil
}

// GetSnapshot returns the raw content of a snapshot
func (s *BackupService) GetSnapshot(ctx context.Context, name string) ([]byte, error) {
	if _, ok := parseSnapshotTime(name); !ok || filepath.Base(name) != name {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSnapshotName, name)
	}
	content, err := os.ReadFile(filepath.Join(s.config.Dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, name)
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return content, nil
}

// RestoreSnapshot imports a snapshot, replacing the templates it contains
func (s *BackupService) RestoreSnapshot(ctx context.Context, name string) (*RestoreResult, error) {
	content, err := s.GetSnapshot(ctx, name)
	if err != nil {
		return nil, err
	}
	result, err := s.templates.Import(ctx, content, silosvc.FormatJSON)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Restored template snapshot", "name", name, "nodes", result.Imported)
	return &RestoreResult{Snapshot: name, Restored: result.Imported}, nil
}

// snapshotNames returns snapshot file names oldest first
func (s *BackupService) snapshotNames() ([]string, error) {
	entries, err := os.ReadDir(s.config.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := parseSnapshotTime(e.Name()); ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *BackupService) prune() error {
	if s.config.Retain == 0 {
		return nil
	}
	names, err := s.snapshotNames()
	if err != nil {
		return err
	}
	for len(names) > s.config.Retain {
		if err := os.Remove(filepath.Join(s.config.Dir, names[0])); err != nil {
			return err
		}
		s.logger.Debug("Pruned snapshot", "name", names[0])
		names = names[1:]
	}
	return nil
}

func parseSnapshotTime(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, snapshotSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, snapshotPrefix), snapshotSuffix)
	t, err := time.Parse(snapshotTimeLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func documentNodes(content []byte) []silo.NodeTypeID {
	var doc silosvc.Document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil
	}
	var nodes []silo.NodeTypeID
	for _, id := range silo.NodeTypeIDs() {
		if _, ok := doc.Templates[id]; ok {
			nodes = append(nodes, id)
		}
	}
	return nodes
}
