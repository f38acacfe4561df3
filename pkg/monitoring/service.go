package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tata-ai/tata/pkg/logger"
	"github.com/tata-ai/tata/pkg/notifications"
)

const maxBodySize = 1 << 20

// Service defines the interface for the monitoring service
type Service interface {
	// Start runs a check round immediately and then every Interval
	Start(ctx context.Context) error
	// Stop stops the check loop and waits for the running round
	Stop() error
	// CheckNow runs one check round and returns the resulting statuses
	CheckNow(ctx context.Context) []*ServiceCheck

	// GetServiceStatus returns the latest check of a service
	GetServiceStatus(name string) (*ServiceCheck, error)
	// GetAllServiceStatuses returns the latest check of every service in config order
	GetAllServiceStatuses() []*ServiceCheck
}

// ErrServiceNotFound is returned for names that are not monitored
var ErrServiceNotFound = fmt.Errorf("service not monitored")

// service implements the Service interface
type service struct {
	config          *Config
	targets         []*target
	mutex           sync.RWMutex
	roundMutex      sync.Mutex
	httpClient      *http.Client
	notificationSvc notifications.Service
	logger          *logger.Logger
	stopChan        chan struct{}
	stopOnce        sync.Once
	loopWaitGroup   sync.WaitGroup
	now             func() time.Time
}

// NewService creates a new monitoring service. An empty service list
// monitors the default stub backends on localhost.
func NewService(config *Config, notificationSvc notifications.Service, logger *logger.Logger) (Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	if len(cfg.Services) == 0 {
		cfg.Services = DefaultTargets("")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid monitoring configuration: %w", err)
	}

	seen := make(map[string]bool, len(cfg.Services))
	targets := make([]*target, 0, len(cfg.Services))
	for _, tc := range cfg.Services {
		if seen[tc.Name] {
			return nil, fmt.Errorf("duplicate monitored service %q", tc.Name)
		}
		seen[tc.Name] = true

		if tc.ExpectedStatus == 0 {
			tc.ExpectedStatus = http.StatusOK
		}
		expected, err := normalizeJSON(tc.ExpectedResponse)
		if err != nil {
			return nil, fmt.Errorf("invalid expected response for %s: %w", tc.Name, err)
		}
		tc.ExpectedResponse = expected
		targets = append(targets, &target{TargetConfig: tc, status: ServiceStatusUnknown})
	}

	return &service{
		config:          &cfg,
		targets:         targets,
		notificationSvc: notificationSvc,
		logger:          logger,
		stopChan:        make(chan struct{}),
		now:             time.Now,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// Start begins monitoring services
func (s *service) Start(ctx context.Context) error {
	s.logger.Info("Starting service monitor",
		"services", len(s.targets),
		"interval", s.config.Interval.String(),
		"workers", s.config.Workers,
	)

	s.loopWaitGroup.Add(1)
	go func() {
		defer s.loopWaitGroup.Done()

		ticker := time.NewTicker(s.config.Interval)
		defer ticker.Stop()

		s.CheckNow(ctx)
		for {
			select {
			case <-s.stopChan:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CheckNow(ctx)
			}
		}
	}()
	return nil
}

// Stop stops monitoring services
func (s *service) Stop() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.loopWaitGroup.Wait()
	return nil
}

// CheckNow dispatches every target to a bounded pool of workers. Rounds
// never overlap, so each service is checked exactly once per round.
func (s *service) CheckNow(ctx context.Context) []*ServiceCheck {
	s.roundMutex.Lock()
	defer s.roundMutex.Unlock()

	jobs := make(chan *target)
	workers := s.config.Workers
	if workers > len(s.targets) {
		workers = len(s.targets)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				s.checkTarget(ctx, t)
			}
		}()
	}

	for _, t := range s.targets {
		jobs <- t
	}
	close(jobs)
	wg.Wait()

	return s.GetAllServiceStatuses()
}

// GetServiceStatus returns the current status of a service
func (s *service) GetServiceStatus(name string) (*ServiceCheck, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, t := range s.targets {
		if t.Name == name {
			return s.snapshot(t), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
}

// GetAllServiceStatuses returns the current status of all services
func (s *service) GetAllServiceStatuses() []*ServiceCheck {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	results := make([]*ServiceCheck, 0, len(s.targets))
	for _, t := range s.targets {
		results = append(results, s.snapshot(t))
	}
	return results
}

// snapshot must be called with s.mutex held
func (s *service) snapshot(t *target) *ServiceCheck {
	if t.last == nil {
		return &ServiceCheck{
			Service: t.Name,
			URL:     t.URL,
			Status:  t.status,
		}
	}
	c := *t.last
	return &c
}

// checkTarget checks a single service and updates its status
func (s *service) checkTarget(ctx context.Context, t *target) {
	checkCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := s.now()
	statusCode, err := s.probe(checkCtx, t.TargetConfig)
	s.handleCheckResult(ctx, t, statusCode, s.now().Sub(start), err)
}

func (s *service) probe(ctx context.Context, tc TargetConfig) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tc.URL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != tc.ExpectedStatus {
		return resp.StatusCode, fmt.Errorf("unexpected status code: %d (expected %d)", resp.StatusCode, tc.ExpectedStatus)
	}
	if len(tc.ExpectedResponse) == 0 {
		return resp.StatusCode, nil
	}

	var actual map[string]any
	if err := json.Unmarshal(body, &actual); err != nil {
		return resp.StatusCode, fmt.Errorf("response is not a JSON object: %w", err)
	}
	for key, want := range tc.ExpectedResponse {
		got, ok := actual[key]
		if !ok {
			return resp.StatusCode, fmt.Errorf("response is missing %q", key)
		}
		if !reflect.DeepEqual(got, want) {
			return resp.StatusCode, fmt.Errorf("unexpected %q: got %v, want %v", key, got, want)
		}
	}
	return resp.StatusCode, nil
}

// handleCheckResult updates the target and notifies on up/down transitions
func (s *service) handleCheckResult(ctx context.Context, t *target, statusCode int, responseTime time.Duration, err error) {
	now := s.now()

	s.mutex.Lock()
	previous := t.status
	downSince := t.since

	if err != nil {
		t.failureCount++
		if t.failureCount >= s.config.FailureThreshold && previous != ServiceStatusDown {
			t.status = ServiceStatusDown
			t.since = now
		}
	} else {
		t.failureCount = 0
		if previous != ServiceStatusUp {
			t.status = ServiceStatusUp
			t.since = now
		}
	}

	check := &ServiceCheck{
		Service:      t.Name,
		URL:          t.URL,
		Status:       t.status,
		StatusCode:   statusCode,
		ResponseTime: responseTime,
		FailureCount: t.failureCount,
		CheckedAt:    now,
		Since:        t.since,
	}
	if err != nil {
		check.Error = err.Error()
	}
	t.last = check
	current := t.status
	failures := t.failureCount
	s.mutex.Unlock()

	switch {
	case current == ServiceStatusDown && previous != ServiceStatusDown:
		data := notifications.ServiceDownData{
			Service:      t.Name,
			URL:          t.URL,
			DownSince:    now,
			FailureCount: failures,
			Error:        check.Error,
		}
		if err := s.notificationSvc.SendServiceDownNotification(ctx, data); err != nil {
			s.logger.Error("Failed to send service down notification", "service", t.Name, "error", err)
		}
	case current == ServiceStatusUp && previous == ServiceStatusDown:
		data := notifications.ServiceRecoveryData{
			Service:      t.Name,
			URL:          t.URL,
			DownSince:    downSince,
			RecoveredAt:  now,
			Downtime:     now.Sub(downSince),
			ResponseTime: responseTime,
		}
		if err := s.notificationSvc.SendServiceRecoveryNotification(ctx, data); err != nil {
			s.logger.Error("Failed to send service recovery notification", "service", t.Name, "error", err)
		}
	case err != nil:
		s.logger.Debug("Service check failed", "service", t.Name, "failures", failures, "error", err)
	}
}

// normalizeJSON round-trips v through encoding/json so that configured
// values compare equal to decoded response values
func normalizeJSON(v map[string]any) (map[string]any, error) {
	if len(v) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
