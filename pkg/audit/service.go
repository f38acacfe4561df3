package audit

import (
	"sync"

	"github.com/tata-ai/tata/pkg/logger"
)

// AuditService writes audit events to the log and keeps the most recent
// ones in memory for the audit API
type AuditService struct {
	logger   *logger.Logger
	queue    chan Event
	workers  int
	wg       sync.WaitGroup
	stopOnce sync.Once

	mu     sync.RWMutex
	recent []Event
	retain int
	nextID int64
}

// NewService creates a new audit service and starts its workers
func NewService(config Config, logger *logger.Logger) *AuditService {
	def := DefaultConfig()
	if config.WorkerCount <= 0 {
		config.WorkerCount = def.WorkerCount
	}
	if config.AsyncBufferSize <= 0 {
		config.AsyncBufferSize = def.AsyncBufferSize
	}
	if config.Retain <= 0 {
		config.Retain = def.Retain
	}

	s := &AuditService{
		logger:  logger,
		queue:   make(chan Event, config.AsyncBufferSize),
		workers: config.WorkerCount,
		retain:  config.Retain,
	}

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	return s
}

// LogEvent records an event synchronously and returns it with its id
func (s *AuditService) LogEvent(event Event) Event {
	s.mu.Lock()
	s.nextID++
	event.ID = s.nextID
	s.recent = append(s.recent, event)
	if len(s.recent) > s.retain {
		s.recent = s.recent[len(s.recent)-s.retain:]
	}
	s.mu.Unlock()

	fields := []interface{}{
		"id", event.ID,
		"request_id", event.RequestID.String(),
		"type", event.EventType,
		"outcome", event.EventOutcome,
		"severity", event.Severity,
		"source_ip", event.SourceIP,
		"resource", event.AffectedResource,
	}
	for k, v := range event.Details {
		fields = append(fields, k, v)
	}

	switch event.Severity {
	case SeverityCritical:
		s.logger.Error("Audit event", fields...)
	case SeverityWarning:
		s.logger.Warn("Audit event", fields...)
	default:
		s.logger.Info("Audit event", fields...)
	}
	return event
}

// LogEventAsync queues an event; it is dropped when the queue is full
func (s *AuditService) LogEventAsync(event Event) {
	select {
	case s.queue <- event:
	default:
		s.logger.Warn("Audit queue full, dropping event", "request_id", event.RequestID.String())
	}
}

func (s *AuditService) worker() {
	defer s.wg.Done()
	for event := range s.queue {
		s.LogEvent(event)
	}
}

// Close drains the queue and waits for all workers to finish
func (s *AuditService) Close() {
	s.stopOnce.Do(func() {
		close(s.queue)
	})
	s.wg.Wait()
}

// ListLogs returns a page of recent events, newest first. An empty
// outcome matches every event.
func (s *AuditService) ListLogs(page, pageSize int, outcome EventOutcome) *ListLogsResponse {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > s.retain {
		pageSize = s.retain
	}

	s.mu.RLock()
	matched := make([]Event, 0, len(s.recent))
	for i := len(s.recent) - 1; i >= 0; i-- {
		if outcome == "" || s.recent[i].EventOutcome == outcome {
			matched = append(matched, s.recent[i])
		}
	}
	s.mu.RUnlock()

	// clamp before multiplying so a huge page cannot overflow
	start := len(matched)
	if page-1 <= len(matched)/pageSize {
		start = (page - 1) * pageSize
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	return &ListLogsResponse{
		Items:      matched[start:end],
		TotalCount: len(matched),
		Page:       page,
		PageSize:   pageSize,
	}
}

// GetLog returns a retained event by id
func (s *AuditService) GetLog(id int64) (*Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.recent {
		if s.recent[i].ID == id {
			e := s.recent[i]
			return &e, true
		}
	}
	return nil, false
}
