package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Event struct {
	ID         int64           `json:"id"`
	ActorID    string          `json:"actorId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Filter narrows a listing. Empty fields match everything.
type Filter struct {
	Action     string
	EntityType string
	EntityID   string
	ActorID    string
}

func (f Filter) matches(evt Event) bool {
	return (f.Action == "" || f.Action == evt.Action) &&
		(f.EntityType == "" || f.EntityType == evt.EntityType) &&
		(f.EntityID == "" || f.EntityID == evt.EntityID) &&
		(f.ActorID == "" || f.ActorID == evt.ActorID)
}

// Recorder persists audit events. Handlers log and carry on when it fails.
type Recorder interface {
	Record(ctx context.Context, actorID, action, entityType, entityID, requestID, ip string, before, after any) error
}

// Log is a Recorder that can also be read back, newest first.
type Log interface {
	Recorder
	Count(ctx context.Context, filter Filter) (int, error)
	List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error)
}

func newEvent(actorID, action, entityType, entityID, requestID, ip string, before, after any) (Event, error) {
	evt := Event{ActorID: actorID, Action: action, EntityType: entityType, EntityID: entityID, RequestID: requestID, IP: ip}
	if before != nil {
		payload, err := json.Marshal(before)
		if err != nil {
			return Event{}, err
		}
		evt.Before = payload
	}
	if after != nil {
		payload, err := json.Marshal(after)
		if err != nil {
			return Event{}, err
		}
		evt.After = payload
	}
	return evt, nil
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

func (s *Service) Record(ctx context.Context, actorID, action, entityType, entityID, requestID, ip string, before, after any) error {
	evt, err := newEvent(actorID, action, entityType, entityID, requestID, ip, before, after)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO audit_events (actor_id, action, entity_type, entity_id, before_json, after_json, request_id, ip)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, evt.ActorID, evt.Action, evt.EntityType, evt.EntityID, []byte(evt.Before), []byte(evt.After), evt.RequestID, evt.IP)
	return err
}

func (f Filter) whereSQL() (string, []any) {
	var conditions []string
	var args []any
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("action", f.Action)
	add("entity_type", f.EntityType)
	add("entity_id", f.EntityID)
	add("actor_id", f.ActorID)
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (s *Service) Count(ctx context.Context, filter Filter) (int, error) {
	where, args := filter.whereSQL()
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM audit_events"+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return total, nil
}

func (s *Service) List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	where, args := filter.whereSQL()
	details := "NULL::jsonb, NULL::jsonb"
	if includeDetails {
		details = "before_json, after_json"
	}
	query := fmt.Sprintf(`
    SELECT id, actor_id, action, entity_type, entity_id, request_id, ip, %s, created_at
    FROM audit_events%s
    ORDER BY created_at DESC, id DESC
    LIMIT $%d OFFSET $%d
  `, details, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var evt Event
		var before, after []byte
		if err := rows.Scan(&evt.ID, &evt.ActorID, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &evt.IP, &before, &after, &evt.CreatedAt); err != nil {
			return nil, err
		}
		if before != nil {
			evt.Before = before
		}
		if after != nil {
			evt.After = after
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}

// Purge deletes events recorded before cutoff.
func (s *Service) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM audit_events WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge audit events: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Memory keeps events in process; it backs the memory store driver.
type Memory struct {
	mu     sync.Mutex
	nextID int64
	events []Event
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) Record(_ context.Context, actorID, action, entityType, entityID, requestID, ip string, before, after any) error {
	evt, err := newEvent(actorID, action, entityType, entityID, requestID, ip, before, after)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.nextID++
	evt.ID = m.nextID
	evt.CreatedAt = m.now().UTC()
	m.events = append(m.events, evt)
	m.mu.Unlock()
	return nil
}

// Events returns every event in recording order.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

func (m *Memory) Count(_ context.Context, filter Filter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, evt := range m.events {
		if filter.matches(evt) {
			total++
		}
	}
	return total, nil
}

func (m *Memory) List(_ context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, 0)
	skipped := 0
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		evt := m.events[i]
		if !filter.matches(evt) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if !includeDetails {
			evt.Before, evt.After = nil, nil
		}
		out = append(out, evt)
	}
	return out, nil
}

func (m *Memory) Purge(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	var purged int64
	for _, evt := range m.events {
		if evt.CreatedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, evt)
	}
	m.events = kept
	return purged, nil
}
