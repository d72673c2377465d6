package audit

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sigat/asset-registry/pkg/models"
)

// Action is the kind of tracked mutation.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Entry is an immutable audit log record. Entries are appended exactly
// once per tracked, actor-attributed mutation and never mutated or
// deleted by the core (the retention worker is the only deleter).
type Entry struct {
	ID            string         `gorm:"primaryKey;column:id;type:varchar(36)"`
	Timestamp     time.Time      `gorm:"column:timestamp;index:idx_audit_table_time,priority:2;index:idx_audit_actor_time,priority:2;autoCreateTime"`
	ActorID       *uint          `gorm:"column:actor_id"`
	ActorUsername string         `gorm:"column:actor_username;size:150;index:idx_audit_actor_time,priority:1;not null"`
	Action        Action         `gorm:"column:action;size:50;not null"`
	TargetTable   string         `gorm:"column:target_table;size:100;index:idx_audit_table_time,priority:1;not null"`
	TargetID      uint           `gorm:"column:target_id;index;not null"`
	Details       models.JSONAny `gorm:"column:details;type:text"`
}

// TableName returns the GORM table name.
func (Entry) TableName() string { return "audit_logs" }

// Store provides append-only persistence for audit entries.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the audit log table.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("auto-migrate audit_logs: %w", err)
	}
	return nil
}

// Append creates a new immutable audit entry.
func (s *Store) Append(e *Entry) error {
	if err := s.db.Create(e).Error; err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// ListFilter narrows audit queries. Zero values mean "no filter".
type ListFilter struct {
	Actor       string
	Action      Action
	TargetTable string
	TargetID    uint
}

// List returns paginated audit entries newest-first. pageToken is an
// opaque (timestamp, id) cursor from a previous page; entries strictly
// before it are returned. The id tiebreak keeps entries sharing a
// timestamp from being skipped across page boundaries.
func (s *Store) List(filter ListFilter, pageSize int, pageToken string) ([]Entry, string, int, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	base := s.db.Model(&Entry{})
	if filter.Actor != "" {
		base = base.Where("actor_username = ?", filter.Actor)
	}
	if filter.Action != "" {
		base = base.Where("action = ?", filter.Action)
	}
	if filter.TargetTable != "" {
		base = base.Where("target_table = ?", filter.TargetTable)
	}
	if filter.TargetID != 0 {
		base = base.Where("target_id = ?", filter.TargetID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, "", 0, fmt.Errorf("count audit entries: %w", err)
	}

	query := base.Session(&gorm.Session{}).Order("timestamp DESC, id DESC").Limit(pageSize + 1)
	if pageToken != "" {
		t, id, err := decodePageToken(pageToken)
		if err != nil {
			return nil, "", 0, err
		}
		query = query.Where("timestamp < ? OR (timestamp = ? AND id < ?)", t, t, id)
	}

	var entries []Entry
	if err := query.Find(&entries).Error; err != nil {
		return nil, "", 0, fmt.Errorf("list audit entries: %w", err)
	}

	var nextToken string
	if len(entries) > pageSize {
		last := entries[pageSize-1]
		nextToken = encodePageToken(last.Timestamp, last.ID)
		entries = entries[:pageSize]
	}

	return entries, nextToken, int(total), nil
}

func encodePageToken(ts time.Time, id string) string {
	return ts.Format(time.RFC3339Nano) + "|" + id
}

func decodePageToken(token string) (time.Time, string, error) {
	raw, id, ok := strings.Cut(token, "|")
	if !ok {
		return time.Time{}, "", fmt.Errorf("invalid page token %q", token)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid page token: %w", err)
	}
	return t, id, nil
}

// GetByID retrieves a single entry. Returns nil, nil if not found.
func (s *Store) GetByID(id string) (*Entry, error) {
	var e Entry
	err := s.db.Where("id = ?", id).First(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get audit entry: %w", err)
	}
	return &e, nil
}

// DeleteOlderThan deletes entries recorded before the cutoff. Returns
// the number of deleted records. Used only by the retention worker.
func (s *Store) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := s.db.Where("timestamp < ?", cutoff).Delete(&Entry{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete old audit entries: %w", result.Error)
	}
	return result.RowsAffected, nil
}
