package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records schema mutations (type and field edits) so that a broken
// catalog can be traced back to the request that broke it.
type AuditLog struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TraceID    string         `gorm:"index:idx_audit_trace;size:36;not null" json:"trace_id"`
	Action     string         `gorm:"size:64;not null" json:"action"`
	TypeID     *int64         `gorm:"index:idx_audit_type" json:"type_id"`
	FieldID    *int64         `json:"field_id"`
	Request    datatypes.JSON `json:"request"`
	Error      string         `gorm:"type:text" json:"error"`
	IP         string         `gorm:"size:45" json:"ip"`
	DurationMs int            `json:"duration_ms"`
	CreatedAt  time.Time      `gorm:"index:idx_audit_created;autoCreateTime:milli" json:"created_at"`
}
