package models

import "time"

// Audit actions recorded on a profile's trail.
const (
	AuditActionCreate     = "CREATE"
	AuditActionUpdate     = "UPDATE"
	AuditActionSoftDelete = "SOFT_DELETE"
	AuditActionHardDelete = "HARD_DELETE"
)

// AuditActorSystem is recorded when no explicit actor initiated the operation.
const AuditActorSystem = "SYSTEM"

// AuditEntry is a single immutable record in a profile's audit trail. Trail
// order is given by the auto-incrementing Seq; entries are never updated,
// reordered, or truncated by normal operations.
type AuditEntry struct {
	Seq         uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	ProfileID   string    `gorm:"index;not null;size:36" json:"-"`
	Action      string    `gorm:"not null;size:32" json:"action"`
	Timestamp   time.Time `gorm:"not null" json:"timestamp"`
	Details     string    `json:"details"`
	PerformedBy string    `gorm:"not null;size:64" json:"performed_by"`
}

// TableName overrides the default table name.
func (AuditEntry) TableName() string { return "audit_entries" }

// NewAuditEntry builds an entry stamped now and attributed to the system actor.
func NewAuditEntry(profileID, action, details string) AuditEntry {
	return AuditEntry{
		ProfileID:   profileID,
		Action:      action,
		Timestamp:   time.Now().UTC(),
		Details:     details,
		PerformedBy: AuditActorSystem,
	}
}
