package models

import "time"

// Moderation case statuses. Acknowledgement advances pending to in_review
// only; resolution is terminal.
const (
	ModerationStatusPending   = "pending"
	ModerationStatusInReview  = "in_review"
	ModerationStatusResolved  = "resolved"
	ModerationStatusDismissed = "dismissed"
)

// Acknowledgement records one moderator acknowledging an escalation.
type Acknowledgement struct {
	ActorID        uint      `json:"actorId"`
	Note           string    `json:"note,omitempty"`
	AcknowledgedAt time.Time `json:"acknowledgedAt"`
}

// Resolution records the terminal outcome of a moderation case.
type Resolution struct {
	ActorID    uint      `json:"actorId"`
	Outcome    string    `json:"outcome"`
	Note       string    `json:"note,omitempty"`
	ResolvedAt time.Time `json:"resolvedAt"`
}

// ModerationOperations is the lifecycle-owned section of case metadata.
type ModerationOperations struct {
	Acknowledgements []Acknowledgement `json:"acknowledgements,omitempty"`
	Resolution       *Resolution       `json:"resolution,omitempty"`
}

// ModerationMetadata wraps the operations section so free-text case fields
// managed elsewhere cannot collide with it.
type ModerationMetadata struct {
	Operations ModerationOperations `json:"operations"`
}

// ModerationCase is a safety/escalation record tracked through
// acknowledgement and resolution states.
type ModerationCase struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	CommunityID uint               `gorm:"not null;index" json:"community_id"`
	ReporterID  *uint              `gorm:"index" json:"reporter_id,omitempty"`
	Subject     string             `gorm:"type:varchar(200);not null" json:"subject"`
	Status      string             `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	EscalatedAt *time.Time         `gorm:"type:timestamp;default:null" json:"escalated_at,omitempty"`
	ResolvedAt  *time.Time         `gorm:"type:timestamp;default:null" json:"resolved_at,omitempty"`
	ResolvedBy  *uint              `json:"resolved_by,omitempty"`
	Metadata    ModerationMetadata `gorm:"serializer:json" json:"metadata"`
	CreatedAt   time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}
