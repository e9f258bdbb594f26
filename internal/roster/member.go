package roster

import (
	"time"
)

// Member is one row of the members table, keyed by the Discord snowflake id.
// JoinedAt is written once at creation and never overwritten afterwards.
// MessageCount only ever grows.
type Member struct {
	ID       int64 `gorm:"primaryKey"`
	Username string
	JoinedAt time.Time
	// The column tag keeps the name in line with FlagVIP; gorm's
	// naming strategy would otherwise split the field into v_ip
	VIP          bool `gorm:"column:vip"`
	ResumeCV     bool
	Invited      bool
	MessageCount int64
}

func (Member) TableName() string {
	return "members"
}

// Flag names a boolean column of the members table that can be
// toggled by a manager or by a resync pass
type Flag string

const (
	FlagVIP      Flag = "vip"
	FlagResumeCV Flag = "resume_cv"
	FlagInvited  Flag = "invited"
)
