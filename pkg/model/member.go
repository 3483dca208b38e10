package model

import (
	"strings"
	"time"
)

type MemberRole string

const (
	RoleAgent  MemberRole = "agent"
	RoleClient MemberRole = "client"
)

type MemberStatus string

const (
	MemberActive    MemberStatus = "active"
	MemberPending   MemberStatus = "pending"
	MemberSuspended MemberStatus = "suspended"
)

const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

func IsMemberRole(s string) bool {
	return s == string(RoleAgent) || s == string(RoleClient)
}

func IsMemberStatus(s string) bool {
	switch MemberStatus(s) {
	case MemberActive, MemberPending, MemberSuspended:
		return true
	}
	return false
}

// Member is the identity record an Agent or Client profile hangs off.
type Member struct {
	ID                string       `json:"id,omitempty" bson:"_id,omitempty" gorm:"primaryKey;size:24" validate:"omitempty,mongodb"`
	MemberNo          string       `json:"member_no" bson:"member_no" gorm:"size:36;uniqueIndex;not null" validate:"omitempty,uuid4"`
	Email             string       `json:"email" bson:"email" gorm:"size:254;uniqueIndex;not null" validate:"required,email,max=254"`
	Username          string       `json:"username" bson:"username" gorm:"size:50;uniqueIndex;not null" validate:"required,min=3,max=50"`
	FirstName         string       `json:"first_name,omitempty" bson:"first_name,omitempty" gorm:"size:100" validate:"max=100"`
	LastName          string       `json:"last_name,omitempty" bson:"last_name,omitempty" gorm:"size:100" validate:"max=100"`
	Phone             string       `json:"phone,omitempty" bson:"phone,omitempty" gorm:"size:20" validate:"omitempty,e164"`
	Role              MemberRole   `json:"role" bson:"role" gorm:"size:20;not null;index" validate:"required,member_role"`
	Status            MemberStatus `json:"status" bson:"status" gorm:"size:20;not null" validate:"required,member_status"`
	ProfilePictureURL string       `json:"profile_picture_url,omitempty" bson:"profile_picture_url,omitempty" gorm:"size:2048" validate:"omitempty,url,max=2048"`
	CreatedAt         time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt         *time.Time   `json:"updated_at,omitempty" bson:"updated_at,omitempty" gorm:"autoUpdateTime:false"`
}

// DisplayName prefers the full name and falls back to the username.
func (m *Member) DisplayName() string {
	if full := strings.TrimSpace(m.FirstName + " " + m.LastName); full != "" {
		return full
	}
	return m.Username
}

type Agent struct {
	ID                 string    `json:"id,omitempty" bson:"_id,omitempty" gorm:"primaryKey;size:24" validate:"omitempty,mongodb"`
	MemberID           string    `json:"member_id" bson:"member_id" gorm:"size:24;uniqueIndex;not null"`
	LicenseNumber      string    `json:"license_number" bson:"license_number" gorm:"size:50;uniqueIndex;not null" validate:"required,min=3,max=50"`
	Specialization     string    `json:"specialization,omitempty" bson:"specialization,omitempty" gorm:"size:100" validate:"max=100"`
	VerificationStatus string    `json:"verification_status" bson:"verification_status" gorm:"size:20;not null" validate:"omitempty,oneof=pending verified rejected"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at"`

	Member *Member `json:"member,omitempty" bson:"-" gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" validate:"required"`
}

type Client struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" gorm:"primaryKey;size:24" validate:"omitempty,mongodb"`
	MemberID  string    `json:"member_id" bson:"member_id" gorm:"size:24;uniqueIndex;not null"`
	Address   string    `json:"address,omitempty" bson:"address,omitempty" gorm:"size:200" validate:"max=200"`
	City      string    `json:"city,omitempty" bson:"city,omitempty" gorm:"size:100" validate:"max=100"`
	State     string    `json:"state,omitempty" bson:"state,omitempty" gorm:"size:100" validate:"max=100"`
	ZipCode   string    `json:"zip_code,omitempty" bson:"zip_code,omitempty" gorm:"size:20" validate:"max=20"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	Member *Member `json:"member,omitempty" bson:"-" gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" validate:"required"`
}

type MemberStatusUpdate struct {
	Status string `json:"status" validate:"required,member_status"`
}

type AgentVerification struct {
	VerificationStatus string `json:"verification_status" validate:"required,oneof=pending verified rejected"`
}
