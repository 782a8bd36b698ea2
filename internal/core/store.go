package core

import (
	"context"
	"time"
)

// Store is the persistence the Service depends on.
// Implemented by package database (PostgreSQL) and package memstore (tests).
type Store interface {
	DraftStore
	ApplicationStore
	LookupStore
	MemberStore
	MessageStore
	AdminStore
	AuditStore
}

// Draft is a saved, resumable application without file references.
type Draft struct {
	MemberType MemberType       `json:"memberType"`
	Key        string           `json:"key"`
	Step       int              `json:"step"`
	Data       *ApplicationData `json:"data"`
	UpdatedAt  time.Time        `json:"updatedAt"`
	ExpiresAt  time.Time        `json:"expiresAt"`
}

// DraftStore persists drafts. Implementations return ErrDraftNotFound for
// missing or expired drafts.
type DraftStore interface {
	// UpsertDraft inserts or replaces the draft stored under (MemberType, Key).
	UpsertDraft(ctx context.Context, d Draft) error
	GetDraft(ctx context.Context, mt MemberType, key string, now time.Time) (Draft, error)
	DeleteDraft(ctx context.Context, mt MemberType, key string) error
	ListDrafts(ctx context.Context, key string, now time.Time) ([]Draft, error)
	PurgeExpiredDrafts(ctx context.Context, now time.Time) (int64, error)
}

// Application is a submitted membership application.
type Application struct {
	ID          string
	MemberType  MemberType
	Identifier  string
	DisplayName string
	Data        *ApplicationData // without files
	Documents   map[string]DocumentRef
	Status      string
	SubmittedAt time.Time
}

// ApplicationStore persists submitted applications.
type ApplicationStore interface {
	// CreateApplication inserts app and deletes the draft stored under
	// (app.MemberType, app.Identifier) atomically.
	CreateApplication(ctx context.Context, app Application) error
}

// AddressSuggestion is one address autocomplete result.
type AddressSuggestion struct {
	SubDistrict   string `json:"subDistrict"`
	District      string `json:"district"`
	Province      string `json:"province"`
	PostalCode    string `json:"postalCode"`
	SubDistrictEn string `json:"subDistrictEn,omitempty"`
	DistrictEn    string `json:"districtEn,omitempty"`
	ProvinceEn    string `json:"provinceEn,omitempty"`
}

// IdentifierStatus reports whether a tax ID or ID-card number can apply.
type IdentifierStatus string

const (
	IdentifierAvailable          IdentifierStatus = "available"
	IdentifierAlreadyMember      IdentifierStatus = "already_member"
	IdentifierPendingApplication IdentifierStatus = "pending_application"
)

// LookupStore backs the autocomplete and uniqueness lookups.
type LookupStore interface {
	SearchAddressesByPostalCode(ctx context.Context, prefix string, limit int) ([]AddressSuggestion, error)
	SearchAddressesByName(ctx context.Context, prefix string, limit int) ([]AddressSuggestion, error)
	// IdentifierStatus checks id against every member and every pending
	// application, whatever the member type.
	IdentifierStatus(ctx context.Context, id string) (IdentifierStatus, error)
}

// MemberInfo is the top-level record of an existing member.
type MemberInfo struct {
	MemberCode    string    `json:"memberCode"`
	CompanyNameTh string    `json:"companyNameTh"`
	CompanyNameEn string    `json:"companyNameEn,omitempty"`
	TaxID         string    `json:"taxId,omitempty"`
	MemberType    string    `json:"memberType"`
	Status        string    `json:"status"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Website       string    `json:"website,omitempty"`
	JoinedAt      time.Time `json:"joinedAt"`
}

// Membership is one member-group registration of a member.
type Membership struct {
	MemberGroupCode string `json:"memberGroupCode"`
	GroupName       string `json:"groupName"`
	TypeCode        string `json:"typeCode"`
	MemberType      string `json:"memberType"`
	Status          string `json:"status"`
}

// MemberAddress is an address of an existing member. An empty
// MemberGroupCode means the address applies to every group.
type MemberAddress struct {
	MemberGroupCode string      `json:"memberGroupCode,omitempty"`
	AddressType     AddressType `json:"addressType"`
	Address
}

// MemberRepresentative is a representative of an existing member.
type MemberRepresentative struct {
	MemberGroupCode string `json:"memberGroupCode,omitempty"`
	Representative
	Order int `json:"order"`
}

// SocialLink is one social media account of a member.
type SocialLink struct {
	Platform    string `json:"platform"`
	URL         string `json:"url"`
	DisplayName string `json:"displayName,omitempty"`
}

// LogoInfo describes a stored logo without its bytes.
type LogoInfo struct {
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	DisplayMode string    `json:"displayMode"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Logo is a stored member logo.
type Logo struct {
	MemberCode string
	LogoInfo
	Data []byte
}

// MemberStore reads and updates existing member records.
// GetMemberInfo returns ErrMemberNotFound and GetLogo ErrLogoNotFound.
type MemberStore interface {
	GetMemberInfo(ctx context.Context, code string) (MemberInfo, error)
	ListMemberships(ctx context.Context, code string) ([]Membership, error)
	ListMemberAddresses(ctx context.Context, code string) ([]MemberAddress, error)
	ListMemberRepresentatives(ctx context.Context, code string) ([]MemberRepresentative, error)
	ListMemberProducts(ctx context.Context, code string) ([]Product, error)
	ListSocialMedia(ctx context.Context, code string) ([]SocialLink, error)
	// GetLogoInfo returns nil when the member has no logo.
	GetLogoInfo(ctx context.Context, code string) (*LogoInfo, error)
	ReplaceSocialMedia(ctx context.Context, code string, links []SocialLink) error
	SaveLogo(ctx context.Context, logo Logo) error
	GetLogo(ctx context.Context, code string) (Logo, error)
}

// MessageStatus is the triage state of a guest message.
type MessageStatus string

const (
	MessageUnread  MessageStatus = "unread"
	MessageRead    MessageStatus = "read"
	MessageReplied MessageStatus = "replied"
	MessageClosed  MessageStatus = "closed"
)

// MessagePriority orders guest messages for triage.
type MessagePriority string

const (
	PriorityLow    MessagePriority = "low"
	PriorityNormal MessagePriority = "normal"
	PriorityHigh   MessagePriority = "high"
)

// GuestMessage is a contact-us message left by a visitor.
type GuestMessage struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone,omitempty"`
	Subject      string          `json:"subject"`
	Message      string          `json:"message"`
	Status       MessageStatus   `json:"status"`
	Priority     MessagePriority `json:"priority"`
	ReplyMessage string          `json:"replyMessage,omitempty"`
	RepliedBy    string          `json:"repliedBy,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	ReadAt       *time.Time      `json:"readAt,omitempty"`
	RepliedAt    *time.Time      `json:"repliedAt,omitempty"`
}

// MessageFilter selects a page of guest messages.
type MessageFilter struct {
	Status   MessageStatus
	Priority MessagePriority
	Search   string
	Page     int
	PageSize int
}

// Offset returns the row offset of the filter's page.
func (f MessageFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// MessageUpdate changes a guest message. Nil fields are left unchanged.
type MessageUpdate struct {
	Status       *MessageStatus
	Priority     *MessagePriority
	ReplyMessage *string
	RepliedBy    string
	At           time.Time
}

// MessageStats are the dashboard counters.
type MessageStats struct {
	Total        int64 `json:"total"`
	Unread       int64 `json:"unread"`
	Read         int64 `json:"read"`
	Replied      int64 `json:"replied"`
	Closed       int64 `json:"closed"`
	HighPriority int64 `json:"highPriority"` // high priority and not closed
}

// MessageStore persists guest messages. GetMessage and UpdateMessage return
// ErrMessageNotFound for unknown ids.
type MessageStore interface {
	CreateMessage(ctx context.Context, m GuestMessage) error
	ListMessages(ctx context.Context, f MessageFilter) ([]GuestMessage, int64, error)
	GetMessage(ctx context.Context, id string) (GuestMessage, error)
	// MarkMessageRead sets status read only when the message is unread.
	MarkMessageRead(ctx context.Context, id string, at time.Time) error
	UpdateMessage(ctx context.Context, id string, upd MessageUpdate) (GuestMessage, error)
	MessageStats(ctx context.Context) (MessageStats, error)
}

// AdminUser is a staff account allowed into the dashboard.
type AdminUser struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Active       bool
}

// AdminSession is a signed-in admin.
type AdminSession struct {
	Token     string
	AdminID   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// AdminStore persists admin accounts and sessions. GetAdminByEmail returns
// ErrInvalidCredentials and GetSession ErrSessionExpired when nothing matches.
type AdminStore interface {
	GetAdminByEmail(ctx context.Context, email string) (AdminUser, error)
	CreateSession(ctx context.Context, s AdminSession) error
	GetSession(ctx context.Context, token string, now time.Time) (AdminSession, AdminUser, error)
	DeleteSession(ctx context.Context, token string) error
	PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// AuditStore persists audit entries.
type AuditStore interface {
	InsertAudit(ctx context.Context, e AuditEntry) error
	ListAudit(ctx context.Context, limit int) ([]AuditEntry, error)
}

// Cache stores serialized lookup results. Get reports a miss with ok=false.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NoopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
