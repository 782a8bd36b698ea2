// Package memstore is an in-memory core.Store used by the service and HTTP tests.
// It mirrors the PostgreSQL store's semantics: upserted drafts, expiry by the
// supplied time, newest-first message lists and sentinel errors.
package memstore

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/JonMunkholm/memberportal/internal/core"
)

type draftKey struct {
	mt  core.MemberType
	key string
}

// Member is a seeded member record.
type Member struct {
	Info            core.MemberInfo
	Memberships     []core.Membership
	Addresses       []core.MemberAddress
	Representatives []core.MemberRepresentative
	Products        []core.Product
	SocialMedia     []core.SocialLink
	Logo            *core.Logo
}

// Store is a concurrency-safe in-memory core.Store.
type Store struct {
	mu sync.Mutex

	drafts       map[draftKey]core.Draft
	applications map[string]core.Application
	addresses    []core.AddressSuggestion
	memberIDs    map[string]bool // tax IDs and ID-card numbers of existing members
	members      map[string]*Member
	messages     map[string]core.GuestMessage
	admins       map[string]core.AdminUser // by e-mail
	sessions     map[string]core.AdminSession
	audit        []core.AuditEntry

	// Err, when set, is returned by every method.
	Err error
}

var _ core.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		drafts:       make(map[draftKey]core.Draft),
		applications: make(map[string]core.Application),
		memberIDs:    make(map[string]bool),
		members:      make(map[string]*Member),
		messages:     make(map[string]core.GuestMessage),
		admins:       make(map[string]core.AdminUser),
		sessions:     make(map[string]core.AdminSession),
	}
}

// AddAddresses seeds the address reference data.
func (s *Store) AddAddresses(a ...core.AddressSuggestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses = append(s.addresses, a...)
}

// AddMember seeds a member. Its tax ID becomes unavailable for new applications.
func (s *Store) AddMember(m Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := m
	s.members[m.Info.MemberCode] = &cp
	if m.Info.TaxID != "" {
		s.memberIDs[m.Info.TaxID] = true
	}
}

// AddAdmin seeds an admin account.
func (s *Store) AddAdmin(a core.AdminUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[strings.ToLower(a.Email)] = a
}

// Applications returns the submitted applications.
func (s *Store) Applications() []core.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Application, 0, len(s.applications))
	for _, a := range s.applications {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out
}

// DraftCount returns the number of stored drafts, expired or not.
func (s *Store) DraftCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

// --- drafts ---

func (s *Store) UpsertDraft(_ context.Context, d core.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	d.Data = roundTrip(d.Data)
	s.drafts[draftKey{d.MemberType, d.Key}] = d
	return nil
}

func (s *Store) GetDraft(_ context.Context, mt core.MemberType, key string, now time.Time) (core.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return core.Draft{}, s.Err
	}
	d, ok := s.drafts[draftKey{mt, key}]
	if !ok || !d.ExpiresAt.After(now) {
		return core.Draft{}, core.ErrDraftNotFound
	}
	d.Data = roundTrip(d.Data)
	return d, nil
}

func (s *Store) DeleteDraft(_ context.Context, mt core.MemberType, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.drafts, draftKey{mt, key})
	return nil
}

func (s *Store) ListDrafts(_ context.Context, key string, now time.Time) ([]core.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []core.Draft
	for k, d := range s.drafts {
		if k.key == key && d.ExpiresAt.After(now) {
			d.Data = roundTrip(d.Data)
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberType < out[j].MemberType })
	return out, nil
}

func (s *Store) PurgeExpiredDrafts(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	var n int64
	for k, d := range s.drafts {
		if !d.ExpiresAt.After(now) {
			delete(s.drafts, k)
			n++
		}
	}
	return n, nil
}

// --- applications and lookups ---

func (s *Store) CreateApplication(_ context.Context, app core.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if app.Status == core.ApplicationStatusPending {
		for _, a := range s.applications {
			if a.Identifier == app.Identifier && a.Status == core.ApplicationStatusPending {
				return core.ErrIdentifierTaken
			}
		}
	}
	app.Data = roundTrip(app.Data)
	s.applications[app.ID] = app
	delete(s.drafts, draftKey{app.MemberType, app.Identifier})
	return nil
}

func (s *Store) SearchAddressesByPostalCode(ctx context.Context, prefix string, limit int) ([]core.AddressSuggestion, error) {
	return s.searchAddresses(ctx, limit, func(a core.AddressSuggestion) bool {
		return strings.HasPrefix(a.PostalCode, prefix)
	})
}

func (s *Store) SearchAddressesByName(ctx context.Context, prefix string, limit int) ([]core.AddressSuggestion, error) {
	prefix = strings.ToLower(prefix)
	return s.searchAddresses(ctx, limit, func(a core.AddressSuggestion) bool {
		for _, v := range []string{a.SubDistrict, a.District, a.Province, a.SubDistrictEn, a.DistrictEn, a.ProvinceEn} {
			if v != "" && strings.HasPrefix(strings.ToLower(v), prefix) {
				return true
			}
		}
		return false
	})
}

func (s *Store) searchAddresses(ctx context.Context, limit int, match func(core.AddressSuggestion) bool) ([]core.AddressSuggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []core.AddressSuggestion
	for _, a := range s.addresses {
		if match(a) {
			out = append(out, a)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *Store) IdentifierStatus(ctx context.Context, id string) (core.IdentifierStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	if s.memberIDs[id] {
		return core.IdentifierAlreadyMember, nil
	}
	for _, a := range s.applications {
		if a.Identifier == id && a.Status == core.ApplicationStatusPending {
			return core.IdentifierPendingApplication, nil
		}
	}
	return core.IdentifierAvailable, nil
}

// --- members ---

func (s *Store) member(code string) (*Member, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	m, ok := s.members[code]
	if !ok {
		return nil, core.ErrMemberNotFound
	}
	return m, nil
}

func (s *Store) GetMemberInfo(_ context.Context, code string) (core.MemberInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.member(code)
	if err != nil {
		return core.MemberInfo{}, err
	}
	return m.Info, nil
}

func (s *Store) ListMemberships(_ context.Context, code string) ([]core.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.members[code]; ok {
		return append([]core.Membership(nil), m.Memberships...), nil
	}
	return nil, s.Err
}

func (s *Store) ListMemberAddresses(_ context.Context, code string) ([]core.MemberAddress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.members[code]; ok {
		return append([]core.MemberAddress(nil), m.Addresses...), nil
	}
	return nil, s.Err
}

func (s *Store) ListMemberRepresentatives(_ context.Context, code string) ([]core.MemberRepresentative, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.members[code]; ok {
		return append([]core.MemberRepresentative(nil), m.Representatives...), nil
	}
	return nil, s.Err
}

func (s *Store) ListMemberProducts(_ context.Context, code string) ([]core.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.members[code]; ok {
		return append([]core.Product(nil), m.Products...), nil
	}
	return nil, s.Err
}

func (s *Store) ListSocialMedia(_ context.Context, code string) ([]core.SocialLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.members[code]; ok {
		return append([]core.SocialLink(nil), m.SocialMedia...), nil
	}
	return nil, s.Err
}

func (s *Store) GetLogoInfo(_ context.Context, code string) (*core.LogoInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.members[code]; ok && m.Logo != nil {
		info := m.Logo.LogoInfo
		return &info, nil
	}
	return nil, s.Err
}

func (s *Store) ReplaceSocialMedia(_ context.Context, code string, links []core.SocialLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.member(code)
	if err != nil {
		return err
	}
	m.SocialMedia = append([]core.SocialLink(nil), links...)
	return nil
}

func (s *Store) SaveLogo(_ context.Context, logo core.Logo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.member(logo.MemberCode)
	if err != nil {
		return err
	}
	logo.Data = append([]byte(nil), logo.Data...)
	m.Logo = &logo
	return nil
}

func (s *Store) GetLogo(_ context.Context, code string) (core.Logo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.member(code)
	if err != nil {
		return core.Logo{}, err
	}
	if m.Logo == nil {
		return core.Logo{}, core.ErrLogoNotFound
	}
	return *m.Logo, nil
}

// --- guest messages ---

func (s *Store) CreateMessage(_ context.Context, m core.GuestMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.messages[m.ID] = m
	return nil
}

func (s *Store) ListMessages(_ context.Context, f core.MessageFilter) ([]core.GuestMessage, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}
	search := strings.ToLower(f.Search)
	var matched []core.GuestMessage
	for _, m := range s.messages {
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		if f.Priority != "" && m.Priority != f.Priority {
			continue
		}
		if search != "" && !containsAny(search, m.Name, m.Email, m.Subject, m.Message) {
			continue
		}
		matched = append(matched, m)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := f.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func containsAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func (s *Store) GetMessage(_ context.Context, id string) (core.GuestMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return core.GuestMessage{}, s.Err
	}
	m, ok := s.messages[id]
	if !ok {
		return core.GuestMessage{}, core.ErrMessageNotFound
	}
	return m, nil
}

func (s *Store) MarkMessageRead(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	m, ok := s.messages[id]
	if !ok {
		return core.ErrMessageNotFound
	}
	if m.Status == core.MessageUnread {
		m.Status = core.MessageRead
		m.ReadAt = &at
		s.messages[id] = m
	}
	return nil
}

func (s *Store) UpdateMessage(_ context.Context, id string, upd core.MessageUpdate) (core.GuestMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return core.GuestMessage{}, s.Err
	}
	m, ok := s.messages[id]
	if !ok {
		return core.GuestMessage{}, core.ErrMessageNotFound
	}
	if upd.Status != nil {
		m.Status = *upd.Status
		if m.Status == core.MessageRead && m.ReadAt == nil {
			at := upd.At
			m.ReadAt = &at
		}
	}
	if upd.Priority != nil {
		m.Priority = *upd.Priority
	}
	if upd.ReplyMessage != nil {
		at := upd.At
		m.ReplyMessage = *upd.ReplyMessage
		m.RepliedBy = upd.RepliedBy
		m.RepliedAt = &at
	}
	s.messages[id] = m
	return m, nil
}

func (s *Store) MessageStats(_ context.Context) (core.MessageStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return core.MessageStats{}, s.Err
	}
	var st core.MessageStats
	for _, m := range s.messages {
		st.Total++
		switch m.Status {
		case core.MessageUnread:
			st.Unread++
		case core.MessageRead:
			st.Read++
		case core.MessageReplied:
			st.Replied++
		case core.MessageClosed:
			st.Closed++
		}
		if m.Priority == core.PriorityHigh && m.Status != core.MessageClosed {
			st.HighPriority++
		}
	}
	return st, nil
}

// --- admins ---

func (s *Store) GetAdminByEmail(_ context.Context, email string) (core.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return core.AdminUser{}, s.Err
	}
	a, ok := s.admins[strings.ToLower(email)]
	if !ok {
		return core.AdminUser{}, core.ErrInvalidCredentials
	}
	return a, nil
}

func (s *Store) CreateSession(_ context.Context, sess core.AdminSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.sessions[sess.Token] = sess
	return nil
}

func (s *Store) GetSession(_ context.Context, token string, now time.Time) (core.AdminSession, core.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return core.AdminSession{}, core.AdminUser{}, s.Err
	}
	sess, ok := s.sessions[token]
	if !ok || !sess.ExpiresAt.After(now) {
		return core.AdminSession{}, core.AdminUser{}, core.ErrSessionExpired
	}
	for _, a := range s.admins {
		if a.ID == sess.AdminID {
			return sess, a, nil
		}
	}
	return core.AdminSession{}, core.AdminUser{}, core.ErrSessionExpired
}

func (s *Store) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.sessions, token)
	return nil
}

func (s *Store) PurgeExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	var n int64
	for k, sess := range s.sessions {
		if !sess.ExpiresAt.After(now) {
			delete(s.sessions, k)
			n++
		}
	}
	return n, nil
}

// --- audit ---

func (s *Store) InsertAudit(_ context.Context, e core.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.audit = append(s.audit, e)
	return nil
}

func (s *Store) ListAudit(_ context.Context, limit int) ([]core.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]core.AuditEntry, 0, limit)
	for i := len(s.audit) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.audit[i])
	}
	return out, nil
}

// roundTrip deep-copies data through JSON, the way the database stores it.
func roundTrip(data *core.ApplicationData) *core.ApplicationData {
	if data == nil {
		return nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return data
	}
	var out core.ApplicationData
	if err := json.Unmarshal(raw, &out); err != nil {
		return data
	}
	return &out
}
