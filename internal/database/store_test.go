package database

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/memberportal/internal/core"
)

// testStore connects to TEST_DATABASE_URL and resets every table.
// Tests using it are skipped when the variable is unset.
func testStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE application_drafts, applications, address_reference,
		members, guest_messages, admin_users, audit_log CASCADE`)
	require.NoError(t, err)
	return New(pool)
}

func TestDraftLifecycle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	d := core.Draft{
		MemberType: core.MemberTypeOC,
		Key:        "0105551234567",
		Step:       2,
		Data:       &core.ApplicationData{CompanyName: "บริษัท ตัวอย่าง จำกัด", TaxID: "0105551234567"},
		UpdatedAt:  now,
		ExpiresAt:  now.Add(time.Hour),
	}
	require.NoError(t, s.UpsertDraft(ctx, d))

	d.Step = 3
	require.NoError(t, s.UpsertDraft(ctx, d))

	got, err := s.GetDraft(ctx, core.MemberTypeOC, d.Key, now)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Step)
	assert.Equal(t, "บริษัท ตัวอย่าง จำกัด", got.Data.CompanyName)

	list, err := s.ListDrafts(ctx, d.Key, now)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = s.GetDraft(ctx, core.MemberTypeOC, d.Key, now.Add(2*time.Hour))
	assert.True(t, errors.Is(err, core.ErrDraftNotFound))

	n, err := s.PurgeExpiredDrafts(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCreateApplicationRemovesDraft(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	const id = "1101700203451"
	require.NoError(t, s.UpsertDraft(ctx, core.Draft{
		MemberType: core.MemberTypeIC, Key: id, Step: 1,
		Data: &core.ApplicationData{IDCardNumber: id}, UpdatedAt: now, ExpiresAt: now.Add(time.Hour),
	}))

	app := core.Application{
		ID:          uuid.NewString(),
		MemberType:  core.MemberTypeIC,
		Identifier:  id,
		DisplayName: "สมชาย ใจดี",
		Data:        &core.ApplicationData{IDCardNumber: id},
		Status:      core.ApplicationStatusPending,
		SubmittedAt: now,
	}
	require.NoError(t, s.CreateApplication(ctx, app))

	_, err := s.GetDraft(ctx, core.MemberTypeIC, id, now)
	assert.True(t, errors.Is(err, core.ErrDraftNotFound))

	status, err := s.IdentifierStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, core.IdentifierPendingApplication, status)

	app.ID = uuid.NewString()
	err = s.CreateApplication(ctx, app)
	assert.True(t, errors.Is(err, core.ErrIdentifierTaken), "got %v", err)

	app.ID = uuid.NewString()
	app.MemberType = core.MemberTypeAC
	err = s.CreateApplication(ctx, app)
	assert.True(t, errors.Is(err, core.ErrIdentifierTaken), "other member type, got %v", err)
}

func TestAddressSearch(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO address_reference (sub_district, district, province, postal_code, sub_district_en, district_en, province_en)
		VALUES ('คลองเตย', 'คลองเตย', 'กรุงเทพมหานคร', '10110', 'Khlong Toei', 'Khlong Toei', 'Bangkok'),
		       ('สีลม', 'บางรัก', 'กรุงเทพมหานคร', '10500', 'Si Lom', 'Bang Rak', 'Bangkok')`)
	require.NoError(t, err)

	got, err := s.SearchAddressesByPostalCode(ctx, "101", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "คลองเตย", got[0].SubDistrict)

	got, err = s.SearchAddressesByName(ctx, "bang", 10)
	require.NoError(t, err)
	require.Len(t, got, 2, "province_en matches both")

	got, err = s.SearchAddressesByName(ctx, "%", 10)
	require.NoError(t, err)
	assert.Empty(t, got, "wildcards are literal")
}

func TestGuestMessages(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	id := uuid.NewString()
	require.NoError(t, s.CreateMessage(ctx, core.GuestMessage{
		ID: id, Name: "สมศรี", Email: "somsri@example.com", Subject: "Logo",
		Message: "hello", Status: core.MessageUnread, Priority: core.PriorityNormal, CreatedAt: now,
	}))

	require.NoError(t, s.MarkMessageRead(ctx, id, now))
	m, err := s.GetMessage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, core.MessageRead, m.Status)
	require.NotNil(t, m.ReadAt)

	reply := "ขอบคุณ"
	replied := core.MessageReplied
	m, err = s.UpdateMessage(ctx, id, core.MessageUpdate{
		Status: &replied, ReplyMessage: &reply, RepliedBy: "staff@fti.example", At: now,
	})
	require.NoError(t, err)
	assert.Equal(t, core.MessageReplied, m.Status)
	assert.Equal(t, "staff@fti.example", m.RepliedBy)
	assert.Equal(t, core.PriorityNormal, m.Priority, "priority unchanged")

	msgs, total, err := s.ListMessages(ctx, core.MessageFilter{Search: "logo", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, msgs, 1)

	st, err := s.MessageStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.MessageStats{Total: 1, Replied: 1}, st)

	err = s.MarkMessageRead(ctx, uuid.NewString(), now)
	assert.True(t, errors.Is(err, core.ErrMessageNotFound))
}

func TestAdminSessions(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	adminID, err := s.UpsertAdmin(ctx, core.AdminUser{Email: "Staff@FTI.example", PasswordHash: "x", Active: true})
	require.NoError(t, err)

	a, err := s.GetAdminByEmail(ctx, "staff@fti.example")
	require.NoError(t, err)
	assert.Equal(t, adminID, a.ID)

	token := uuid.NewString()
	require.NoError(t, s.CreateSession(ctx, core.AdminSession{
		Token: token, AdminID: adminID, CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}))

	_, admin, err := s.GetSession(ctx, token, now)
	require.NoError(t, err)
	assert.Equal(t, "staff@fti.example", admin.Email)

	_, _, err = s.GetSession(ctx, token, now.Add(2*time.Hour))
	assert.True(t, errors.Is(err, core.ErrSessionExpired))

	_, err = s.GetAdminByEmail(ctx, "nobody@fti.example")
	assert.True(t, errors.Is(err, core.ErrInvalidCredentials))
}
