package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/memberportal/internal/core"
	"github.com/JonMunkholm/memberportal/internal/core/forms/formstest"
	"github.com/JonMunkholm/memberportal/internal/memstore"
)

func TestSubmitApplication(t *testing.T) {
	f := newFixture(t)
	ctx := core.ContextWithIPAddress(context.Background(), "203.0.113.9")
	data := formstest.Valid(core.MemberTypeOC)

	_, err := f.svc.SaveDraft(ctx, core.MemberTypeOC, data, 5)
	require.NoError(t, err)

	id, err := f.svc.SubmitApplication(ctx, core.MemberTypeOC, data)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	apps := f.store.Applications()
	require.Len(t, apps, 1)
	app := apps[0]
	assert.Equal(t, id, app.ID)
	assert.Equal(t, core.ApplicationStatusPending, app.Status)
	assert.Equal(t, "บริษัท ตัวอย่าง จำกัด", app.DisplayName)
	assert.Nil(t, app.Data.Documents, "stored data carries no file references")
	assert.Contains(t, app.Documents, core.DocCompanyRegistration)
	assert.Contains(t, app.Documents, core.DocFactoryLicense)
	assert.Contains(t, app.Documents, core.SignatureDocKey)

	assert.Equal(t, 0, f.store.DraftCount(), "draft is removed on submit")

	audit, err := f.svc.GetAuditLog(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, audit)
	assert.Equal(t, core.ActionApplicationSubmit, audit[0].Action)
	assert.Equal(t, core.SeverityHigh, audit[0].Severity)
	assert.Equal(t, "203.0.113.9", audit[0].IPAddress)
	assert.Equal(t, "public", audit[0].Actor)
}

func TestSubmitRejectsInvalidData(t *testing.T) {
	f := newFixture(t)
	data := formstest.Valid(core.MemberTypeAC)
	data.ConsentAccepted = false
	data.Products = nil

	_, err := f.svc.SubmitApplication(context.Background(), core.MemberTypeAC, data)
	var verr *core.ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Contains(t, verr.Fields, "consentAccepted")
	assert.Contains(t, verr.Fields, "products")
	assert.Empty(t, f.store.Applications())
}

func TestSubmitRejectsTakenIdentifier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitApplication(ctx, core.MemberTypeIC, formstest.Valid(core.MemberTypeIC))
	require.NoError(t, err)

	_, err = f.svc.SubmitApplication(ctx, core.MemberTypeIC, formstest.Valid(core.MemberTypeIC))
	assert.True(t, errors.Is(err, core.ErrIdentifierTaken), "pending application blocks resubmission: %v", err)

	f.store.AddMember(memstore.Member{Info: core.MemberInfo{MemberCode: "M0001", TaxID: formstest.TaxID}})
	_, err = f.svc.SubmitApplication(ctx, core.MemberTypeAC, formstest.Valid(core.MemberTypeAC))
	assert.True(t, errors.Is(err, core.ErrIdentifierTaken), "existing member blocks application: %v", err)
}

func TestPendingApplicationBlocksOtherMemberTypes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitApplication(ctx, core.MemberTypeOC, formstest.Valid(core.MemberTypeOC))
	require.NoError(t, err)

	got, err := f.svc.CheckIdentifier(ctx, core.MemberTypeAC, formstest.TaxID)
	require.NoError(t, err)
	assert.Equal(t, core.IdentifierPendingApplication, got.Status)

	_, err = f.svc.SubmitApplication(ctx, core.MemberTypeAC, formstest.Valid(core.MemberTypeAC))
	assert.True(t, errors.Is(err, core.ErrIdentifierTaken), "pending OC application blocks AC: %v", err)
	assert.Len(t, f.store.Applications(), 1)
}
