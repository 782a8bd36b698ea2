package core_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/memberportal/internal/core"
	"github.com/JonMunkholm/memberportal/internal/memstore"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func seedMember() memstore.Member {
	return memstore.Member{
		Info: core.MemberInfo{
			MemberCode:    "OC-0001",
			CompanyNameTh: "บริษัท ตัวอย่าง จำกัด",
			CompanyNameEn: "Example Co., Ltd.",
			TaxID:         "0105551234567",
			MemberType:    "OC",
			Status:        "active",
			JoinedAt:      time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC),
		},
		Memberships: []core.Membership{
			{MemberGroupCode: "010", GroupName: "กลุ่มอุตสาหกรรมยานยนต์", TypeCode: "11", MemberType: "OC", Status: "active"},
			{MemberGroupCode: "P10", GroupName: "สภาอุตสาหกรรมจังหวัดชลบุรี", TypeCode: "12", MemberType: "OC", Status: "active"},
		},
		Addresses: []core.MemberAddress{
			{AddressType: core.AddressOffice, Address: core.Address{Province: "กรุงเทพมหานคร"}},
			{MemberGroupCode: "010", AddressType: core.AddressContact, Address: core.Address{Province: "สมุทรปราการ"}},
			{MemberGroupCode: "P10", AddressType: core.AddressContact, Address: core.Address{Province: "ชลบุรี"}},
		},
		Representatives: []core.MemberRepresentative{
			{MemberGroupCode: "010", Representative: core.Representative{PersonName: core.PersonName{FirstNameTh: "สมชาย"}}, Order: 1},
			{MemberGroupCode: "P10", Representative: core.Representative{PersonName: core.PersonName{FirstNameTh: "วิชัย"}}, Order: 1},
		},
		Products:    []core.Product{{NameTh: "ชิ้นส่วนยานยนต์"}},
		SocialMedia: []core.SocialLink{{Platform: "facebook", URL: "https://facebook.com/example"}},
	}
}

func TestGetMemberDetail(t *testing.T) {
	f := newFixture(t)
	f.store.AddMember(seedMember())

	d, err := f.svc.GetMemberDetail(context.Background(), "OC-0001")
	require.NoError(t, err)
	assert.Equal(t, "Example Co., Ltd.", d.Info.CompanyNameEn)
	assert.Len(t, d.Memberships, 2)
	assert.Len(t, d.Addresses, 3)
	assert.Len(t, d.Representatives, 2)
	assert.Len(t, d.Products, 1)
	assert.Len(t, d.SocialMedia, 1)
	assert.Nil(t, d.Logo)
	assert.Equal(t, []string{"010", "P10"}, d.GroupCodes())

	_, err = f.svc.GetMemberDetail(context.Background(), "missing")
	assert.True(t, errors.Is(err, core.ErrMemberNotFound), "got %v", err)
}

func TestFilterByGroup(t *testing.T) {
	f := newFixture(t)
	f.store.AddMember(seedMember())
	d, err := f.svc.GetMemberDetail(context.Background(), "OC-0001")
	require.NoError(t, err)

	assert.Same(t, d, d.FilterByGroup(""), "empty code is the identity")

	got := d.FilterByGroup("P10")
	require.Len(t, got.Memberships, 1)
	assert.Equal(t, "P10", got.Memberships[0].MemberGroupCode)
	require.Len(t, got.Addresses, 2, "shared address plus the group's address")
	assert.Equal(t, "กรุงเทพมหานคร", got.Addresses[0].Province)
	assert.Equal(t, "ชลบุรี", got.Addresses[1].Province)
	require.Len(t, got.Representatives, 1)
	assert.Equal(t, "วิชัย", got.Representatives[0].FirstNameTh)
	assert.Len(t, got.Products, 1, "products are not group scoped")

	assert.Len(t, d.Addresses, 3, "original is unchanged")

	none := d.FilterByGroup("999")
	assert.Empty(t, none.Memberships)
	assert.Len(t, none.Addresses, 1)
}

func TestParseTab(t *testing.T) {
	tests := map[string]core.Tab{
		"":                core.TabInfo,
		"info":            core.TabInfo,
		"ADDRESSES":       core.TabAddresses,
		"representatives": core.TabRepresentatives,
		"products":        core.TabProducts,
		"social":          core.TabSocial,
		" logo ":          core.TabLogo,
		"payments":        core.TabInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, core.ParseTab(in), "ParseTab(%q)", in)
	}
}

func TestUpdateSocialMedia(t *testing.T) {
	f := newFixture(t)
	f.store.AddMember(seedMember())
	ctx := context.Background()

	links, err := f.svc.UpdateSocialMedia(ctx, "OC-0001", []core.SocialLink{
		{Platform: " LINE ", URL: "https://line.me/ti/p/example"},
		{Platform: "website", URL: "https://www.example.co.th"},
	})
	require.NoError(t, err)
	assert.Equal(t, "line", links[0].Platform)

	d, err := f.svc.GetMemberDetail(ctx, "OC-0001")
	require.NoError(t, err)
	assert.Equal(t, links, d.SocialMedia)

	tests := []struct {
		name  string
		links []core.SocialLink
	}{
		{"unknown platform", []core.SocialLink{{Platform: "myspace", URL: "https://myspace.com/x"}}},
		{"bad url", []core.SocialLink{{Platform: "facebook", URL: "facebook.com/x"}}},
		{"duplicate", []core.SocialLink{
			{Platform: "x", URL: "https://x.com/example"},
			{Platform: "x", URL: "https://X.com/example"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UpdateSocialMedia(ctx, "OC-0001", tt.links)
			assert.True(t, errors.Is(err, core.ErrInvalidSocialLink), "got %v", err)
		})
	}

	_, err = f.svc.UpdateSocialMedia(ctx, "missing", nil)
	assert.True(t, errors.Is(err, core.ErrMemberNotFound))
}

func TestUploadLogo(t *testing.T) {
	f := newFixture(t)
	f.store.AddMember(seedMember())
	ctx := context.Background()

	info, err := f.svc.UploadLogo(ctx, "OC-0001", bytes.NewReader(pngHeader), "")
	require.NoError(t, err)
	assert.Equal(t, "image/png", info.ContentType)
	assert.Equal(t, int64(len(pngHeader)), info.Size)
	assert.Equal(t, core.LogoDisplayCircle, info.DisplayMode)

	logo, err := f.svc.GetLogo(ctx, "OC-0001")
	require.NoError(t, err)
	assert.Equal(t, pngHeader, logo.Data)

	d, err := f.svc.GetMemberDetail(ctx, "OC-0001")
	require.NoError(t, err)
	require.NotNil(t, d.Logo)
	assert.Equal(t, "image/png", d.Logo.ContentType)
	assert.Equal(t, 0, f.svc.Uploads().ActiveCount(), "slot released")
}

func TestUploadLogoRejects(t *testing.T) {
	f := newFixture(t)
	f.store.AddMember(seedMember())
	ctx := context.Background()

	tests := []struct {
		name string
		data []byte
		mode string
	}{
		{"empty", nil, ""},
		{"too large", append(append([]byte{}, pngHeader...), make([]byte, 2048)...), ""},
		{"not an image", []byte("%PDF-1.7 hello"), ""},
		{"unknown display mode", pngHeader, "hexagon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UploadLogo(ctx, "OC-0001", bytes.NewReader(tt.data), tt.mode)
			assert.True(t, errors.Is(err, core.ErrInvalidLogo), "got %v", err)
		})
	}

	_, err := f.svc.GetLogo(ctx, "OC-0001")
	assert.True(t, errors.Is(err, core.ErrLogoNotFound))

	_, err = f.svc.UploadLogo(ctx, "missing", bytes.NewReader(pngHeader), "")
	assert.True(t, errors.Is(err, core.ErrMemberNotFound))
}

func TestUploadLogoBusy(t *testing.T) {
	f := newFixture(t)
	f.store.AddMember(seedMember())
	svc := core.NewService(f.store, nil, core.Options{LogoMaxConcurrent: 1, LogoMaxWait: 20 * time.Millisecond})

	require.True(t, svc.Uploads().TryAcquire())
	defer svc.Uploads().Release()

	_, err := svc.UploadLogo(context.Background(), "OC-0001", bytes.NewReader(pngHeader), "")
	assert.True(t, errors.Is(err, core.ErrTooManyUploads), "got %v", err)
}
