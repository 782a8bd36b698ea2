package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/memberportal/internal/logging"
)

// MemberDetail is a member record reshaped for the detail viewer.
type MemberDetail struct {
	Info            MemberInfo             `json:"info"`
	Memberships     []Membership           `json:"memberships"`
	Addresses       []MemberAddress        `json:"addresses"`
	Representatives []MemberRepresentative `json:"representatives"`
	Products        []Product              `json:"products"`
	SocialMedia     []SocialLink           `json:"socialMedia"`
	Logo            *LogoInfo              `json:"logo,omitempty"`
}

// GetMemberDetail loads every section of a member concurrently.
// Returns ErrMemberNotFound when the member does not exist.
func (s *Service) GetMemberDetail(ctx context.Context, code string) (*MemberDetail, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrMemberNotFound
	}

	var d MemberDetail
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.Info, err = s.store.GetMemberInfo(gctx, code)
		return err
	})
	g.Go(func() (err error) {
		d.Memberships, err = s.store.ListMemberships(gctx, code)
		return err
	})
	g.Go(func() (err error) {
		d.Addresses, err = s.store.ListMemberAddresses(gctx, code)
		return err
	})
	g.Go(func() (err error) {
		d.Representatives, err = s.store.ListMemberRepresentatives(gctx, code)
		return err
	})
	g.Go(func() (err error) {
		d.Products, err = s.store.ListMemberProducts(gctx, code)
		return err
	})
	g.Go(func() (err error) {
		d.SocialMedia, err = s.store.ListSocialMedia(gctx, code)
		return err
	})
	g.Go(func() (err error) {
		d.Logo, err = s.store.GetLogoInfo(gctx, code)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("member %s: %w", code, err)
	}
	return &d, nil
}

// FilterByGroup returns a copy keeping the memberships, addresses and
// representatives that belong to group or to no group. An empty group
// returns d unchanged.
func (d *MemberDetail) FilterByGroup(group string) *MemberDetail {
	group = strings.TrimSpace(group)
	if group == "" {
		return d
	}

	out := *d
	out.Memberships = nil
	for _, m := range d.Memberships {
		if m.MemberGroupCode == group || m.MemberGroupCode == "" {
			out.Memberships = append(out.Memberships, m)
		}
	}
	out.Addresses = nil
	for _, a := range d.Addresses {
		if a.MemberGroupCode == group || a.MemberGroupCode == "" {
			out.Addresses = append(out.Addresses, a)
		}
	}
	out.Representatives = nil
	for _, r := range d.Representatives {
		if r.MemberGroupCode == group || r.MemberGroupCode == "" {
			out.Representatives = append(out.Representatives, r)
		}
	}
	return &out
}

// GroupCodes returns the distinct member-group codes of d's memberships in order.
func (d *MemberDetail) GroupCodes() []string {
	seen := make(map[string]bool, len(d.Memberships))
	var codes []string
	for _, m := range d.Memberships {
		if m.MemberGroupCode == "" || seen[m.MemberGroupCode] {
			continue
		}
		seen[m.MemberGroupCode] = true
		codes = append(codes, m.MemberGroupCode)
	}
	return codes
}

// Tab is a panel of the member detail viewer.
type Tab string

const (
	TabInfo            Tab = "info"
	TabAddresses       Tab = "addresses"
	TabRepresentatives Tab = "representatives"
	TabProducts        Tab = "products"
	TabSocial          Tab = "social"
	TabLogo            Tab = "logo"
)

// Tabs lists the detail tabs in display order.
var Tabs = []Tab{TabInfo, TabAddresses, TabRepresentatives, TabProducts, TabSocial, TabLogo}

// ParseTab returns the tab named s, or TabInfo when s is unknown.
func ParseTab(s string) Tab {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tabs {
		if t == known {
			return t
		}
	}
	return TabInfo
}

// Label returns the Thai caption of the tab.
func (t Tab) Label() string {
	switch t {
	case TabInfo:
		return "ข้อมูลสมาชิก"
	case TabAddresses:
		return "ที่อยู่"
	case TabRepresentatives:
		return "ผู้แทน"
	case TabProducts:
		return "ผลิตภัณฑ์"
	case TabSocial:
		return "โซเชียลมีเดีย"
	case TabLogo:
		return "โลโก้"
	default:
		return string(t)
	}
}

// SocialPlatforms are the accepted SocialLink platforms.
var SocialPlatforms = []string{"facebook", "line", "instagram", "youtube", "tiktok", "x", "website", "other"}

// MaxSocialLinks bounds a member's social media list.
const MaxSocialLinks = 20

// UpdateSocialMedia replaces the member's social media list.
func (s *Service) UpdateSocialMedia(ctx context.Context, code string, links []SocialLink) ([]SocialLink, error) {
	if len(links) > MaxSocialLinks {
		return nil, fmt.Errorf("%w: at most %d links", ErrInvalidSocialLink, MaxSocialLinks)
	}

	clean := make([]SocialLink, 0, len(links))
	seen := make(map[string]bool, len(links))
	for i, l := range links {
		l.Platform = strings.ToLower(strings.TrimSpace(l.Platform))
		l.URL = strings.TrimSpace(l.URL)
		l.DisplayName = Normalize(l.DisplayName)

		if !isSocialPlatform(l.Platform) {
			return nil, fmt.Errorf("%w: link %d has unknown platform %q", ErrInvalidSocialLink, i, l.Platform)
		}
		if !IsWebURL(l.URL) {
			return nil, fmt.Errorf("%w: link %d has invalid url", ErrInvalidSocialLink, i)
		}
		key := l.Platform + "|" + strings.ToLower(l.URL)
		if seen[key] {
			return nil, fmt.Errorf("%w: link %d is a duplicate", ErrInvalidSocialLink, i)
		}
		seen[key] = true
		clean = append(clean, l)
	}

	if _, err := s.store.GetMemberInfo(ctx, code); err != nil {
		return nil, fmt.Errorf("update social media: %w", err)
	}
	if err := s.store.ReplaceSocialMedia(ctx, code, clean); err != nil {
		return nil, fmt.Errorf("update social media: %w", err)
	}

	s.LogAudit(ctx, ActionSocialMediaUpdate, code, map[string]any{"links": len(clean)})
	return clean, nil
}

func isSocialPlatform(p string) bool {
	for _, known := range SocialPlatforms {
		if p == known {
			return true
		}
	}
	return false
}

// Logo display modes.
const (
	LogoDisplayCircle    = "circle"
	LogoDisplaySquare    = "square"
	LogoDisplayRectangle = "rectangle"
)

var logoContentTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// UploadLogo stores r as the member's logo. Uploads share a bounded number of
// slots; the content type is detected from the bytes, not trusted from the
// client.
func (s *Service) UploadLogo(ctx context.Context, code string, r io.Reader, displayMode string) (LogoInfo, error) {
	if err := s.uploads.Acquire(ctx); err != nil {
		return LogoInfo{}, err
	}
	defer s.uploads.Release()

	switch displayMode {
	case "":
		displayMode = LogoDisplayCircle
	case LogoDisplayCircle, LogoDisplaySquare, LogoDisplayRectangle:
	default:
		return LogoInfo{}, fmt.Errorf("%w: unknown display mode %q", ErrInvalidLogo, displayMode)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, s.opts.LogoMaxSize+1))
	if err != nil {
		return LogoInfo{}, fmt.Errorf("read logo: %w", err)
	}
	if n == 0 {
		return LogoInfo{}, fmt.Errorf("%w: empty file", ErrInvalidLogo)
	}
	if n > s.opts.LogoMaxSize {
		return LogoInfo{}, fmt.Errorf("%w: larger than %d bytes", ErrInvalidLogo, s.opts.LogoMaxSize)
	}

	contentType := http.DetectContentType(buf.Bytes())
	if !logoContentTypes[contentType] {
		return LogoInfo{}, fmt.Errorf("%w: unsupported type %s", ErrInvalidLogo, contentType)
	}

	if _, err := s.store.GetMemberInfo(ctx, code); err != nil {
		return LogoInfo{}, fmt.Errorf("upload logo: %w", err)
	}

	logo := Logo{
		MemberCode: code,
		LogoInfo: LogoInfo{
			ContentType: contentType,
			Size:        n,
			DisplayMode: displayMode,
			UpdatedAt:   s.now(),
		},
		Data: buf.Bytes(),
	}
	if err := s.store.SaveLogo(ctx, logo); err != nil {
		return LogoInfo{}, fmt.Errorf("upload logo: %w", err)
	}

	s.LogAudit(ctx, ActionLogoUpload, code, map[string]any{"contentType": contentType, "size": n})
	logging.WithFields(ctx, "member_code", code, "size", n).Info("logo uploaded")
	return logo.LogoInfo, nil
}

// GetLogo returns the member's stored logo.
func (s *Service) GetLogo(ctx context.Context, code string) (Logo, error) {
	logo, err := s.store.GetLogo(ctx, code)
	if err != nil {
		return Logo{}, fmt.Errorf("get logo %s: %w", code, err)
	}
	return logo, nil
}
