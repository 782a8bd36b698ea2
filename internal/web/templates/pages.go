package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/memberportal/internal/core"
)

// LandingData feeds the landing page.
type LandingData struct {
	Forms   []core.FormDefinition
	Contact core.NewGuestMessage
	Errors  core.ErrorMap
	Sent    bool
}

// Landing lists the membership types and carries the member search and the
// contact form.
func Landing(d LandingData) templ.Component {
	body := component(func(ctx context.Context, w *htmlWriter) {
		w.raw(`<section class="card"><h1>สมัครสมาชิก</h1><ul>`)
		for _, def := range d.Forms {
			w.raw(`<li><strong>`)
			w.text(string(def.Type))
			w.raw(`</strong> `)
			w.text(def.Label)
			w.raw(`<ol class="muted">`)
			for _, title := range def.StepTitles() {
				w.raw(`<li>`)
				w.text(title)
				w.raw(`</li>`)
			}
			w.raw(`</ol></li>`)
		}
		w.raw(`</ul></section>`)

		w.raw(`<section class="card"><h2>ค้นหาข้อมูลสมาชิก</h2>`)
		w.raw(`<form method="get" action="/members"><input name="code" placeholder="รหัสสมาชิก" required> <button>ค้นหา</button></form></section>`)

		w.raw(`<section class="card" id="contact"><h2>ติดต่อเรา</h2>`)
		if d.Sent {
			w.raw(`<p>ได้รับข้อความของท่านแล้ว เจ้าหน้าที่จะติดต่อกลับโดยเร็ว</p>`)
		}
		w.raw(`<form method="post" action="/api/contact">`)
		contactField(w, "name", "ชื่อ-นามสกุล", d.Contact.Name, d.Errors)
		contactField(w, "email", "อีเมล", d.Contact.Email, d.Errors)
		contactField(w, "phone", "เบอร์โทรศัพท์", d.Contact.Phone, d.Errors)
		contactField(w, "subject", "หัวข้อ", d.Contact.Subject, d.Errors)
		w.raw(`<p><label>ข้อความ<br><textarea name="message" rows="5" cols="60">`)
		w.text(d.Contact.Message)
		w.raw(`</textarea></label>`)
		fieldError(w, d.Errors, "message")
		w.raw(`</p><button>ส่งข้อความ</button></form></section>`)
	})
	return Layout("หน้าหลัก", body)
}

func contactField(w *htmlWriter, name, label, value string, errs core.ErrorMap) {
	w.raw(`<p><label>`)
	w.text(label)
	w.raw(`<br><input name="`)
	w.raw(name)
	w.raw(`" value="`)
	w.text(value)
	w.raw(`"></label>`)
	fieldError(w, errs, name)
	w.raw(`</p>`)
}

func fieldError(w *htmlWriter, errs core.ErrorMap, name string) {
	if msg, ok := errs[name]; ok {
		w.raw(`<div class="field-error">`)
		w.text(msg)
		w.raw(`</div>`)
	}
}

// MemberPageData feeds the member detail viewer.
type MemberPageData struct {
	Detail *core.MemberDetail
	Tab    core.Tab
	Group  string
	Groups []string
}

// MemberPage renders one member with a tab bar and a member-group selector.
func MemberPage(d MemberPageData) templ.Component {
	info := d.Detail.Info
	base := "/members/" + info.MemberCode

	body := component(func(ctx context.Context, w *htmlWriter) {
		w.raw(`<section class="card"><h1>`)
		w.text(info.CompanyNameTh)
		w.raw(`</h1>`)
		if info.CompanyNameEn != "" {
			w.raw(`<div>`)
			w.text(info.CompanyNameEn)
			w.raw(`</div>`)
		}
		w.raw(`<div class="muted">รหัสสมาชิก `)
		w.text(info.MemberCode)
		w.raw(` · `)
		w.text(info.Status)
		w.raw(`</div>`)

		if len(d.Groups) > 1 {
			w.raw(`<p>กลุ่มสมาชิก: `)
			groupLink(w, base, string(d.Tab), "", "ทั้งหมด", d.Group == "")
			for _, g := range d.Groups {
				w.raw(` `)
				groupLink(w, base, string(d.Tab), g, g, d.Group == g)
			}
			w.raw(`</p>`)
		}
		w.raw(`</section>`)

		w.raw(`<nav class="tabs">`)
		for _, t := range core.Tabs {
			w.raw(`<a href="`)
			w.href(withQuery(base, "tab", string(t), "group", d.Group))
			w.raw(`"`)
			if t == d.Tab {
				w.raw(` class="active"`)
			}
			w.raw(`>`)
			w.text(t.Label())
			w.raw(`</a>`)
		}
		w.raw(`</nav><section class="card">`)

		switch d.Tab {
		case core.TabAddresses:
			memberAddresses(w, d.Detail.Addresses)
		case core.TabRepresentatives:
			memberRepresentatives(w, d.Detail.Representatives)
		case core.TabProducts:
			memberProducts(w, d.Detail.Products)
		case core.TabSocial:
			memberSocial(w, d.Detail.SocialMedia)
		case core.TabLogo:
			memberLogo(w, base, d.Detail.Logo)
		default:
			memberInfo(w, d.Detail)
		}
		w.raw(`</section>`)
	})
	return Layout(info.CompanyNameTh, body)
}

func groupLink(w *htmlWriter, base, tab, group, label string, active bool) {
	w.raw(`<a href="`)
	w.href(withQuery(base, "tab", tab, "group", group))
	w.raw(`">`)
	if active {
		w.raw(`<strong>`)
		w.text(label)
		w.raw(`</strong>`)
	} else {
		w.text(label)
	}
	w.raw(`</a>`)
}

func row(w *htmlWriter, label, value string) {
	if value == "" {
		return
	}
	w.raw(`<tr><th>`)
	w.text(label)
	w.raw(`</th><td>`)
	w.text(value)
	w.raw(`</td></tr>`)
}

func empty(w *htmlWriter) {
	w.raw(`<p class="muted">ไม่มีข้อมูล</p>`)
}

func memberInfo(w *htmlWriter, d *core.MemberDetail) {
	info := d.Info
	w.raw(`<table>`)
	row(w, "ประเภทสมาชิก", info.MemberType)
	row(w, "เลขประจำตัวผู้เสียภาษี", info.TaxID)
	row(w, "อีเมล", info.Email)
	row(w, "โทรศัพท์", info.Phone)
	row(w, "เว็บไซต์", info.Website)
	row(w, "วันที่เป็นสมาชิก", formatTime(info.JoinedAt))
	w.raw(`</table>`)

	if len(d.Memberships) == 0 {
		return
	}
	w.raw(`<h3>การเป็นสมาชิก</h3><table><tr><th>กลุ่ม</th><th>ประเภท</th><th>สถานะ</th></tr>`)
	for _, m := range d.Memberships {
		w.raw(`<tr><td>`)
		w.text(m.GroupName)
		w.raw(`</td><td>`)
		w.text(m.MemberType)
		w.raw(`</td><td>`)
		w.text(m.Status)
		w.raw(`</td></tr>`)
	}
	w.raw(`</table>`)
}

func memberAddresses(w *htmlWriter, addrs []core.MemberAddress) {
	if len(addrs) == 0 {
		empty(w)
		return
	}
	for _, a := range addrs {
		w.raw(`<h3>`)
		w.text(a.AddressType.Label())
		w.raw(`</h3><p>`)
		w.text(a.Address.Line())
		w.raw(`</p>`)
	}
}

func memberRepresentatives(w *htmlWriter, reps []core.MemberRepresentative) {
	if len(reps) == 0 {
		empty(w)
		return
	}
	w.raw(`<table><tr><th>#</th><th>ชื่อ</th><th>ตำแหน่ง</th><th>อีเมล</th></tr>`)
	for _, r := range reps {
		w.raw(`<tr><td>`)
		w.raw(strconv.Itoa(r.Order))
		w.raw(`</td><td>`)
		w.text(r.FullNameTh())
		w.raw(`</td><td>`)
		w.text(r.Position)
		w.raw(`</td><td>`)
		w.text(r.Email)
		w.raw(`</td></tr>`)
	}
	w.raw(`</table>`)
}

func memberProducts(w *htmlWriter, products []core.Product) {
	if len(products) == 0 {
		empty(w)
		return
	}
	w.raw(`<table><tr><th>ผลิตภัณฑ์</th><th>Product</th></tr>`)
	for _, p := range products {
		w.raw(`<tr><td>`)
		w.text(p.NameTh)
		w.raw(`</td><td>`)
		w.text(p.NameEn)
		w.raw(`</td></tr>`)
	}
	w.raw(`</table>`)
}

func memberSocial(w *htmlWriter, links []core.SocialLink) {
	if len(links) == 0 {
		empty(w)
		return
	}
	w.raw(`<ul>`)
	for _, l := range links {
		w.raw(`<li><span class="badge">`)
		w.text(l.Platform)
		w.raw(`</span> <a rel="noopener" href="`)
		w.href(l.URL)
		w.raw(`">`)
		if l.DisplayName != "" {
			w.text(l.DisplayName)
		} else {
			w.text(l.URL)
		}
		w.raw(`</a></li>`)
	}
	w.raw(`</ul>`)
}

func memberLogo(w *htmlWriter, base string, logo *core.LogoInfo) {
	if logo == nil {
		empty(w)
		return
	}
	radius := "0"
	if logo.DisplayMode == core.LogoDisplayCircle {
		radius = "50%"
	}
	w.raw(`<img alt="logo" src="`)
	w.href(base + "/logo")
	w.raw(`" style="max-width:240px;border-radius:`)
	w.raw(radius)
	w.raw(`"><p class="muted">ปรับปรุงล่าสุด `)
	w.text(formatTime(logo.UpdatedAt))
	w.raw(`</p>`)
}
