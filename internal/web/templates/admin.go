package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/memberportal/internal/core"
)

// AdminLogin renders the staff sign-in form. errMsg is shown above the form
// when non-empty.
func AdminLogin(email, errMsg string) templ.Component {
	body := component(func(ctx context.Context, w *htmlWriter) {
		w.raw(`<section class="card"><h1>เข้าสู่ระบบเจ้าหน้าที่</h1>`)
		if errMsg != "" {
			w.render(ctx, ErrorAlert(errMsg, "", ""))
		}
		w.raw(`<form method="post" action="/admin/login">`)
		w.raw(`<p><label>อีเมล<br><input type="email" name="email" required value="`)
		w.text(email)
		w.raw(`"></label></p>`)
		w.raw(`<p><label>รหัสผ่าน<br><input type="password" name="password" required></label></p>`)
		w.raw(`<button>เข้าสู่ระบบ</button></form></section>`)
	})
	return Layout("เข้าสู่ระบบ", body)
}

// DashboardData feeds the guest-message dashboard.
type DashboardData struct {
	Admin  core.AdminUser
	Stats  core.MessageStats
	Page   core.MessagePage
	Filter core.MessageFilter
}

var messageStatuses = []core.MessageStatus{core.MessageUnread, core.MessageRead, core.MessageReplied, core.MessageClosed}

var messagePriorities = []core.MessagePriority{core.PriorityLow, core.PriorityNormal, core.PriorityHigh}

// AdminDashboard renders the message counters, the filter form and one page
// of messages.
func AdminDashboard(d DashboardData) templ.Component {
	body := component(func(ctx context.Context, w *htmlWriter) {
		adminBar(w, d.Admin)

		w.raw(`<section class="card"><h1>ข้อความจากผู้เยี่ยมชม</h1><p>`)
		stat(w, "ทั้งหมด", d.Stats.Total)
		stat(w, "ยังไม่อ่าน", d.Stats.Unread)
		stat(w, "อ่านแล้ว", d.Stats.Read)
		stat(w, "ตอบแล้ว", d.Stats.Replied)
		stat(w, "ปิดแล้ว", d.Stats.Closed)
		stat(w, "ด่วน", d.Stats.HighPriority)
		w.raw(`</p>`)

		w.raw(`<form method="get" action="/admin"><input name="q" placeholder="ค้นหา" value="`)
		w.text(d.Filter.Search)
		w.raw(`"> `)
		selectStatus(w, "status", d.Filter.Status, true)
		w.raw(` `)
		selectPriority(w, "priority", d.Filter.Priority, true)
		w.raw(` <button>กรอง</button></form></section>`)

		w.raw(`<section class="card">`)
		if len(d.Page.Messages) == 0 {
			empty(w)
		} else {
			w.raw(`<table><tr><th>วันที่</th><th>ผู้ส่ง</th><th>หัวข้อ</th><th>สถานะ</th><th>ความสำคัญ</th></tr>`)
			for _, m := range d.Page.Messages {
				w.raw(`<tr><td>`)
				w.text(formatTime(m.CreatedAt))
				w.raw(`</td><td>`)
				w.text(m.Name)
				w.raw(`</td><td><a href="`)
				w.href("/admin/messages/" + m.ID)
				w.raw(`">`)
				w.text(m.Subject)
				w.raw(`</a></td><td>`)
				badge(w, string(m.Status))
				w.raw(`</td><td>`)
				badge(w, string(m.Priority))
				w.raw(`</td></tr>`)
			}
			w.raw(`</table>`)
		}
		pager(w, d.Page, d.Filter)
		w.raw(`</section>`)
	})
	return Layout("ข้อความ", body)
}

// MessageDetail renders one guest message with the triage and reply forms.
func MessageDetail(admin core.AdminUser, m core.GuestMessage) templ.Component {
	base := "/admin/messages/" + m.ID

	body := component(func(ctx context.Context, w *htmlWriter) {
		adminBar(w, admin)

		w.raw(`<section class="card"><p><a href="/admin">&larr; กลับ</a></p><h1>`)
		w.text(m.Subject)
		w.raw(`</h1><p class="muted">`)
		w.text(m.Name)
		w.raw(` &lt;`)
		w.text(m.Email)
		w.raw(`&gt; `)
		w.text(m.Phone)
		w.raw(` · `)
		w.text(formatTime(m.CreatedAt))
		w.raw(`</p><p style="white-space:pre-wrap">`)
		w.text(m.Message)
		w.raw(`</p></section>`)

		w.raw(`<section class="card"><form method="post" action="`)
		w.href(base + "/status")
		w.raw(`">`)
		selectStatus(w, "status", m.Status, false)
		w.raw(` <button>เปลี่ยนสถานะ</button></form> <form method="post" action="`)
		w.href(base + "/priority")
		w.raw(`">`)
		selectPriority(w, "priority", m.Priority, false)
		w.raw(` <button>เปลี่ยนความสำคัญ</button></form></section>`)

		w.raw(`<section class="card"><h2>ตอบกลับ</h2>`)
		if m.ReplyMessage != "" {
			w.raw(`<p style="white-space:pre-wrap">`)
			w.text(m.ReplyMessage)
			w.raw(`</p><p class="muted">`)
			w.text(m.RepliedBy)
			if m.RepliedAt != nil {
				w.raw(` · `)
				w.text(formatTime(*m.RepliedAt))
			}
			w.raw(`</p>`)
		}
		w.raw(`<form method="post" action="`)
		w.href(base + "/reply")
		w.raw(`"><textarea name="message" rows="5" cols="60" required></textarea><br><button>ส่งคำตอบ</button></form></section>`)
	})
	return Layout(m.Subject, body)
}

func adminBar(w *htmlWriter, admin core.AdminUser) {
	w.raw(`<div class="card muted">`)
	if admin.Name != "" {
		w.text(admin.Name)
	} else {
		w.text(admin.Email)
	}
	w.raw(` <form method="post" action="/admin/logout" style="display:inline"><button>ออกจากระบบ</button></form></div>`)
}

func stat(w *htmlWriter, label string, n int64) {
	w.raw(`<span class="badge">`)
	w.text(label)
	w.raw(` `)
	w.int(n)
	w.raw(`</span> `)
}

func badge(w *htmlWriter, value string) {
	w.raw(`<span class="badge `)
	w.text(value)
	w.raw(`">`)
	w.text(value)
	w.raw(`</span>`)
}

func selectStatus(w *htmlWriter, name string, current core.MessageStatus, withAny bool) {
	values := make([]string, len(messageStatuses))
	for i, s := range messageStatuses {
		values[i] = string(s)
	}
	selectBox(w, name, string(current), values, withAny)
}

func selectPriority(w *htmlWriter, name string, current core.MessagePriority, withAny bool) {
	values := make([]string, len(messagePriorities))
	for i, p := range messagePriorities {
		values[i] = string(p)
	}
	selectBox(w, name, string(current), values, withAny)
}

func selectBox(w *htmlWriter, name, current string, values []string, withAny bool) {
	w.raw(`<select name="`)
	w.raw(name)
	w.raw(`">`)
	if withAny {
		w.raw(`<option value="">ทั้งหมด</option>`)
	}
	for _, v := range values {
		w.raw(`<option value="`)
		w.text(v)
		w.raw(`"`)
		if v == current {
			w.raw(` selected`)
		}
		w.raw(`>`)
		w.text(v)
		w.raw(`</option>`)
	}
	w.raw(`</select>`)
}

func pager(w *htmlWriter, p core.MessagePage, f core.MessageFilter) {
	if p.TotalPages <= 1 {
		return
	}
	link := func(page int, label string) {
		w.raw(`<a href="`)
		w.href(withQuery("/admin", "q", f.Search, "status", string(f.Status),
			"priority", string(f.Priority), "page", strconv.Itoa(page)))
		w.raw(`">`)
		w.text(label)
		w.raw(`</a>`)
	}
	w.raw(`<p>`)
	if p.Page > 1 {
		link(p.Page-1, "« ก่อนหน้า")
		w.raw(` `)
	}
	w.raw(`หน้า `)
	w.raw(strconv.Itoa(p.Page))
	w.raw(` / `)
	w.raw(strconv.Itoa(p.TotalPages))
	if p.Page < p.TotalPages {
		w.raw(` `)
		link(p.Page+1, "ถัดไป »")
	}
	w.raw(`</p>`)
}
