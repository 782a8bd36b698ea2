package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/memberportal/internal/core"
)

const styles = `body{font-family:"Sarabun",system-ui,sans-serif;margin:0;background:#f5f6f8;color:#1f2933}
header{background:#0b3d91;color:#fff;padding:.75rem 1.5rem}header a{color:#fff;text-decoration:none}
main{max-width:960px;margin:1.5rem auto;padding:0 1rem}
.card{background:#fff;border-radius:6px;padding:1rem 1.25rem;margin-bottom:1rem;box-shadow:0 1px 2px rgba(0,0,0,.08)}
.tabs a{display:inline-block;padding:.4rem .8rem;margin-right:.25rem;border-radius:4px 4px 0 0;background:#e4e7eb;color:#1f2933;text-decoration:none}
.tabs a.active{background:#fff;font-weight:600}
table{width:100%;border-collapse:collapse}th,td{text-align:left;padding:.4rem;border-bottom:1px solid #e4e7eb}
.alert{border-left:4px solid #d64545;background:#fff5f5;padding:.75rem 1rem;margin-bottom:1rem}
.muted{color:#7b8794;font-size:.875rem}.badge{padding:.1rem .4rem;border-radius:3px;background:#e4e7eb;font-size:.8rem}
.badge.high{background:#fde2e2}.badge.unread{background:#dceefb}
.field-error{color:#d64545;font-size:.85rem}`

// Layout wraps body in the page chrome.
func Layout(title string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, w *htmlWriter) {
		w.raw(`<!DOCTYPE html><html lang="th"><head><meta charset="utf-8">`)
		w.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		w.raw(`<title>`)
		w.text(title)
		w.raw(` | สภาอุตสาหกรรมแห่งประเทศไทย</title><style>`)
		w.raw(styles)
		w.raw(`</style></head><body><header><a href="/">สภาอุตสาหกรรมแห่งประเทศไทย</a></header><main>`)
		w.render(ctx, body)
		w.raw(`</main></body></html>`)
	})
}

// ErrorAlert is the error fragment returned to HTMX requests and embedded in
// full error pages.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(_ context.Context, w *htmlWriter) {
		w.raw(`<div class="alert" role="alert"><strong>`)
		w.text(message)
		w.raw(`</strong>`)
		if action != "" {
			w.raw(`<div>`)
			w.text(action)
			w.raw(`</div>`)
		}
		if code != "" {
			w.raw(`<div class="muted">รหัสอ้างอิง `)
			w.text(code)
			w.raw(`</div>`)
		}
		w.raw(`</div>`)
	})
}

// ErrorPage is a full page for an error on a browser route.
func ErrorPage(status int, msg core.UserMessage) templ.Component {
	body := component(func(ctx context.Context, w *htmlWriter) {
		w.raw(`<div class="card"><h1>`)
		w.raw(strconv.Itoa(status))
		w.raw(`</h1>`)
		w.render(ctx, ErrorAlert(msg.Message, msg.Action, msg.Code))
		w.raw(`<a href="/">กลับหน้าหลัก</a></div>`)
	})
	return Layout(msg.Message, body)
}
