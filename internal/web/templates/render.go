// Package templates renders the portal's HTML pages as templ components.
package templates

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/a-h/templ"
)

// htmlWriter writes markup and remembers the first write error.
type htmlWriter struct {
	out io.Writer
	err error
}

func (w *htmlWriter) raw(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.out, s)
}

// text writes s HTML-escaped.
func (w *htmlWriter) text(s string) {
	w.raw(templ.EscapeString(s))
}

// href writes a sanitized, escaped URL for use inside an attribute.
func (w *htmlWriter) href(u string) {
	w.raw(templ.EscapeString(string(templ.URL(u))))
}

func (w *htmlWriter) int(n int64) {
	w.raw(strconv.FormatInt(n, 10))
}

func (w *htmlWriter) render(ctx context.Context, c templ.Component) {
	if w.err != nil || c == nil {
		return
	}
	w.err = c.Render(ctx, w.out)
}

// component adapts a writer func into a templ.Component.
func component(fn func(ctx context.Context, w *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &htmlWriter{out: out}
		fn(ctx, w)
		return w.err
	})
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

// withQuery returns path with the non-empty values of kv (key, value pairs).
func withQuery(path string, kv ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			q.Set(kv[i], kv[i+1])
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
