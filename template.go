package reactor

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
)

// Template is the template source consumed once per element to produce its
// stamped fragment. templ.Component satisfies Template, so generated templ
// components plug in directly.
type Template interface {
	Render(ctx context.Context, w io.Writer) error
}

// TemplateFunc adapts a function to the Template interface.
type TemplateFunc func(ctx context.Context, w io.Writer) error

// Render calls fn.
func (fn TemplateFunc) Render(ctx context.Context, w io.Writer) error {
	return fn(ctx, w)
}

// Markup returns a Template that emits the given markup verbatim.
func Markup(html string) Template {
	return templ.Raw(html)
}

// Fragment is the rendered template output exclusively owned by one element.
// The lifecycle coordinator materializes it exactly once per element
// lifetime, before the first flush, and releases it at Destroy.
type Fragment struct {
	html []byte
}

// HTML returns the rendered markup.
func (f *Fragment) HTML() []byte {
	return f.html
}

// String returns the rendered markup as a string.
func (f *Fragment) String() string {
	return string(f.html)
}

// stamp renders the template into a fresh fragment.
func stamp(ctx context.Context, t Template) (*Fragment, error) {
	var buf bytes.Buffer
	if err := t.Render(ctx, &buf); err != nil {
		return nil, err
	}
	return &Fragment{html: buf.Bytes()}, nil
}
