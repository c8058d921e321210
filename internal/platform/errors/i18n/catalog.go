// Package i18n renders platform errors as localized, user-facing messages.
//
// Message templates live in the "errors" namespace of the embedded locale
// catalogs and use text/template syntax over the error metadata, e.g.
// "Division by zero at position {{.Position}}.".
package i18n

import (
	"bytes"
	stderrors "errors"
	"strings"
	"sync"
	"text/template"

	apperrors "github.com/louisbranch/rollbot/internal/platform/errors"
	i18ncatalog "github.com/louisbranch/rollbot/internal/platform/i18n/catalog"
)

const namespace = "errors"

// Catalog holds the parsed error templates of one locale.
type Catalog struct {
	locale string
	// raw keeps the source text; it is also the output when a template
	// fails to parse or execute.
	raw       map[apperrors.Code]string
	templates map[apperrors.Code]*template.Template
}

// catalogs caches one Catalog per resolved locale.
var catalogs sync.Map

// GetCatalog returns the error catalog for locale, falling back to en-US
// when the locale has no error messages.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = i18ncatalog.BaseLocale
	}
	if cached, ok := catalogs.Load(requested); ok {
		return cached.(*Catalog)
	}

	resolved, messages := i18ncatalog.Default().NamespaceMessagesWithFallback(requested, namespace)
	if cached, ok := catalogs.Load(resolved); ok {
		return cached.(*Catalog)
	}
	stored, _ := catalogs.LoadOrStore(resolved, NewCatalog(resolved, messages))
	return stored.(*Catalog)
}

// NewCatalog parses messages, keyed by error code, into a Catalog.
func NewCatalog(locale string, messages map[string]string) *Catalog {
	cat := &Catalog{
		locale:    locale,
		raw:       make(map[apperrors.Code]string, len(messages)),
		templates: make(map[apperrors.Code]*template.Template, len(messages)),
	}
	for key, text := range messages {
		code := apperrors.Code(key)
		cat.raw[code] = text
		if tmpl, err := template.New(key).Parse(text); err == nil {
			cat.templates[code] = tmpl
		}
	}
	return cat
}

// Locale returns the locale the catalog was built for.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the template for code with metadata. Unknown codes render
// as the code itself; missing metadata renders as "<no value>".
func (c *Catalog) Format(code apperrors.Code, metadata map[string]string) string {
	text, ok := c.raw[code]
	if !ok {
		return string(code)
	}
	tmpl := c.templates[code]
	if tmpl == nil {
		return text
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, metadata); err != nil {
		return text
	}
	return buf.String()
}

// Message renders err for a user. Errors without a platform code render
// with the UNKNOWN message so internal details never leak.
func (c *Catalog) Message(err error) string {
	if err == nil {
		return ""
	}
	var domainErr *apperrors.Error
	if stderrors.As(err, &domainErr) {
		return c.Format(domainErr.Code, domainErr.Metadata)
	}
	return c.Format(apperrors.CodeUnknown, nil)
}
