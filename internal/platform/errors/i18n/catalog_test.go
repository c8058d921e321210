package i18n

import (
	"errors"
	"testing"

	"github.com/louisbranch/rollbot/internal/core/dice"
	apperrors "github.com/louisbranch/rollbot/internal/platform/errors"
)

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	if got := GetCatalog("missing-locale"); got != base {
		t.Fatal("expected fallback to en-US catalog")
	}
	if got := GetCatalog("  "); got != base {
		t.Fatal("expected blank locale to use en-US catalog")
	}
	if got := GetCatalog("pt-BR").Locale(); got != "pt-BR" {
		t.Fatalf("Locale() = %q, want pt-BR", got)
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[string]string{
		"greeting": "hello {{.Name}}",
		"broken":   "{{ if .Name }}",
		"failing":  "{{ call .Name }}",
	})

	tests := []struct {
		name     string
		code     apperrors.Code
		metadata map[string]string
		want     string
	}{
		{name: "unknown code", code: "unknown", want: "unknown"},
		{name: "missing metadata", code: "greeting", want: "hello <no value>"},
		{name: "metadata", code: "greeting", metadata: map[string]string{"Name": "ana"}, want: "hello ana"},
		{name: "parse error", code: "broken", metadata: map[string]string{"Name": "X"}, want: "{{ if .Name }}"},
		{name: "execution error", code: "failing", metadata: map[string]string{"Name": "X"}, want: "{{ call .Name }}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cat.Format(tt.code, tt.metadata); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	_, err := dice.RollSeeded("1d6 ?", 1)
	domainErr := apperrors.FromDice(err)

	tests := []struct {
		locale string
		err    error
		want   string
	}{
		{locale: "en-US", err: domainErr, want: `Unexpected character "?" at position 4.`},
		{locale: "pt-BR", err: domainErr, want: `Caractere inesperado "?" na posição 4.`},
		{locale: "en-US", err: apperrors.New(apperrors.CodeNotFound, "roll 9 not found"), want: "Roll not found."},
		{locale: "en-US", err: errors.New("boom"), want: "Something went wrong while rolling."},
		{locale: "en-US", err: nil, want: ""},
	}
	for _, tt := range tests {
		if got := GetCatalog(tt.locale).Message(tt.err); got != tt.want {
			t.Errorf("%s Message(%v) = %q, want %q", tt.locale, tt.err, got, tt.want)
		}
	}
}

func TestErrorCatalogsCoverEveryCode(t *testing.T) {
	codes := []apperrors.Code{
		apperrors.CodeUnknown,
		apperrors.CodeNotationEmpty,
		apperrors.CodeDiceLexInvalidChar,
		apperrors.CodeDiceLexInvalidNum,
		apperrors.CodeDiceParseUnexpected,
		apperrors.CodeDiceEvalTooManyDice,
		apperrors.CodeDiceEvalTooManySides,
		apperrors.CodeDiceEvalDivisionByZero,
		apperrors.CodeDiceEvalOverflow,
		apperrors.CodeSeedOutOfRange,
		apperrors.CodeHistoryInvalidFilter,
		apperrors.CodeHistoryInvalidPageToken,
		apperrors.CodeNotFound,
	}
	for _, locale := range []string{"en-US", "pt-BR"} {
		cat := GetCatalog(locale)
		for _, code := range codes {
			if got := cat.Format(code, nil); got == string(code) {
				t.Errorf("%s: missing message for %s", locale, code)
			}
		}
	}
}
