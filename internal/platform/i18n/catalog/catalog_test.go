package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	if !bundle.HasLocale(BaseLocale) {
		t.Fatalf("expected base locale %s", BaseLocale)
	}
	if !bundle.HasLocale("pt-BR") {
		t.Fatalf("expected locale pt-BR")
	}

	if got := len(bundle.LocaleMessages("en-US")); got == 0 {
		t.Fatalf("expected en-US messages")
	}
	if got := bundle.Namespaces("pt-BR"); len(got) != 2 || got[0] != "errors" || got[1] != "roll" {
		t.Fatalf("pt-BR namespaces = %v, want [errors roll]", got)
	}
}

func TestLoadFromFSRejectsKeyOutsideItsNamespace(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/errors.yaml"), `locale: "en-US"
namespace: "errors"
messages:
  "roll.total": "nope"
`)

	_, err := LoadFromFS(os.DirFS(tempDir))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadFromFSRejectsDuplicateKeysAcrossNamespaces(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/errors.yaml"), `locale: "en-US"
namespace: "errors"
messages:
  "NOT_FOUND": "a"
`)
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/roll.yaml"), `locale: "en-US"
namespace: "roll"
messages:
  "NOT_FOUND": "b"
`)

	_, err := LoadFromFS(os.DirFS(tempDir))
	if err == nil {
		t.Fatal("expected duplicate key error")
	}
}

func TestNamespaceMessagesWithFallback(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	resolved, messages := bundle.NamespaceMessagesWithFallback("fr-FR", "errors")
	if resolved != "en-US" {
		t.Fatalf("resolved locale = %q, want en-US", resolved)
	}
	if len(messages) == 0 {
		t.Fatal("expected fallback errors namespace messages")
	}
}

func TestLoadFromFSRejectsUnknownFields(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/roll.yaml"), `locale: "en-US"
namespace: "roll"
messsages:
  "roll.total": "Total: %d"
`)

	_, err := LoadFromFS(os.DirFS(tempDir))
	if err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestLoadFromFSRejectsLocaleMismatch(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/roll.yaml"), `locale: "pt-BR"
namespace: "roll"
messages:
  "roll.total": "Total: %d"
`)

	_, err := LoadFromFS(os.DirFS(tempDir))
	if err == nil {
		t.Fatal("expected locale mismatch error")
	}
}

func TestPrinterUsesLocale(t *testing.T) {
	bundle := Default()
	tests := []struct {
		locale string
		want   string
	}{
		{locale: "en-US", want: "Seed: 42 (client)"},
		{locale: "pt-BR", want: "Semente: 42 (client)"},
		{locale: "pt", want: "Semente: 42 (client)"},
		{locale: "fr-FR", want: "Seed: 42 (client)"},
		{locale: "", want: "Seed: 42 (client)"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			got := bundle.Printer(tt.locale).Sprintf("roll.seed", "42", "client")
			if got != tt.want {
				t.Fatalf("Sprintf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
