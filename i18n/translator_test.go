package i18n_test

import (
	"testing"

	"github.com/reoring/fwconf/i18n"
)

func TestT_LanguageSwitch(t *testing.T) {
	defer i18n.SetLanguage("en")

	if msg := i18n.T("required", nil); msg != "required key not provided" {
		t.Fatalf("unexpected english message: %q", msg)
	}
	i18n.SetLanguage("ja")
	if msg := i18n.T("required", nil); msg != "必須キーが指定されていません" {
		t.Fatalf("expected japanese message, got %q", msg)
	}
	i18n.SetLanguage("xx")
	if msg := i18n.T("extra_key", nil); msg != "extra keys not allowed" {
		t.Fatalf("unknown language should fall back to english: %q", msg)
	}
}

func TestT_Params(t *testing.T) {
	defer i18n.SetLanguage("en")

	data := map[string]string{"min": "0", "max": "39"}
	if msg := i18n.T("out_of_range", data); msg != "value must be between 0 and 39" {
		t.Fatalf("unexpected message %q", msg)
	}
	i18n.SetLanguage("ja")
	if msg := i18n.T("duplicate_id", map[string]string{"id": "relay"}); msg != "ID relay が重複しています" {
		t.Fatalf("unexpected message %q", msg)
	}
}

type prefixed struct{}

func (prefixed) Message(code string, _ map[string]string) string { return "X:" + code }

func TestT_CustomAndUnknownCode(t *testing.T) {
	if msg := i18n.T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("unknown code should echo itself, got %q", msg)
	}
	i18n.SetTranslator(prefixed{})
	if msg := i18n.T("extra_key", nil); msg != "X:extra_key" {
		t.Fatalf("custom translator not used: %q", msg)
	}
	i18n.SetTranslator(nil)
	if msg := i18n.T("extra_key", nil); msg != "extra keys not allowed" {
		t.Fatalf("nil translator should restore english: %q", msg)
	}
}
