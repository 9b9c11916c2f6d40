// Package i18n holds the message catalog used for validation failures that
// carry no hand-written message.
package i18n

import (
	"strings"
	"sync/atomic"
)

// Translator renders the message for a failure code. data holds named
// parameters such as "key" or "min"; catalog entries reference them as
// "{key}".
type Translator interface {
	Message(code string, data map[string]string) string
}

type catalog map[string]string

var catalogs = map[string]catalog{
	"en": {
		"invalid_type":    "invalid type",
		"invalid_value":   "invalid value",
		"required":        "required key not provided",
		"extra_key":       "extra keys not allowed",
		"expected_map":    "expected dictionary",
		"expected_list":   "expected a list",
		"too_short":       "length of value too short",
		"too_long":        "length of value too long",
		"out_of_range":    "value must be between {min} and {max}",
		"not_templatable": "This option is not templatable!",
		"duplicate_id":    "ID {id} redefined!",
		"undeclared_id":   "Couldn't find ID '{id}'",
	},
	"ja": {
		"invalid_type":    "型が不正です",
		"invalid_value":   "値が不正です",
		"required":        "必須キーが指定されていません",
		"extra_key":       "未定義のキーは使用できません",
		"expected_map":    "辞書である必要があります",
		"expected_list":   "リストである必要があります",
		"too_short":       "短すぎます",
		"too_long":        "長すぎます",
		"out_of_range":    "値は{min}から{max}の範囲で指定してください",
		"not_templatable": "このオプションはテンプレートにできません",
		"duplicate_id":    "ID {id} が重複しています",
		"undeclared_id":   "ID '{id}' が見つかりません",
	},
}

type catalogTranslator struct{ lang string }

func (t catalogTranslator) Message(code string, data map[string]string) string {
	msg, ok := catalogs[t.lang][code]
	if !ok {
		if msg, ok = catalogs["en"][code]; !ok {
			return code
		}
	}
	if len(data) == 0 {
		return msg
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

type holder struct{ Translator }

var current atomic.Value

func init() { current.Store(holder{catalogTranslator{lang: "en"}}) }

// SetLanguage selects a built-in catalog. Unknown languages fall back to
// English.
func SetLanguage(lang string) {
	if _, ok := catalogs[lang]; !ok {
		lang = "en"
	}
	current.Store(holder{catalogTranslator{lang: lang}})
}

// SetTranslator installs a custom Translator; nil restores English.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = catalogTranslator{lang: "en"}
	}
	current.Store(holder{tr})
}

// T renders code with the active Translator.
func T(code string, data map[string]string) string {
	return current.Load().(holder).Message(code, data)
}
