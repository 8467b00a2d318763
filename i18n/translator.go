package i18n

import "sync/atomic"

// Translator retrieves localized messages for decode issue codes.
// data carries optional details to embed in the message (for example,
// "tag" or "family").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			msg = "型が不正です"
		case "required":
			msg = "必須プロパティが不足しています"
		case "invalid_format":
			msg = "書式が不正です"
		case "discriminator_missing":
			msg = "type が指定されていません"
		case "discriminator_unknown":
			msg = "未知の type です"
		case "unsupported_value":
			msg = "エンコードできない値です"
		case "parse_error":
			msg = "解析エラー"
		case "duplicate_key":
			msg = "キーが重複しています"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			msg = "invalid type"
		case "required":
			msg = "required property missing"
		case "invalid_format":
			msg = "invalid format"
		case "discriminator_missing":
			msg = "type discriminator missing"
		case "discriminator_unknown":
			msg = "unknown type discriminator"
		case "unsupported_value":
			msg = "value cannot be encoded"
		case "parse_error":
			msg = "parse error"
		case "duplicate_key":
			msg = "duplicate object key"
		}
	}
	if msg == "" {
		return code
	}
	if tag := data["tag"]; tag != "" {
		msg += ": " + tag
	}
	return msg
}

type holder struct{ tr Translator }

var current atomic.Pointer[holder]

func init() { current.Store(&holder{tr: dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	current.Store(&holder{tr: dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(&holder{tr: tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return current.Load().tr.Message(code, data)
}
