// Package locale renders validation messages from templates. The engine
// asks for a message by rule name; the active Translator maps the name to a
// template and Render interpolates "${key}" placeholders from the rule's
// parameters.
package locale

import (
	"strings"

	"github.com/yogeshdas-v/yup/internal/printer"
)

// Translator retrieves a rendered message for a rule. params carries the
// structured values the rule exposes ("path", "value", "values", "type",
// plus rule-specific entries).
type Translator interface {
	Message(rule string, params map[string]any) string
}

// dictTranslator is the built-in template-dictionary Translator.
type dictTranslator struct{ messages map[string]string }

var defaultMessages = map[string]string{
	"default":   "${path} is invalid",
	"required":  "${path} is a required field",
	"defined":   "${path} must be defined",
	"typeError": "${path} must be a ${type} type, but the final value was ${value}",
	"oneOf":     "${path} must be one of the following values: ${values}",
	"notOneOf":  "${path} must not be one of the following values: ${values}",
}

func (t dictTranslator) Message(rule string, params map[string]any) string {
	tpl, ok := t.messages[rule]
	if !ok {
		tpl, ok = t.messages["default"]
		if !ok {
			return rule
		}
	}
	return Render(tpl, params)
}

var currentTranslator Translator = dictTranslator{messages: defaultMessages}

// SetTranslator replaces the Translator implementation; nil restores the
// built-in dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{messages: defaultMessages}
		return
	}
	currentTranslator = tr
}

// SetMessages overlays per-rule templates onto the built-in dictionary and
// installs the result.
func SetMessages(messages map[string]string) {
	merged := make(map[string]string, len(defaultMessages)+len(messages))
	for k, v := range defaultMessages {
		merged[k] = v
	}
	for k, v := range messages {
		merged[k] = v
	}
	currentTranslator = dictTranslator{messages: merged}
}

// T fetches a rendered message for the given rule using the current
// Translator.
func T(rule string, params map[string]any) string {
	return currentTranslator.Message(rule, params)
}

// Render interpolates "${key}" placeholders in a template. String
// parameters substitute verbatim; other values are formatted through the
// value printer. Unknown placeholders are left in place.
func Render(template string, params map[string]any) string {
	if !strings.Contains(template, "${") {
		return template
	}
	var b strings.Builder
	rest := template
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			b.WriteString(rest)
			return b.String()
		}
		end := strings.Index(rest[start:], "}")
		if end < 0 {
			b.WriteString(rest)
			return b.String()
		}
		end += start
		b.WriteString(rest[:start])
		key := rest[start+2 : end]
		if v, ok := params[key]; ok {
			if s, isStr := v.(string); isStr {
				b.WriteString(s)
			} else {
				b.WriteString(printer.Print(v))
			}
		} else {
			b.WriteString(rest[start : end+1])
		}
		rest = rest[end+1:]
	}
}
