package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"minimarket/configuration"
	"minimarket/models"
	"minimarket/tools"

	"github.com/expr-lang/expr"
)

// FieldError is the first failing rule of one field.
type FieldError struct {
	Field   string
	Label   string
	Message string
}

var patterns sync.Map

// pattern compiles descriptor patterns once. Invalid patterns never match
// anything and are reported as nil.
func pattern(src string) *regexp.Regexp {
	if v, ok := patterns.Load(src); ok {
		return v.(*regexp.Regexp)
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil
	}
	patterns.Store(src, re)
	return re
}

// Validate checks the gathered values of module against the field
// descriptors and the document's validation rules. Errors come back in
// field order.
func Validate(desc *configuration.Descriptors, module string, fields []configuration.Field, values map[string]any) []FieldError {
	var out []FieldError
	for _, field := range fields {
		v, ok := values[field.Name]
		if !ok {
			continue
		}
		if msg := validateField(desc, module, field, v); msg != "" {
			label := field.Label
			if label == "" {
				label = field.Name
			}
			out = append(out, FieldError{Field: field.Name, Label: label, Message: msg})
		}
	}
	return out
}

func validateField(desc *configuration.Descriptors, module string, field configuration.Field, v any) string {
	if field.Type == configuration.FieldCheckbox {
		return ""
	}
	rule, _ := desc.Rule(module, field.Name)
	s := strings.TrimSpace(stringOf(v))

	if s == "" {
		if field.Required {
			return ruleMessage(desc, "requerido", rule, fmt.Sprintf("El campo %q es requerido", field.Label))
		}
		return ""
	}

	switch field.Type {
	case configuration.FieldEmail:
		if !matches(desc, "email", s, tools.ValidateEmail) {
			return ruleMessage(desc, "email", rule, "")
		}
	case configuration.FieldTel:
		if !matches(desc, "telefono", s, tools.ValidatePhone) {
			return ruleMessage(desc, "telefono", rule, "")
		}
	case configuration.FieldNumber:
		if !validNumber(s, field) {
			return ruleMessage(desc, "numero", rule, "")
		}
	case configuration.FieldText, configuration.FieldTextarea:
		if msg := validateText(desc, s, field, rule); msg != "" {
			return msg
		}
	case configuration.FieldPassword:
		least, msg := tools.MinPasswordLength, ""
		if pw, ok := desc.Rule(module, "password"); ok {
			if pw.MinLength > 0 {
				least = pw.MinLength
			}
			msg = pw.Mensaje
		}
		if !tools.CheckPassword(s, least) {
			if msg != "" {
				return msg
			}
			return fmt.Sprintf("La contraseña debe tener al menos %d caracteres", least)
		}
	}
	return validateSpecific(desc, module, field.Name, s)
}

// ruleMessage picks the field rule message, then the global one, then
// fallback, then a generic text.
func ruleMessage(desc *configuration.Descriptors, global string, rule configuration.Rule, fallback string) string {
	if rule.Mensaje != "" {
		return rule.Mensaje
	}
	if g, ok := desc.GlobalRule(global); ok && g.Mensaje != "" {
		return g.Mensaje
	}
	if fallback != "" {
		return fallback
	}
	return "Valor inválido"
}

// matches uses the global pattern when the document sets one.
func matches(desc *configuration.Descriptors, global, s string, builtin func(string) bool) bool {
	if g, ok := desc.GlobalRule(global); ok && g.Patron != "" {
		if re := pattern(g.Patron); re != nil {
			return re.MatchString(s)
		}
	}
	return builtin(s)
}

func validNumber(s string, field configuration.Field) bool {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	if lo, ok := field.Min.Float(); ok && n < lo {
		return false
	}
	if hi, ok := field.Max.Float(); ok && n > hi {
		return false
	}
	return true
}

func validateText(desc *configuration.Descriptors, s string, field configuration.Field, rule configuration.Rule) string {
	global, _ := desc.GlobalRule("texto")
	n := utf8.RuneCountInString(s)

	if lo := firstPositive(rule.MinLength, field.MinLength, global.MinLength); lo > 0 && n < lo {
		return fmt.Sprintf("Debe tener al menos %d caracteres", lo)
	}
	if hi := firstPositive(rule.MaxLength, field.MaxLength, global.MaxLength); hi > 0 && n > hi {
		return fmt.Sprintf("No puede exceder %d caracteres", hi)
	}
	if rule.Patron != "" {
		if re := pattern(rule.Patron); re != nil && !re.MatchString(s) {
			if rule.Mensaje != "" {
				return rule.Mensaje
			}
			return "Formato inválido"
		}
	}
	return ""
}

// validateSpecific runs the checks tied to a field name rather than a
// field type.
func validateSpecific(desc *configuration.Descriptors, module, name, s string) string {
	rule, hasRule := desc.Rule(module, name)
	switch {
	case name == "rut":
		if !matches(desc, "rut", s, tools.ValidateRUT) || !tools.ValidateRUT(s) {
			return ruleMessage(desc, "rut", configuration.Rule{}, "Formato de RUT inválido")
		}
	case module == "usuarios" && name == "rol":
		if !models.IsRol(s) {
			return "Rol inválido"
		}
	case !hasRule:
	case strings.HasPrefix(name, "precio"):
		if rule.Min != nil {
			if n, err := strconv.ParseFloat(s, 64); err == nil && n < *rule.Min {
				if rule.Mensaje != "" {
					return rule.Mensaje
				}
				return fmt.Sprintf("El precio debe ser mayor a %s", strconv.FormatFloat(*rule.Min, 'f', -1, 64))
			}
		}
	case name == "formula":
		if _, err := expr.Compile(s, expr.AllowUndefinedVariables()); err != nil {
			if rule.Mensaje != "" {
				return rule.Mensaje
			}
			return "Fórmula inválida"
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// Gather reads the submitted form into the payload sent to the
// dispatcher: checkboxes become booleans, multi selects a comma joined
// id list and everything else its trimmed text.
func Gather(fields []configuration.Field, form map[string][]string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, field := range fields {
		raw := form[field.Name]
		switch field.Type {
		case configuration.FieldCheckbox:
			out[field.Name] = len(raw) > 0 && checked(raw[len(raw)-1])
		case configuration.FieldSelectMultiple:
			ids := make([]string, 0, len(raw))
			for _, v := range raw {
				if v = strings.TrimSpace(v); v != "" {
					ids = append(ids, v)
				}
			}
			out[field.Name] = strings.Join(ids, ",")
		default:
			var v string
			if len(raw) > 0 {
				v = strings.TrimSpace(raw[0])
			}
			out[field.Name] = v
		}
	}
	return out
}

// checked accepts what browsers and scripts send for a ticked box; the
// hidden "0" fallback input precedes the checkbox in the form.
func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "off", "no":
		return false
	}
	return true
}
