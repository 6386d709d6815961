package rod

import (
	"fmt"
	"strings"

	"conduit-e2e/internal/domain/entity"
)

const formControls = `self::input or self::textarea or self::select`

type query struct {
	expr  string
	xpath bool
}

// toQuery translates a selector into a CSS or XPath expression. Names are
// compared after whitespace normalisation, like an accessible name.
func toQuery(sel entity.Selector) query {
	switch sel.Kind {
	case entity.SelectorCSS:
		return query{expr: sel.Value}
	case entity.SelectorField:
		return query{expr: fmt.Sprintf("//*[%s]%s", formControls, fieldName(sel.Name)), xpath: true}
	default:
		return query{expr: roleQuery(sel), xpath: true}
	}
}

func roleQuery(sel entity.Selector) string {
	var base string
	switch sel.Role {
	case entity.RoleButton:
		base = `//*[self::button or self::input[@type='submit' or @type='button' or @type='reset'] or @role='button']`
	case entity.RoleLink:
		base = `//*[self::a[@href] or @role='link']`
	case entity.RoleHeading:
		if sel.Level > 0 {
			base = fmt.Sprintf(`//*[self::h%d or (@role='heading' and @aria-level='%d')]`, sel.Level, sel.Level)
		} else {
			base = `//*[self::h1 or self::h2 or self::h3 or self::h4 or self::h5 or self::h6 or @role='heading']`
		}
	default:
		base = fmt.Sprintf(`//*[@role=%s]`, xpathLiteral(string(sel.Role)))
	}
	if sel.Name == "" {
		return base
	}
	lit := xpathLiteral(sel.Name)
	return fmt.Sprintf(`%s[normalize-space(.)=%s or @aria-label=%s or @value=%s or @title=%s]`, base, lit, lit, lit, lit)
}

func fieldName(name string) string {
	lit := xpathLiteral(name)
	return fmt.Sprintf(
		`[@aria-label=%s or @placeholder=%s or @title=%s or @id=//label[normalize-space(.)=%s]/@for or ancestor::label[normalize-space(.)=%s]]`,
		lit, lit, lit, lit, lit,
	)
}

// xpathLiteral quotes s for XPath 1.0, which has no escape sequences.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, 2*len(parts))
	for i, part := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if part != "" {
			quoted = append(quoted, "'"+part+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
