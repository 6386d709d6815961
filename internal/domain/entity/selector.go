package entity

import (
	"fmt"
	"strconv"
)

type SelectorKind string

const (
	SelectorRole  SelectorKind = "role"
	SelectorField SelectorKind = "field"
	SelectorCSS   SelectorKind = "css"
)

type Role string

const (
	RoleButton  Role = "button"
	RoleLink    Role = "link"
	RoleHeading Role = "heading"
)

type ElementState string

const (
	StateVisible  ElementState = "visible"
	StateHidden   ElementState = "hidden"
	StateEnabled  ElementState = "enabled"
	StateDisabled ElementState = "disabled"
	StateAttached ElementState = "attached"
)

// Selector describes an element independently of the automation engine.
// Names are matched exactly after whitespace normalisation.
type Selector struct {
	Kind  SelectorKind
	Role  Role
	Name  string
	Level int
	Value string
}

func ByRole(role Role, name string) Selector {
	return Selector{Kind: SelectorRole, Role: role, Name: name}
}

// ByField addresses a form control by accessible name: label, aria-label,
// placeholder or title.
func ByField(name string) Selector {
	return Selector{Kind: SelectorField, Name: name}
}

func ByCSS(css string) Selector {
	return Selector{Kind: SelectorCSS, Value: css}
}

func Heading(level int, name string) Selector {
	return Selector{Kind: SelectorRole, Role: RoleHeading, Name: name, Level: level}
}

func (s Selector) String() string {
	switch s.Kind {
	case SelectorRole:
		out := "role=" + string(s.Role)
		if s.Name != "" {
			out += fmt.Sprintf("[name=%q]", s.Name)
		}
		if s.Level > 0 {
			out += "[level=" + strconv.Itoa(s.Level) + "]"
		}
		return out
	case SelectorField:
		return fmt.Sprintf("field=%q", s.Name)
	default:
		return "css=" + s.Value
	}
}
