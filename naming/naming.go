package naming

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidConvention = errors.New("invalid naming convention")

type Kind int

const (
	Ignored Kind = iota
	Assembly
	Component
)

func (k Kind) String() string {
	switch k {
	case Assembly:
		return "assembly"
	case Component:
		return "component"
	default:
		return "ignored"
	}
}

// Convention is an ordered prefix list. The first prefix marks assemblies,
// the second marks components. Extra prefixes only make names visible.
type Convention []string

// Parse reads a comma separated prefix list such as "ASM, CMP".
func Parse(s string) Convention {
	var conv Convention
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			conv = append(conv, p)
		}
	}
	return conv
}

func (c Convention) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: no prefixes", ErrInvalidConvention)
	}
	for i, p := range c {
		if p == "" {
			return fmt.Errorf("%w: empty prefix at %d", ErrInvalidConvention, i)
		}
	}
	return nil
}

func (c Convention) Matches(name string) bool {
	for _, p := range c {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func (c Convention) AssemblyPrefix() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

func (c Convention) ComponentPrefix() string {
	if len(c) < 2 {
		return ""
	}
	return c[1]
}

func (c Convention) IsAssembly(name string) bool {
	return len(c) > 0 && strings.HasPrefix(name, c[0])
}

func (c Convention) IsComponent(name string) bool {
	return len(c) > 1 && strings.HasPrefix(name, c[1])
}

// Kind classifies name. The assembly prefix wins when both match.
func (c Convention) Kind(name string) Kind {
	switch {
	case c.IsAssembly(name):
		return Assembly
	case c.IsComponent(name):
		return Component
	case c.Matches(name):
		return Component
	default:
		return Ignored
	}
}

func (c Convention) Equal(o Convention) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

func (c Convention) String() string {
	return strings.Join(c, ", ")
}
