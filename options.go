package datatable

import "strings"

// Modifiers is a bit set of the keyboard modifiers
// held down during a pointer gesture.
type Modifiers int

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModMeta

	ModNone Modifiers = 0
)

func (m Modifiers) Has(mod Modifiers) bool {
	return m&mod != 0
}

// Toggles reports if the gesture should toggle a single row
// in and out of the selection (ctrl-click or cmd-click).
func (m Modifiers) Toggles() bool {
	return m.Has(ModCtrl) || m.Has(ModMeta)
}

func (m Modifiers) String() string {
	var b strings.Builder
	for _, n := range []struct {
		mod  Modifiers
		name string
	}{
		{ModShift, "Shift"},
		{ModCtrl, "Ctrl"},
		{ModMeta, "Meta"},
	} {
		if !m.Has(n.mod) {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("|")
		}
		b.WriteString(n.name)
	}
	if b.Len() == 0 {
		return "no Modifiers"
	}
	return b.String()
}
