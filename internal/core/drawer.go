package core

import "fmt"

// DisplayMode selects how the drawer shows its object.
type DisplayMode string

const (
	// DisplayStructured is the flattened key/value table.
	DisplayStructured DisplayMode = "structured"
	// DisplayRaw is the YAML text.
	DisplayRaw DisplayMode = "raw"
)

// ParseDisplayMode accepts "structured", "raw" and the empty string
// (structured).
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch DisplayMode(s) {
	case "", DisplayStructured:
		return DisplayStructured, nil
	case DisplayRaw:
		return DisplayRaw, nil
	default:
		return "", &ErrInvalidInput{Field: "mode", Message: fmt.Sprintf("unknown display mode %q", s)}
	}
}

// DrawerState is the toggle and visibility state of one object drawer.
//
// The managed-fields flag belongs to the raw view. It is kept as-is
// while the drawer shows the structured table or is closed, and only
// takes effect through ShowManagedFields.
type DrawerState struct {
	Open          bool        `json:"open"`
	Mode          DisplayMode `json:"mode"`
	ManagedFields bool        `json:"managedFields"`
}

// NewDrawerState returns a closed drawer in structured mode.
func NewDrawerState() DrawerState {
	return DrawerState{Mode: DisplayStructured}
}

func (s *DrawerState) OpenDrawer()  { s.Open = true }
func (s *DrawerState) CloseDrawer() { s.Open = false }

// SetMode switches the display mode without touching the
// managed-fields flag.
func (s *DrawerState) SetMode(m DisplayMode) { s.Mode = m }

// ToggleMode flips between structured and raw display.
func (s *DrawerState) ToggleMode() {
	if s.Mode == DisplayRaw {
		s.Mode = DisplayStructured
		return
	}
	s.Mode = DisplayRaw
}

func (s *DrawerState) SetManagedFields(on bool) { s.ManagedFields = on }
func (s *DrawerState) ToggleManagedFields()     { s.ManagedFields = !s.ManagedFields }

// ShowManagedFields reports whether the YAML view must include
// managedFields.
func (s DrawerState) ShowManagedFields() bool {
	return s.Mode == DisplayRaw && s.ManagedFields
}

// DrawerActionType names a transition of DrawerState.
type DrawerActionType string

const (
	ActionOpen                DrawerActionType = "open"
	ActionClose               DrawerActionType = "close"
	ActionSetMode             DrawerActionType = "set_mode"
	ActionToggleMode          DrawerActionType = "toggle_mode"
	ActionSetManagedFields    DrawerActionType = "set_managed_fields"
	ActionToggleManagedFields DrawerActionType = "toggle_managed_fields"
)

// DrawerAction is a user interaction with the drawer. Mode is read by
// ActionSetMode and ManagedFields by ActionSetManagedFields.
type DrawerAction struct {
	Type          DrawerActionType
	Mode          DisplayMode
	ManagedFields bool
}

// Apply performs the action on s.
func (a DrawerAction) Apply(s *DrawerState) error {
	switch a.Type {
	case ActionOpen:
		s.OpenDrawer()
	case ActionClose:
		s.CloseDrawer()
	case ActionSetMode:
		m, err := ParseDisplayMode(string(a.Mode))
		if err != nil {
			return err
		}
		s.SetMode(m)
	case ActionToggleMode:
		s.ToggleMode()
	case ActionSetManagedFields:
		s.SetManagedFields(a.ManagedFields)
	case ActionToggleManagedFields:
		s.ToggleManagedFields()
	default:
		return &ErrInvalidInput{Field: "action", Message: fmt.Sprintf("unknown drawer action %q", a.Type)}
	}
	return nil
}
