package core

import (
	"errors"
	"testing"
)

func TestDrawerState_ManagedFieldsOnlyShownInRawMode(t *testing.T) {
	s := NewDrawerState()
	s.OpenDrawer()

	s.SetManagedFields(true)
	if s.ShowManagedFields() {
		t.Error("managed fields must be ignored in structured mode")
	}

	s.SetMode(DisplayRaw)
	if !s.ShowManagedFields() {
		t.Error("managed fields must be shown in raw mode when the flag is set")
	}

	s.ToggleMode()
	if s.Mode != DisplayStructured {
		t.Fatalf("expected structured mode, got %s", s.Mode)
	}
	if !s.ManagedFields {
		t.Error("switching to structured mode must not clear the flag")
	}

	s.ToggleMode()
	if !s.ShowManagedFields() {
		t.Error("flag must take effect again after returning to raw mode")
	}
}

func TestDrawerState_CloseKeepsState(t *testing.T) {
	s := NewDrawerState()
	s.OpenDrawer()
	s.SetMode(DisplayRaw)
	s.ToggleManagedFields()

	s.CloseDrawer()

	if s.Open {
		t.Error("expected drawer to be closed")
	}
	if s.Mode != DisplayRaw || !s.ManagedFields {
		t.Errorf("closing must keep mode and flag, got %+v", s)
	}
}

func TestDrawerAction_Apply(t *testing.T) {
	tests := []struct {
		name    string
		start   DrawerState
		action  DrawerAction
		want    DrawerState
		wantErr bool
	}{
		{
			name:   "open",
			start:  NewDrawerState(),
			action: DrawerAction{Type: ActionOpen},
			want:   DrawerState{Open: true, Mode: DisplayStructured},
		},
		{
			name:   "close",
			start:  DrawerState{Open: true, Mode: DisplayRaw, ManagedFields: true},
			action: DrawerAction{Type: ActionClose},
			want:   DrawerState{Mode: DisplayRaw, ManagedFields: true},
		},
		{
			name:   "set raw mode",
			start:  DrawerState{Open: true, Mode: DisplayStructured},
			action: DrawerAction{Type: ActionSetMode, Mode: DisplayRaw},
			want:   DrawerState{Open: true, Mode: DisplayRaw},
		},
		{
			name:   "toggle mode keeps flag",
			start:  DrawerState{Open: true, Mode: DisplayRaw, ManagedFields: true},
			action: DrawerAction{Type: ActionToggleMode},
			want:   DrawerState{Open: true, Mode: DisplayStructured, ManagedFields: true},
		},
		{
			name:   "set managed fields",
			start:  DrawerState{Open: true, Mode: DisplayRaw},
			action: DrawerAction{Type: ActionSetManagedFields, ManagedFields: true},
			want:   DrawerState{Open: true, Mode: DisplayRaw, ManagedFields: true},
		},
		{
			name:   "toggle managed fields",
			start:  DrawerState{Open: true, Mode: DisplayRaw, ManagedFields: true},
			action: DrawerAction{Type: ActionToggleManagedFields},
			want:   DrawerState{Open: true, Mode: DisplayRaw},
		},
		{
			name:    "unknown mode",
			start:   NewDrawerState(),
			action:  DrawerAction{Type: ActionSetMode, Mode: "table"},
			want:    NewDrawerState(),
			wantErr: true,
		},
		{
			name:    "unknown action",
			start:   NewDrawerState(),
			action:  DrawerAction{Type: "resize"},
			want:    NewDrawerState(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.start
			err := tt.action.Apply(&s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Apply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invalid *ErrInvalidInput
				if !errors.As(err, &invalid) {
					t.Errorf("expected ErrInvalidInput, got %T", err)
				}
			}
			if s != tt.want {
				t.Errorf("state = %+v, want %+v", s, tt.want)
			}
		})
	}
}

func TestParseDisplayMode(t *testing.T) {
	if m, err := ParseDisplayMode(""); err != nil || m != DisplayStructured {
		t.Errorf("ParseDisplayMode(\"\") = %q, %v", m, err)
	}
	if m, err := ParseDisplayMode("raw"); err != nil || m != DisplayRaw {
		t.Errorf("ParseDisplayMode(raw) = %q, %v", m, err)
	}
	if _, err := ParseDisplayMode("yaml"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
