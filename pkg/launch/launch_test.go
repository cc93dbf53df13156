package launch

import (
	"encoding/json"
	"testing"
)

func TestParseWindowState(t *testing.T) {
	tests := []struct {
		input   string
		want    WindowState
		wantErr bool
	}{
		{input: "normal", want: WindowNormal},
		{input: "", want: WindowNormal},
		{input: "Maximized", want: WindowMaximized},
		{input: "MINIMIZED", want: WindowMinimized},
		{input: "hidden", want: WindowHidden},
		{input: "fullscreen", wantErr: true},
		{input: "3", wantErr: true},
	}

	for _, tt := range tests {
		label := tt.input
		if label == "" {
			label = "(empty)"
		}
		t.Run(label, func(t *testing.T) {
			got, err := ParseWindowState(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseWindowState(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseWindowState(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseWindowState(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestWindowStateString(t *testing.T) {
	tests := []struct {
		state WindowState
		want  string
	}{
		{WindowNormal, "normal"},
		{WindowMaximized, "maximized"},
		{WindowMinimized, "minimized"},
		{WindowHidden, "hidden"},
		{WindowState(9), "unknown(9)"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("WindowState(%d).String() = %q, want %q", uint8(tt.state), got, tt.want)
		}
	}
}

func TestWindowStateJSON(t *testing.T) {
	for _, state := range []WindowState{WindowNormal, WindowMaximized, WindowMinimized, WindowHidden} {
		t.Run(state.String(), func(t *testing.T) {
			data, err := json.Marshal(state)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(data) != `"`+state.String()+`"` {
				t.Errorf("Marshal = %s, want %q", data, state.String())
			}

			var decoded WindowState
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if decoded != state {
				t.Errorf("roundtrip: got %v, want %v", decoded, state)
			}
		})
	}

	t.Run("unknown name", func(t *testing.T) {
		var state WindowState
		if err := json.Unmarshal([]byte(`"fullscreen"`), &state); err == nil {
			t.Error("Unmarshal(\"fullscreen\") should fail")
		}
	})

	t.Run("number instead of name", func(t *testing.T) {
		var state WindowState
		if err := json.Unmarshal([]byte(`2`), &state); err == nil {
			t.Error("Unmarshal(2) should fail")
		}
	})
}

func TestIsBatchFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"setup.bat", true},
		{"SETUP.BAT", true},
		{"run.cmd", true},
		{"run.CMD", true},
		{"app.exe", false},
		{"app", false},
		{"archive.bat.gz", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isBatchFile(tt.path); got != tt.want {
			t.Errorf("isBatchFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
