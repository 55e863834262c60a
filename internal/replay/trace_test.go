package replay

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tr, err := Parse([]byte(`
events:
  - {at_ms: 0, button: back, phase: down}
  - {at_ms: 40, slot: 2, phase: move, x: 3, y: 4}
  - at_ms: 60
    state:
      ime_shown: true
  - {at_ms: 80, orientation: landscape}
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(tr.Events) != 4 {
		t.Fatalf("len(Events) = %d, want 4", len(tr.Events))
	}
	if tr.TailMs != 1000 {
		t.Errorf("TailMs = %d, want default 1000", tr.TailMs)
	}
	if s := tr.Events[1]; s.Slot == nil || *s.Slot != 2 || s.X != 3 || s.Y != 4 {
		t.Errorf("Events[1] = %+v", s)
	}
	if s := tr.Events[2]; s.State == nil || !s.State.IMEShown {
		t.Errorf("Events[2].State = %+v", s.State)
	}
	if tr.Events[3].Orientation != "landscape" {
		t.Errorf("Events[3].Orientation = %q", tr.Events[3].Orientation)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		trace   string
		wantErr string
	}{
		{
			name:    "bad yaml",
			trace:   "events: [",
			wantErr: "failed to parse trace",
		},
		{
			name: "time goes backwards",
			trace: `events:
  - {at_ms: 50, button: back, phase: down}
  - {at_ms: 10, button: back, phase: up}`,
			wantErr: "goes back in time",
		},
		{
			name:    "unknown phase",
			trace:   `events: [{at_ms: 0, button: back, phase: hover}]`,
			wantErr: "unknown pointer phase",
		},
		{
			name:    "no target",
			trace:   `events: [{at_ms: 0, phase: down}]`,
			wantErr: "needs a button or slot",
		},
		{
			name:    "empty step",
			trace:   `events: [{at_ms: 0}]`,
			wantErr: "needs a phase, state or orientation",
		},
		{
			name:    "bad orientation",
			trace:   `events: [{at_ms: 0, orientation: sideways}]`,
			wantErr: "orientation must be",
		},
		{
			name:    "negative tail",
			trace:   "tail_ms: -5\nevents: []",
			wantErr: "tail_ms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.trace))
			if err == nil {
				t.Fatal("Parse() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.yaml")
	if err := os.WriteFile(path, []byte("tail_ms: 250\nevents: [{at_ms: 0, button: home, phase: down}]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tr, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tr.TailMs != 250 || len(tr.Events) != 1 {
		t.Errorf("Load() = %+v", tr)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of missing file expected error")
	}
}
