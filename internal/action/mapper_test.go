package action

import (
	"errors"
	"reflect"
	"testing"

	"github.com/pleimann/navpad/internal/config"
)

func TestMapperMap(t *testing.T) {
	cfg := &config.Config{
		Keymap: map[string][]string{
			ActionMenu:  {"f2"},
			ActionTorch: {"ctrl+t"},
		},
		Commands: map[string]string{
			ActionScreenshot: "scrot /tmp/shot.png",
			ActionBack:       "notify-send back",
		},
	}
	mapper := NewMapper(cfg)

	tests := []struct {
		name    string
		action  string
		want    Effect
		wantErr error
	}{
		{
			name:   "default keymap",
			action: ActionHome,
			want:   Effect{Action: ActionHome, Keys: []string{"home"}},
		},
		{
			name:   "config keymap overrides default",
			action: ActionMenu,
			want:   Effect{Action: ActionMenu, Keys: []string{"f2"}},
		},
		{
			name:   "config keymap for unbound action",
			action: ActionTorch,
			want:   Effect{Action: ActionTorch, Keys: []string{"ctrl+t"}},
		},
		{
			name:   "command wins over keys",
			action: ActionBack,
			want:   Effect{Action: ActionBack, Command: "notify-send back"},
		},
		{
			name:   "configured command",
			action: ActionScreenshot,
			want:   Effect{Action: ActionScreenshot, Command: "scrot /tmp/shot.png"},
		},
		{
			name:   "command line action",
			action: "htop -d 10",
			want:   Effect{Action: "htop -d 10", Command: "htop -d 10"},
		},
		{
			name:   "known but unbound",
			action: ActionPowerMenu,
			want:   Effect{Action: ActionPowerMenu},
		},
		{
			name:   "empty action",
			action: "",
			want:   Effect{},
		},
		{
			name:   "null action",
			action: ActionNull,
			want:   Effect{Action: ActionNull},
		},
		{
			name:    "unknown system action",
			action:  "**teleport**",
			want:    Effect{Action: "**teleport**"},
			wantErr: ErrUnknownAction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mapper.Map(tt.action)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Map(%q) error = %v, want %v", tt.action, err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Map(%q) = %+v, want %+v", tt.action, got, tt.want)
			}
		})
	}
}

func TestMapperReload(t *testing.T) {
	mapper := NewMapper(&config.Config{
		Commands: map[string]string{ActionHome: "true"},
	})

	if e, _ := mapper.Map(ActionHome); e.Command != "true" {
		t.Fatalf("before reload: %+v", e)
	}

	mapper.Reload(&config.Config{
		Keymap: map[string][]string{ActionHome: {"ctrl+a"}},
	})

	e, err := mapper.Map(ActionHome)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if e.Command != "" || !reflect.DeepEqual(e.Keys, []string{"ctrl+a"}) {
		t.Errorf("after reload: %+v, want keys [ctrl+a]", e)
	}
}

func TestDefaultKeymapParses(t *testing.T) {
	for action, keys := range DefaultKeymap {
		if !IsKnown(action) {
			t.Errorf("DefaultKeymap has unknown action %q", action)
		}
		for _, k := range keys {
			if _, err := ParseKey(k); err != nil {
				t.Errorf("DefaultKeymap[%q] key %q: %v", action, k, err)
			}
		}
	}
}

func TestEffectString(t *testing.T) {
	tests := []struct {
		effect Effect
		want   string
	}{
		{Effect{Command: "ls -l"}, "run ls -l"},
		{Effect{Keys: []string{"esc", "q"}}, "keys esc q"},
		{Effect{}, "none"},
	}
	for _, tt := range tests {
		if got := tt.effect.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
