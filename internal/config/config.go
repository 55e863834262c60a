package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Reserved slot names. Configured keys may not reuse them.
const (
	SlotMenuLeft    = "menu_left"
	SlotMenuRight   = "menu_right"
	SlotIMESwitcher = "ime_switcher"
)

// Legacy menu action code ranges
const (
	MaxLegacyClickAction = 20
	MaxLegacyLongAction  = 24
)

type Config struct {
	Device   DeviceConfig        `yaml:"device"`
	Touch    TouchConfig         `yaml:"touch"`
	Timing   TimingConfig        `yaml:"timing"`
	TUI      TUIConfig           `yaml:"tui"`
	Bar      BarConfig           `yaml:"bar"`
	Keymap   map[string][]string `yaml:"keymap,omitempty"`
	Commands map[string]string   `yaml:"commands,omitempty"`
	Feedback FeedbackConfig      `yaml:"feedback"`
	Logging  LoggingConfig       `yaml:"logging"`
}

type DeviceConfig struct {
	VendorID       uint16 `yaml:"vendor_id"`
	ProductID      uint16 `yaml:"product_id"`
	// PollIntervalMs is how often a lost pad is looked for again
	PollIntervalMs int    `yaml:"poll_interval_ms"`
}

func (d DeviceConfig) PollInterval() time.Duration {
	return time.Duration(d.PollIntervalMs) * time.Millisecond
}

// TouchConfig configures the evdev touch panel source. Rects maps slot
// names to their area in panel coordinates.
type TouchConfig struct {
	Path  string          `yaml:"path,omitempty"`
	Rects map[string]Rect `yaml:"rects,omitempty"`
}

type Rect struct {
	X      float32 `yaml:"x"`
	Y      float32 `yaml:"y"`
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// Contains reports whether the point lies inside the rectangle
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

type TimingConfig struct {
	DoubleTapWindowMs  int     `yaml:"double_tap_window_ms"`
	LongPressTimeoutMs int     `yaml:"long_press_timeout_ms"`
	RepeatTimeoutMs    int     `yaml:"repeat_timeout_ms"`
	RepeatIntervalMs   int     `yaml:"repeat_interval_ms"`
	TouchSlop          float32 `yaml:"touch_slop"`
	PowerBoostMs       int     `yaml:"power_boost_ms"`
}

func (t TimingConfig) DoubleTapWindow() time.Duration {
	return time.Duration(t.DoubleTapWindowMs) * time.Millisecond
}

func (t TimingConfig) LongPressTimeout() time.Duration {
	return time.Duration(t.LongPressTimeoutMs) * time.Millisecond
}

func (t TimingConfig) RepeatTimeout() time.Duration {
	return time.Duration(t.RepeatTimeoutMs) * time.Millisecond
}

func (t TimingConfig) RepeatInterval() time.Duration {
	return time.Duration(t.RepeatIntervalMs) * time.Millisecond
}

func (t TimingConfig) PowerBoost() time.Duration {
	return time.Duration(t.PowerBoostMs) * time.Millisecond
}

type TUIConfig struct {
	Command    string   `yaml:"command"`
	Args       []string `yaml:"args"`
	WorkingDir string   `yaml:"working_dir,omitempty"`
	KeyDelayMs int      `yaml:"key_delay_ms,omitempty"`
}

type BarConfig struct {
	Orientation       string      `yaml:"orientation"`
	CanMove           *bool       `yaml:"can_move,omitempty"`
	CancelOnSlopExit  bool        `yaml:"cancel_on_slop_exit,omitempty"`
	// IgnoreNullActions treats **null** and **blank** double and long
	// actions as unset, so a tap on such a button fires on release
	IgnoreNullActions bool        `yaml:"ignore_null_actions,omitempty"`
	ButtonWidth       float32     `yaml:"button_width"`
	ButtonHeight      float32     `yaml:"button_height"`
	Menu              MenuConfig  `yaml:"menu"`
	Buttons           []Button    `yaml:"buttons"`
	State             StateConfig `yaml:"state"`
}

// Landscape reports whether the bar starts in landscape orientation
func (b BarConfig) Landscape() bool {
	return b.Orientation == "landscape"
}

// Movable reports whether landscape reverses the slot order
func (b BarConfig) Movable() bool {
	return b.CanMove == nil || *b.CanMove
}

// Button is one configurable key of the bar. Actions are either system
// action identifiers (**back**) or shell command lines.
type Button struct {
	Name        string `yaml:"name"`
	Press       string `yaml:"press"`
	DoublePress string `yaml:"double_press,omitempty"`
	LongPress   string `yaml:"long_press,omitempty"`
}

type MenuConfig struct {
	LegacyLayout *bool  `yaml:"legacy_layout,omitempty"`
	Visibility   string `yaml:"visibility"`
	Setting      string `yaml:"setting"`
	OverrideKeys bool   `yaml:"override_keys,omitempty"`

	LeftAction      int  `yaml:"left_action"`
	RightAction     int  `yaml:"right_action"`
	LeftLongAction  *int `yaml:"left_long_action,omitempty"`
	RightLongAction *int `yaml:"right_long_action,omitempty"`

	LeftShortcut      string `yaml:"left_shortcut,omitempty"`
	RightShortcut     string `yaml:"right_shortcut,omitempty"`
	LeftLongShortcut  string `yaml:"left_long_shortcut,omitempty"`
	RightLongShortcut string `yaml:"right_long_shortcut,omitempty"`
}

// Legacy reports whether the menu and IME switcher slots exist at all
func (m MenuConfig) Legacy() bool {
	return m.LegacyLayout == nil || *m.LegacyLayout
}

func (m MenuConfig) LeftLong() int {
	if m.LeftLongAction == nil {
		return MaxLegacyLongAction
	}
	return *m.LeftLongAction
}

func (m MenuConfig) RightLong() int {
	if m.RightLongAction == nil {
		return MaxLegacyLongAction
	}
	return *m.RightLongAction
}

// StateConfig holds the navigation hints and disabled flags the bar starts with
type StateConfig struct {
	IMEShown      bool `yaml:"ime_shown,omitempty"`
	BackAlt       bool `yaml:"back_alt,omitempty"`
	DisableHome   bool `yaml:"disable_home,omitempty"`
	DisableRecent bool `yaml:"disable_recent,omitempty"`
	DisableBack   bool `yaml:"disable_back,omitempty"`
	ShowMenu      bool `yaml:"show_menu,omitempty"`
	LockTask      bool `yaml:"lock_task,omitempty"`
}

type FeedbackConfig struct {
	VirtualKeyMs   int    `yaml:"virtual_key_ms"`
	LongPressMs    int    `yaml:"long_press_ms"`
	ClickMs        int    `yaml:"click_ms"`
	PowerBoostPath string `yaml:"power_boost_path,omitempty"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress,omitempty"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes, validates and defaults a YAML configuration
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.ApplyDefaults()

	return &cfg, nil
}

func (c *Config) validate() error {
	if (c.Device.VendorID == 0) != (c.Device.ProductID == 0) {
		if c.Device.VendorID == 0 {
			return fmt.Errorf("device.vendor_id is required")
		}
		return fmt.Errorf("device.product_id is required")
	}
	if c.Device.VendorID == 0 && c.Touch.Path == "" {
		return fmt.Errorf("an input source is required: set device ids or touch.path")
	}

	switch c.Bar.Orientation {
	case "", "portrait", "landscape":
	default:
		return fmt.Errorf("bar.orientation must be portrait or landscape, got %q", c.Bar.Orientation)
	}

	seen := make(map[string]bool)
	for i, btn := range c.Bar.Buttons {
		if btn.Name == "" {
			return fmt.Errorf("bar.buttons[%d]: name is required", i)
		}
		switch btn.Name {
		case SlotMenuLeft, SlotMenuRight, SlotIMESwitcher:
			return fmt.Errorf("bar.buttons[%d]: name %q is reserved", i, btn.Name)
		}
		if seen[btn.Name] {
			return fmt.Errorf("duplicate button name: %s", btn.Name)
		}
		seen[btn.Name] = true
	}

	m := c.Bar.Menu
	switch m.Visibility {
	case "", "always", "never", "system":
	default:
		return fmt.Errorf("bar.menu.visibility must be always, never or system, got %q", m.Visibility)
	}
	switch m.Setting {
	case "", "left", "right", "both":
	default:
		return fmt.Errorf("bar.menu.setting must be left, right or both, got %q", m.Setting)
	}
	if m.LeftAction < 0 || m.LeftAction > MaxLegacyClickAction {
		return fmt.Errorf("bar.menu.left_action out of range: %d", m.LeftAction)
	}
	if m.RightAction < 0 || m.RightAction > MaxLegacyClickAction {
		return fmt.Errorf("bar.menu.right_action out of range: %d", m.RightAction)
	}
	if l := m.LeftLong(); l < 0 || l > MaxLegacyLongAction {
		return fmt.Errorf("bar.menu.left_long_action out of range: %d", l)
	}
	if l := m.RightLong(); l < 0 || l > MaxLegacyLongAction {
		return fmt.Errorf("bar.menu.right_long_action out of range: %d", l)
	}

	t := c.Timing
	if t.DoubleTapWindowMs < 0 || t.LongPressTimeoutMs < 0 || t.RepeatTimeoutMs < 0 ||
		t.RepeatIntervalMs < 0 || t.PowerBoostMs < 0 || t.TouchSlop < 0 {
		return fmt.Errorf("timing values must not be negative")
	}

	for name, r := range c.Touch.Rects {
		if r.Width <= 0 || r.Height <= 0 {
			return fmt.Errorf("touch.rects.%s: width and height must be positive", name)
		}
	}

	if c.Logging.Level != "" {
		if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
			return fmt.Errorf("logging.level: %w", err)
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

// ApplyDefaults fills every unset field. Load calls it; configs built in
// code call it directly.
func (c *Config) ApplyDefaults() {
	if c.Device.PollIntervalMs == 0 {
		c.Device.PollIntervalMs = 1000
	}
	if c.Timing.DoubleTapWindowMs == 0 {
		c.Timing.DoubleTapWindowMs = 200
	}
	if c.Timing.LongPressTimeoutMs == 0 {
		c.Timing.LongPressTimeoutMs = 500
	}
	if c.Timing.RepeatTimeoutMs == 0 {
		c.Timing.RepeatTimeoutMs = 500
	}
	if c.Timing.RepeatIntervalMs == 0 {
		c.Timing.RepeatIntervalMs = 75
	}
	if c.Timing.TouchSlop == 0 {
		c.Timing.TouchSlop = 8
	}
	if c.Timing.PowerBoostMs == 0 {
		c.Timing.PowerBoostMs = 750
	}

	if c.Bar.Orientation == "" {
		c.Bar.Orientation = "portrait"
	}
	if c.Bar.ButtonWidth == 0 {
		c.Bar.ButtonWidth = 80
	}
	if c.Bar.ButtonHeight == 0 {
		c.Bar.ButtonHeight = 48
	}
	if c.Bar.Menu.Visibility == "" {
		c.Bar.Menu.Visibility = "system"
	}
	if c.Bar.Menu.Setting == "" {
		c.Bar.Menu.Setting = "right"
	}
	if len(c.Bar.Buttons) == 0 {
		c.Bar.Buttons = []Button{
			{Name: "back", Press: "**back**"},
			{Name: "home", Press: "**home**", LongPress: "**assist**"},
			{Name: "recents", Press: "**recents**", DoublePress: "**lastapp**"},
		}
	}

	if c.Feedback.VirtualKeyMs == 0 {
		c.Feedback.VirtualKeyMs = 15
	}
	if c.Feedback.LongPressMs == 0 {
		c.Feedback.LongPressMs = 40
	}
	if c.Feedback.ClickMs == 0 {
		c.Feedback.ClickMs = 5
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 3
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = 28
	}
}

// UpdateDeviceIDs updates the vendor_id and product_id in a config file
// while preserving the rest of the file structure and comments
func UpdateDeviceIDs(path string, vendorID, productID uint16) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content := string(data)

	vendorRegex := regexp.MustCompile(`(?m)^(\s*vendor_id:\s*)(?:0x[0-9A-Fa-f]+|\d+)`)
	content = vendorRegex.ReplaceAllString(content, fmt.Sprintf("${1}0x%04X", vendorID))

	productRegex := regexp.MustCompile(`(?m)^(\s*product_id:\s*)(?:0x[0-9A-Fa-f]+|\d+)`)
	content = productRegex.ReplaceAllString(content, fmt.Sprintf("${1}0x%04X", productID))

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateDefaultConfig writes a starter config for the given pad
func CreateDefaultConfig(path string, vendorID, productID uint16) error {
	content := fmt.Sprintf(`# navpad configuration

device:
  vendor_id: 0x%04X
  product_id: 0x%04X
  poll_interval_ms: 1000

timing:
  double_tap_window_ms: 200
  long_press_timeout_ms: 500
  repeat_timeout_ms: 500
  repeat_interval_ms: 75
  touch_slop: 8

tui:
  command: "your-tui-app"
  args: []

bar:
  orientation: portrait
  menu:
    visibility: system
    setting: right
    left_action: 0
    right_action: 0
  buttons:
    - name: back
      press: "**back**"
    - name: home
      press: "**home**"
      long_press: "**assist**"
    - name: recents
      press: "**recents**"
      double_press: "**lastapp**"

logging:
  level: info
  format: text
`, vendorID, productID)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// Exists checks if a config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
