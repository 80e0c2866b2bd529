// Package keymap provides key binding definitions and lookup for the TUI.
// Bindings are declared per mode and can be overridden from configuration
// with key specs such as "ctrl+s" or "alt+enter".
package keymap

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents the current input mode of the TUI.
// Different modes have different key bindings active.
type Mode string

const (
	ModeForm  Mode = "form"  // Editing a document (default)
	ModeAlert Mode = "alert" // A blocking alert is shown
	ModeHelp  Mode = "help"  // Help overlay is shown
)

// Command represents a named action that can be triggered by a key binding.
type Command string

// Form mode commands
const (
	// Review actions
	CmdPublish Command = "publish"
	CmdDraft   Command = "draft"
	CmdSkip    Command = "skip"
	CmdNext    Command = "next"
	CmdCleanup Command = "cleanup"
	CmdReOCR   Command = "reocr"

	// Preview
	CmdPreviewPDF    Command = "preview_pdf"
	CmdPreviewDOCX   Command = "preview_docx"
	CmdTogglePreview Command = "toggle_preview"
	CmdOpenPreview   Command = "open_preview"
	CmdScrollUp      Command = "scroll_preview_up"
	CmdScrollDown    Command = "scroll_preview_down"

	// Focus
	CmdFocusNext Command = "focus_next"
	CmdFocusPrev Command = "focus_prev"

	// Application
	CmdToggleHelp Command = "toggle_help"
	CmdQuit       Command = "quit"
)

// Alert and help mode commands
const (
	CmdDismiss Command = "dismiss"
)

// Modifier represents keyboard modifiers (Ctrl, Alt, Shift).
type Modifier uint8

const (
	ModNone Modifier = 0
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
)

// String returns a human-readable representation of modifiers.
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}
	var s string
	if m&ModCtrl != 0 {
		s += "ctrl+"
	}
	if m&ModAlt != 0 {
		s += "alt+"
	}
	if m&ModShift != 0 {
		s += "shift+"
	}
	return s
}

// KeyBinding represents a single key binding configuration.
type KeyBinding struct {
	// KeyType is the key. For rune keys use tea.KeyRunes and set Rune.
	KeyType tea.KeyType

	// Rune is the character for rune-based keys (when KeyType is tea.KeyRunes).
	Rune rune

	// Modifiers contains the modifier keys that must be pressed.
	Modifiers Modifier

	// Command is the action to execute when this binding is triggered.
	Command Command

	// Description is a human-readable description for help display.
	Description string

	// Category groups related bindings together in help display.
	Category string
}

// Matches checks if a tea.KeyMsg matches this binding.
func (kb KeyBinding) Matches(msg tea.KeyMsg) bool {
	wantAlt := kb.Modifiers&ModAlt != 0
	if msg.Alt != wantAlt {
		return false
	}

	if kb.KeyType != tea.KeyRunes {
		return msg.Type == kb.KeyType
	}

	if msg.Type != tea.KeyRunes || len(msg.Runes) == 0 {
		return false
	}
	return msg.Runes[0] == kb.Rune
}

// String returns a human-readable representation of the key binding.
func (kb KeyBinding) String() string {
	prefix := kb.Modifiers.String()

	if kb.KeyType != tea.KeyRunes {
		return prefix + kb.KeyType.String()
	}

	switch kb.Rune {
	case ' ':
		return prefix + "space"
	default:
		return prefix + string(kb.Rune)
	}
}

// ModeBindings holds all key bindings for a specific mode.
type ModeBindings struct {
	Mode     Mode
	Bindings []KeyBinding
}

// GetBinding looks up a command for a key in this mode.
// Returns the command and true if found, or empty command and false if not.
func (mb *ModeBindings) GetBinding(msg tea.KeyMsg) (Command, bool) {
	for _, binding := range mb.Bindings {
		if binding.Matches(msg) {
			return binding.Command, true
		}
	}
	return "", false
}

// Keymap contains all key bindings organized by mode.
type Keymap struct {
	// Name identifies this keymap.
	Name string

	// Description provides a human-readable description.
	Description string

	// Modes maps each mode to its bindings.
	Modes map[Mode]*ModeBindings
}

// GetBinding looks up a command for a key in a specific mode.
// Returns the command and true if found, or empty command and false if not.
func (km *Keymap) GetBinding(msg tea.KeyMsg, mode Mode) (Command, bool) {
	mb, ok := km.Modes[mode]
	if !ok {
		return "", false
	}
	return mb.GetBinding(msg)
}

// GetModeBindings returns all bindings for a specific mode.
func (km *Keymap) GetModeBindings(mode Mode) []KeyBinding {
	mb, ok := km.Modes[mode]
	if !ok {
		return nil
	}
	return mb.Bindings
}

// GetBindingsForCommand returns all bindings that trigger a specific command.
func (km *Keymap) GetBindingsForCommand(cmd Command, mode Mode) []KeyBinding {
	mb, ok := km.Modes[mode]
	if !ok {
		return nil
	}

	var result []KeyBinding
	for _, binding := range mb.Bindings {
		if binding.Command == cmd {
			result = append(result, binding)
		}
	}
	return result
}

// KeysFor returns "alt+enter/ctrl+p" style text for cmd in mode.
func (km *Keymap) KeysFor(cmd Command, mode Mode) string {
	var keys []string
	for _, b := range km.GetBindingsForCommand(cmd, mode) {
		keys = append(keys, b.String())
	}
	return strings.Join(keys, "/")
}

// GetCategories returns all unique categories in a mode's bindings, in
// declaration order.
func (km *Keymap) GetCategories(mode Mode) []string {
	mb, ok := km.Modes[mode]
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	var categories []string
	for _, binding := range mb.Bindings {
		if binding.Category != "" && !seen[binding.Category] {
			seen[binding.Category] = true
			categories = append(categories, binding.Category)
		}
	}
	return categories
}

// GetBindingsByCategory returns bindings grouped by category for a mode.
func (km *Keymap) GetBindingsByCategory(mode Mode) map[string][]KeyBinding {
	mb, ok := km.Modes[mode]
	if !ok {
		return nil
	}

	result := make(map[string][]KeyBinding)
	for _, binding := range mb.Bindings {
		cat := binding.Category
		if cat == "" {
			cat = "Other"
		}
		result[cat] = append(result[cat], binding)
	}
	return result
}

// Override replaces every form-mode binding for cmd with the keys in specs.
// specs is a comma-separated list such as "alt+enter, ctrl+p". The
// description and category of the replaced bindings are kept.
func (km *Keymap) Override(cmd Command, specs string) error {
	if !IsFormCommand(cmd) {
		return fmt.Errorf("unknown command %q", cmd)
	}
	mb, ok := km.Modes[ModeForm]
	if !ok {
		return fmt.Errorf("keymap has no %s mode", ModeForm)
	}

	template := KeyBinding{Command: cmd, Description: string(cmd)}
	if existing := km.GetBindingsForCommand(cmd, ModeForm); len(existing) > 0 {
		template = existing[0]
	}

	var replacement []KeyBinding
	for _, spec := range strings.Split(specs, ",") {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		keyType, r, mods, err := ParseKeySpec(spec)
		if err != nil {
			return fmt.Errorf("%s: %w", cmd, err)
		}
		b := template
		b.KeyType, b.Rune, b.Modifiers = keyType, r, mods
		replacement = append(replacement, b)
	}
	if len(replacement) == 0 {
		return fmt.Errorf("%s: no keys given", cmd)
	}

	// Keep the replacement where the first old binding was so help order holds.
	var bindings []KeyBinding
	inserted := false
	for _, b := range mb.Bindings {
		if b.Command != cmd {
			bindings = append(bindings, b)
			continue
		}
		if !inserted {
			bindings = append(bindings, replacement...)
			inserted = true
		}
	}
	if !inserted {
		bindings = append(bindings, replacement...)
	}
	mb.Bindings = bindings
	return nil
}

// ApplyOverrides applies config overrides keyed by command name. Every
// override is attempted; the returned error joins all failures.
func (km *Keymap) ApplyOverrides(overrides map[string]string) error {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	slices.Sort(names)

	var errs []string
	for _, name := range names {
		if err := km.Override(Command(name), overrides[name]); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid key bindings: %s", strings.Join(errs, "; "))
	}
	return nil
}

// FormCommands lists the commands that can be rebound.
func FormCommands() []Command {
	return []Command{
		CmdPublish, CmdDraft, CmdSkip, CmdNext, CmdCleanup, CmdReOCR,
		CmdPreviewPDF, CmdPreviewDOCX, CmdTogglePreview, CmdOpenPreview,
		CmdScrollUp, CmdScrollDown, CmdFocusNext, CmdFocusPrev,
		CmdToggleHelp, CmdQuit,
	}
}

// IsFormCommand reports whether cmd can be rebound.
func IsFormCommand(cmd Command) bool {
	return slices.Contains(FormCommands(), cmd)
}

// ParseKeySpec parses a key specification string into KeyType, Rune, and Modifiers.
// Examples: "ctrl+r", "shift+tab", "j", "enter", "alt+left"
func ParseKeySpec(spec string) (keyType tea.KeyType, r rune, mods Modifier, err error) {
	remaining := strings.ToLower(strings.TrimSpace(spec))
	for {
		switch {
		case len(remaining) > 5 && remaining[:5] == "ctrl+":
			mods |= ModCtrl
			remaining = remaining[5:]
		case len(remaining) > 4 && remaining[:4] == "alt+":
			mods |= ModAlt
			remaining = remaining[4:]
		case len(remaining) > 6 && remaining[:6] == "shift+":
			mods |= ModShift
			remaining = remaining[6:]
		default:
			goto parseKey
		}
	}

parseKey:
	switch remaining {
	case "enter":
		return tea.KeyEnter, 0, mods, nil
	case "tab":
		if mods&ModShift != 0 {
			return tea.KeyShiftTab, 0, mods &^ ModShift, nil
		}
		return tea.KeyTab, 0, mods, nil
	case "esc", "escape":
		return tea.KeyEsc, 0, mods, nil
	case "space":
		return tea.KeySpace, 0, mods, nil
	case "backspace":
		return tea.KeyBackspace, 0, mods, nil
	case "delete":
		return tea.KeyDelete, 0, mods, nil
	case "up":
		return tea.KeyUp, 0, mods, nil
	case "down":
		return tea.KeyDown, 0, mods, nil
	case "left":
		return tea.KeyLeft, 0, mods, nil
	case "right":
		return tea.KeyRight, 0, mods, nil
	case "home":
		return tea.KeyHome, 0, mods, nil
	case "end":
		return tea.KeyEnd, 0, mods, nil
	case "pgup", "pageup":
		return tea.KeyPgUp, 0, mods, nil
	case "pgdown", "pagedown":
		return tea.KeyPgDown, 0, mods, nil
	case "insert":
		return tea.KeyInsert, 0, mods, nil
	}

	// ctrl+letter is its own key type in bubbletea.
	if mods&ModCtrl != 0 && len(remaining) == 1 {
		ch := remaining[0]
		if ch >= 'a' && ch <= 'z' {
			return tea.KeyCtrlA + tea.KeyType(ch-'a'), 0, mods &^ ModCtrl, nil
		}
	}

	if len(remaining) >= 2 && remaining[0] == 'f' {
		var fNum int
		if _, err := fmt.Sscanf(remaining, "f%d", &fNum); err == nil && fNum >= 1 && fNum <= 20 {
			fKeys := map[int]tea.KeyType{
				1: tea.KeyF1, 2: tea.KeyF2, 3: tea.KeyF3, 4: tea.KeyF4, 5: tea.KeyF5,
				6: tea.KeyF6, 7: tea.KeyF7, 8: tea.KeyF8, 9: tea.KeyF9, 10: tea.KeyF10,
				11: tea.KeyF11, 12: tea.KeyF12, 13: tea.KeyF13, 14: tea.KeyF14, 15: tea.KeyF15,
				16: tea.KeyF16, 17: tea.KeyF17, 18: tea.KeyF18, 19: tea.KeyF19, 20: tea.KeyF20,
			}
			if keyType, ok := fKeys[fNum]; ok {
				return keyType, 0, mods, nil
			}
		}
	}

	if len(remaining) == 1 {
		return tea.KeyRunes, rune(remaining[0]), mods, nil
	}

	return 0, 0, 0, fmt.Errorf("unrecognized key spec: %s", spec)
}
