package keymap

import tea "github.com/charmbracelet/bubbletea"

// DefaultKeymap returns the default review key bindings.
//
// Terminals cannot report ctrl+enter, so publish is bound to alt+enter and
// ctrl+p instead.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name:        "default",
		Description: "Default docreview key bindings",
		Modes: map[Mode]*ModeBindings{
			ModeForm:  defaultFormBindings(),
			ModeAlert: defaultAlertBindings(),
			ModeHelp:  defaultHelpBindings(),
		},
	}
}

func defaultFormBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeForm,
		Bindings: []KeyBinding{
			// Review
			{KeyType: tea.KeyEnter, Modifiers: ModAlt, Command: CmdPublish, Description: "Publish", Category: "Review"},
			{KeyType: tea.KeyCtrlP, Command: CmdPublish, Description: "Publish", Category: "Review"},
			{KeyType: tea.KeyCtrlS, Command: CmdDraft, Description: "Save draft", Category: "Review"},
			{KeyType: tea.KeyCtrlX, Command: CmdSkip, Description: "Skip", Category: "Review"},
			{KeyType: tea.KeyRight, Modifiers: ModAlt, Command: CmdNext, Description: "Next (discard edits)", Category: "Review"},

			// Text
			{KeyType: tea.KeyCtrlL, Command: CmdCleanup, Description: "Clean up text", Category: "Text"},
			{KeyType: tea.KeyCtrlR, Command: CmdReOCR, Description: "Re-OCR from PDF", Category: "Text"},

			// Preview
			{KeyType: tea.KeyRunes, Rune: '1', Modifiers: ModAlt, Command: CmdPreviewPDF, Description: "Show PDF", Category: "Preview"},
			{KeyType: tea.KeyRunes, Rune: '2', Modifiers: ModAlt, Command: CmdPreviewDOCX, Description: "Show DOCX", Category: "Preview"},
			{KeyType: tea.KeyCtrlT, Command: CmdTogglePreview, Description: "Toggle preview", Category: "Preview"},
			{KeyType: tea.KeyCtrlO, Command: CmdOpenPreview, Description: "Open preview externally", Category: "Preview"},
			{KeyType: tea.KeyPgUp, Modifiers: ModAlt, Command: CmdScrollUp, Description: "Scroll preview up", Category: "Preview"},
			{KeyType: tea.KeyPgDown, Modifiers: ModAlt, Command: CmdScrollDown, Description: "Scroll preview down", Category: "Preview"},

			// Focus
			{KeyType: tea.KeyTab, Command: CmdFocusNext, Description: "Next field", Category: "Navigation"},
			{KeyType: tea.KeyShiftTab, Command: CmdFocusPrev, Description: "Previous field", Category: "Navigation"},

			// Application
			{KeyType: tea.KeyF1, Command: CmdToggleHelp, Description: "Toggle help", Category: "Application"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application"},
		},
	}
}

func defaultAlertBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeAlert,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyEnter, Command: CmdDismiss, Description: "Dismiss", Category: "Alert"},
			{KeyType: tea.KeyEsc, Command: CmdDismiss, Description: "Dismiss", Category: "Alert"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application"},
		},
	}
}

func defaultHelpBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeHelp,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyEsc, Command: CmdDismiss, Description: "Close help", Category: "Help"},
			{KeyType: tea.KeyF1, Command: CmdToggleHelp, Description: "Close help", Category: "Help"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application"},
		},
	}
}
