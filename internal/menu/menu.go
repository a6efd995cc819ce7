// Package menu renders the tray menu from the current clipboard state.
package menu

import (
	"fmt"
	"strings"
	"unicode"
)

// ItemID identifies a menu entry across renders.
type ItemID int

const (
	Separator ItemID = iota
	ClipboardPreview
	TypeNow
	TypeWithDelay
	Refresh
	LaunchAtLogin
	OpenConfig
	CheckUpdates
	About
	Version
	Quit
)

// Item is one rendered menu entry.
type Item struct {
	ID        ItemID
	Title     string
	Tooltip   string
	Enabled   bool
	Checkable bool
	Checked   bool
	Hidden    bool
}

// Model is a complete menu. Every render yields the same IDs in the same
// order, so a tray can create items once and update them in place.
type Model struct {
	Items []Item
}

// Options carries the non-clipboard state the menu depends on.
type Options struct {
	PreviewLength int
	Busy          bool
	Version       string

	// LaunchAtLogin is nil when login items are unsupported.
	LaunchAtLogin *bool
}

// DefaultPreviewLength is used when Options.PreviewLength is not positive.
const DefaultPreviewLength = 40

// Build renders the menu for clipboard text.
func Build(clipboardText string, opts Options) Model {
	hasText := clipboardText != ""
	canType := hasText && !opts.Busy

	preview := "Clipboard is empty"
	if hasText {
		preview = "📋 " + Preview(clipboardText, opts.PreviewLength)
	}

	typeNow := "Type Now"
	if opts.Busy {
		typeNow = "Typing..."
	}

	login := Item{ID: LaunchAtLogin, Title: "Launch at Login", Tooltip: "Start TypeMyClipboard when you log in",
		Enabled: true, Checkable: true, Hidden: opts.LaunchAtLogin == nil}
	if opts.LaunchAtLogin != nil {
		login.Checked = *opts.LaunchAtLogin
	}

	sep := Item{ID: Separator}
	return Model{Items: []Item{
		{ID: ClipboardPreview, Title: preview, Tooltip: "Current clipboard text"},
		sep,
		{ID: TypeNow, Title: typeNow, Tooltip: "Type the clipboard into the focused application", Enabled: canType},
		{ID: TypeWithDelay, Title: "Type with 3s delay", Tooltip: "Wait 3 seconds, then type the clipboard", Enabled: canType},
		sep,
		{ID: Refresh, Title: "Refresh Clipboard", Tooltip: "Re-read the clipboard", Enabled: true},
		login,
		{ID: OpenConfig, Title: "Open Config...", Tooltip: "Open configuration file", Enabled: true},
		{ID: CheckUpdates, Title: "Check for Updates", Tooltip: "Check for new version", Enabled: true},
		{ID: About, Title: "About TypeMyClipboard", Tooltip: "About", Enabled: true},
		sep,
		{ID: Version, Title: fmt.Sprintf("TypeMyClipboard v%s", opts.Version), Tooltip: "Current version"},
		{ID: Quit, Title: "Quit TypeMyClipboard", Tooltip: "Quit TypeMyClipboard", Enabled: true},
	}}
}

// Preview collapses whitespace runs to single spaces and truncates to at
// most limit runes, ending in "…" when cut.
func Preview(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultPreviewLength
	}
	collapsed := strings.Join(strings.FieldsFunc(text, unicode.IsSpace), " ")
	runes := []rune(collapsed)
	if len(runes) <= limit {
		return collapsed
	}
	if limit == 1 {
		return "…"
	}
	return strings.TrimRightFunc(string(runes[:limit-1]), unicode.IsSpace) + "…"
}
