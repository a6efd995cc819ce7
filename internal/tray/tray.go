// Package tray puts the menu model on the system tray and dispatches clicks.
package tray

import (
	"context"
	"sync"
	"time"

	"github.com/getlantern/systray"
	"github.com/sirupsen/logrus"

	"github.com/mattdini/typeMyClipboard/internal/clipboard"
	"github.com/mattdini/typeMyClipboard/internal/icons"
	"github.com/mattdini/typeMyClipboard/internal/menu"
)

const tooltip = "TypeMyClipboard"

// Callbacks holds function references for tray actions. A nil ToggleLogin
// hides the Launch at Login item. ShowError reports failures the user caused
// from the menu.
type Callbacks struct {
	TypeNow       func()
	TypeWithDelay func()
	Refresh       func()
	ToggleLogin   func() (bool, error)
	LoginEnabled  func() bool
	OpenConfig    func()
	CheckUpdates  func()
	About         func()
	Quit          func()
	ShowError     func(msg string)
}

// Tray owns the tray icon and menu items.
type Tray struct {
	clip    clipboard.Reader
	options func() menu.Options
	cb      Callbacks

	mu     sync.Mutex
	items  map[menu.ItemID]*systray.MenuItem
	last   menu.Model
	busy   bool
	login  *bool // nil when launch at login is unavailable
	custom []byte
}

// New returns a Tray. options supplies everything but the clipboard text on
// each render.
func New(clip clipboard.Reader, options func() menu.Options, cb Callbacks) *Tray {
	return &Tray{clip: clip, options: options, cb: cb}
}

// Setup creates the icon and menu items. Call it from the systray onReady
// callback.
func (t *Tray) Setup() {
	t.custom, _ = icons.Custom()
	t.setIcon(false)
	systray.SetTitle("")
	systray.SetTooltip(tooltip)
	t.refreshLogin()

	t.mu.Lock()
	defer t.mu.Unlock()
	model := t.renderLocked()
	t.items = make(map[menu.ItemID]*systray.MenuItem, len(model.Items))
	for _, it := range model.Items {
		if it.ID == menu.Separator {
			systray.AddSeparator()
			continue
		}
		var mi *systray.MenuItem
		if it.Checkable {
			mi = systray.AddMenuItemCheckbox(it.Title, it.Tooltip, it.Checked)
		} else {
			mi = systray.AddMenuItem(it.Title, it.Tooltip)
		}
		t.items[it.ID] = mi
		applyItem(mi, it)
	}
	t.last = model

	go t.clickLoop()
}

// Render re-reads the clipboard and updates items that changed. The model is
// built and applied under one lock so a slower render never overwrites a
// newer one.
func (t *Tray) Render() {
	t.mu.Lock()
	defer t.mu.Unlock()
	model := t.renderLocked()
	for _, it := range changed(t.last, model) {
		if mi, ok := t.items[it.ID]; ok {
			applyItem(mi, it)
		}
	}
	t.last = model
}

func (t *Tray) renderLocked() menu.Model {
	opts := t.options()
	opts.Busy = opts.Busy || t.busy
	if t.login != nil {
		on := *t.login
		opts.LaunchAtLogin = &on
	}
	return menu.Build(t.clip.ReadText(), opts)
}

// refreshLogin caches the launch at login state. Asking the service manager
// shells out, so it happens at setup and after a toggle, not on every poll.
func (t *Tray) refreshLogin() {
	if t.cb.ToggleLogin == nil || t.cb.LoginEnabled == nil {
		return
	}
	on := t.cb.LoginEnabled()
	t.mu.Lock()
	t.login = &on
	t.mu.Unlock()
}

func (t *Tray) toggleLogin() {
	if t.cb.ToggleLogin == nil {
		return
	}
	if _, err := t.cb.ToggleLogin(); err != nil {
		logrus.WithError(err).Warn("Failed to change launch at login")
		if t.cb.ShowError != nil {
			t.cb.ShowError("Could not change Launch at Login: " + err.Error())
		}
	}
	t.refreshLogin()
	t.Render()
}

// SetBusy switches the icon and re-renders the menu.
func (t *Tray) SetBusy(busy bool) {
	t.mu.Lock()
	t.busy = busy
	t.mu.Unlock()

	t.setIcon(busy)
	if busy {
		systray.SetTooltip(tooltip + " - typing...")
	} else {
		systray.SetTooltip(tooltip)
	}
	t.Render()
}

func (t *Tray) setIcon(busy bool) {
	switch {
	case t.custom != nil && !busy:
		systray.SetIcon(t.custom)
	case busy:
		systray.SetTemplateIcon(icons.Busy(), icons.Busy())
	default:
		systray.SetTemplateIcon(icons.Idle(), icons.Idle())
	}
}

// Poll re-renders every interval() until ctx is done. The tray offers no
// menu-open hook, so polling keeps the clipboard preview current.
func (t *Tray) Poll(ctx context.Context, interval func() time.Duration) {
	timer := time.NewTimer(interval())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			t.Render()
			timer.Reset(interval())
		}
	}
}

func (t *Tray) clickLoop() {
	click := func(id menu.ItemID) <-chan struct{} {
		if mi, ok := t.items[id]; ok {
			return mi.ClickedCh
		}
		return nil
	}

	for {
		select {
		case <-click(menu.TypeNow):
			call(t.cb.TypeNow)
		case <-click(menu.TypeWithDelay):
			call(t.cb.TypeWithDelay)
		case <-click(menu.Refresh):
			call(t.cb.Refresh)
			t.Render()
		case <-click(menu.LaunchAtLogin):
			t.toggleLogin()
		case <-click(menu.OpenConfig):
			call(t.cb.OpenConfig)
		case <-click(menu.CheckUpdates):
			call(t.cb.CheckUpdates)
		case <-click(menu.About):
			call(t.cb.About)
		case <-click(menu.Quit):
			call(t.cb.Quit)
			systray.Quit()
			return
		}
	}
}

func call(f func()) {
	if f != nil {
		f()
	}
}

func applyItem(mi *systray.MenuItem, it menu.Item) {
	mi.SetTitle(it.Title)
	mi.SetTooltip(it.Tooltip)
	if it.Enabled {
		mi.Enable()
	} else {
		mi.Disable()
	}
	if it.Checkable {
		if it.Checked {
			mi.Check()
		} else {
			mi.Uncheck()
		}
	}
	if it.Hidden {
		mi.Hide()
	} else {
		mi.Show()
	}
}

// changed returns the items of next that differ from prev. Both models come
// from menu.Build, so items line up by position.
func changed(prev, next menu.Model) []menu.Item {
	if len(prev.Items) != len(next.Items) {
		return next.Items
	}
	var out []menu.Item
	for i, it := range next.Items {
		if it.ID != menu.Separator && it != prev.Items[i] {
			out = append(out, it)
		}
	}
	return out
}
