package tray

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattdini/typeMyClipboard/internal/clipboard"
	"github.com/mattdini/typeMyClipboard/internal/menu"
)

func TestChanged_NothingWhenEqual(t *testing.T) {
	m := menu.Build("hello", menu.Options{Version: "1.0.0"})
	assert.Empty(t, changed(m, m))
}

func TestChanged_ClipboardUpdate(t *testing.T) {
	prev := menu.Build("", menu.Options{Version: "1.0.0"})
	next := menu.Build("hello", menu.Options{Version: "1.0.0"})

	var ids []menu.ItemID
	for _, it := range changed(prev, next) {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []menu.ItemID{menu.ClipboardPreview, menu.TypeNow, menu.TypeWithDelay}, ids)
}

func TestChanged_BusyToggle(t *testing.T) {
	prev := menu.Build("hello", menu.Options{Version: "1.0.0"})
	next := menu.Build("hello", menu.Options{Version: "1.0.0", Busy: true})

	items := changed(prev, next)
	require.Len(t, items, 2)
	assert.Equal(t, "Typing...", items[0].Title)
	assert.False(t, items[0].Enabled)
	assert.False(t, items[1].Enabled)
}

func TestChanged_LoginCheckbox(t *testing.T) {
	off, on := false, true
	prev := menu.Build("x", menu.Options{LaunchAtLogin: &off})
	next := menu.Build("x", menu.Options{LaunchAtLogin: &on})

	items := changed(prev, next)
	require.Len(t, items, 1)
	assert.Equal(t, menu.LaunchAtLogin, items[0].ID)
	assert.True(t, items[0].Checked)
}

func TestChanged_LengthMismatchReturnsAll(t *testing.T) {
	next := menu.Build("x", menu.Options{})
	assert.Len(t, changed(menu.Model{}, next), len(next.Items))
}

func find(m menu.Model, id menu.ItemID) menu.Item {
	for _, it := range m.Items {
		if it.ID == id {
			return it
		}
	}
	return menu.Item{}
}

func TestRender_LoginStateCached(t *testing.T) {
	var calls atomic.Int32
	on := false
	tr := New(clipboard.Static("x"), func() menu.Options { return menu.Options{} }, Callbacks{
		ToggleLogin:  func() (bool, error) { on = !on; return on, nil },
		LoginEnabled: func() bool { calls.Add(1); return on },
	})

	tr.refreshLogin()
	for range 5 {
		tr.Render()
	}
	assert.EqualValues(t, 1, calls.Load())
	assert.False(t, find(tr.last, menu.LaunchAtLogin).Checked)

	tr.toggleLogin()
	assert.EqualValues(t, 2, calls.Load())
	assert.True(t, find(tr.last, menu.LaunchAtLogin).Checked)
}

func TestRender_LoginHiddenWithoutToggle(t *testing.T) {
	tr := New(clipboard.Static("x"), func() menu.Options { return menu.Options{} }, Callbacks{
		LoginEnabled: func() bool { t.Fatal("LoginEnabled called without ToggleLogin"); return false },
	})
	tr.refreshLogin()
	tr.Render()
	assert.True(t, find(tr.last, menu.LaunchAtLogin).Hidden)
}

func TestToggleLogin_ShowsError(t *testing.T) {
	var shown []string
	tr := New(clipboard.Static("x"), func() menu.Options { return menu.Options{} }, Callbacks{
		ToggleLogin:  func() (bool, error) { return false, errors.New("launchctl: permission denied") },
		LoginEnabled: func() bool { return false },
		ShowError:    func(msg string) { shown = append(shown, msg) },
	})

	tr.toggleLogin()
	require.Len(t, shown, 1)
	assert.Contains(t, shown[0], "Launch at Login")
	assert.Contains(t, shown[0], "launchctl: permission denied")
}

func TestToggleLogin_NoErrorNoDialog(t *testing.T) {
	tr := New(clipboard.Static("x"), func() menu.Options { return menu.Options{} }, Callbacks{
		ToggleLogin:  func() (bool, error) { return true, nil },
		LoginEnabled: func() bool { return true },
		ShowError:    func(msg string) { t.Fatalf("unexpected error dialog: %s", msg) },
	})
	tr.toggleLogin()
}

// A render that started while typing must not overwrite one started after
// typing finished.
func TestRender_NewestStateWins(t *testing.T) {
	var busy atomic.Bool
	busy.Store(true)
	entered := make(chan struct{})
	release := make(chan struct{})
	var first sync.Once

	tr := New(clipboard.Static("hello"), func() menu.Options {
		opts := menu.Options{Busy: busy.Load()}
		first.Do(func() {
			close(entered)
			<-release
		})
		return opts
	}, Callbacks{})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		tr.Render()
	}()
	<-entered

	busy.Store(false)
	go func() {
		defer wg.Done()
		tr.Render()
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, "Type Now", find(tr.last, menu.TypeNow).Title)
	assert.True(t, find(tr.last, menu.TypeNow).Enabled)
}
