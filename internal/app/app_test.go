package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattdini/typeMyClipboard/internal/keyboard"
	"github.com/mattdini/typeMyClipboard/internal/typer"
)

type fakeClipboard struct {
	mu   sync.Mutex
	text string
}

func (c *fakeClipboard) ReadText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

func (c *fakeClipboard) set(s string) {
	c.mu.Lock()
	c.text = s
	c.mu.Unlock()
}

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *fakeNotifier) Notify(body string) {
	n.mu.Lock()
	n.msgs = append(n.msgs, body)
	n.mu.Unlock()
}

func (n *fakeNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}

type fakeDialogs struct {
	denied   int
	onDenied func()
}

func (d *fakeDialogs) PermissionDenied() {
	d.denied++
	if d.onDenied != nil {
		d.onDenied()
	}
}

type fakeTyper struct {
	texts []string
	rep   typer.Report
	err   error
}

func (f *fakeTyper) TypeText(_ context.Context, text string) (typer.Report, error) {
	f.texts = append(f.texts, text)
	return f.rep, f.err
}

type harness struct {
	app     *App
	clip    *fakeClipboard
	notify  *fakeNotifier
	dialogs *fakeDialogs
	typer   *fakeTyper
	waits   []time.Duration
	busy    []bool
}

func newHarness(text string) *harness {
	h := &harness{
		clip:    &fakeClipboard{text: text},
		notify:  &fakeNotifier{},
		dialogs: &fakeDialogs{},
		typer:   &fakeTyper{rep: typer.Report{Typed: len([]rune(text))}},
	}
	h.app = New(h.clip, h.typer, h.notify, h.dialogs, Options{
		Sleep: func(_ context.Context, d time.Duration) error {
			h.waits = append(h.waits, d)
			return nil
		},
		OnBusyChange: func(b bool) { h.busy = append(h.busy, b) },
	})
	return h
}

func TestType_Now(t *testing.T) {
	h := newHarness("hello")

	rep, err := h.app.Type(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 5, rep.Typed)
	assert.Equal(t, []string{"hello"}, h.typer.texts)
	assert.Equal(t, []string{MsgTypingNow, "Finished typing 5 characters"}, h.notify.messages())
	assert.Empty(t, h.waits)
	assert.Equal(t, []bool{true, false}, h.busy)
	assert.False(t, h.app.Busy())
}

func TestType_EmptyClipboardIsSilent(t *testing.T) {
	h := newHarness("")

	_, err := h.app.Type(context.Background(), TypeDelay)
	assert.ErrorIs(t, err, ErrEmpty)
	assert.Empty(t, h.typer.texts)
	assert.Empty(t, h.notify.messages())
	assert.Empty(t, h.waits)
	assert.Empty(t, h.busy)
}

func TestType_DelayedReadsClipboardAfterWait(t *testing.T) {
	h := newHarness("before")
	h.app.sleep = func(_ context.Context, d time.Duration) error {
		h.waits = append(h.waits, d)
		h.clip.set("after")
		return nil
	}

	_, err := h.app.Type(context.Background(), TypeDelay)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{TypeDelay}, h.waits)
	assert.Equal(t, []string{"after"}, h.typer.texts)
	assert.Equal(t, MsgTypingSoon, h.notify.messages()[0])
}

func TestType_ClipboardEmptiedDuringDelay(t *testing.T) {
	h := newHarness("text")
	h.app.sleep = func(context.Context, time.Duration) error {
		h.clip.set("")
		return nil
	}

	_, err := h.app.Type(context.Background(), TypeDelay)
	assert.ErrorIs(t, err, ErrEmpty)
	assert.Empty(t, h.typer.texts)
	assert.False(t, h.app.Busy())
}

func TestType_PermissionDeniedShowsDialog(t *testing.T) {
	h := newHarness("secret")
	h.typer.rep = typer.Report{}
	h.typer.err = typer.ErrPermissionDenied

	_, err := h.app.Type(context.Background(), 0)
	assert.ErrorIs(t, err, typer.ErrPermissionDenied)
	assert.Equal(t, 1, h.dialogs.denied)
	assert.Equal(t, []string{MsgTypingNow}, h.notify.messages())
}

func TestType_IdleWhilePermissionDialogShown(t *testing.T) {
	h := newHarness("secret")
	h.typer.err = typer.ErrPermissionDenied

	var busyDuringDialog bool
	var transitions []bool
	h.dialogs.onDenied = func() {
		busyDuringDialog = h.app.Busy()
		transitions = append(transitions, h.busy...)
	}

	_, err := h.app.Type(context.Background(), 0)
	assert.ErrorIs(t, err, typer.ErrPermissionDenied)
	assert.False(t, busyDuringDialog)
	assert.Equal(t, []bool{true, false}, transitions)
	assert.Equal(t, []bool{true, false}, h.busy, "busy is released exactly once")
}

func TestType_SkippedCharactersReported(t *testing.T) {
	h := newHarness("hi 😀 ж!")
	h.typer.rep = typer.Report{
		Typed:   5,
		Skipped: []typer.Skipped{{Index: 3, Char: '😀'}, {Index: 5, Char: 'ж'}},
	}

	_, err := h.app.Type(context.Background(), 0)
	require.NoError(t, err)
	msgs := h.notify.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Typed 5 characters (skipped 2 unsupported: 😀ж)", msgs[1])
}

func TestType_TyperErrorNotified(t *testing.T) {
	h := newHarness("abc")
	h.typer.rep = typer.Report{Typed: 2}
	h.typer.err = errors.New("event source unavailable")

	_, err := h.app.Type(context.Background(), 0)
	require.Error(t, err)
	msgs := h.notify.messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1], "Typing stopped after 2 characters")
}

func TestType_TyperBusyNotified(t *testing.T) {
	h := newHarness("abc")
	h.typer.err = typer.ErrBusy

	_, err := h.app.Type(context.Background(), 0)
	assert.ErrorIs(t, err, typer.ErrBusy)
	assert.Equal(t, []string{MsgTypingNow, MsgAlreadyBusy}, h.notify.messages())
}

func TestType_CancelledDuringDelay(t *testing.T) {
	h := newHarness("abc")
	h.app.sleep = keyboard.Sleep

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.app.Type(ctx, TypeDelay)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, h.typer.texts)
	assert.False(t, h.app.Busy())
}

func TestType_SecondRequestDuringDelayRejected(t *testing.T) {
	h := newHarness("abc")
	entered := make(chan struct{})
	release := make(chan struct{})
	h.app.sleep = func(context.Context, time.Duration) error {
		close(entered)
		<-release
		return nil
	}

	h.app.TypeWithDelay(context.Background())
	<-entered
	assert.True(t, h.app.Busy())

	_, err := h.app.Type(context.Background(), 0)
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	h.app.Wait()

	assert.Equal(t, []string{"abc"}, h.typer.texts)
	assert.Contains(t, h.notify.messages(), MsgAlreadyBusy)
	assert.False(t, h.app.Busy())
}

func TestTypeNow_Background(t *testing.T) {
	h := newHarness("xyz")

	h.app.TypeNow(context.Background())
	h.app.Wait()

	assert.Equal(t, []string{"xyz"}, h.typer.texts)
}

func TestRefresh(t *testing.T) {
	h := newHarness("current")

	assert.Equal(t, "current", h.app.Refresh())
	assert.Equal(t, []string{MsgRefreshed}, h.notify.messages())
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Finished typing 1 character", Summary(typer.Report{Typed: 1}))
	assert.Equal(t, "Finished typing 0 characters", Summary(typer.Report{}))
	assert.Equal(t, "Typed 1 character (skipped 1 unsupported: é)",
		Summary(typer.Report{Typed: 1, Skipped: []typer.Skipped{{Index: 1, Char: 'é'}}}))
}

type allow struct{}

func (allow) EnsureAuthorized() bool { return true }

func TestType_EndToEndIntoVirtualKeyboard(t *testing.T) {
	noWait := func(context.Context, time.Duration) error { return nil }
	rec := &keyboard.Recorder{}
	ty := typer.New(allow{}, keyboard.NewSynthesizer(rec, noWait), noWait)

	clip := &fakeClipboard{text: "Hi there!\r\n\tok"}
	n := &fakeNotifier{}
	a := New(clip, ty, n, &fakeDialogs{}, Options{Sleep: noWait})

	rep, err := a.Type(context.Background(), TypeDelay)
	require.NoError(t, err)
	assert.Equal(t, 13, rep.Typed)

	got, err := rec.Text()
	require.NoError(t, err)
	assert.Equal(t, "Hi there!\n\tok", got)
	assert.Equal(t, []string{MsgTypingSoon, "Finished typing 13 characters"}, n.messages())
}
