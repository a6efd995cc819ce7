// Package notify shows desktop notifications.
package notify

import (
	"sync/atomic"

	"github.com/ncruces/zenity"
	"github.com/sirupsen/logrus"
)

// Title is shown on every notification.
const Title = "TypeMyClipboard"

// Desktop sends notifications through the OS notification center.
type Desktop struct {
	muted atomic.Bool
	send  func(text string, opts ...zenity.Option) error
}

// New returns a Desktop notifier.
func New(muted bool) *Desktop {
	d := &Desktop{send: zenity.Notify}
	d.muted.Store(muted)
	return d
}

// SetMuted turns notifications off or back on.
func (d *Desktop) SetMuted(muted bool) {
	d.muted.Store(muted)
}

// Notify shows body unless muted. Failures are logged only.
func (d *Desktop) Notify(body string) {
	logrus.WithField("muted", d.muted.Load()).Debugf("notify: %s", body)
	if d.muted.Load() {
		return
	}
	if err := d.send(body, zenity.Title(Title)); err != nil {
		logrus.WithError(err).Warn("Notification failed")
	}
}
