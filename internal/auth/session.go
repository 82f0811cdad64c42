package auth

import (
	"encoding/gob"
	"errors"

	"github.com/gofiber/fiber/v2/middleware/session"
)

// ErrNoSession is returned by Login when the request carries no session,
// which happens while the session store is unreachable.
var ErrNoSession = errors.New("auth: session store unavailable")

// Session keys.
const (
	SessionAccountKey = "account_id"
	sessionFlashKey   = "_flashes"
)

// Flash categories used by the templates for styling.
const (
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register([]Flash{})
}

// AddFlash queues a message on the session. The caller saves the session.
func AddFlash(sess *session.Session, category, message string) {
	flashes, _ := sess.Get(sessionFlashKey).([]Flash)
	sess.Set(sessionFlashKey, append(flashes, Flash{Category: category, Message: message}))
}

// PopFlashes returns and clears queued messages. The caller saves the session.
func PopFlashes(sess *session.Session) []Flash {
	flashes, _ := sess.Get(sessionFlashKey).([]Flash)
	if len(flashes) > 0 {
		sess.Delete(sessionFlashKey)
	}
	return flashes
}

// AccountID returns the account bound to the session, or 0 when anonymous.
func AccountID(sess *session.Session) uint {
	id, _ := sess.Get(SessionAccountKey).(uint)
	return id
}

// Login binds sess to accountID under a fresh session id and keeps queued flashes.
func Login(sess *session.Session, accountID uint) error {
	if sess == nil {
		return ErrNoSession
	}
	flashes := PopFlashes(sess)
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(SessionAccountKey, accountID)
	if len(flashes) > 0 {
		sess.Set(sessionFlashKey, flashes)
	}
	return nil
}
