package app

import (
	"devsecrets/internal/crypto"
	"devsecrets/internal/protocol/session"
	"devsecrets/internal/services/messaging"
)

// App is one session bound to the wired transport.
type App struct {
	Session  *session.Session
	Sender   *messaging.Sender
	Receiver *messaging.Receiver
}

// NewSession returns an unestablished session for the configured profile.
func (w *Wire) NewSession() (*session.Session, error) {
	return session.New(w.Profile)
}

// Bind attaches sess to the transport.
func (w *Wire) Bind(sess *session.Session) *App {
	log := w.Log.WithField("queue", w.Config.Transport.Queue)
	return &App{
		Session:  sess,
		Sender:   messaging.NewSender(sess, w.Transport, log),
		Receiver: messaging.NewReceiver(sess, w.Transport, log),
	}
}

// PassphraseKey stretches passphrase into a master key. The salt is bound to
// the queue name so both ends of one queue derive the same key.
func (w *Wire) PassphraseKey(passphrase string) ([]byte, error) {
	return crypto.MasterKeyFromPassphrase(passphrase, []byte("devsecrets/"+w.Config.Transport.Queue))
}

// Close wipes the session's master secret.
func (a *App) Close() { a.Session.Close() }
