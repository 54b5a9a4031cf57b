package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"devsecrets/internal/app"
	"devsecrets/internal/crypto"
	"devsecrets/internal/domain"
	"devsecrets/internal/protocol/session"
	"devsecrets/internal/util/memzero"
)

// keyFlags are the ways a user can hand over key material.
type keyFlags struct {
	key        string
	passphrase string
	peer       string
}

// console pairs the command's input and output for prompts.
type console struct {
	in  *bufio.Reader
	out io.Writer
}

// readLine reads one line without its line ending. At EOF it returns what was
// read, and io.EOF only if that is nothing.
func (c console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return line, err
	}
	return line, nil
}

func (c console) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	line, err := c.readLine()
	if err != nil {
		return "", fmt.Errorf("%s: %w", strings.TrimSpace(strings.TrimSuffix(label, ": ")), err)
	}
	return strings.TrimSpace(line), nil
}

// masterKey resolves a pre-shared master key from --key, --passphrase or a
// prompt.
func masterKey(w *app.Wire, kf keyFlags, c console) ([]byte, error) {
	switch {
	case kf.key != "":
		return crypto.ParseMasterKey(kf.key)
	case kf.passphrase != "":
		return w.PassphraseKey(kf.passphrase)
	}
	s, err := c.prompt("Enter the shared key (hex): ")
	if err != nil {
		return nil, err
	}
	return crypto.ParseMasterKey(s)
}

// establishShared sets a pre-shared key on sess and wipes the local copy.
func establishShared(sess *session.Session, key []byte) error {
	defer memzero.Zero(key)
	return sess.Establish(key)
}

// peerKey resolves the partner's public key from --peer or a prompt.
func peerKey(kf keyFlags, c console, label string) (domain.X25519Public, error) {
	s := kf.peer
	if s == "" {
		var err error
		if s, err = c.prompt(label); err != nil {
			return domain.X25519Public{}, err
		}
	}
	pub, err := domain.ParseX25519Public(s)
	if err != nil {
		return domain.X25519Public{}, fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
	}
	return pub, nil
}
