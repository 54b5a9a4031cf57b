package types

import (
	"fmt"
	"strings"
)

// Profile selects how much of the protocol a session applies. The profiles
// follow the four generations of the scheme, each hardening the previous one.
type Profile int

const (
	// ProfileNone sends plaintext.
	ProfileNone Profile = iota + 1
	// ProfileStaticKey encrypts every message with one pre-shared key and
	// carries no counter.
	ProfileStaticKey
	// ProfileDerivedKey derives a fresh key per message from a pre-shared
	// master secret and the message counter.
	ProfileDerivedKey
	// ProfileDerivedKeyWithAgreement is ProfileDerivedKey with the master
	// secret agreed over X25519 instead of pre-shared.
	ProfileDerivedKeyWithAgreement
)

var profileNames = map[Profile]string{
	ProfileNone:                    "none",
	ProfileStaticKey:               "static-key",
	ProfileDerivedKey:              "derived-key",
	ProfileDerivedKeyWithAgreement: "derived-key-agreement",
}

func (p Profile) String() string {
	if s, ok := profileNames[p]; ok {
		return s
	}
	return fmt.Sprintf("profile(%d)", int(p))
}

// Sequenced reports whether messages of this profile carry a counter.
func (p Profile) Sequenced() bool {
	return p == ProfileDerivedKey || p == ProfileDerivedKeyWithAgreement
}

// ParseProfile accepts a profile name or its generation number (1-4).
func ParseProfile(s string) (Profile, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range profileNames {
		if s == name || s == fmt.Sprint(int(p)) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown profile %q", s)
}
