package domain

import (
	interfaces "devsecrets/internal/domain/interfaces"
	types "devsecrets/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Counter        = types.Counter
	QueueName      = types.QueueName
	Fingerprint    = types.Fingerprint
	X25519Public   = types.X25519Public
	X25519Private  = types.X25519Private
	Classification = types.Classification
	Profile        = types.Profile
	Envelope       = types.Envelope
	Delivery       = types.Delivery
	Outbound       = types.Outbound
	Inbound        = types.Inbound
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Transport       = interfaces.Transport
	MessageSender   = interfaces.MessageSender
	MessageReceiver = interfaces.MessageReceiver
)

const (
	Unsequenced  = types.Unsequenced
	InOrder      = types.InOrder
	ReplayOrLate = types.ReplayOrLate
	Gap          = types.Gap

	ProfileNone                    = types.ProfileNone
	ProfileStaticKey               = types.ProfileStaticKey
	ProfileDerivedKey              = types.ProfileDerivedKey
	ProfileDerivedKeyWithAgreement = types.ProfileDerivedKeyWithAgreement
)

var (
	ParseProfile      = types.ParseProfile
	ParseX25519Public = types.ParseX25519Public
)
