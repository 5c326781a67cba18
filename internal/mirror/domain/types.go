package domain

// CategoryType discriminates which external platform issued a client id.
type CategoryType string

const (
	CategoryDiscord CategoryType = "discord"
)

// BatchStatus tracks whether cascade cleanup has completed for a
// soft-deleted row. It only ever moves PENDING -> FINALIZED.
type BatchStatus string

const (
	BatchStatusPending   BatchStatus = "PENDING"
	BatchStatusFinalized BatchStatus = "FINALIZED"
)

// Kind names one mirrored entity kind.
type Kind string

const (
	KindCommunity Kind = "community"
	KindMember    Kind = "member"
	KindChannel   Kind = "channel"
	KindRole      Kind = "role"
	KindMessage   Kind = "message"
)

type MemberType string

const (
	MemberTypeHuman MemberType = "human"
	MemberTypeBot   MemberType = "bot"
)

type ChannelType string

const (
	ChannelTypeText     ChannelType = "text"
	ChannelTypeVoice    ChannelType = "voice"
	ChannelTypeCategory ChannelType = "category"
	ChannelTypeOther    ChannelType = "other"
)
