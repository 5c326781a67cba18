package events

import "github.com/sodacandy/candybot/internal/mirror/domain"

// Platform event payloads. Every event carries the external tenant id
// and the external id of the entity it concerns; add events also carry
// the minimal attributes needed to create the mirror row.

type MemberSeed struct {
	ClientID string `json:"client_id"`
	IsBot    bool   `json:"is_bot,omitempty"`
}

type ChannelSeed struct {
	ClientID string             `json:"client_id"`
	Type     domain.ChannelType `json:"type,omitempty"`
}

// TenantAddEvent fires when the bot joins a community. It carries the
// initial membership and channel snapshot for bulk import.
type TenantAddEvent struct {
	TenantClientID string        `json:"tenant_client_id"`
	Members        []MemberSeed  `json:"members,omitempty"`
	Channels       []ChannelSeed `json:"channels,omitempty"`
}

type TenantRemoveEvent struct {
	TenantClientID string `json:"tenant_client_id"`
}

type MemberAddEvent struct {
	TenantClientID string `json:"tenant_client_id"`
	MemberClientID string `json:"member_client_id"`
	IsBot          bool   `json:"is_bot,omitempty"`
}

type MemberRemoveEvent struct {
	TenantClientID string `json:"tenant_client_id"`
	MemberClientID string `json:"member_client_id"`
}

type ChannelAddEvent struct {
	TenantClientID  string             `json:"tenant_client_id"`
	ChannelClientID string             `json:"channel_client_id"`
	Type            domain.ChannelType `json:"type,omitempty"`
}

type ChannelRemoveEvent struct {
	TenantClientID  string `json:"tenant_client_id"`
	ChannelClientID string `json:"channel_client_id"`
}

type RoleAddEvent struct {
	TenantClientID string `json:"tenant_client_id"`
	RoleClientID   string `json:"role_client_id"`
}

type RoleRemoveEvent struct {
	TenantClientID string `json:"tenant_client_id"`
	RoleClientID   string `json:"role_client_id"`
}

type MessageAddEvent struct {
	TenantClientID  string `json:"tenant_client_id"`
	MessageClientID string `json:"message_client_id"`
	AuthorClientID  string `json:"author_client_id"`
	ChannelClientID string `json:"channel_client_id"`
}

type MessageRemoveEvent struct {
	TenantClientID  string `json:"tenant_client_id"`
	MessageClientID string `json:"message_client_id"`
	AuthorClientID  string `json:"author_client_id"`
}
