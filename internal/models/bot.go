package models

// PrefixLen is the number of leading identifier characters that route a
// redirect to its bot.
const PrefixLen = 4

// Bot is one configured tenant: a Telegram bot, the chat it invites visitors
// into, and the tables holding its identifiers and click attribution.
type Bot struct {
	Token            string
	ChatID           string
	IdentifiersTable string
	AttributionTable string
	Prefix           string
}

// Identifier is a short code issued by /getlinks.
type Identifier struct {
	Value string
}
