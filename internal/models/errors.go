package models

import "errors"

var (
	// ErrBotNotFound means no bot matches the given token or prefix.
	ErrBotNotFound = errors.New("bot not found")
	// ErrRegistryUnavailable means the bot registry failed to load at startup.
	ErrRegistryUnavailable = errors.New("bot registry unavailable")
	// ErrIdentifierNotFound means the identifier is not in the bot's table.
	ErrIdentifierNotFound = errors.New("identifier not found")
	// ErrMissingField is returned before writing an attribution row with a required column unset.
	ErrMissingField = errors.New("missing required field")
	// ErrStore wraps database failures.
	ErrStore = errors.New("store error")
	// ErrIssuer wraps Telegram Bot API failures.
	ErrIssuer = errors.New("invite issuer error")
)
