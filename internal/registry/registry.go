// Package registry holds the bots loaded from the bots table at startup.
package registry

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/PratikDhanave/invite-tracker/internal/models"
)

// Source lists the configured bots.
type Source interface {
	ListBots(ctx context.Context) ([]models.Bot, error)
}

// Registry is the read-only set of bots for the process lifetime.
// Picking up changes to the bots table requires a restart.
type Registry struct {
	bots []models.Bot
	err  error
}

// Load reads the bots from src. It never fails: when the source errors or
// returns conflicting rows, the returned Registry answers every lookup with
// models.ErrRegistryUnavailable so the server can still listen.
func Load(ctx context.Context, src Source, logger *zap.Logger) *Registry {
	bots, err := src.ListBots(ctx)
	if err == nil {
		err = checkUnique(bots)
	}
	if err != nil {
		logger.Error("load bot registry", zap.Error(err))
		return &Registry{err: err}
	}

	prefixes := make([]string, 0, len(bots))
	for _, b := range bots {
		prefixes = append(prefixes, b.Prefix)
	}
	logger.Info("bot registry loaded", zap.Int("bots", len(bots)), zap.Strings("prefixes", prefixes))

	return New(bots)
}

// New builds a Registry from an already validated list.
func New(bots []models.Bot) *Registry {
	cp := make([]models.Bot, len(bots))
	copy(cp, bots)
	return &Registry{bots: cp}
}

// Err returns the load error, if any.
func (r *Registry) Err() error {
	return r.err
}

// Bots returns a copy of the loaded bots.
func (r *Registry) Bots() []models.Bot {
	cp := make([]models.Bot, len(r.bots))
	copy(cp, r.bots)
	return cp
}

// FindByToken returns the bot whose Telegram token equals token.
func (r *Registry) FindByToken(token string) (models.Bot, error) {
	if r.err != nil {
		return models.Bot{}, fmt.Errorf("%w: %v", models.ErrRegistryUnavailable, r.err)
	}
	if token == "" {
		return models.Bot{}, models.ErrBotNotFound
	}
	for _, b := range r.bots {
		if b.Token == token {
			return b, nil
		}
	}
	return models.Bot{}, models.ErrBotNotFound
}

// FindByPrefix returns the bot that owns the identifier prefix.
func (r *Registry) FindByPrefix(prefix string) (models.Bot, error) {
	if r.err != nil {
		return models.Bot{}, fmt.Errorf("%w: %v", models.ErrRegistryUnavailable, r.err)
	}
	for _, b := range r.bots {
		if b.Prefix == prefix {
			return b, nil
		}
	}
	return models.Bot{}, models.ErrBotNotFound
}

func checkUnique(bots []models.Bot) error {
	tokens := make(map[string]struct{}, len(bots))
	prefixes := make(map[string]struct{}, len(bots))
	for _, b := range bots {
		if _, dup := prefixes[b.Prefix]; dup {
			return fmt.Errorf("duplicate bot prefix %q", b.Prefix)
		}
		if _, dup := tokens[b.Token]; dup {
			return fmt.Errorf("duplicate bot token for prefix %q", b.Prefix)
		}
		prefixes[b.Prefix] = struct{}{}
		tokens[b.Token] = struct{}{}
	}
	return nil
}
