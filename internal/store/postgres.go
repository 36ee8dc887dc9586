package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PratikDhanave/invite-tracker/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap the bots table.
//
//go:embed schema.sql
var schemaSQL string

// uniqueViolation is the SQLSTATE raised when a unique index cannot be built
// over existing duplicates.
const uniqueViolation = "23505"

// PoolConfig holds the pgxpool knobs exposed through configuration.
// Zero values leave the pgx defaults in place.
type PoolConfig struct {
	ConnString      string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// PostgresStore persists identifiers and click attribution in per-bot tables
// and reads the bots registry table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool. Connections are opened lazily,
// so an unreachable database does not fail here; use Ping to check.
func NewPostgresStore(ctx context.Context, cfg PoolConfig) (*PostgresStore, error) {
	if cfg.ConnString == "" {
		return nil, errors.New("conn string is required")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.ConnString)
	if err != nil {
		return nil, fmt.Errorf("parse pgx pool config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("%w: apply schema: %v", models.ErrStore, err)
	}
	return nil
}

// EnsureBotTables creates the identifiers and attribution tables of a bot when missing.
func (p *PostgresStore) EnsureBotTables(ctx context.Context, bot models.Bot) error {
	ids, err := quoteTable(bot.IdentifiersTable)
	if err != nil {
		return err
	}
	attr, err := quoteTable(bot.AttributionTable)
	if err != nil {
		return err
	}

	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         BIGSERIAL PRIMARY KEY,
			value      TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS %s (
			id                BIGSERIAL PRIMARY KEY,
			pixel             TEXT,
			campaign_id       TEXT,
			adset_id          TEXT,
			ad_id             TEXT,
			campaign_name     TEXT,
			adset_name        TEXT,
			ad_name           TEXT,
			placement         TEXT,
			site_source_name  TEXT,
			fbclid            TEXT,
			unique_identifier TEXT NOT NULL,
			channel_join_link TEXT NOT NULL,
			source_identifier TEXT NOT NULL,
			ip_address        TEXT,
			user_agent        TEXT,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`, ids, attr)

	if _, err := p.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("%w: create tables for bot %s: %v", models.ErrStore, bot.Prefix, err)
	}

	// Tables provisioned out of band may lack the constraint InsertIdentifier
	// relies on for ON CONFLICT (value).
	index := pgx.Identifier{bot.IdentifiersTable + "_value_key"}.Sanitize()
	if _, err := p.pool.Exec(ctx, `CREATE UNIQUE INDEX IF NOT EXISTS `+index+` ON `+ids+` (value)`); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: table %s holds duplicate identifiers, deduplicate value before issuing new ones: %v",
				models.ErrStore, bot.IdentifiersTable, err)
		}
		return fmt.Errorf("%w: index identifiers for bot %s: %v", models.ErrStore, bot.Prefix, err)
	}
	return nil
}

// Ping is used by the readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// ListBots reads every row of the bots table. A row with an unsafe table name
// or a malformed prefix fails the whole read.
func (p *PostgresStore) ListBots(ctx context.Context) ([]models.Bot, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT bot_token, chat_id::text, identifiers_table, user_data_table, prefix
		FROM bots
		ORDER BY prefix
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: query bots: %v", models.ErrStore, err)
	}
	defer rows.Close()

	var bots []models.Bot
	for rows.Next() {
		var b models.Bot
		if err := rows.Scan(&b.Token, &b.ChatID, &b.IdentifiersTable, &b.AttributionTable, &b.Prefix); err != nil {
			return nil, fmt.Errorf("%w: scan bot: %v", models.ErrStore, err)
		}
		if err := validateBot(b); err != nil {
			return nil, err
		}
		bots = append(bots, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read bots: %v", models.ErrStore, err)
	}
	return bots, nil
}

// InsertIdentifier stores a new identifier and returns inserted=false when
// the value already exists for this bot.
func (p *PostgresStore) InsertIdentifier(ctx context.Context, bot models.Bot, value string) (bool, error) {
	table, err := quoteTable(bot.IdentifiersTable)
	if err != nil {
		return false, err
	}

	// RETURNING 1 only when inserted; conflicts return no rows.
	var one int
	err = p.pool.QueryRow(ctx, `
		INSERT INTO `+table+` (value)
		VALUES ($1)
		ON CONFLICT (value) DO NOTHING
		RETURNING 1
	`, value).Scan(&one)

	if err == nil {
		return true, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("%w: insert identifier: %v", models.ErrStore, err)
}

// GetIdentifier looks up a single identifier of the bot.
func (p *PostgresStore) GetIdentifier(ctx context.Context, bot models.Bot, value string) (models.Identifier, error) {
	table, err := quoteTable(bot.IdentifiersTable)
	if err != nil {
		return models.Identifier{}, err
	}

	var id models.Identifier
	err = p.pool.QueryRow(ctx, `SELECT value FROM `+table+` WHERE value = $1`, value).Scan(&id.Value)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Identifier{}, models.ErrIdentifierNotFound
	}
	if err != nil {
		return models.Identifier{}, fmt.Errorf("%w: get identifier: %v", models.ErrStore, err)
	}
	return id, nil
}

// ListIdentifiers returns every identifier issued for the bot.
func (p *PostgresStore) ListIdentifiers(ctx context.Context, bot models.Bot) ([]models.Identifier, error) {
	table, err := quoteTable(bot.IdentifiersTable)
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, `SELECT value FROM `+table+` ORDER BY value`)
	if err != nil {
		return nil, fmt.Errorf("%w: list identifiers: %v", models.ErrStore, err)
	}
	ids, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Identifier, error) {
		var id models.Identifier
		err := row.Scan(&id.Value)
		return id, err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list identifiers: %v", models.ErrStore, err)
	}
	return ids, nil
}

// SaveAttribution writes one click row. Required columns are checked before
// the statement runs so a partial record never reaches the table.
func (p *PostgresStore) SaveAttribution(ctx context.Context, bot models.Bot, rec models.Attribution) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	table, err := quoteTable(bot.AttributionTable)
	if err != nil {
		return err
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO `+table+` (
			pixel, campaign_id, adset_id, ad_id, campaign_name,
			adset_name, ad_name, placement, site_source_name,
			fbclid, unique_identifier, channel_join_link, source_identifier,
			ip_address, user_agent
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
	`,
		rec.Pixel,
		rec.CampaignID,
		rec.AdsetID,
		rec.AdID,
		rec.CampaignName,
		rec.AdsetName,
		rec.AdName,
		rec.Placement,
		rec.SiteSourceName,
		rec.Fbclid,
		rec.UniqueIdentifier,
		rec.ChannelJoinLink,
		rec.SourceIdentifier,
		rec.IPAddress,
		rec.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("%w: save attribution: %v", models.ErrStore, err)
	}
	return nil
}

func validateBot(b models.Bot) error {
	if b.Token == "" {
		return fmt.Errorf("%w: bot %q has an empty token", models.ErrStore, b.Prefix)
	}
	if b.ChatID == "" {
		return fmt.Errorf("%w: bot %q has an empty chat_id", models.ErrStore, b.Prefix)
	}
	if err := ValidatePrefix(b.Prefix); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStore, err)
	}
	if err := ValidateTableName(b.IdentifiersTable); err != nil {
		return fmt.Errorf("%w: bot %s: %v", models.ErrStore, b.Prefix, err)
	}
	if err := ValidateTableName(b.AttributionTable); err != nil {
		return fmt.Errorf("%w: bot %s: %v", models.ErrStore, b.Prefix, err)
	}
	return nil
}

func quoteTable(name string) (string, error) {
	if err := ValidateTableName(name); err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrStore, err)
	}
	return pgx.Identifier{name}.Sanitize(), nil
}
