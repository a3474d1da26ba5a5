// Package store provides a PostgreSQL-backed source of build inputs, for
// deployments that load the NHDPlus attribute tables into a database instead
// of shipping CSV exports with the binary. It satisfies delineate.Source.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cmorran/watershed/pkg/hydrograph"
	"github.com/cmorran/watershed/pkg/nhd"
)

// PGSource reads routing records, corrections and flowline attributes from
// PostgreSQL.
type PGSource struct {
	pool          *pgxpool.Pool
	terminalClass string
}

// NewPGSource connects to the database and verifies the schema exists.
func NewPGSource(ctx context.Context, databaseURL, terminalClass string) (*PGSource, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pooling configuration
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	if terminalClass == "" {
		terminalClass = nhd.DefaultTerminalClass
	}
	s := &PGSource{pool: pool, terminalClass: terminalClass}

	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return s, nil
}

// Ping checks database connectivity
func (s *PGSource) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the database connection pool
func (s *PGSource) Close() error {
	s.pool.Close()
	return nil
}

func (s *PGSource) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS plusflow (
			zone        TEXT NOT NULL,
			fromcomid   BIGINT NOT NULL,
			tocomid     BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS plusflow_zone_idx ON plusflow (zone);

		CREATE TABLE IF NOT EXISTS intervpu (
			fromcomid   BIGINT NOT NULL,
			tozone      TEXT NOT NULL,
			upcomadd    BIGINT NOT NULL DEFAULT 0,
			removecoms  BIGINT NOT NULL DEFAULT 0,
			thrucomids  BIGINT NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS flowline (
			zone   TEXT NOT NULL,
			comid  BIGINT NOT NULL,
			ftype  TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS flowline_zone_idx ON flowline (zone);
	`)
	return err
}

// Records returns the raw routing table for a zone. Rows are returned as-is;
// semantic cleaning belongs to the builder. The skipped count is always zero
// here since typed columns cannot hold unparseable cells.
func (s *PGSource) Records(ctx context.Context, zone string) ([]hydrograph.FlowRecord, int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT fromcomid, tocomid FROM plusflow WHERE zone = $1`, zone)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query routing table: %w", err)
	}
	defer rows.Close()

	var records []hydrograph.FlowRecord
	for rows.Next() {
		var from, to int64
		if err := rows.Scan(&from, &to); err != nil {
			return nil, 0, fmt.Errorf("failed to scan routing row: %w", err)
		}
		records = append(records, hydrograph.FlowRecord{
			From: unitFromInt(from),
			To:   unitFromInt(to),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("routing table read failed: %w", err)
	}
	return records, 0, nil
}

// Corrections returns the full cross-zone correction table.
func (s *PGSource) Corrections(ctx context.Context) (hydrograph.CorrectionTable, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT fromcomid, tozone, upcomadd, removecoms, thrucomids FROM intervpu`)
	if err != nil {
		return nil, fmt.Errorf("failed to query correction table: %w", err)
	}
	defer rows.Close()

	var table hydrograph.CorrectionTable
	for rows.Next() {
		var from, up, remove, thru int64
		var zone string
		if err := rows.Scan(&from, &zone, &up, &remove, &thru); err != nil {
			return nil, fmt.Errorf("failed to scan correction row: %w", err)
		}
		if src := unitFromInt(from); src != hydrograph.NoUnit {
			table = append(table, hydrograph.Correction{
				Zone:   zone,
				Source: src,
				Dest:   unitFromInt(up),
			})
		}
		if r := unitFromInt(remove); r != hydrograph.NoUnit {
			table = append(table, hydrograph.Correction{Source: r, Remove: true})
		}
		if t := unitFromInt(thru); t != hydrograph.NoUnit {
			table = append(table, hydrograph.Correction{Source: t, PassThrough: true})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("correction table read failed: %w", err)
	}
	return table, nil
}

// ZoneAttributes returns the zone's unit membership and terminal units.
func (s *PGSource) ZoneAttributes(ctx context.Context, zone string) (nhd.ZoneAttributes, error) {
	attrs := nhd.ZoneAttributes{
		Units:     make(hydrograph.UnitSet),
		Terminals: make(hydrograph.UnitSet),
	}

	rows, err := s.pool.Query(ctx,
		`SELECT comid, ftype FROM flowline WHERE zone = $1`, zone)
	if err != nil {
		return attrs, fmt.Errorf("failed to query flowline table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var comid int64
		var ftype string
		if err := rows.Scan(&comid, &ftype); err != nil {
			return attrs, fmt.Errorf("failed to scan flowline row: %w", err)
		}
		id := unitFromInt(comid)
		if id == hydrograph.NoUnit {
			continue
		}
		attrs.Units.Add(id)
		if ftype == s.terminalClass {
			attrs.Terminals.Add(id)
		}
	}
	if err := rows.Err(); err != nil {
		return attrs, fmt.Errorf("flowline table read failed: %w", err)
	}
	return attrs, nil
}

// unitFromInt maps BIGINT columns onto UnitID, folding negatives into the
// sentinel.
func unitFromInt(v int64) hydrograph.UnitID {
	if v <= 0 {
		return hydrograph.NoUnit
	}
	return hydrograph.UnitID(v)
}
