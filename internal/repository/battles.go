package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// BattleRecord is one finished battle.
type BattleRecord struct {
	BattleID  string
	Winner    int // 0 or 1
	Turns     int
	SpeciesP1 string
	SpeciesP2 string
	EndedAt   time.Time
}

// BattleRepository stores finished battles and serves streak queries.
type BattleRepository struct {
	db *DB
}

// NewBattleRepository creates the repository.
func NewBattleRepository(db *DB) *BattleRepository {
	return &BattleRepository{db: db}
}

// Migrate creates the battles table if it does not exist.
func (r *BattleRepository) Migrate(ctx context.Context) error {
	_, err := r.db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS battles (
			battle_id  TEXT PRIMARY KEY,
			winner     SMALLINT NOT NULL,
			turns      INT NOT NULL,
			species_p1 TEXT NOT NULL,
			species_p2 TEXT NOT NULL,
			ended_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("repository: migrate battles: %w", err)
	}
	return nil
}

// RecordResult inserts a finished battle. Replays of the same battle id
// are ignored.
func (r *BattleRepository) RecordResult(ctx context.Context, rec BattleRecord) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO battles (battle_id, winner, turns, species_p1, species_p2, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (battle_id) DO NOTHING`,
		rec.BattleID, rec.Winner, rec.Turns, rec.SpeciesP1, rec.SpeciesP2, rec.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: record battle %s: %w", rec.BattleID, err)
	}

	if r.db.logger != nil {
		r.db.logger.Debug("battle recorded",
			zap.String("battle_id", rec.BattleID),
			zap.Int("winner", rec.Winner),
			zap.Int("turns", rec.Turns),
		)
	}
	return nil
}

// CurrentStreak returns the length of the trailing run of battles won by
// the given side, newest first.
func (r *BattleRepository) CurrentStreak(ctx context.Context, side int) (int, error) {
	rows, err := r.db.pool.Query(ctx,
		`SELECT winner FROM battles ORDER BY ended_at DESC LIMIT 100`)
	if err != nil {
		return 0, fmt.Errorf("repository: streak query: %w", err)
	}
	defer rows.Close()

	streak := 0
	for rows.Next() {
		var winner int
		if err := rows.Scan(&winner); err != nil {
			return 0, fmt.Errorf("repository: streak scan: %w", err)
		}
		if winner != side {
			break
		}
		streak++
	}
	return streak, rows.Err()
}

// RecentBattles returns the newest records up to limit.
func (r *BattleRepository) RecentBattles(ctx context.Context, limit int) ([]BattleRecord, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT battle_id, winner, turns, species_p1, species_p2, ended_at
		FROM battles ORDER BY ended_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: recent query: %w", err)
	}
	defer rows.Close()

	var out []BattleRecord
	for rows.Next() {
		var rec BattleRecord
		if err := rows.Scan(&rec.BattleID, &rec.Winner, &rec.Turns,
			&rec.SpeciesP1, &rec.SpeciesP2, &rec.EndedAt); err != nil {
			return nil, fmt.Errorf("repository: recent scan: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
