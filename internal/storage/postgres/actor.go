package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/skirmish/internal/game/actor"
)

// ErrActorNotFound is returned when an actor lookup yields no results.
var ErrActorNotFound = errors.New("actor not found")

// ActorRepository persists actor snapshots: identity, progression, base
// primaries, and learned abilities.
type ActorRepository struct {
	db *pgxpool.Pool
}

// NewActorRepository creates an ActorRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewActorRepository(db *pgxpool.Pool) *ActorRepository {
	return &ActorRepository{db: db}
}

// Save upserts s and replaces its attribute and ability rows in one transaction.
//
// Precondition: s.ID must be non-empty and s.Level >= 1.
// Postcondition: a later Load(s.ID) returns a snapshot equal to s.
func (r *ActorRepository) Save(ctx context.Context, s actor.Snapshot) error {
	if s.ID == "" {
		return fmt.Errorf("saving actor: id must not be empty")
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO actors (id, name, kind, level, stat_points, currency)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				kind = EXCLUDED.kind,
				level = EXCLUDED.level,
				stat_points = EXCLUDED.stat_points,
				currency = EXCLUDED.currency,
				updated_at = NOW()`,
			s.ID, s.Name, int16(s.Kind), s.Level, s.StatPoints, s.Currency,
		); err != nil {
			return fmt.Errorf("upserting actor %q: %w", s.ID, err)
		}

		batch := &pgx.Batch{}
		batch.Queue(`DELETE FROM actor_attributes WHERE actor_id = $1`, s.ID)
		batch.Queue(`DELETE FROM actor_abilities WHERE actor_id = $1`, s.ID)
		for name, base := range s.Bases {
			batch.Queue(`INSERT INTO actor_attributes (actor_id, attribute, base) VALUES ($1, $2, $3)`,
				s.ID, name, base)
		}
		for category, ids := range s.Learned {
			for i, id := range ids {
				batch.Queue(`INSERT INTO actor_abilities (actor_id, category, ability_id, position) VALUES ($1, $2, $3, $4)`,
					s.ID, category, id, i)
			}
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("writing actor %q details: %w", s.ID, err)
		}
		return nil
	})
}

// SaveAll saves every snapshot in order, stopping at the first error.
func (r *ActorRepository) SaveAll(ctx context.Context, snaps []actor.Snapshot) error {
	for _, s := range snaps {
		if err := r.Save(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// Load retrieves the snapshot for id.
//
// Postcondition: Returns the snapshot or ErrActorNotFound.
func (r *ActorRepository) Load(ctx context.Context, id string) (actor.Snapshot, error) {
	var (
		s    actor.Snapshot
		kind int16
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, name, kind, level, stat_points, currency
		FROM actors WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &kind, &s.Level, &s.StatPoints, &s.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return actor.Snapshot{}, ErrActorNotFound
		}
		return actor.Snapshot{}, fmt.Errorf("querying actor %q: %w", id, err)
	}
	s.Kind = actor.Kind(kind)

	if s.Bases, err = r.loadBases(ctx, id); err != nil {
		return actor.Snapshot{}, err
	}
	if s.Learned, err = r.loadLearned(ctx, id); err != nil {
		return actor.Snapshot{}, err
	}
	return s, nil
}

// LoadAll retrieves every stored snapshot, ordered by ID.
func (r *ActorRepository) LoadAll(ctx context.Context) ([]actor.Snapshot, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM actors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing actors: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning actor ids: %w", err)
	}
	out := make([]actor.Snapshot, 0, len(ids))
	for _, id := range ids {
		s, err := r.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Delete removes the actor with id and its detail rows.
//
// Postcondition: Returns ErrActorNotFound if no row was deleted.
func (r *ActorRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM actors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting actor %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrActorNotFound
	}
	return nil
}

func (r *ActorRepository) loadBases(ctx context.Context, id string) (map[string]float64, error) {
	rows, err := r.db.Query(ctx, `SELECT attribute, base FROM actor_attributes WHERE actor_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("querying attributes of %q: %w", id, err)
	}
	defer rows.Close()

	bases := make(map[string]float64)
	for rows.Next() {
		var (
			name string
			base float64
		)
		if err := rows.Scan(&name, &base); err != nil {
			return nil, fmt.Errorf("scanning attribute row: %w", err)
		}
		bases[name] = base
	}
	return bases, rows.Err()
}

func (r *ActorRepository) loadLearned(ctx context.Context, id string) (map[string][]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT category, ability_id FROM actor_abilities
		WHERE actor_id = $1 ORDER BY category, position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying abilities of %q: %w", id, err)
	}
	defer rows.Close()

	learned := make(map[string][]string)
	for rows.Next() {
		var category, abilityID string
		if err := rows.Scan(&category, &abilityID); err != nil {
			return nil, fmt.Errorf("scanning ability row: %w", err)
		}
		learned[category] = append(learned[category], abilityID)
	}
	return learned, rows.Err()
}
