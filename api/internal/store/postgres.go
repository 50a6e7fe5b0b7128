package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

type PostgresCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewPostgresCache(db *sql.DB, ttl time.Duration) *PostgresCache {
	return &PostgresCache{DB: db, TTL: ttl}
}

// OpenPostgres opens a pgx-backed pool sized for a small synchronous service and pings it.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(1 * time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (r *PostgresCache) Find(ctx context.Context, key Key) ([]string, error) {
	const q = `select ideas, created_at
	           from ideas_cache
	           where image_hash=$1 and engine=$2 and model=$3`
	var (
		js []byte
		ts time.Time
	)
	err := r.DB.QueryRowContext(ctx, q, key.ImageHash, key.Engine, key.Model).Scan(&js, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if r.TTL > 0 && time.Since(ts) > r.TTL {
		return nil, ErrNotFound
	}
	var ideas []string
	if err := json.Unmarshal(js, &ideas); err != nil {
		// a broken row is treated as a miss and overwritten on the next save
		return nil, ErrNotFound
	}
	return ideas, nil
}

func (r *PostgresCache) Save(ctx context.Context, key Key, ideas []string) error {
	js, err := json.Marshal(ideas)
	if err != nil {
		return err
	}
	const q = `
insert into ideas_cache(image_hash, engine, model, ideas)
values ($1,$2,$3,$4)
on conflict (image_hash, engine, model)
do update set ideas=excluded.ideas, created_at=now()`
	_, err = r.DB.ExecContext(ctx, q, key.ImageHash, key.Engine, key.Model, js)
	return err
}
