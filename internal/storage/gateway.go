package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/saulo-duarte/strive/internal/config"
	"gorm.io/gorm"
)

var ErrUnavailable = errors.New("storage unavailable")

// Gateway hands out one pooled connection per repository call.
type Gateway struct {
	db *gorm.DB
}

func NewGateway(db *gorm.DB) *Gateway {
	return &Gateway{db: db}
}

// Conn is a single connection checked out of the pool. Release must be
// called exactly once; further calls are no-ops.
type Conn struct {
	raw      *sql.Conn
	db       *gorm.DB
	released bool
}

func (c *Conn) DB() *gorm.DB {
	return c.db
}

func (c *Conn) Release() {
	if c == nil || c.released {
		return
	}
	c.released = true
	if err := c.raw.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		config.Logger.WithError(err).Warn("Failed to release database connection")
	}
}

func (g *Gateway) Acquire(ctx context.Context) (*Conn, error) {
	if g == nil || g.db == nil {
		return nil, ErrUnavailable
	}

	sqlDB, err := g.db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	raw, err := sqlDB.Conn(ctx)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to acquire database connection")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	tx := g.db.Session(&gorm.Session{NewDB: true, Context: ctx})
	tx.Statement.ConnPool = raw

	return &Conn{raw: raw, db: tx}, nil
}

// Do runs fn on a freshly acquired connection and releases it on every
// exit path, including panics.
func (g *Gateway) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	conn, err := g.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	return fn(conn.DB())
}
