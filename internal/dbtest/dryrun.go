// Package dbtest builds a postgres gorm handle that records the SQL it
// would run instead of running it.
package dbtest

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errNoDatabase = errors.New("dbtest: statements are not executed")

// Recorder keeps every statement gorm built, with its variables inlined.
type Recorder struct {
	mu   sync.Mutex
	stmt []string
}

func (r *Recorder) Statements() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.stmt...)
}

// Last returns the most recent statement, or an empty string.
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stmt) == 0 {
		return ""
	}
	return r.stmt[len(r.stmt)-1]
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stmt = nil
}

func (r *Recorder) LogMode(logger.LogLevel) logger.Interface { return r }

func (r *Recorder) Info(context.Context, string, ...interface{})  {}
func (r *Recorder) Warn(context.Context, string, ...interface{})  {}
func (r *Recorder) Error(context.Context, string, ...interface{}) {}

func (r *Recorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sqlText, _ := fc()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stmt = append(r.stmt, sqlText)
}

// pool never reaches a server. It can begin transactions so repository
// code wrapped in db.Transaction runs in dry-run mode too.
type pool struct{}

func (pool) PrepareContext(context.Context, string) (*sql.Stmt, error) {
	return nil, errNoDatabase
}

func (pool) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errNoDatabase
}

func (pool) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errNoDatabase
}

func (pool) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (pool) BeginTx(context.Context, *sql.TxOptions) (gorm.ConnPool, error) {
	return &tx{}, nil
}

type tx struct{ pool }

func (tx) Commit() error   { return nil }
func (tx) Rollback() error { return nil }

// DryRun returns a postgres gorm handle in DryRun mode and the recorder
// collecting its statements.
func DryRun(t *testing.T) (*gorm.DB, *Recorder) {
	t.Helper()
	rec := &Recorder{}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: pool{}}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 rec,
	})
	if err != nil {
		t.Fatalf("dbtest: open dry-run db: %v", err)
	}
	return db, rec
}
