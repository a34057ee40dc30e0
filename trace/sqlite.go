// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trace

import (
	"database/sql"
	"sync"
	"time"

	// SQLite driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	log "github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"
)

// DefaultBatchSize is the number of value changes buffered by a
// SQLiteRecorder before they are written in a single transaction.
//
const DefaultBatchSize = 10000

type change struct {
	t      time.Duration
	signal int
	value  uint64
}

// SQLiteRecorder is a Recorder storing value changes in a SQLite database.
// Every recorder writes a new run, identified by a unique run ID, so that
// several runs can share a database.
//
// Values are stored as 64 bits signed integers; values with the high bit set
// read back as negative numbers.
//
type SQLiteRecorder struct {
	mu        sync.Mutex
	db        *sql.DB
	runID     string
	path      string
	BatchSize int

	sigs    []Signal
	last    []uint64
	started bool
	pending []change
	closed  bool
}

// NewSQLiteRecorder opens or creates the database at path. Buffered changes
// are flushed on Close or when the program exits through atexit.Exit.
//
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	r := &SQLiteRecorder{
		db:        db,
		runID:     xid.New().String(),
		path:      path,
		BatchSize: DefaultBatchSize,
	}
	if err = r.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	atexit.Register(func() {
		if err := r.Flush(); err != nil {
			log.WithError(err).Error("failed to flush trace")
		}
	})
	return r, nil
}

func (r *SQLiteRecorder) createTables() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS run
		(
			run_id  VARCHAR(20) NOT NULL PRIMARY KEY,
			scope   VARCHAR(200) NOT NULL,
			created VARCHAR(40) NOT NULL
		);
		CREATE TABLE IF NOT EXISTS signal
		(
			run_id VARCHAR(20) NOT NULL,
			name   VARCHAR(200) NOT NULL,
			bits   INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS trace
		(
			run_id  VARCHAR(20) NOT NULL,
			time_ns INTEGER NOT NULL,
			signal  VARCHAR(200) NOT NULL,
			value   INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS trace_run_signal_index
			ON trace (run_id, signal);
	`)
	return errors.Wrap(err, "failed to create trace tables")
}

// RunID returns the ID of the run being recorded.
//
func (r *SQLiteRecorder) RunID() string { return r.runID }

// Declare records the run and its signals.
//
func (r *SQLiteRecorder) Declare(scope string, sigs []Signal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sigs != nil {
		return errors.New("signals already declared")
	}
	tx, err := r.db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to declare signals")
	}
	_, err = tx.Exec(`INSERT INTO run VALUES (?, ?, ?)`, r.runID, scope, time.Now().Format(time.RFC3339))
	for i := 0; err == nil && i < len(sigs); i++ {
		_, err = tx.Exec(`INSERT INTO signal VALUES (?, ?, ?)`, r.runID, sigs[i].Name, sigs[i].Bits)
	}
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "failed to declare signals")
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to declare signals")
	}
	r.sigs = make([]Signal, len(sigs))
	copy(r.sigs, sigs)
	r.last = make([]uint64, len(sigs))
	log.WithFields(log.Fields{"file": r.path, "run": r.runID}).Info("recording trace")
	return nil
}

// Sample buffers the values that changed since the previous sample.
//
func (r *SQLiteRecorder) Sample(t time.Duration, values []uint64) error {
	r.mu.Lock()
	if r.sigs == nil {
		r.mu.Unlock()
		return errors.New("sample before signal declaration")
	}
	if len(values) != len(r.sigs) {
		r.mu.Unlock()
		return errors.Errorf("got %d values for %d signals", len(values), len(r.sigs))
	}
	for i, v := range values {
		if r.started && v == r.last[i] {
			continue
		}
		r.pending = append(r.pending, change{t, i, v})
		r.last[i] = v
	}
	r.started = true
	full := len(r.pending) >= r.BatchSize
	r.mu.Unlock()

	if full {
		return r.Flush()
	}
	return nil
}

// Flush writes buffered changes to the database in a single transaction.
//
func (r *SQLiteRecorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || len(r.pending) == 0 {
		return nil
	}
	tx, err := r.db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to flush trace")
	}
	stmt, err := tx.Prepare(`INSERT INTO trace VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "failed to flush trace")
	}
	for _, c := range r.pending {
		if _, err = stmt.Exec(r.runID, int64(c.t/time.Nanosecond), r.sigs[c.signal].Name, int64(c.value)); err != nil {
			stmt.Close()
			tx.Rollback()
			return errors.Wrap(err, "failed to flush trace")
		}
	}
	stmt.Close()
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to flush trace")
	}
	r.pending = r.pending[:0]
	return nil
}

// Close flushes buffered changes and closes the database.
//
func (r *SQLiteRecorder) Close() error {
	err := r.Flush()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return err
	}
	r.closed = true
	if e := r.db.Close(); err == nil {
		err = e
	}
	return err
}
