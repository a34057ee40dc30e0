// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trace

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	t      int64
	signal string
	value  int64
}

func TestSQLiteRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.sqlite3")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	r.BatchSize = 2
	assert.Len(t, r.RunID(), 20)

	require.Error(t, r.Sample(0, []uint64{0}))
	require.NoError(t, r.Declare("SRam", []Signal{{"we_n", 1}, {"addr", 4}}))
	require.NoError(t, r.Sample(0, []uint64{1, 0}))
	require.NoError(t, r.Sample(10*time.Nanosecond, []uint64{1, 5}))
	require.NoError(t, r.Sample(20*time.Nanosecond, []uint64{0, 5}))
	require.NoError(t, r.Sample(30*time.Nanosecond, []uint64{0, 5}))
	assert.Error(t, r.Sample(40*time.Nanosecond, []uint64{0}))
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	// a second run in the same database
	r2, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r2.Declare("SRam", []Signal{{"we_n", 1}}))
	require.NoError(t, r2.Sample(0, []uint64{1}))
	require.NoError(t, r2.Close())
	assert.NotEqual(t, r.RunID(), r2.RunID())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT time_ns, signal, value FROM trace WHERE run_id = ? ORDER BY rowid`, r.RunID())
	require.NoError(t, err)
	var got []row
	for rows.Next() {
		var x row
		require.NoError(t, rows.Scan(&x.t, &x.signal, &x.value))
		got = append(got, x)
	}
	require.NoError(t, rows.Err())
	rows.Close()
	assert.Equal(t, []row{
		{0, "we_n", 1},
		{0, "addr", 0},
		{10, "addr", 5},
		{20, "we_n", 0},
	}, got)

	var runs, sigs int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM run`).Scan(&runs))
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM signal WHERE run_id = ?`, r.RunID()).Scan(&sigs))
	assert.Equal(t, 2, runs)
	assert.Equal(t, 2, sigs)
}
