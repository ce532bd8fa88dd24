package tracing

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// SQLiteTraceWriter is a writer that writes steps to a SQLite database.
type SQLiteTraceWriter struct {
	*sql.DB
	statement *sql.Stmt

	dbName           string
	stepsToWriteToDB []Step
	batchSize        int
}

// NewSQLiteTraceWriter creates a new SQLiteTraceWriter. The database is
// written to path with the ".sqlite3" extension. An empty path generates a
// unique name. The writer is closed when the program exits through atexit.
func NewSQLiteTraceWriter(path string) *SQLiteTraceWriter {
	w := &SQLiteTraceWriter{
		dbName:    path,
		batchSize: 1000,
	}

	atexit.Register(func() {
		if err := w.Close(); err != nil {
			log.Print(err)
		}
	})

	return w
}

// WithBatchSize sets the number of steps buffered before they are written.
func (t *SQLiteTraceWriter) WithBatchSize(n int) *SQLiteTraceWriter {
	if n <= 0 {
		log.Panicf("batch size must be positive, got %d", n)
	}

	t.batchSize = n

	return t
}

// FileName returns the name of the database file.
func (t *SQLiteTraceWriter) FileName() string {
	return t.dbName + ".sqlite3"
}

// Init creates the database and the step table.
func (t *SQLiteTraceWriter) Init() error {
	if err := t.createDatabase(); err != nil {
		return err
	}

	if err := t.createTable(); err != nil {
		return err
	}

	return t.prepareStatement()
}

// Write buffers a step. The buffer is flushed when it is full.
func (t *SQLiteTraceWriter) Write(step Step) {
	t.stepsToWriteToDB = append(t.stepsToWriteToDB, step)
	if len(t.stepsToWriteToDB) >= t.batchSize {
		t.Flush()
	}
}

// Close flushes the buffered steps and closes the database. Closing a writer
// that is not open does nothing.
func (t *SQLiteTraceWriter) Close() error {
	if t.DB == nil {
		return nil
	}

	t.Flush()

	if t.statement != nil {
		if err := t.statement.Close(); err != nil {
			return err
		}

		t.statement = nil
	}

	err := t.DB.Close()
	t.DB = nil

	return err
}

// Flush writes all the buffered steps to the database.
func (t *SQLiteTraceWriter) Flush() {
	if len(t.stepsToWriteToDB) == 0 || t.DB == nil {
		return
	}

	tx, err := t.Begin()
	if err != nil {
		log.Panic(err)
	}

	stmt := tx.Stmt(t.statement)
	for _, s := range t.stepsToWriteToDB {
		_, err := stmt.Exec(
			s.ID,
			s.Location,
			s.Index,
			s.Kind,
			s.What,
			s.Address,
			s.Line,
			s.Hit,
			s.Cost,
			s.Cycle,
		)
		if err != nil {
			_ = tx.Rollback()
			log.Panicf("failed to insert step %+v: %v", s, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Panic(err)
	}

	t.stepsToWriteToDB = nil
}

func (t *SQLiteTraceWriter) createDatabase() error {
	if t.dbName == "" {
		t.dbName = "cachesim_trace_" + xid.New().String()
	}

	filename := t.FileName()
	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("file %s already exists", filename)
	}

	fmt.Fprintf(os.Stderr, "Trace is collected in database: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filename, err)
	}

	t.DB = db

	return nil
}

func (t *SQLiteTraceWriter) createTable() error {
	queries := []string{
		`create table step
		(
			step_id  varchar(200) not null,
			location varchar(100) not null,
			idx      integer      not null,
			kind     varchar(16)  not null,
			what     varchar(100) not null,
			address  integer      not null,
			line     integer      not null,
			hit      boolean      not null,
			cost     integer      not null,
			cycle    integer      not null
		);`,
		`create index step_kind_index on step (kind);`,
		`create index step_location_index on step (location);`,
	}

	for _, q := range queries {
		if _, err := t.Exec(q); err != nil {
			return fmt.Errorf("creating step table: %w", err)
		}
	}

	return nil
}

func (t *SQLiteTraceWriter) prepareStatement() error {
	stmt, err := t.Prepare(
		`INSERT INTO step VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing step insert: %w", err)
	}

	t.statement = stmt

	return nil
}

// SQLiteTraceReader is a reader that reads steps from a SQLite database.
type SQLiteTraceReader struct {
	*sql.DB

	filename string
}

// NewSQLiteTraceReader creates a new SQLiteTraceReader.
func NewSQLiteTraceReader(filename string) *SQLiteTraceReader {
	r := &SQLiteTraceReader{
		filename: filename,
	}

	return r
}

// Init establishes a connection to the database.
func (r *SQLiteTraceReader) Init() error {
	db, err := sql.Open("sqlite3", r.filename)
	if err != nil {
		return fmt.Errorf("opening %s: %w", r.filename, err)
	}

	r.DB = db

	return nil
}

// ListLocations returns the names of the traced domains.
func (r *SQLiteTraceReader) ListLocations() ([]string, error) {
	rows, err := r.Query("SELECT DISTINCT location FROM step ORDER BY location")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}

		locations = append(locations, l)
	}

	return locations, rows.Err()
}

// ListSteps returns the steps recorded for a location, in insertion order.
func (r *SQLiteTraceReader) ListSteps(location string) ([]Step, error) {
	rows, err := r.Query(`
		SELECT step_id, location, idx, kind, what, address, line, hit, cost,
			cycle
		FROM step
		WHERE location = ?
		ORDER BY rowid`, location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []Step
	for rows.Next() {
		var s Step
		err := rows.Scan(
			&s.ID,
			&s.Location,
			&s.Index,
			&s.Kind,
			&s.What,
			&s.Address,
			&s.Line,
			&s.Hit,
			&s.Cost,
			&s.Cycle,
		)
		if err != nil {
			return nil, err
		}

		steps = append(steps, s)
	}

	return steps, rows.Err()
}
