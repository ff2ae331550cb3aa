// Package results persists finished runs and their per-step decisions in a SQL database.
package results

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kiteco/streamal/errors"
	"github.com/kiteco/streamal/stream"

	// registers the sqlite3 driver used by OpenSQLite
	_ "github.com/mattn/go-sqlite3"
)

// Run is one strategy's pass over an experiment's stream. Runs stored by the same invocation
// share a Batch. "db" tags are for sqlx.
type Run struct {
	ID         int64     `db:"id" json:"id"`
	Batch      string    `db:"batch" json:"batch"`
	Experiment string    `db:"experiment" json:"experiment"`
	Strategy   string    `db:"strategy" json:"strategy"`
	Seed       int64     `db:"seed" json:"seed"`
	Rate       float64   `db:"rate" json:"rate"`
	Seen       int       `db:"seen" json:"seen"`
	Queried    int       `db:"queried" json:"queried"`
	Fits       int       `db:"fits" json:"fits"`
	FitErrors  int       `db:"fit_errors" json:"fit_errors"`
	Accuracy   float64   `db:"accuracy" json:"accuracy"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// StepRow is a stored stream.Step.
type StepRow struct {
	RunID         int64   `db:"run_id" csv:"-"`
	Index         int     `db:"idx" csv:"index"`
	Truth         int     `db:"truth" csv:"truth"`
	Prediction    int     `db:"prediction" csv:"prediction"`
	HasPrediction bool    `db:"has_prediction" csv:"has_prediction"`
	Correct       bool    `db:"correct" csv:"correct"`
	Queried       bool    `db:"queried" csv:"queried"`
	Utility       float64 `db:"utility" csv:"utility"`
	BudgetLeft    bool    `db:"budget_left" csv:"budget_left"`
	WindowLen     int     `db:"window_len" csv:"window_len"`
	FitError      string  `db:"fit_error" csv:"fit_error"`
}

// NewStepRow converts a step of run runID
func NewStepRow(runID int64, s stream.Step) StepRow {
	row := StepRow{
		RunID:         runID,
		Index:         s.Index,
		Truth:         int(s.Truth),
		Prediction:    int(s.Prediction),
		HasPrediction: s.HasPrediction,
		Correct:       s.Correct,
		Queried:       s.Decision.Queried,
		Utility:       s.Decision.Utility,
		BudgetLeft:    s.Decision.BudgetLeft,
		WindowLen:     s.WindowLen,
	}
	if s.FitErr != nil {
		row.FitError = s.FitErr.Error()
	}
	return row
}

var schema = []string{`
	CREATE TABLE IF NOT EXISTS run (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		batch TEXT NOT NULL,
		experiment TEXT NOT NULL,
		strategy TEXT NOT NULL,
		seed INTEGER NOT NULL,
		rate REAL NOT NULL,
		seen INTEGER NOT NULL,
		queried INTEGER NOT NULL,
		fits INTEGER NOT NULL,
		fit_errors INTEGER NOT NULL,
		accuracy REAL NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`, `
	CREATE TABLE IF NOT EXISTS step (
		run_id INTEGER NOT NULL REFERENCES run(id),
		idx INTEGER NOT NULL,
		truth INTEGER NOT NULL,
		prediction INTEGER NOT NULL,
		has_prediction BOOLEAN NOT NULL,
		correct BOOLEAN NOT NULL,
		queried BOOLEAN NOT NULL,
		utility REAL NOT NULL,
		budget_left BOOLEAN NOT NULL,
		window_len INTEGER NOT NULL,
		fit_error TEXT NOT NULL,
		PRIMARY KEY (run_id, idx)
	)`,
}

const (
	insertRunQuery = `
	INSERT INTO run (batch, experiment, strategy, seed, rate, seen, queried, fits, fit_errors, accuracy, created_at)
	VALUES (:batch, :experiment, :strategy, :seed, :rate, :seen, :queried, :fits, :fit_errors, :accuracy, :created_at)`
	insertStepQuery = `
	INSERT INTO step (run_id, idx, truth, prediction, has_prediction, correct, queried, utility, budget_left, window_len, fit_error)
	VALUES (:run_id, :idx, :truth, :prediction, :has_prediction, :correct, :queried, :utility, :budget_left, :window_len, :fit_error)`
)

// Store wraps the results db object.
type Store struct {
	db *sqlx.DB
}

// Open connects to the database with the given driver and data source name
func Open(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "error connecting to %s results db", driver)
	}
	return &Store{db: db}, nil
}

// OpenSQLite opens a sqlite3 database at path, which may be ":memory:"
func OpenSQLite(path string) (*Store, error) {
	s, err := Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// sqlite does not support concurrent writers, and every :memory: connection is its own db
	s.db.SetMaxOpenConns(1)
	return s, nil
}

// Migrate creates the tables if they do not exist yet.
func (s *Store) Migrate() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrapf(err, "error creating tables in db")
		}
	}
	return nil
}

// SaveRun stores run and its steps in one transaction and returns the new run id
func (s *Store) SaveRun(run Run, steps []stream.Step) (id int64, err error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			errors.Defer(&err, tx.Rollback)
		}
	}()

	res, err := tx.NamedExec(insertRunQuery, run)
	if err != nil {
		return 0, errors.Wrapf(err, "error inserting run")
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareNamed(insertStepQuery)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for _, st := range steps {
		if _, err = stmt.Exec(NewStepRow(id, st)); err != nil {
			return 0, errors.Wrapf(err, "error inserting step %d", st.Index)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// Runs returns every stored run, oldest first
func (s *Store) Runs() ([]Run, error) {
	var runs []Run
	err := s.db.Select(&runs, "SELECT * FROM run ORDER BY id")
	return runs, err
}

// Steps returns the steps of a run in stream order
func (s *Store) Steps(runID int64) ([]StepRow, error) {
	var steps []StepRow
	query := s.db.Rebind("SELECT * FROM step WHERE run_id=? ORDER BY idx")
	err := s.db.Select(&steps, query, runID)
	return steps, err
}

// Close closes the underlying db
func (s *Store) Close() error {
	return s.db.Close()
}
