package pack

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ContractHistory persists `contract test` runs to a local SQLite database,
// grounded on the query/exec shape of sambeau-basil's server/search/metadata.go
// (CREATE TABLE IF NOT EXISTS / INSERT / SELECT over *sql.DB), so a
// `pack validate`/`contract test` caller can compare a run against the last
// one instead of only ever seeing the latest in-memory result.
type ContractHistory struct {
	db *sql.DB
}

// OpenContractHistory opens (creating if necessary) the SQLite database at
// path and ensures its schema exists.
func OpenContractHistory(path string) (*ContractHistory, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open contract history: %w", err)
	}
	h := &ContractHistory{db: db}
	if err := h.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

func (h *ContractHistory) createTable() error {
	_, err := h.db.Exec(`
		CREATE TABLE IF NOT EXISTS contract_runs (
			id TEXT PRIMARY KEY,
			ran_at INTEGER NOT NULL,
			ok INTEGER NOT NULL,
			targets TEXT NOT NULL,
			summary_json TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("create contract_runs table: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (h *ContractHistory) Close() error { return h.db.Close() }

// RunRecord is one stored contract-test run, keyed by a fresh UUID so
// concurrent callers never collide on the primary key.
type RunRecord struct {
	ID      string
	RanAt   int64
	OK      bool
	Targets []string
}

// Record stores one SuiteResult, stamping it with a new UUID primary key
// (google/uuid), and returns the record's id.
func (h *ContractHistory) Record(ranAt int64, result *SuiteResult) (string, error) {
	id := uuid.NewString()
	targetsJSON, err := json.Marshal(result.Targets)
	if err != nil {
		return "", fmt.Errorf("marshal targets: %w", err)
	}
	summaryJSON, err := json.Marshal(result.Summary)
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}

	_, err = h.db.Exec(
		`INSERT INTO contract_runs (id, ran_at, ok, targets, summary_json) VALUES (?, ?, ?, ?, ?)`,
		id, ranAt, boolToInt(result.OK), string(targetsJSON), string(summaryJSON),
	)
	if err != nil {
		return "", fmt.Errorf("insert contract run: %w", err)
	}
	return id, nil
}

// Latest returns the most recently recorded run, or nil if history is empty.
func (h *ContractHistory) Latest() (*RunRecord, error) {
	row := h.db.QueryRow(`SELECT id, ran_at, ok, targets FROM contract_runs ORDER BY ran_at DESC LIMIT 1`)
	var rec RunRecord
	var okInt int
	var targetsJSON string
	if err := row.Scan(&rec.ID, &rec.RanAt, &okInt, &targetsJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest contract run: %w", err)
	}
	rec.OK = okInt != 0
	if err := json.Unmarshal([]byte(targetsJSON), &rec.Targets); err != nil {
		return nil, fmt.Errorf("unmarshal targets: %w", err)
	}
	return &rec, nil
}

// StableRegressions reports stable targets whose TargetOK flipped from true
// in the previous run to false in current — a stable-gate regression.
func (h *ContractHistory) StableRegressions(current *SuiteResult) ([]string, error) {
	row := h.db.QueryRow(`SELECT summary_json FROM contract_runs ORDER BY ran_at DESC LIMIT 1`)
	var summaryJSON string
	if err := row.Scan(&summaryJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query previous summary: %w", err)
	}

	var prev map[string]TargetSummary
	if err := json.Unmarshal([]byte(summaryJSON), &prev); err != nil {
		return nil, fmt.Errorf("unmarshal previous summary: %w", err)
	}

	var regressions []string
	for target, summary := range current.Summary {
		if summary.Stability != "stable" {
			continue
		}
		if prevSummary, ok := prev[target]; ok && prevSummary.TargetOK && !summary.TargetOK {
			regressions = append(regressions, target)
		}
	}
	return regressions, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
