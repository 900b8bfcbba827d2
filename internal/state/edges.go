package state

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leapstack-labs/sqldeps/pkg/depgraph"
)

// SaveEdges stores the edges of a run in discovery order, replacing any
// edges previously stored for it.
func (s *SQLiteStore) SaveEdges(runID string, edges []depgraph.DependencyEdge) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM edges WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("failed to delete existing edges: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO edges (run_id, position,
		   source_schema, source_name, source_kind,
		   target_schema, target_name, target_kind,
		   relationship, line, snippet, ambiguous)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range edges {
		_, err := stmt.Exec(runID, i,
			e.Source.Schema, e.Source.Name, e.Source.Kind,
			e.Target.Schema, e.Target.Name, e.Target.Kind,
			e.Relationship, e.Line, e.Snippet, boolToInt(e.Ambiguous))
		if err != nil {
			return fmt.Errorf("failed to insert edge: %w", err)
		}
	}

	return tx.Commit()
}

// GetEdges retrieves a run's edges in discovery order.
func (s *SQLiteStore) GetEdges(runID string) ([]depgraph.DependencyEdge, error) {
	return s.queryEdges(
		`SELECT source_schema, source_name, source_kind,
		        target_schema, target_name, target_kind,
		        relationship, line, snippet, ambiguous
		 FROM edges WHERE run_id = ? ORDER BY position`,
		runID,
	)
}

// EdgesByTarget retrieves all edges of a run pointing at the given object.
func (s *SQLiteStore) EdgesByTarget(runID, schema, name string) ([]depgraph.DependencyEdge, error) {
	return s.queryEdges(
		`SELECT source_schema, source_name, source_kind,
		        target_schema, target_name, target_kind,
		        relationship, line, snippet, ambiguous
		 FROM edges WHERE run_id = ? AND target_schema = ? AND target_name = ?
		 ORDER BY position`,
		runID, schema, name,
	)
}

// EdgesBySource retrieves all edges of a run originating from the given object.
func (s *SQLiteStore) EdgesBySource(runID, schema, name string) ([]depgraph.DependencyEdge, error) {
	return s.queryEdges(
		`SELECT source_schema, source_name, source_kind,
		        target_schema, target_name, target_kind,
		        relationship, line, snippet, ambiguous
		 FROM edges WHERE run_id = ? AND source_schema = ? AND source_name = ?
		 ORDER BY position`,
		runID, schema, name,
	)
}

func (s *SQLiteStore) queryEdges(query string, args ...any) ([]depgraph.DependencyEdge, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	var edges []depgraph.DependencyEdge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

func scanEdge(rows *sql.Rows) (depgraph.DependencyEdge, error) {
	var e depgraph.DependencyEdge
	var ambiguous int

	err := rows.Scan(
		&e.Source.Schema, &e.Source.Name, &e.Source.Kind,
		&e.Target.Schema, &e.Target.Name, &e.Target.Kind,
		&e.Relationship, &e.Line, &e.Snippet, &ambiguous,
	)
	if err != nil {
		return e, err
	}
	e.Ambiguous = ambiguous != 0
	return e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
