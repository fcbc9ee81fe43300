// api/internal/store/postgres_store.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/ddroy9090-ind/reliant-page-access/models"
)

// Column variants tolerated on read. Portals that enriched their access-log
// table over time named the geo and session columns inconsistently; the
// first non-empty candidate wins, in this order.
var (
	countryColumns = []string{"country", "country_name", "country_code", "country_iso"}
	regionColumns  = []string{"region", "region_name", "state", "state_name"}
	sessionColumns = []string{"session_id", "session_key", "session_uuid", "session_identifier"}
)

// PostgresLogStore reads the page-access log from a relational table whose
// optional columns are discovered through information_schema, so deployments
// with older schemas keep working.
type PostgresLogStore struct {
	DB *sql.DB
}

func NewPostgresLogStore(db *sql.DB) *PostgresLogStore {
	return &PostgresLogStore{DB: db}
}

func (s *PostgresLogStore) FetchRows(ctx context.Context, start, end time.Time, limit int) ([]models.AccessEvent, error) {
	if limit <= 0 {
		limit = DefaultRowLimit
	}

	available, err := s.availableColumns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve page_access_logs columns: %w", err)
	}
	if !available["request_uri"] || !available["accessed_at"] {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT request_uri, accessed_at, %s, %s, %s, %s, %s, %s, %s, %s
		FROM page_access_logs
		WHERE accessed_at BETWEEN $1 AND $2
		ORDER BY accessed_at ASC
		LIMIT $3
	`,
		firstNonEmptyExpr(available, "ip_address"),
		firstNonEmptyExpr(available, "user_agent"),
		firstNonEmptyExpr(available, "referer"),
		firstNonEmptyExpr(available, "device_type"),
		firstNonEmptyExpr(available, "traffic_source"),
		firstNonEmptyExpr(available, countryColumns...),
		firstNonEmptyExpr(available, regionColumns...),
		firstNonEmptyExpr(available, sessionColumns...),
	)

	rows, err := s.DB.QueryContext(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query page access logs: %w", err)
	}
	defer rows.Close()

	var events []models.AccessEvent
	for rows.Next() {
		var (
			uri        sql.NullString
			accessedAt sql.NullTime
			event      models.AccessEvent
		)
		if err := rows.Scan(
			&uri,
			&accessedAt,
			&event.IPAddress,
			&event.UserAgent,
			&event.Referer,
			&event.DeviceType,
			&event.TrafficSource,
			&event.Country,
			&event.Region,
			&event.SessionID,
		); err != nil {
			log.Printf("Error scanning page access log row: %v", err)
			continue
		}
		if uri.Valid {
			value := uri.String
			event.RequestURI = &value
		}
		if accessedAt.Valid {
			event.AccessedAt = accessedAt.Time
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during page access log query: %w", err)
	}

	return events, nil
}

func (s *PostgresLogStore) InsertAccessEvents(ctx context.Context, records []models.AccessLogRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("page_access_logs",
		"id", "request_uri", "accessed_at", "ip_address", "user_agent", "referer",
		"device_type", "traffic_source", "country", "region", "session_id",
	))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}

	for _, record := range records {
		if _, err := stmt.ExecContext(ctx,
			record.RecordID,
			record.RequestURI,
			record.AccessedAt,
			record.IPAddress,
			record.UserAgent,
			record.Referer,
			record.DeviceType,
			record.TrafficSource,
			record.Country,
			record.Region,
			record.SessionID,
		); err != nil {
			stmt.Close()
			return fmt.Errorf("failed to buffer access log record %s: %w", record.RecordID, err)
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("failed to flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("failed to close copy statement: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit access log insert: %w", err)
	}

	log.Printf("Successfully inserted %d page access log records.", len(records))
	return nil
}

func (s *PostgresLogStore) availableColumns(ctx context.Context) (map[string]bool, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = 'page_access_logs'
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	available := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		available[name] = true
	}
	return available, rows.Err()
}

// firstNonEmptyExpr builds a SELECT expression that yields the first
// non-empty value among the candidate columns present in the schema, or ''
// when none of them exist.
func firstNonEmptyExpr(available map[string]bool, candidates ...string) string {
	parts := make([]string, 0, len(candidates))
	for _, col := range candidates {
		if available[col] {
			parts = append(parts, fmt.Sprintf("NULLIF(%s::text, '')", col))
		}
	}
	if len(parts) == 0 {
		return "''"
	}
	return "COALESCE(" + strings.Join(parts, ", ") + ", '')"
}
