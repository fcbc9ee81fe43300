// api/internal/store/clickhouse_store.go
package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ddroy9090-ind/reliant-page-access/database"
	"github.com/ddroy9090-ind/reliant-page-access/models"
)

// ClickHouseLogStore keeps the page-access log in a ClickHouse table with
// the full column set, so no schema introspection is needed on reads.
type ClickHouseLogStore struct {
	DB *database.ClickHouseClient
}

func NewClickHouseLogStore(chClient *database.ClickHouseClient) *ClickHouseLogStore {
	return &ClickHouseLogStore{DB: chClient}
}

func (s *ClickHouseLogStore) FetchRows(ctx context.Context, start, end time.Time, limit int) ([]models.AccessEvent, error) {
	if limit <= 0 {
		limit = DefaultRowLimit
	}

	query := `
		SELECT request_uri, accessed_at, ip_address, user_agent, referer,
			device_type, traffic_source, country, region, session_id
		FROM page_access_logs
		WHERE accessed_at >= ? AND accessed_at <= ?
		ORDER BY accessed_at ASC
		LIMIT ?
	`
	rows, err := s.DB.Conn.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query page access logs: %w", err)
	}
	defer rows.Close()

	var events []models.AccessEvent
	for rows.Next() {
		var (
			uri        string
			accessedAt time.Time
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
		event.RequestURI = &uri
		event.AccessedAt = accessedAt
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during page access log query: %w", err)
	}

	return events, nil
}

func (s *ClickHouseLogStore) InsertAccessEvents(ctx context.Context, records []models.AccessLogRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO page_access_logs (
			id, request_uri, accessed_at, ip_address, user_agent, referer,
			device_type, traffic_source, country, region, session_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, record := range records {
		err := batch.Append(
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
		)
		if err != nil {
			log.Printf("Error appending access log record to batch (RecordID: %s): %v", record.RecordID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Successfully inserted %d page access log records.", len(records))
	return nil
}
