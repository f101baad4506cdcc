package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// CachedBooking is the snapshot row for one booking, kept so calendar views
// keep working without the backend. Times are stored as UTC RFC 3339 strings.
type CachedBooking struct {
	ID              string  `json:"id"`
	ResourceID      string  `json:"resource_id"`
	ResourceName    string  `json:"resource_name"`
	ProjectID       string  `json:"project_id"`
	ProjectName     string  `json:"project_name"`
	ProjectColor    string  `json:"project_color"`
	TypeOfWork      string  `json:"type_of_work"`
	TaskDescription string  `json:"task_description"`
	StartUTC        string  `json:"start_utc"`
	EndUTC          string  `json:"end_utc"`
	Hours           float64 `json:"hours"`
	SyncedAt        string  `json:"synced_at"`
}

type CachedResource struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	TeamTitles []string `json:"team_titles"`
}

// CacheFilter narrows cached booking queries. Team filtering happens in memory
// against the cached resources, so it is not part of the SQL filter.
type CacheFilter struct {
	Date       string
	ResourceID string
}

func OpenCacheDB() (*sql.DB, error) {
	if _, err := ensureConfigDir(); err != nil {
		return nil, err
	}
	path, err := CachePath()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := ensureCacheSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureCacheSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS bookings (
  id TEXT PRIMARY KEY,
  resource_id TEXT,
  resource_name TEXT,
  project_id TEXT,
  project_name TEXT,
  project_color TEXT,
  type_of_work TEXT,
  task_description TEXT,
  start_utc TEXT,
  end_utc TEXT,
  date TEXT,
  hours REAL,
  synced_at TEXT
);`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(date);`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_resource ON bookings(resource_id);`,
		`CREATE TABLE IF NOT EXISTS resources (
  id TEXT PRIMARY KEY,
  name TEXT,
  team_titles TEXT
);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create cache schema: %w", err)
		}
	}
	return nil
}

// ReplaceBookings swaps the whole snapshot in one transaction. The cache
// mirrors the last refetch, so replace semantics keep it free of deleted
// bookings.
func ReplaceBookings(db *sql.DB, bookings []CachedBooking) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM bookings;"); err != nil {
		return fmt.Errorf("clear bookings cache: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, b := range bookings {
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		if b.SyncedAt == "" {
			b.SyncedAt = now
		}
		query, args, err := squirrel.Insert("bookings").
			Columns("id", "resource_id", "resource_name", "project_id", "project_name",
				"project_color", "type_of_work", "task_description", "start_utc",
				"end_utc", "date", "hours", "synced_at").
			Values(b.ID, b.ResourceID, b.ResourceName, b.ProjectID, b.ProjectName,
				b.ProjectColor, b.TypeOfWork, b.TaskDescription, b.StartUTC,
				b.EndUTC, dateOf(b.StartUTC), b.Hours, b.SyncedAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("build booking insert: %w", err)
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("insert cached booking %s: %w", b.ID, err)
		}
	}
	return tx.Commit()
}

func ListCachedBookings(db *sql.DB, filter CacheFilter) ([]CachedBooking, error) {
	builder := squirrel.Select("id", "resource_id", "resource_name", "project_id",
		"project_name", "project_color", "type_of_work", "task_description",
		"start_utc", "end_utc", "hours", "synced_at").
		From("bookings").
		OrderBy("start_utc ASC")

	if filter.Date != "" {
		builder = builder.Where(squirrel.Eq{"date": filter.Date})
	}
	if filter.ResourceID != "" {
		builder = builder.Where(squirrel.Eq{"resource_id": filter.ResourceID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build bookings query: %w", err)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cached bookings: %w", err)
	}
	defer rows.Close()

	var bookings []CachedBooking
	for rows.Next() {
		var b CachedBooking
		if err := rows.Scan(&b.ID, &b.ResourceID, &b.ResourceName, &b.ProjectID,
			&b.ProjectName, &b.ProjectColor, &b.TypeOfWork, &b.TaskDescription,
			&b.StartUTC, &b.EndUTC, &b.Hours, &b.SyncedAt); err != nil {
			return nil, fmt.Errorf("scan cached booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func ReplaceResources(db *sql.DB, resources []CachedResource) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM resources;"); err != nil {
		return fmt.Errorf("clear resources cache: %w", err)
	}

	for _, r := range resources {
		teams, err := json.Marshal(r.TeamTitles)
		if err != nil {
			return err
		}
		query, args, err := squirrel.Insert("resources").
			Columns("id", "name", "team_titles").
			Values(r.ID, r.Name, string(teams)).
			ToSql()
		if err != nil {
			return fmt.Errorf("build resource insert: %w", err)
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("insert cached resource %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

func ListCachedResources(db *sql.DB) ([]CachedResource, error) {
	rows, err := db.Query("SELECT id, name, team_titles FROM resources ORDER BY name;")
	if err != nil {
		return nil, fmt.Errorf("list cached resources: %w", err)
	}
	defer rows.Close()

	var resources []CachedResource
	for rows.Next() {
		var r CachedResource
		var teams string
		if err := rows.Scan(&r.ID, &r.Name, &teams); err != nil {
			return nil, fmt.Errorf("scan cached resource: %w", err)
		}
		if teams != "" {
			if err := json.Unmarshal([]byte(teams), &r.TeamTitles); err != nil {
				return nil, fmt.Errorf("decode teams for %s: %w", r.ID, err)
			}
		}
		resources = append(resources, r)
	}
	return resources, rows.Err()
}

func dateOf(startUTC string) string {
	if len(startUTC) >= 10 {
		return startUTC[:10]
	}
	return ""
}
