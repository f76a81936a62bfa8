package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/MJE43/eclipse-combat/internal/catalog"
)

// SQLiteDB implements the DB interface using SQLite
type SQLiteDB struct {
	db *sql.DB
}

var _ DB = (*SQLiteDB)(nil)

// NewSQLiteDB creates a new SQLite database connection
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate creates the schema and seeds the default ship types into an
// empty catalog. It is safe to run on every start.
func (s *SQLiteDB) Migrate() error {
	baseMigrations := []string{
		`CREATE TABLE IF NOT EXISTS ship_types (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL,
			hull INTEGER NOT NULL,
			computer INTEGER NOT NULL DEFAULT 0,
			shield INTEGER NOT NULL DEFAULT 0,
			cannons_json TEXT NOT NULL DEFAULT '{}',
			missiles_json TEXT NOT NULL DEFAULT '{}',
			initiative INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, migration := range baseMigrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("base migration failed: %w", err)
		}
	}

	// Columns added after the first release
	alterMigrations := []string{
		`ALTER TABLE ship_types ADD COLUMN rift_cannons INTEGER NOT NULL DEFAULT 0`,
		`ALTER TABLE ship_types ADD COLUMN antimatter_splitter INTEGER NOT NULL DEFAULT 0`,
	}

	for _, migration := range alterMigrations {
		if _, err := s.db.Exec(migration); err != nil {
			if !isDuplicateColumnError(err) {
				return fmt.Errorf("alter migration failed: %w", err)
			}
		}
	}

	indexMigrations := []string{
		`CREATE INDEX IF NOT EXISTS idx_ship_types_category ON ship_types(category)`,
	}

	for _, migration := range indexMigrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("index migration failed: %w", err)
		}
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM ship_types`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count ship types: %w", err)
	}
	if count == 0 {
		if err := s.ImportShipTypes(catalog.DefaultShipTypes()); err != nil {
			return fmt.Errorf("failed to seed default ship types: %w", err)
		}
	}

	return nil
}

func isDuplicateColumnError(err error) bool {
	return strings.Contains(err.Error(), "duplicate column name")
}

const upsertShipType = `INSERT INTO ship_types (
		id, name, category, hull, computer, shield, cannons_json, missiles_json,
		initiative, rift_cannons, antimatter_splitter
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		category = excluded.category,
		hull = excluded.hull,
		computer = excluded.computer,
		shield = excluded.shield,
		cannons_json = excluded.cannons_json,
		missiles_json = excluded.missiles_json,
		initiative = excluded.initiative,
		rift_cannons = excluded.rift_cannons,
		antimatter_splitter = excluded.antimatter_splitter,
		updated_at = CURRENT_TIMESTAMP`

const selectShipType = `SELECT
		id, name, category, hull, computer, shield, cannons_json, missiles_json,
		initiative, rift_cannons, antimatter_splitter, created_at, updated_at
	FROM ship_types`

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func saveShipType(ex execer, name string, stats catalog.ShipTypeStats) error {
	if name == "" {
		return fmt.Errorf("%w: empty ship type name", catalog.ErrInvalidStats)
	}
	if err := stats.Validate(); err != nil {
		return fmt.Errorf("ship type %q: %w", name, err)
	}

	cannons, err := json.Marshal(weaponsOrEmpty(stats.Cannons))
	if err != nil {
		return fmt.Errorf("failed to encode cannons: %w", err)
	}
	missiles, err := json.Marshal(weaponsOrEmpty(stats.Missiles))
	if err != nil {
		return fmt.Errorf("failed to encode missiles: %w", err)
	}

	splitter := 0
	if stats.AntimatterSplitter {
		splitter = 1
	}

	_, err = ex.Exec(upsertShipType,
		uuid.New().String(), name, string(stats.Category), stats.Hull, stats.Computer,
		stats.Shield, string(cannons), string(missiles), stats.Initiative,
		stats.RiftCannons, splitter,
	)
	if err != nil {
		return fmt.Errorf("failed to save ship type %q: %w", name, err)
	}
	return nil
}

func weaponsOrEmpty(w catalog.Weapons) catalog.Weapons {
	if w == nil {
		return catalog.Weapons{}
	}
	return w
}

// SaveShipType inserts a ship type or replaces the stats of an existing one.
// The row keeps its ID across updates.
func (s *SQLiteDB) SaveShipType(name string, stats catalog.ShipTypeStats) (*ShipType, error) {
	if err := saveShipType(s.db, name, stats); err != nil {
		return nil, err
	}
	return s.GetShipType(name)
}

// ImportShipTypes saves several ship types in one transaction.
func (s *SQLiteDB) ImportShipTypes(ships map[string]catalog.ShipTypeStats) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for name, stats := range ships {
		if err := saveShipType(tx, name, stats); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetShipType retrieves a ship type by name
func (s *SQLiteDB) GetShipType(name string) (*ShipType, error) {
	row := s.db.QueryRow(selectShipType+` WHERE name = ?`, name)
	st, err := scanShipType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrShipTypeNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// ListShipTypes returns every stored ship type ordered by name
func (s *SQLiteDB) ListShipTypes() ([]ShipType, error) {
	rows, err := s.db.Query(selectShipType + ` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ship types: %w", err)
	}
	defer rows.Close()

	var ships []ShipType
	for rows.Next() {
		st, err := scanShipType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ship type: %w", err)
		}
		ships = append(ships, *st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ship types: %w", err)
	}
	return ships, nil
}

// DeleteShipType removes a ship type by name
func (s *SQLiteDB) DeleteShipType(name string) error {
	res, err := s.db.Exec(`DELETE FROM ship_types WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete ship type %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrShipTypeNotFound, name)
	}
	return nil
}

// ResetShipTypes replaces the whole catalog with the default ship types.
func (s *SQLiteDB) ResetShipTypes() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM ship_types`); err != nil {
		return fmt.Errorf("failed to clear ship types: %w", err)
	}
	for name, stats := range catalog.DefaultShipTypes() {
		if err := saveShipType(tx, name, stats); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Lookup implements catalog.Catalog. Read errors report the type as missing.
func (s *SQLiteDB) Lookup(name string) (catalog.ShipTypeStats, bool) {
	st, err := s.GetShipType(name)
	if err != nil {
		return catalog.ShipTypeStats{}, false
	}
	return st.Stats, true
}

// Registry loads the stored catalog into memory for a simulation run.
func (s *SQLiteDB) Registry() (*catalog.Registry, error) {
	ships, err := s.ListShipTypes()
	if err != nil {
		return nil, err
	}
	r := catalog.NewRegistry()
	for _, st := range ships {
		if err := r.Register(st.Name, st.Stats); err != nil {
			return nil, fmt.Errorf("stored ship type %q: %w", st.Name, err)
		}
	}
	return r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanShipType(row scanner) (*ShipType, error) {
	var st ShipType
	var category, cannons, missiles string
	var splitter int

	err := row.Scan(
		&st.ID, &st.Name, &category, &st.Stats.Hull, &st.Stats.Computer,
		&st.Stats.Shield, &cannons, &missiles, &st.Stats.Initiative,
		&st.Stats.RiftCannons, &splitter, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	st.Stats.Category = catalog.Category(category)
	st.Stats.AntimatterSplitter = splitter == 1
	if err := json.Unmarshal([]byte(cannons), &st.Stats.Cannons); err != nil {
		return nil, fmt.Errorf("ship type %q: bad cannons: %w", st.Name, err)
	}
	if err := json.Unmarshal([]byte(missiles), &st.Stats.Missiles); err != nil {
		return nil, fmt.Errorf("ship type %q: bad missiles: %w", st.Name, err)
	}
	return &st, nil
}
