package store

import (
	"time"

	"github.com/MJE43/eclipse-combat/internal/catalog"
)

// DB represents the ship catalog store
type DB interface {
	catalog.Catalog
	Close() error
	Migrate() error
	SaveShipType(name string, stats catalog.ShipTypeStats) (*ShipType, error)
	ImportShipTypes(ships map[string]catalog.ShipTypeStats) error
	GetShipType(name string) (*ShipType, error)
	ListShipTypes() ([]ShipType, error)
	DeleteShipType(name string) error
	ResetShipTypes() error
	Registry() (*catalog.Registry, error)
}

// ShipType is a stored ship type row
type ShipType struct {
	ID        string                `json:"id" db:"id"`
	Name      string                `json:"name" db:"name"`
	Stats     catalog.ShipTypeStats `json:"stats"`
	CreatedAt time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt time.Time             `json:"updated_at" db:"updated_at"`
}
