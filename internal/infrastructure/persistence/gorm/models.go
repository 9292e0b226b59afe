// Package gorm provides GORM model definitions for the application
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// pantryStateID is the primary key of the single pantry row
const pantryStateID = 1

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID           uuid.UUID   `gorm:"type:char(36);primaryKey"`
	Version      int64       `gorm:"not null;default:1"`
	Title        string      `gorm:"type:varchar(200);not null;index"`
	Description  string      `gorm:"type:text"`
	BaseServings float64     `gorm:"not null"`
	Ingredients  StringSlice `gorm:"type:text;not null"`
	CreatedAt    time.Time   `gorm:"index"`
	UpdatedAt    time.Time
}

// PantryStateModel holds the pantry's generation counter
type PantryStateModel struct {
	ID         int    `gorm:"primaryKey;autoIncrement:false"`
	Generation uint64 `gorm:"not null;default:0"`
	UpdatedAt  time.Time
}

// InventoryItemModel represents one inventory entry
type InventoryItemModel struct {
	ID        uuid.UUID  `gorm:"type:char(36);primaryKey"`
	Position  int        `gorm:"not null;index"`
	Name      string     `gorm:"type:varchar(200);not null"`
	Quantity  float64    `gorm:"not null"`
	Unit      string     `gorm:"type:varchar(50)"`
	ExpiresAt *time.Time `gorm:"index"`
}

// ShoppingListItemModel represents one shopping list entry
type ShoppingListItemModel struct {
	ID              uuid.UUID `gorm:"type:char(36);primaryKey"`
	Position        int       `gorm:"not null;index"`
	Name            string    `gorm:"type:varchar(200);not null"`
	Quantity        float64   `gorm:"not null"`
	Unit            string    `gorm:"type:varchar(50)"`
	TaggedRecipeIDs UUIDSlice `gorm:"type:text"`
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	return scanJSON(value, s, "StringSlice")
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	return string(b), err
}

// UUIDSlice stores a list of IDs as a JSON array
type UUIDSlice []uuid.UUID

// Scan implements the sql.Scanner interface
func (s *UUIDSlice) Scan(value interface{}) error {
	return scanJSON(value, s, "UUIDSlice")
}

// Value implements the driver.Valuer interface
func (s UUIDSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	return string(b), err
}

func scanJSON(value interface{}, dest interface{}, name string) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into %s", value, name)
	}
}

// BeforeCreate hook for RecipeModel
func (r *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName overrides
func (RecipeModel) TableName() string {
	return "recipes"
}

func (PantryStateModel) TableName() string {
	return "pantry_state"
}

func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

func (ShoppingListItemModel) TableName() string {
	return "shopping_list_items"
}

// AutoMigrate creates or updates the tables for every model
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&RecipeModel{},
		&PantryStateModel{},
		&InventoryItemModel{},
		&ShoppingListItemModel{},
	)
}
