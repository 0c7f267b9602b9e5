package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID              int64     `json:"id"`
	OwnerID         int64     `json:"-"`
	Name            string    `json:"name"`
	SKU             *string   `json:"sku"`
	Model           *string   `json:"model"`
	MinStock        int       `json:"minStock"`
	HasImportPermit bool      `json:"hasImportPermit"`
	Notes           *string   `json:"notes"`
	Archived        bool      `json:"archived"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Alias is a free-text synonym of a product used by search.
type Alias struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"productId"`
	Label     string `json:"label"`
}

// Accessory is one edge of the product-to-product accessory relation.
type Accessory struct {
	ProductID     int64   `json:"productId"`
	AccessoryID   int64   `json:"accessoryId"`
	AccessoryName string  `json:"accessoryName"`
	AccessorySKU  *string `json:"accessorySku"`
}

// Stock is always derived from the operation log, never stored.
type Stock struct {
	OnHand    decimal.Decimal `json:"onHand"`
	Reserved  decimal.Decimal `json:"reserved"`
	Debt      decimal.Decimal `json:"debt"`
	Balance   decimal.Decimal `json:"balance"`
	Available decimal.Decimal `json:"available"`
}

type ProductSummary struct {
	Product
	Aliases     []Alias     `json:"aliases"`
	Accessories []Accessory `json:"accessories"`
	Stock       Stock       `json:"stock"`
}

// ProductRef is the product projection embedded in operation and reservation views.
type ProductRef struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	SKU  *string `json:"sku"`
}

type CreateProductParams struct {
	Name            string   `json:"name"`
	SKU             *string  `json:"sku"`
	Model           *string  `json:"model"`
	MinStock        int      `json:"minStock" validate:"gte=0"`
	HasImportPermit bool     `json:"hasImportPermit"`
	Notes           *string  `json:"notes"`
	Aliases         []string `json:"aliases"`
	AccessoryIDs    []int64  `json:"accessoryIds"`
}

// UpdateProductParams has partial semantics: nil pointers and unset
// Nullable fields keep the stored value.
type UpdateProductParams struct {
	ID              int64            `json:"id"`
	Name            *string          `json:"name,omitempty"`
	SKU             Nullable[string] `json:"sku,omitzero"`
	Model           Nullable[string] `json:"model,omitzero"`
	MinStock        *int             `json:"minStock,omitempty" validate:"omitempty,gte=0"`
	HasImportPermit *bool            `json:"hasImportPermit,omitempty"`
	Notes           Nullable[string] `json:"notes,omitzero"`
	Archived        *bool            `json:"archived,omitempty"`
	Aliases         *[]string        `json:"aliases,omitempty"`
	AccessoryIDs    *[]int64         `json:"accessoryIds,omitempty"`
}

// ApplyTo writes the set fields of the update onto p.
func (u UpdateProductParams) ApplyTo(p *Product) {
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	p.SKU = u.SKU.Apply(p.SKU)
	p.Model = u.Model.Apply(p.Model)
	p.Notes = u.Notes.Apply(p.Notes)
	if u.MinStock != nil {
		p.MinStock = *u.MinStock
	}
	if u.HasImportPermit != nil {
		p.HasImportPermit = *u.HasImportPermit
	}
	if u.Archived != nil {
		p.Archived = *u.Archived
	}
}
