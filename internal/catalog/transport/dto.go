package transport

import (
	"encoding/json"

	"github.com/google/uuid"
)

type CreatePackageRequest struct {
	Name       string          `json:"name" validate:"required,min=1,max=200"`
	Category   string          `json:"category" validate:"required,oneof=package service rental talent retail_sale fee"`
	Definition json.RawMessage `json:"definition,omitempty"`
}

type UpdatePackageRequest struct {
	Name       *string         `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category   *string         `json:"category,omitempty" validate:"omitempty,oneof=package service rental talent retail_sale fee"`
	Definition json.RawMessage `json:"definition,omitempty"`
}

type ListPackagesRequest struct {
	Search   string `form:"search" validate:"max=100"`
	Category string `form:"category" validate:"omitempty,oneof=package service rental talent retail_sale fee"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type PackageResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Definition json.RawMessage `json:"definition"`
	StaffRole  *string         `json:"staffRole,omitempty"`
	CreatedAt  string          `json:"createdAt"`
	UpdatedAt  string          `json:"updatedAt"`
}

type PackageListResponse struct {
	Items      []PackageResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}
