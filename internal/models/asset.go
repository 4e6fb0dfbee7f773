package models

import "time"

type AssetStatus string

const (
	AssetStatusActive      AssetStatus = "active"
	AssetStatusDisposed    AssetStatus = "disposed"
	AssetStatusMaintenance AssetStatus = "maintenance"
)

func (s AssetStatus) Valid() bool {
	switch s {
	case AssetStatusActive, AssetStatusDisposed, AssetStatusMaintenance:
		return true
	}
	return false
}

type Asset struct {
	ID           string
	Name         string
	CategoryID   string
	DepartmentID string
	PurchaseDate time.Time
	Cost         float64
	CreatedBy    string
	CreatedAt    time.Time
	Status       AssetStatus
	Notes        string
}

// AssetDetails is an asset joined with the names of its category, department
// and creator, as shown on detail and list views.
type AssetDetails struct {
	ID             string
	Name           string
	CategoryName   string
	DepartmentName string
	PurchaseDate   time.Time
	Cost           float64
	CreatedByName  string
	CreatedAt      time.Time
	Status         AssetStatus
	Notes          string
}

type GroupCount struct {
	Name  string
	Count int
}

type AssetStats struct {
	TotalAssets        int
	TotalValue         float64
	AssetsByDepartment []GroupCount
	AssetsByCategory   []GroupCount
	RecentAssets       []AssetDetails
}

// Attachment is a purchase invoice or photo stored alongside an asset.
type Attachment struct {
	ID        string
	AssetID   string
	Bucket    string
	ObjectKey string
	FileName  string
	MimeType  string
	SizeBytes int64
	CreatedBy string
	CreatedAt time.Time
}
