package store

import "time"

type VehicleType string

const (
	VehicleCar        VehicleType = "Carro"
	VehicleMotorcycle VehicleType = "Moto"
	VehicleTruck      VehicleType = "Caminhão"
	VehicleBus        VehicleType = "Ônibus"
)

type Role string

const (
	RoleBuyer    Role = "buyer"
	RoleSupplier Role = "supplier"
)

type Plan string

const (
	PlanTrial   Plan = "free_trial"
	PlanPremium Plan = "premium"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose this in JSON responses
	Role         Role      `json:"role"`
	CompanyName  string    `json:"company_name,omitempty"`
	Plan         Plan      `json:"plan"`
	CreatedAt    time.Time `json:"created_at"`
}

// QuoteRequest describes the vehicle and part a buyer wants offers for.
// It is built once per search and embedded verbatim in the history entry.
type QuoteRequest struct {
	VehicleType VehicleType `json:"vehicle_type"`
	Make        string      `json:"make"`
	Model       string      `json:"model"`
	Year        string      `json:"year"`
	PartName    string      `json:"part_name"`
	State       string      `json:"state,omitempty"`
	City        string      `json:"city,omitempty"`
}

// QuoteResult is one vendor's offer. Price 0 means "visit the link to see
// the price" and must be kept out of any price statistic.
type QuoteResult struct {
	VendorName   string  `json:"vendor_name"`
	ProductName  string  `json:"product_name"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	Description  string  `json:"description,omitempty"`
	Link         string  `json:"link,omitempty"`
	Image        string  `json:"image,omitempty"`
	Installments string  `json:"installments,omitempty"`
	Stock        int     `json:"stock,omitempty"`
}

type GroundingWeb struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// GroundingSource is a citation URL the search provider attached to its
// generated answer.
type GroundingSource struct {
	Web *GroundingWeb `json:"web,omitempty"`
}

type QuoteStatus string

const (
	StatusDone    QuoteStatus = "concluido"
	StatusPending QuoteStatus = "pendente"
	StatusError   QuoteStatus = "erro"
)

type QuoteHistoryItem struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Date        time.Time    `json:"date"`
	Status      QuoteStatus  `json:"status"`
	Request     QuoteRequest `json:"request"`
	ResultCount int          `json:"result_count"`
	TotalValue  float64      `json:"total_value,omitempty"`
}

// Product is a supplier catalog entry, created manually or via CSV import.
type Product struct {
	ID           string      `json:"id"`
	SupplierID   string      `json:"supplier_id"`
	SupplierName string      `json:"supplier_name"`
	VehicleType  VehicleType `json:"vehicle_type"`
	Make         string      `json:"make"`
	Model        string      `json:"model"`
	PartName     string      `json:"part_name"`
	Brand        string      `json:"brand"`
	Stock        int         `json:"stock"`
	Price        float64     `json:"price"`
	Description  string      `json:"description,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

type DashboardStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}
