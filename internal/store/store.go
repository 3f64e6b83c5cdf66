package store

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrNotFound       = errors.New("not found")
)

// Store is the persistence gateway for accounts, quote history and the
// supplier catalog. Two backends implement it: SQLite (when DATABASE_URL is
// configured) and a JSON-file fallback. Neither provides transactions;
// last write wins.
type Store interface {
	CreateUser(name, email, passwordHash string, role Role, companyName string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	GetUserByID(id string) (*User, error)
	UpgradePlan(userID string) error

	SaveQuote(item *QuoteHistoryItem) error
	GetUserHistory(userID string) ([]QuoteHistoryItem, error)
	GetDashboardStats(userID string) (*DashboardStats, error)

	CreateProduct(p *Product) error
	GetSupplierProducts(supplierID string) ([]Product, error)
	SearchProducts(term, vehicle string) ([]Product, error)

	Close() error
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldTerm lowercases and strips diacritics so that "Suspensão" matches
// "suspensao".
func foldTerm(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}

// matchProduct applies the catalog search rule shared by both backends:
// the part name must contain the term, and when a vehicle term is given it
// must match the product's model or make.
func matchProduct(p *Product, term, vehicle string) bool {
	termNorm := foldTerm(term)
	vehicleNorm := foldTerm(vehicle)

	if !strings.Contains(foldTerm(p.PartName), termNorm) {
		return false
	}
	if vehicleNorm == "" {
		return true
	}
	return strings.Contains(foldTerm(p.Model), vehicleNorm) ||
		strings.Contains(foldTerm(p.Make), vehicleNorm)
}
