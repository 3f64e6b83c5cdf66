package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id TEXT PRIMARY KEY, -- UUID
        name TEXT NOT NULL,
        email TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        role TEXT NOT NULL CHECK (role IN ('buyer', 'supplier')),
        company_name TEXT,
        plan TEXT NOT NULL CHECK (plan IN ('free_trial', 'premium')),
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS quotes (
        id TEXT PRIMARY KEY, -- UUID
        user_id TEXT NOT NULL,
        date DATETIME DEFAULT CURRENT_TIMESTAMP,
        status TEXT NOT NULL CHECK (status IN ('concluido', 'pendente', 'erro')),
        request_json TEXT NOT NULL,
        result_count INTEGER NOT NULL,
        total_value REAL,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS products (
        id TEXT PRIMARY KEY, -- UUID
        supplier_id TEXT NOT NULL,
        supplier_name TEXT NOT NULL,
        vehicle_type TEXT NOT NULL,
        make TEXT NOT NULL,
        model TEXT NOT NULL,
        part_name TEXT NOT NULL,
        brand TEXT NOT NULL,
        stock INTEGER NOT NULL DEFAULT 0,
        price REAL NOT NULL DEFAULT 0,
        description TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (supplier_id) REFERENCES users (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods

func (s *SQLiteStore) CreateUser(name, email, passwordHash string, role Role, companyName string) (*User, error) {
	existing, err := s.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	user := &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CompanyName:  companyName,
		Plan:         PlanTrial,
		CreatedAt:    time.Now(),
	}

	_, err = s.db.Exec(
		"INSERT INTO users (id, name, email, password_hash, role, company_name, plan, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.CompanyName, user.Plan, user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (s *SQLiteStore) GetUserByEmail(email string) (*User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT id, name, email, password_hash, role, company_name, plan, created_at FROM users WHERE email = ?", email))
}

func (s *SQLiteStore) GetUserByID(id string) (*User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT id, name, email, password_hash, role, company_name, plan, created_at FROM users WHERE id = ?", id))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*User, error) {
	var user User
	var companyName sql.NullString
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &companyName, &user.Plan, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if companyName.Valid {
		user.CompanyName = companyName.String
	}
	return &user, nil
}

func (s *SQLiteStore) UpgradePlan(userID string) error {
	res, err := s.db.Exec("UPDATE users SET plan = ? WHERE id = ?", PlanPremium, userID)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Quote history methods

func (s *SQLiteStore) SaveQuote(item *QuoteHistoryItem) error {
	item.ID = uuid.NewString()
	if item.Date.IsZero() {
		item.Date = time.Now()
	}

	requestJSON, err := json.Marshal(item.Request)
	if err != nil {
		return fmt.Errorf("failed to marshal quote request: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO quotes (id, user_id, date, status, request_json, result_count, total_value) VALUES (?, ?, ?, ?, ?, ?, ?)",
		item.ID, item.UserID, item.Date, item.Status, string(requestJSON), item.ResultCount, item.TotalValue,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetUserHistory(userID string) ([]QuoteHistoryItem, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, date, status, request_json, result_count, total_value FROM quotes WHERE user_id = ? ORDER BY date DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var history []QuoteHistoryItem
	for rows.Next() {
		var item QuoteHistoryItem
		var requestJSON string
		var totalValue sql.NullFloat64
		if err := rows.Scan(&item.ID, &item.UserID, &item.Date, &item.Status, &requestJSON, &item.ResultCount, &totalValue); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if err := json.Unmarshal([]byte(requestJSON), &item.Request); err != nil {
			return nil, fmt.Errorf("failed to unmarshal quote request for %s: %w", item.ID, err)
		}
		if totalValue.Valid {
			item.TotalValue = totalValue.Float64
		}
		history = append(history, item)
	}
	return history, rows.Err()
}

func (s *SQLiteStore) GetDashboardStats(userID string) (*DashboardStats, error) {
	stats := &DashboardStats{}
	err := s.db.QueryRow(`
        SELECT COUNT(*),
               COALESCE(SUM(CASE WHEN status = 'concluido' THEN 1 ELSE 0 END), 0),
               COALESCE(SUM(CASE WHEN status = 'pendente' THEN 1 ELSE 0 END), 0)
        FROM quotes WHERE user_id = ?`, userID,
	).Scan(&stats.Total, &stats.Completed, &stats.Pending)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard stats: %w", err)
	}
	return stats, nil
}

// Product methods

func (s *SQLiteStore) CreateProduct(p *Product) error {
	p.ID = uuid.NewString()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(
		"INSERT INTO products (id, supplier_id, supplier_name, vehicle_type, make, model, part_name, brand, stock, price, description, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.SupplierID, p.SupplierName, p.VehicleType, p.Make, p.Model, p.PartName, p.Brand, p.Stock, p.Price, p.Description, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetSupplierProducts(supplierID string) ([]Product, error) {
	rows, err := s.db.Query(
		"SELECT id, supplier_id, supplier_name, vehicle_type, make, model, part_name, brand, stock, price, description, created_at FROM products WHERE supplier_id = ? ORDER BY created_at DESC",
		supplierID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query supplier products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// SearchProducts filters in Go rather than SQL so accent folding behaves the
// same in both backends.
func (s *SQLiteStore) SearchProducts(term, vehicle string) ([]Product, error) {
	rows, err := s.db.Query(
		"SELECT id, supplier_id, supplier_name, vehicle_type, make, model, part_name, brand, stock, price, description, created_at FROM products")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	all, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}

	var matched []Product
	for _, p := range all {
		if matchProduct(&p, term, vehicle) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func scanProducts(rows *sql.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		var p Product
		var description sql.NullString
		if err := rows.Scan(&p.ID, &p.SupplierID, &p.SupplierName, &p.VehicleType, &p.Make, &p.Model, &p.PartName, &p.Brand, &p.Stock, &p.Price, &description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		if description.Valid {
			p.Description = description.String
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
