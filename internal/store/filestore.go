package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	usersFile    = "users.json"
	productsFile = "products.json"
	historyFile  = "history.json"
)

// persistedUser re-adds the password hash that User excludes from JSON for
// API responses. Only the file backend reads and writes this shape.
type persistedUser struct {
	User
	PasswordHash string `json:"password_hash"`
}

// FileStore is the local fallback backend used when no DATABASE_URL is
// configured. Each record type lives in its own JSON file, mirroring the
// original key-value layout. All access goes through one mutex; writes
// rewrite the whole file.
type FileStore struct {
	mu       sync.Mutex
	dir      string
	users    []User
	products []Product
	history  []QuoteHistoryItem
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	fs := &FileStore{dir: dir}
	var persisted []persistedUser
	if err := fs.loadFile(usersFile, &persisted); err != nil {
		return nil, err
	}
	for _, pu := range persisted {
		u := pu.User
		u.PasswordHash = pu.PasswordHash
		fs.users = append(fs.users, u)
	}
	if err := fs.loadFile(productsFile, &fs.products); err != nil {
		return nil, err
	}
	if err := fs.loadFile(historyFile, &fs.history); err != nil {
		return nil, err
	}
	return fs, nil
}

func (f *FileStore) Close() error {
	return nil
}

func (f *FileStore) loadFile(name string, dst any) error {
	data, err := os.ReadFile(filepath.Join(f.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func (f *FileStore) saveFile(name string, src any) error {
	data, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(f.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (f *FileStore) saveUsers() error {
	persisted := make([]persistedUser, len(f.users))
	for i, u := range f.users {
		persisted[i] = persistedUser{User: u, PasswordHash: u.PasswordHash}
	}
	return f.saveFile(usersFile, persisted)
}

// User methods

func (f *FileStore) CreateUser(name, email, passwordHash string, role Role, companyName string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			return nil, ErrDuplicateEmail
		}
	}

	user := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CompanyName:  companyName,
		Plan:         PlanTrial,
		CreatedAt:    time.Now(),
	}
	f.users = append(f.users, user)
	if err := f.saveUsers(); err != nil {
		f.users = f.users[:len(f.users)-1]
		return nil, err
	}
	return &user, nil
}

func (f *FileStore) GetUserByEmail(email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.users {
		if f.users[i].Email == email {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *FileStore) GetUserByID(id string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *FileStore) UpgradePlan(userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.users {
		if f.users[i].ID == userID {
			f.users[i].Plan = PlanPremium
			return f.saveUsers()
		}
	}
	return ErrNotFound
}

// Quote history methods

func (f *FileStore) SaveQuote(item *QuoteHistoryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	item.ID = uuid.NewString()
	if item.Date.IsZero() {
		item.Date = time.Now()
	}
	f.history = append(f.history, *item)
	return f.saveFile(historyFile, f.history)
}

func (f *FileStore) GetUserHistory(userID string) ([]QuoteHistoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var items []QuoteHistoryItem
	for _, h := range f.history {
		if h.UserID == userID {
			items = append(items, h)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	return items, nil
}

func (f *FileStore) GetDashboardStats(userID string) (*DashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := &DashboardStats{}
	for _, h := range f.history {
		if h.UserID != userID {
			continue
		}
		stats.Total++
		switch h.Status {
		case StatusDone:
			stats.Completed++
		case StatusPending:
			stats.Pending++
		}
	}
	return stats, nil
}

// Product methods

func (f *FileStore) CreateProduct(p *Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p.ID = uuid.NewString()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	f.products = append(f.products, *p)
	return f.saveFile(productsFile, f.products)
}

func (f *FileStore) GetSupplierProducts(supplierID string) ([]Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var products []Product
	for _, p := range f.products {
		if p.SupplierID == supplierID {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (f *FileStore) SearchProducts(term, vehicle string) ([]Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []Product
	for i := range f.products {
		if matchProduct(&f.products[i], term, vehicle) {
			matched = append(matched, f.products[i])
		}
	}
	return matched, nil
}
