package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/bhenrique21/cotarpecas/internal/auth"
	"github.com/bhenrique21/cotarpecas/internal/catalog"
	"github.com/bhenrique21/cotarpecas/internal/core"
	"github.com/bhenrique21/cotarpecas/internal/store"
)

type ctxUserKey struct{}

type APIHandler struct {
	dbStore       store.Store
	searchService *core.SearchService
	jwtSecret     []byte
}

func NewAPIHandler(dbStore store.Store, searchService *core.SearchService, jwtSecret []byte) *APIHandler {
	return &APIHandler{
		dbStore:       dbStore,
		searchService: searchService,
		jwtSecret:     jwtSecret,
	}
}

func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := auth.ValidateJWT(h.jwtSecret, tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		user, err := h.dbStore.GetUserByID(userID)
		if err != nil {
			log.Printf("Error resolving user %s: %v", userID, err)
			http.Error(w, "Failed to process user identity", http.StatusInternalServerError)
			return
		}
		if user == nil {
			http.Error(w, "User not found", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFrom(ctx context.Context) *store.User {
	user, _ := ctx.Value(ctxUserKey{}).(*store.User)
	return user
}

// Auth

type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	CompanyName string `json:"company_name,omitempty"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  *store.User `json:"user"`
}

func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "Name, email and password are required", http.StatusBadRequest)
		return
	}
	role := store.Role(req.Role)
	if role != store.RoleBuyer && role != store.RoleSupplier {
		http.Error(w, "Role must be 'buyer' or 'supplier'", http.StatusBadRequest)
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password for %s: %v", req.Email, err)
		http.Error(w, "Failed to process password", http.StatusInternalServerError)
		return
	}

	user, err := h.dbStore.CreateUser(req.Name, req.Email, hashedPassword, role, req.CompanyName)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			http.Error(w, "E-mail já cadastrado", http.StatusConflict)
			return
		}
		log.Printf("Error creating user %s: %v", req.Email, err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	token, err := auth.GenerateJWT(h.jwtSecret, user.ID)
	if err != nil {
		log.Printf("Error generating JWT for %s: %v", user.ID, err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(AuthResponse{Token: token, User: user})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.dbStore.GetUserByEmail(req.Email)
	if err != nil {
		log.Printf("Error getting user %s: %v", req.Email, err)
		http.Error(w, "Credenciais inválidas", http.StatusUnauthorized)
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		http.Error(w, "Credenciais inválidas", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateJWT(h.jwtSecret, user.ID)
	if err != nil {
		log.Printf("Error generating JWT for %s: %v", user.ID, err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(AuthResponse{Token: token, User: user})
}

// LogoutHandler exists for symmetry with the client flow; sessions are
// stateless JWTs, so the server has nothing to clear.
func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

type MeResponse struct {
	User         *store.User             `json:"user"`
	Subscription core.SubscriptionStatus `json:"subscription"`
}

func (h *APIHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	json.NewEncoder(w).Encode(MeResponse{
		User:         user,
		Subscription: core.CheckSubscription(user.Plan, user.CreatedAt, time.Now()),
	})
}

// Search

func (h *APIHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	status := core.CheckSubscription(user.Plan, user.CreatedAt, time.Now())
	if !status.IsValid {
		http.Error(w, "Período de teste expirado. Assine o plano premium para continuar.", http.StatusPaymentRequired)
		return
	}

	var req store.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.searchService.Search(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrInvalidRequest) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error searching parts for user %s: %v", user.ID, err)
		http.Error(w, "Failed to search parts", http.StatusInternalServerError)
		return
	}

	item := &store.QuoteHistoryItem{
		UserID:      user.ID,
		Status:      store.StatusDone,
		Request:     req,
		ResultCount: len(resp.Quotes),
		TotalValue:  core.LowestPrice(resp.Quotes),
	}
	if err := h.dbStore.SaveQuote(item); err != nil {
		// History is best effort; the buyer still gets their offers.
		log.Printf("Failed to save quote history for user %s: %v", user.ID, err)
	}

	json.NewEncoder(w).Encode(resp)
}

func (h *APIHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	history, err := h.dbStore.GetUserHistory(user.ID)
	if err != nil {
		log.Printf("Error listing history for user %s: %v", user.ID, err)
		http.Error(w, "Failed to list history", http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []store.QuoteHistoryItem{}
	}
	json.NewEncoder(w).Encode(history)
}

func (h *APIHandler) DashboardStatsHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	stats, err := h.dbStore.GetDashboardStats(user.ID)
	if err != nil {
		log.Printf("Error getting stats for user %s: %v", user.ID, err)
		http.Error(w, "Failed to get dashboard stats", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(stats)
}

// Subscription

func (h *APIHandler) SubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	json.NewEncoder(w).Encode(core.CheckSubscription(user.Plan, user.CreatedAt, time.Now()))
}

func (h *APIHandler) UpgradeHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	if err := h.dbStore.UpgradePlan(user.ID); err != nil {
		log.Printf("Error upgrading plan for user %s: %v", user.ID, err)
		http.Error(w, "Failed to upgrade plan", http.StatusInternalServerError)
		return
	}

	user.Plan = store.PlanPremium
	json.NewEncoder(w).Encode(MeResponse{
		User:         user,
		Subscription: core.CheckSubscription(user.Plan, user.CreatedAt, time.Now()),
	})
}

// Supplier catalog

type CreateProductRequest struct {
	VehicleType store.VehicleType `json:"vehicle_type"`
	Make        string            `json:"make"`
	Model       string            `json:"model"`
	PartName    string            `json:"part_name"`
	Brand       string            `json:"brand"`
	Stock       int               `json:"stock"`
	Price       float64           `json:"price"`
	Description string            `json:"description,omitempty"`
}

func (h *APIHandler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	if user.Role != store.RoleSupplier {
		http.Error(w, "Only suppliers can manage products", http.StatusForbidden)
		return
	}

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.PartName == "" || req.Make == "" || req.Model == "" {
		http.Error(w, "Part name, make and model are required", http.StatusBadRequest)
		return
	}
	if req.Price < 0 || req.Stock < 0 {
		http.Error(w, "Price and stock must be non-negative", http.StatusBadRequest)
		return
	}

	supplierName := user.CompanyName
	if supplierName == "" {
		supplierName = user.Name
	}

	product := &store.Product{
		SupplierID:   user.ID,
		SupplierName: supplierName,
		VehicleType:  req.VehicleType,
		Make:         req.Make,
		Model:        req.Model,
		PartName:     req.PartName,
		Brand:        req.Brand,
		Stock:        req.Stock,
		Price:        req.Price,
		Description:  req.Description,
	}
	if err := h.dbStore.CreateProduct(product); err != nil {
		log.Printf("Error creating product for supplier %s: %v", user.ID, err)
		http.Error(w, "Failed to create product", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(product)
}

func (h *APIHandler) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	if user.Role != store.RoleSupplier {
		http.Error(w, "Only suppliers can manage products", http.StatusForbidden)
		return
	}

	products, err := h.dbStore.GetSupplierProducts(user.ID)
	if err != nil {
		log.Printf("Error listing products for supplier %s: %v", user.ID, err)
		http.Error(w, "Failed to list products", http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []store.Product{}
	}
	json.NewEncoder(w).Encode(products)
}

type ImportResponse struct {
	Imported int `json:"imported"`
}

// ImportProductsHandler accepts a raw CSV body in the positional format
// partName,make,model,brand,price,stock (first line is a header).
func (h *APIHandler) ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	if user.Role != store.RoleSupplier {
		http.Error(w, "Only suppliers can manage products", http.StatusForbidden)
		return
	}

	count, err := core.ImportProductsCSV(h.dbStore, user, r.Body)
	if err != nil {
		log.Printf("Error importing products for supplier %s: %v", user.ID, err)
		http.Error(w, "Failed to import products", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(ImportResponse{Imported: count})
}

// Catalog lookups

func (h *APIHandler) CatalogMakesHandler(w http.ResponseWriter, r *http.Request) {
	vehicleType := store.VehicleType(r.URL.Query().Get("vehicle_type"))
	makes := catalog.Makes(vehicleType)
	if makes == nil {
		http.Error(w, "Unknown vehicle type", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(makes)
}

func (h *APIHandler) CatalogModelsHandler(w http.ResponseWriter, r *http.Request) {
	models := catalog.Models(r.URL.Query().Get("make"))
	if models == nil {
		models = []string{}
	}
	json.NewEncoder(w).Encode(models)
}

func (h *APIHandler) CatalogPartsHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(catalog.SuggestedParts())
}

func (h *APIHandler) CatalogStatesHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(catalog.States())
}

func (h *APIHandler) CatalogYearsHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(catalog.Years(time.Now()))
}
