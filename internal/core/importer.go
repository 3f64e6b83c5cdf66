package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/bhenrique21/cotarpecas/internal/store"
)

// ImportProductsCSV bulk-loads supplier products from a positional CSV:
//
//	partName,make,model,brand,price,stock
//
// The first line is treated as a header and skipped. Rows with fewer than
// five fields are skipped without aborting the rest; unparseable price or
// stock values fall back to 0 and 1. Returns the number of imported rows.
func ImportProductsCSV(dbStore store.Store, supplier *store.User, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	supplierName := supplier.CompanyName
	if supplierName == "" {
		supplierName = supplier.Name
	}

	count := 0
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Skipping malformed CSV line %d: %v", line+1, err)
			line++
			continue
		}
		line++
		if line == 1 {
			continue // header
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < 5 {
			log.Printf("Skipping CSV line %d: expected at least 5 fields, got %d", line, len(record))
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(record[4]), 64)
		if err != nil || price < 0 {
			price = 0
		}
		stock := 1
		if len(record) >= 6 {
			if parsed, err := strconv.Atoi(strings.TrimSpace(record[5])); err == nil && parsed >= 0 {
				stock = parsed
			}
		}

		product := &store.Product{
			SupplierID:   supplier.ID,
			SupplierName: supplierName,
			VehicleType:  store.VehicleCar, // sheet format carries no vehicle type
			PartName:     strings.TrimSpace(record[0]),
			Make:         strings.TrimSpace(record[1]),
			Model:        strings.TrimSpace(record[2]),
			Brand:        strings.TrimSpace(record[3]),
			Price:        price,
			Stock:        stock,
		}
		if err := dbStore.CreateProduct(product); err != nil {
			return count, fmt.Errorf("failed to store imported product (line %d): %w", line, err)
		}
		count++
	}
	return count, nil
}
