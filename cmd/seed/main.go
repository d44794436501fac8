package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/donde/storefront-backend/config"
	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/internal/app/repository"
	"github.com/donde/storefront-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// catalogRow is one product line of the import sheet.
type catalogRow struct {
	Category    string
	Title       string
	Description string
	PriceUSD    *float64
	PriceEUR    *float64
	PriceILS    *float64
	PriceAZN    *float64
	ImageURL    string
}

// priceColumns is in the same order as the price fields of catalogRow.
var priceColumns = []string{"price_usd", "price_eur", "price_ils", "price_azn"}

var errMissingColumn = errors.New("missing required column")

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer f.Close()

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, skipped, err := readCatalog(f)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Products to import: %d (skipped rows: %d)\n", len(rows), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	categoryRepo := repository.NewCategoryRepository(db.DB)
	productRepo := repository.NewProductRepository(db.DB)

	created, err := importCatalog(context.Background(), categoryRepo, productRepo, rows)
	if err != nil {
		log.Fatal("Failed to import catalog:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Categories created: %d\n", created.categories)
	fmt.Printf("Products created: %d\n", created.products)
}

// readCatalog parses the first sheet. The header row names the columns, so
// their order is free; category and title are required. Rows without a
// category or title, or with an unparsable price, are skipped.
func readCatalog(r io.Reader) ([]catalogRow, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	index := make(map[string]int)
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"category", "title"} {
		if _, ok := index[required]; !ok {
			return nil, 0, fmt.Errorf("%w: %s", errMissingColumn, required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var catalog []catalogRow
	skipped := 0
	for _, row := range rows[1:] {
		item := catalogRow{
			Category:    cell(row, "category"),
			Title:       cell(row, "title"),
			Description: cell(row, "description"),
			ImageURL:    cell(row, "image_url"),
		}
		if item.Category == "" || item.Title == "" {
			skipped++
			continue
		}

		prices := []**float64{&item.PriceUSD, &item.PriceEUR, &item.PriceILS, &item.PriceAZN}
		valid := true
		for i, column := range priceColumns {
			price, err := parsePrice(cell(row, column))
			if err != nil {
				valid = false
				break
			}
			*prices[i] = price
		}
		if !valid {
			skipped++
			continue
		}

		catalog = append(catalog, item)
	}

	return catalog, skipped, nil
}

// parsePrice returns nil for an empty cell and rejects negative amounts.
func parsePrice(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil, err
	}
	if v < 0 {
		return nil, fmt.Errorf("negative price %q", s)
	}
	return &v, nil
}

type importCounts struct {
	categories int
	products   int
}

// importCatalog creates missing top-level categories by name, then appends
// every product in sheet order.
func importCatalog(
	ctx context.Context,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	rows []catalogRow,
) (importCounts, error) {
	var counts importCounts

	existing, err := categoryRepo.FindAll(ctx)
	if err != nil {
		return counts, fmt.Errorf("failed to load categories: %w", err)
	}
	byName := make(map[string]uint, len(existing))
	for _, c := range existing {
		byName[strings.ToLower(c.Name)] = c.ID
	}

	for _, row := range rows {
		key := strings.ToLower(row.Category)
		categoryID, ok := byName[key]
		if !ok {
			category := &model.Category{Name: row.Category}
			if err := categoryRepo.Create(ctx, category); err != nil {
				return counts, fmt.Errorf("failed to create category %q: %w", row.Category, err)
			}
			categoryID = category.ID
			byName[key] = categoryID
			counts.categories++
		}

		product := &model.Product{
			Title:       row.Title,
			Description: row.Description,
			PriceUSD:    row.PriceUSD,
			PriceEUR:    row.PriceEUR,
			PriceILS:    row.PriceILS,
			PriceAZN:    row.PriceAZN,
			ImageURL:    row.ImageURL,
			CategoryID:  categoryID,
		}
		if err := productRepo.Create(ctx, product); err != nil {
			return counts, fmt.Errorf("failed to create product %q: %w", row.Title, err)
		}
		counts.products++

		if counts.products%100 == 0 {
			fmt.Printf("Imported %d products...\n", counts.products)
		}
	}

	return counts, nil
}
