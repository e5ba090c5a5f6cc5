package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/hengyuan-pack/giftbox-site/config"
	"github.com/hengyuan-pack/giftbox-site/internal/app/repository"
	"github.com/hengyuan-pack/giftbox-site/internal/app/service"
	"github.com/hengyuan-pack/giftbox-site/internal/db"
	"github.com/hengyuan-pack/giftbox-site/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const usage = `Usage:
  seed defaults                 create default pages, sections and the admin credential
  seed products <file.xlsx>     import products (name, slug, category, sku, minQty, priceHint, currency, shortDesc, tags)
  seed admin <user> <password>  create an admin credential if the user does not exist`

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

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

	switch os.Args[1] {
	case "defaults":
		if err := db.Seed(&cfg.Admin); err != nil {
			log.Fatal("Failed to seed defaults:", err)
		}
		fmt.Println("Default content seeded.")

	case "products":
		if len(os.Args) < 3 {
			log.Fatal(usage)
		}
		if err := importProducts(db.GetDB(), os.Args[2]); err != nil {
			log.Fatal("Import failed:", err)
		}

	case "admin":
		if len(os.Args) < 4 {
			log.Fatal(usage)
		}
		auth := service.NewAuthService(repository.NewAdminRepository(db.GetDB()), cfg.Admin.SessionSecret, cfg.Admin.SessionExpiry)
		if err := auth.EnsureCredential(os.Args[2], os.Args[3]); err != nil {
			log.Fatal("Failed to create admin:", err)
		}
		fmt.Printf("Admin %q is ready.\n", os.Args[2])

	default:
		log.Fatal(usage)
	}
}

func importProducts(database *gorm.DB, filePath string) error {
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readProductsFromXLSX(filePath)
	if err != nil {
		return err
	}
	fmt.Printf("Total products to import: %d\n", len(rows))

	tagRepo := repository.NewTagRepository(database)
	products := service.NewProductService(database, repository.NewProductRepository(database), tagRepo)
	tags := service.NewTagService(database, tagRepo)

	tagIDs := make(map[string]uint)
	imported, failed := 0, 0
	for _, row := range rows {
		for _, name := range row.tagNames {
			if _, ok := tagIDs[name]; ok {
				continue
			}
			id, err := ensureTag(tagRepo, tags, name)
			if err != nil {
				return fmt.Errorf("tag %q: %w", name, err)
			}
			tagIDs[name] = id
		}
		for _, name := range row.tagNames {
			row.input.TagIDs = append(row.input.TagIDs, tagIDs[name])
		}

		if _, err := products.Create(row.input); err != nil {
			failed++
			fmt.Printf("  row %d (%s): %v\n", row.line, row.input.Name, err)
			continue
		}
		imported++
	}

	fmt.Printf("Import completed: %d imported, %d failed\n", imported, failed)
	return nil
}

func ensureTag(repo repository.TagRepository, tags service.TagService, name string) (uint, error) {
	existing, err := repo.FindBySlug(util.Slugify(name, "tag"))
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	tag, err := tags.Create(service.TagInput{Name: name})
	if err != nil {
		return 0, err
	}
	return tag.ID, nil
}

type productRow struct {
	line     int
	input    service.ProductInput
	tagNames []string
}

// readProductsFromXLSX maps the first sheet by its header row. Columns may
// come in any order; unknown headers are ignored.
func readProductsFromXLSX(filePath string) ([]productRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	columns := make(map[string]int)
	for i, header := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}
	if _, ok := columns["name"]; !ok {
		return nil, fmt.Errorf("missing required column: name")
	}

	cell := func(row []string, name string) string {
		i, ok := columns[strings.ToLower(name)]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []productRow
	for i, row := range rows[1:] {
		name := cell(row, "name")
		if name == "" {
			continue
		}
		category := cell(row, "category")
		if category == "" {
			category = "GIFT"
		}

		r := productRow{
			line: i + 2,
			input: service.ProductInput{
				Name:      name,
				Slug:      cell(row, "slug"),
				Category:  category,
				SKU:       cell(row, "sku"),
				Currency:  cell(row, "currency"),
				ShortDesc: cell(row, "shortDesc"),
			},
		}
		if n, err := strconv.Atoi(cell(row, "minQty")); err == nil {
			r.input.MinQty = &n
		}
		if p, err := strconv.ParseFloat(cell(row, "priceHint"), 64); err == nil {
			r.input.PriceHint = &p
		}
		for _, tag := range strings.Split(cell(row, "tags"), ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				r.tagNames = append(r.tagNames, tag)
			}
		}
		out = append(out, r)
	}
	return out, nil
}
