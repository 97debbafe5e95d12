package bulkupload

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"
	"github.com/khalidshboul/smart-basket-admin/pkg/metrics"
)

// RowErrorType classifies why an upload row or cell was rejected.
type RowErrorType string

const (
	RowErrorValidation RowErrorType = "VALIDATION"
	RowErrorDuplicate  RowErrorType = "DUPLICATE"
	RowErrorPrice      RowErrorType = "PRICE"
	RowErrorStore      RowErrorType = "STORE"
	RowErrorSystem     RowErrorType = "SYSTEM"
)

// RowErrorDTO is one rejected row or cell, addressed by its 1-based row
// number in the workbook.
type RowErrorDTO struct {
	Row     int          `json:"row"`
	Type    RowErrorType `json:"type"`
	Message string       `json:"message"`
}

// UploadResultDTO summarizes one bulk upload.
type UploadResultDTO struct {
	TotalRows      int           `json:"total_rows"`
	CreatedItems   int           `json:"created_items"`
	ExistingItems  int           `json:"existing_items"`
	RecordedPrices int           `json:"recorded_prices"`
	InvalidStores  []string      `json:"invalid_stores"`
	Errors         []RowErrorDTO `json:"errors"`
}

// Service imports items and prices from an uploaded workbook.
type Service interface {
	Upload(ctx context.Context, file io.Reader) (*UploadResultDTO, error)
}

type repository interface {
	ListActiveStores(ctx context.Context) ([]models.Store, error)
	FindCategoryByName(ctx context.Context, name string) (*models.Category, error)
	FindItemByBarcode(ctx context.Context, barcode string) (*models.ReferenceItem, error)
	FindItemByNameAndCategory(ctx context.Context, name string, categoryID uuid.UUID) (*models.ReferenceItem, error)
	CreateItem(ctx context.Context, item *models.ReferenceItem) error
	UpsertListingPrice(ctx context.Context, storeID uuid.UUID, item *models.ReferenceItem, price float64, now time.Time) error
}

type catalogInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}

type service struct {
	repo        repository
	invalidator catalogInvalidator
	metrics     *metrics.Registry
	maxRows     int
	now         func() time.Time
}

// NewService constructs a bulk upload service. The invalidator may be nil.
func NewService(repo repository, invalidator catalogInvalidator, reg *metrics.Registry, maxRows int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bulk upload repository required")
	}
	return &service{
		repo:        repo,
		invalidator: invalidator,
		metrics:     reg,
		maxRows:     maxRows,
		now:         time.Now,
	}, nil
}

// Upload parses the workbook and applies it row by row: unknown items are
// created, known items get their listings re-priced. A bad row never blocks
// the rest of the file.
func (s *service) Upload(ctx context.Context, file io.Reader) (*UploadResultDTO, error) {
	parsed, err := ParseWorkbook(file, s.maxRows)
	if err != nil {
		return nil, err
	}

	stores, err := s.repo.ListActiveStores(ctx)
	if err != nil {
		return nil, err
	}
	storesByName := make(map[string]models.Store, len(stores))
	for _, store := range stores {
		storesByName[strings.ToLower(store.Name)] = store
	}

	result := &UploadResultDTO{
		TotalRows:     len(parsed.Rows),
		InvalidStores: []string{},
		Errors:        []RowErrorDTO{},
	}
	for _, column := range parsed.StoreColumns {
		if _, ok := storesByName[strings.ToLower(column)]; !ok {
			result.InvalidStores = append(result.InvalidStores, column)
		}
	}

	seen := make(map[string]struct{}, len(parsed.Rows))
	for _, row := range parsed.Rows {
		s.applyRow(ctx, row, storesByName, seen, result)
	}

	if result.RecordedPrices > 0 && s.invalidator != nil {
		s.invalidator.InvalidateCatalog(ctx)
	}
	s.metrics.AddUploadRows("created", result.CreatedItems)
	s.metrics.AddUploadRows("existing", result.ExistingItems)
	s.metrics.AddUploadRows("failed", len(result.Errors))

	return result, nil
}

func (s *service) applyRow(
	ctx context.Context,
	row ParsedRow,
	storesByName map[string]models.Store,
	seen map[string]struct{},
	result *UploadResultDTO,
) {
	reject := func(kind RowErrorType, message string) {
		result.Errors = append(result.Errors, RowErrorDTO{Row: row.RowNumber, Type: kind, Message: message})
	}

	if row.ItemName == "" {
		reject(RowErrorValidation, "item name is required")
		return
	}
	if row.Category == "" {
		reject(RowErrorValidation, "category is required")
		return
	}

	category, err := s.repo.FindCategoryByName(ctx, row.Category)
	if err != nil {
		if isNotFound(err) {
			reject(RowErrorValidation, fmt.Sprintf("unknown category %q", row.Category))
		} else {
			reject(RowErrorSystem, "failed to resolve category")
		}
		return
	}

	dedupeKey := strings.ToLower(row.ItemName) + "|" + category.ID.String()
	if row.Barcode != "" {
		dedupeKey = row.Barcode
	}
	if _, dup := seen[dedupeKey]; dup {
		reject(RowErrorDuplicate, "row duplicates an earlier row in this file")
		return
	}
	seen[dedupeKey] = struct{}{}

	item, created, err := s.resolveItem(ctx, row, category)
	if err != nil {
		reject(RowErrorSystem, "failed to resolve item")
		return
	}
	if created {
		result.CreatedItems++
	} else {
		result.ExistingItems++
	}

	for _, column := range sortedColumns(row.PriceCells) {
		cell := row.PriceCells[column]
		store, ok := storesByName[strings.ToLower(column)]
		if !ok {
			reject(RowErrorStore, fmt.Sprintf("unknown store %q", column))
			continue
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			reject(RowErrorPrice, fmt.Sprintf("invalid price %q for store %q", cell, column))
			continue
		}
		if value <= 0 {
			reject(RowErrorPrice, fmt.Sprintf("price for store %q must be positive", column))
			continue
		}

		if err := s.repo.UpsertListingPrice(ctx, store.ID, item, value, s.now()); err != nil {
			reject(RowErrorSystem, fmt.Sprintf("failed to record price for store %q", column))
			continue
		}
		result.RecordedPrices++
	}
}

// resolveItem finds the row's reference item by barcode first, then by name
// within the category, creating it when neither matches.
func (s *service) resolveItem(ctx context.Context, row ParsedRow, category *models.Category) (*models.ReferenceItem, bool, error) {
	if row.Barcode != "" {
		item, err := s.repo.FindItemByBarcode(ctx, row.Barcode)
		if err == nil {
			return item, false, nil
		}
		if !isNotFound(err) {
			return nil, false, err
		}
	}

	item, err := s.repo.FindItemByNameAndCategory(ctx, row.ItemName, category.ID)
	if err == nil {
		return item, false, nil
	}
	if !isNotFound(err) {
		return nil, false, err
	}

	fresh := &models.ReferenceItem{
		Name:                 row.ItemName,
		CategoryID:           category.ID,
		AvailableInAllStores: true,
		Active:               true,
	}
	if row.Barcode != "" {
		barcode := row.Barcode
		fresh.Barcode = &barcode
	}
	if err := s.repo.CreateItem(ctx, fresh); err != nil {
		return nil, false, err
	}
	return fresh, true, nil
}

func sortedColumns(cells map[string]string) []string {
	columns := make([]string, 0, len(cells))
	for column := range cells {
		columns = append(columns, column)
	}
	// deterministic application order
	sort.Strings(columns)
	return columns
}

func isNotFound(err error) bool {
	typed := apperrors.As(err)
	return typed != nil && typed.Code() == apperrors.CodeNotFound
}
