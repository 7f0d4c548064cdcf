// Package catalog turns spreadsheet rows into storefront products.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"loja-backend/internal/logger"
	"loja-backend/internal/model"
)

// PlaceholderImage is used when a product row has no image columns filled.
const PlaceholderImage = "https://via.placeholder.com/300x300?text=Sem+Imagem"

// maxImages is the highest N looked up in the image columns.
const maxImages = 5

// imageColumnVariants are checked in this order for every index. Each variant
// accepts both the "imagem" and the "imagen" spelling; the first non-empty
// spelling wins.
var imageColumnVariants = [][]string{
	{"url_imagem", "url_imagen"},
	{"urlimagem", "urlimagen"},
}

var ErrProductNotFound = errors.New("product not found")

// RowSource yields header-keyed spreadsheet rows.
type RowSource interface {
	Rows(ctx context.Context) ([]map[string]string, error)
}

// Catalog reads products straight from the spreadsheet on every call.
type Catalog struct {
	source RowSource
	logger logger.Logger
}

func New(source RowSource, log logger.Logger) *Catalog {
	return &Catalog{source: source, logger: log}
}

// List fetches all rows and maps each one to a product.
func (c *Catalog) List(ctx context.Context) ([]model.Product, error) {
	rows, err := c.source.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load product rows: %w", err)
	}

	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, ProductFromRow(row))
	}
	c.logger.Debugf("Mapped %d products", len(products))
	return products, nil
}

// Find returns the first product whose ID matches id after normalization.
func (c *Catalog) Find(ctx context.Context, id string) (*model.Product, error) {
	products, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if SameID(products[i].ID, id) {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
}

// ProductFromRow maps one spreadsheet row. Header names are matched
// case-insensitively.
func ProductFromRow(row map[string]string) model.Product {
	fields := make(map[string]string, len(row))
	for k, v := range row {
		fields[strings.ToLower(strings.TrimSpace(k))] = v
	}

	images := collectImages(fields)
	return model.Product{
		ID:              fields["id"],
		Name:            fields["nome"],
		Description:     fields["descricao"],
		FullDescription: fields["descricaocompleta"],
		Price:           fields["preco"],
		Category:        fields["categoria"],
		Images:          images,
		ImageURL:        images[0],
	}
}

// collectImages walks indexes 1..maxImages and, per index, every column
// variant in order. The result is never empty.
func collectImages(fields map[string]string) []string {
	var images []string
	for i := 1; i <= maxImages; i++ {
		n := strconv.Itoa(i)
		for _, spellings := range imageColumnVariants {
			for _, prefix := range spellings {
				if v := strings.TrimSpace(fields[prefix+n]); v != "" {
					images = append(images, v)
					break
				}
			}
		}
	}
	if len(images) == 0 {
		return []string{PlaceholderImage}
	}
	return images
}

// SameID compares two product identifiers. When both sides parse as finite
// numbers they are compared numerically ("1" == "1.0" == "01"), otherwise as
// trimmed strings.
func SameID(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	fa, okA := finite(a)
	fb, okB := finite(b)
	if okA && okB {
		return fa == fb
	}
	return a == b
}

func finite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
