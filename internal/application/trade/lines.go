package trade

import (
	"context"
	"fmt"
	"strings"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
)

// resolveLines validates each requested line against the catalog,
// normalizes product codes, and fills in the product's sell price
// where the caller did not supply a unit price. Returns the products
// touched, keyed by code, for threshold checks after commit.
func resolveLines(ctx context.Context, products catalog.ProductRepository, lines []Line) (map[string]*catalog.Product, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transaction must contain at least one line")
	}

	resolved := make(map[string]*catalog.Product, len(lines))
	for i := range lines {
		line := &lines[i]
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Quantity for product %s must be positive", line.ProductCode))
		}
		if line.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE",
				fmt.Sprintf("Unit price for product %s cannot be negative", line.ProductCode))
		}

		code := strings.ToUpper(strings.TrimSpace(line.ProductCode))
		line.ProductCode = code
		if _, ok := resolved[code]; ok {
			continue
		}
		product, err := products.FindByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		resolved[code] = product
	}

	for i := range lines {
		if lines[i].UnitPrice.IsZero() {
			lines[i].UnitPrice = resolved[lines[i].ProductCode].SellPrice
		}
	}
	return resolved, nil
}
