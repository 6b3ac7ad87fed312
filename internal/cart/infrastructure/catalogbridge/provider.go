// Package catalogbridge adapts the catalog module to the cart's product
// lookup interface.
package catalogbridge

import (
	"context"
	"errors"

	catalogapp "github.com/floresya/floresya/internal/catalog/application"
	catalogdomain "github.com/floresya/floresya/internal/catalog/domain"
	"github.com/floresya/floresya/internal/cart/application"
)

type provider struct {
	catalog *catalogapp.CatalogService
}

func NewProductProvider(catalog *catalogapp.CatalogService) application.ProductProvider {
	return &provider{catalog: catalog}
}

func (p *provider) GetProduct(ctx context.Context, id uint) (*application.ProductInfo, error) {
	product, err := p.catalog.GetProduct(ctx, id)
	if errors.Is(err, catalogdomain.ErrProductNotFound) {
		return nil, application.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &application.ProductInfo{
		ID:       product.ID,
		Name:     product.Name,
		PriceUSD: product.PriceUSD,
		ImageURL: product.ImageURL,
		Active:   product.Active,
	}, nil
}
