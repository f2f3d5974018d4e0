package wooapi

import "github.com/storelink/woosync/internal/domain/models"

// ConvertProducts maps upstream products to the domain representation,
// preserving order. Fields outside the domain model are dropped.
func ConvertProducts(in WooProducts) []models.Product {
	out := make([]models.Product, 0, len(in))
	for _, p := range in {
		images := make([]models.ProductImage, 0, len(p.Images))
		for _, img := range p.Images {
			images = append(images, models.ProductImage{ID: img.ID, Src: img.Src})
		}
		out = append(out, models.Product{
			ID:            p.ID,
			Name:          p.Name,
			Sku:           p.Sku,
			Price:         p.Price,
			StockQuantity: p.StockQuantity,
			Images:        images,
		})
	}
	return out
}
