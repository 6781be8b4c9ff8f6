package catalog

import (
	"ibook/internal/domain/inventory"
)

// ItemView is the read model of one stock batch.
type ItemView struct {
	ExpiryDate string `json:"expiry_date"`
	Quantity   int    `json:"quantity"`
	Expired    bool   `json:"expired"`
}

// ProductView is the read model of a product and its stock.
type ProductView struct {
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	Description   string     `json:"description"`
	Price         float64    `json:"price"`
	TotalQuantity int        `json:"total_quantity"`
	Items         []ItemView `json:"items"`
}

// ExpiredItemView is one row of the expired-stock report.
type ExpiredItemView struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	ExpiryDate string `json:"expiry_date"`
	Quantity   int    `json:"quantity"`
}

func newItemView(item inventory.Item) ItemView {
	return ItemView{
		ExpiryDate: item.ExpiryDate().String(),
		Quantity:   item.Quantity().Value(),
		Expired:    item.IsExpired(),
	}
}

func newProductView(product *inventory.Product) ProductView {
	items := product.Items()
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, newItemView(item))
	}
	return ProductView{
		Name:          product.Name().String(),
		Category:      product.Category().String(),
		Description:   product.Description().String(),
		Price:         product.Price().Amount(),
		TotalQuantity: product.TotalQuantity(),
		Items:         views,
	}
}
