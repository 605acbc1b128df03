package resource

import (
	"time"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
)

type ProductStats struct {
	Total          int     `json:"total"`
	LowStock       int     `json:"low_stock"`
	OutOfStock     int     `json:"out_of_stock"`
	InventoryValue float64 `json:"inventory_value"`
	Visible        int     `json:"visible"`
}

func DeriveProductStats(all, filtered []model.Product) ProductStats {
	return ProductStats{
		Total:      len(all),
		LowStock:   listctl.Count(all, func(p model.Product) bool { return p.Status == model.ProductStatusLowStock }),
		OutOfStock: listctl.Count(all, func(p model.Product) bool { return p.Status == model.ProductStatusOutOfStock }),
		InventoryValue: listctl.Sum(all,
			func(p model.Product) float64 { return float64(p.Quantity) * p.UnitPrice },
			func(p model.Product) bool { return p.Status != model.ProductStatusDiscontinued }),
		Visible: len(filtered),
	}
}

func ProductDefinition() Definition[model.Product, model.CreateProductRequest] {
	return Definition[model.Product, model.CreateProductRequest]{
		Schema: listctl.Schema[model.Product]{
			Name:      Products,
			ID:        func(p model.Product) string { return p.ID },
			Status:    func(p model.Product) string { return p.Status },
			SetStatus: func(p model.Product, s string) model.Product { p.Status = s; return p },
			Version:   func(p model.Product) time.Time { return p.UpdatedAt },
			Lifecycle: ProductLifecycle,
			TextFields: []func(model.Product) string{
				func(p model.Product) string { return p.Name },
				func(p model.Product) string { return p.SKU },
				func(p model.Product) string { return p.Category },
				func(p model.Product) string { return p.SupplierName },
			},
			Filters: map[string]func(model.Product) string{
				"status":   func(p model.Product) string { return p.Status },
				"category": func(p model.Product) string { return p.Category },
			},
			Stats: func(all, filtered []model.Product) any {
				return DeriveProductStats(all, filtered)
			},
		},
		Build: func(in model.CreateProductRequest, _ *model.Profile, _ time.Time) model.Product {
			p := model.Product{
				Name:         in.Name,
				SKU:          in.SKU,
				Category:     in.Category,
				SupplierID:   in.SupplierID,
				SupplierName: in.SupplierName,
				Quantity:     in.Quantity,
				ReorderLevel: in.ReorderLevel,
				UnitPrice:    in.UnitPrice,
			}
			p.Status = p.StockStatus()
			return p
		},
	}
}

type SupplierStats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Visible int `json:"visible"`
}

func DeriveSupplierStats(all, filtered []model.Supplier) SupplierStats {
	return SupplierStats{
		Total:   len(all),
		Active:  listctl.Count(all, func(s model.Supplier) bool { return s.Status == model.SupplierStatusActive }),
		Visible: len(filtered),
	}
}

func SupplierDefinition() Definition[model.Supplier, model.CreateSupplierRequest] {
	return Definition[model.Supplier, model.CreateSupplierRequest]{
		Schema: listctl.Schema[model.Supplier]{
			Name:      Suppliers,
			ID:        func(s model.Supplier) string { return s.ID },
			Status:    func(s model.Supplier) string { return s.Status },
			SetStatus: func(s model.Supplier, st string) model.Supplier { s.Status = st; return s },
			Version:   func(s model.Supplier) time.Time { return s.UpdatedAt },
			Lifecycle: SupplierLifecycle,
			TextFields: []func(model.Supplier) string{
				func(s model.Supplier) string { return s.Name },
				func(s model.Supplier) string { return s.ContactName },
				func(s model.Supplier) string { return s.Email },
			},
			Filters: map[string]func(model.Supplier) string{
				"status": func(s model.Supplier) string { return s.Status },
			},
			Stats: func(all, filtered []model.Supplier) any {
				return DeriveSupplierStats(all, filtered)
			},
		},
		Build: func(in model.CreateSupplierRequest, _ *model.Profile, _ time.Time) model.Supplier {
			return model.Supplier{
				Name:        in.Name,
				ContactName: in.ContactName,
				Email:       in.Email,
				Phone:       in.Phone,
			}
		},
	}
}
