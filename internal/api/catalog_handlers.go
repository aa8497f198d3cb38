package api

import (
	"context"
	"net/http"

	"marehpilates/internal/database"
	"marehpilates/internal/models"
)

type catalogRoute struct {
	path    string
	table   database.CatalogTable
	updated string
	deleted string
	// echo answers create and update with the entry instead of an id or message.
	echo bool
}

var catalogRoutes = []catalogRoute{
	{path: "/categorias-productos", table: database.Categories, updated: "Categoría de producto actualizada", deleted: "Categoría de producto eliminada"},
	{path: "/marcas-productos", table: database.Brands, updated: "Marca de producto actualizada", deleted: "Marca de producto eliminada"},
	{path: "/tiendas", table: database.Stores, deleted: "Tienda eliminada", echo: true},
	{path: "/tallas", table: database.Sizes, deleted: "Talla eliminada", echo: true},
}

func (s *HTTPServer) mountCatalog(mux *http.ServeMux) {
	catalog := s.svc.Catalog

	mount(s, mux, resource[*models.Product, models.ProductInput]{
		path:    "/productos",
		list:    func(r *http.Request) ([]*models.Product, error) { return catalog.ListProducts(r.Context()) },
		get:     catalog.GetProduct,
		create:  catalog.CreateProduct,
		update:  catalog.UpdateProduct,
		remove:  catalog.DeleteProduct,
		created: func(p *models.Product) any { return idBody{ID: p.ID} },
		updated: func(*models.Product) any { return messageBody{Message: "Producto actualizado"} },
		deleted: "Producto eliminado",
	})

	for _, route := range catalogRoutes {
		table := route.table
		res := resource[*models.CatalogEntry, models.CatalogEntryInput]{
			path: route.path,
			list: func(r *http.Request) ([]*models.CatalogEntry, error) {
				return catalog.ListEntries(r.Context(), table)
			},
			get: func(ctx context.Context, id int64) (*models.CatalogEntry, error) {
				return catalog.GetEntry(ctx, table, id)
			},
			create: func(ctx context.Context, in models.CatalogEntryInput) (*models.CatalogEntry, error) {
				return catalog.CreateEntry(ctx, table, in)
			},
			update: func(ctx context.Context, id int64, in models.CatalogEntryInput) (*models.CatalogEntry, error) {
				return catalog.UpdateEntry(ctx, table, id, in)
			},
			remove: func(ctx context.Context, id int64) error {
				return catalog.DeleteEntry(ctx, table, id)
			},
			deleted: route.deleted,
		}
		if !route.echo {
			msg := route.updated
			res.created = func(e *models.CatalogEntry) any { return idBody{ID: e.ID} }
			res.updated = func(*models.CatalogEntry) any { return messageBody{Message: msg} }
		}
		mount(s, mux, res)
	}
}
