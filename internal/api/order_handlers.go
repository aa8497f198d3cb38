package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"marehpilates/internal/domain"
	"marehpilates/internal/export"
	"marehpilates/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *HTTPServer) mountOrders(mux *http.ServeMux) {
	orders := s.svc.Orders
	customers := s.svc.Customers

	fechaFormat := func(err error) error {
		if errors.Is(err, models.ErrInvalidTimestamp) {
			return domain.Invalid("fecha", "fecha debe estar en formato ISO 8601")
		}
		return nil
	}

	mux.HandleFunc("GET /ordenes/export", s.handleExportOrders)

	mount(s, mux, resource[*models.Order, models.OrderCreateInput]{
		path: "/ordenes",
		list: func(r *http.Request) ([]*models.Order, error) {
			filter, err := orderFilter(r)
			if err != nil {
				return nil, err
			}
			return orders.List(r.Context(), filter)
		},
		get:       orders.Get,
		create:    orders.Create,
		remove:    orders.Delete,
		deleted:   "Orden eliminada",
		decodeErr: fechaFormat,
	})
	mount(s, mux, resource[*models.Order, models.OrderUpdateInput]{
		path:      "/ordenes",
		update:    orders.Update,
		decodeErr: fechaFormat,
	})

	mount(s, mux, resource[*models.Customer, models.CustomerInput]{
		path: "/clientes",
		list: func(r *http.Request) ([]*models.Customer, error) {
			return customers.List(r.Context(), r.URL.Query().Get("q"))
		},
		get:     customers.Get,
		create:  customers.Create,
		update:  customers.Update,
		remove:  customers.Delete,
		deleted: "Cliente eliminado correctamente",
	})
}

// orderFilter reads the optional inicio and fin query parameters.
func orderFilter(r *http.Request) (models.OrderFilter, error) {
	var filter models.OrderFilter
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"inicio", &filter.From}, {"fin", &filter.To}} {
		raw := strings.TrimSpace(r.URL.Query().Get(p.name))
		if raw == "" {
			continue
		}
		t, err := models.ParseTimestamp(raw)
		if err != nil {
			return filter, domain.Invalid(p.name, fmt.Sprintf("parametro '%s' debe estar en formato ISO 8601", p.name))
		}
		*p.dst = &t
	}
	return filter, nil
}

func (s *HTTPServer) handleExportOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := orderFilter(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	list, err := s.svc.Orders.List(r.Context(), filter)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteOrders(&buf, list, filter.From, filter.To); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(filter.From, filter.To)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
