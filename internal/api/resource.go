package api

import (
	"context"
	"net/http"
)

// resource describes one CRUD collection. Nil operations are not routed.
type resource[T any, In any] struct {
	path   string
	list   func(r *http.Request) ([]T, error)
	get    func(ctx context.Context, id int64) (T, error)
	create func(ctx context.Context, in In) (T, error)
	update func(ctx context.Context, id int64, in In) (T, error)
	remove func(ctx context.Context, id int64) error

	// created and updated build the response bodies; nil means the entity itself.
	created func(T) any
	updated func(T) any
	deleted string
	// decodeErr may translate a body decoding failure into a domain error.
	decodeErr func(error) error
}

func mount[T any, In any](s *HTTPServer, mux *http.ServeMux, res resource[T, In]) {
	item := res.path + "/{id}"

	if res.list != nil {
		mux.HandleFunc("GET "+res.path, func(w http.ResponseWriter, r *http.Request) {
			items, err := res.list(r)
			if err != nil {
				s.writeDomainError(w, r, err)
				return
			}
			writeList(w, items)
		})
	}

	if res.get != nil {
		mux.HandleFunc("GET "+item, func(w http.ResponseWriter, r *http.Request) {
			id, ok := pathID(r)
			if !ok {
				writeError(w, http.StatusNotFound, "no encontrado")
				return
			}
			v, err := res.get(r.Context(), id)
			if err != nil {
				s.writeDomainError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, v)
		})
	}

	if res.create != nil {
		mux.HandleFunc("POST "+res.path, func(w http.ResponseWriter, r *http.Request) {
			var in In
			if err := decodeJSON(r, &in); err != nil {
				s.writeDecodeError(w, r, err, res.decodeErr)
				return
			}
			v, err := res.create(r.Context(), in)
			if err != nil {
				s.writeDomainError(w, r, err)
				return
			}
			writeJSON(w, http.StatusCreated, body(v, res.created))
		})
	}

	if res.update != nil {
		h := func(w http.ResponseWriter, r *http.Request) {
			id, ok := pathID(r)
			if !ok {
				writeError(w, http.StatusNotFound, "no encontrado")
				return
			}
			var in In
			if err := decodeJSON(r, &in); err != nil {
				s.writeDecodeError(w, r, err, res.decodeErr)
				return
			}
			v, err := res.update(r.Context(), id, in)
			if err != nil {
				s.writeDomainError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, body(v, res.updated))
		}
		mux.HandleFunc("PUT "+item, h)
		mux.HandleFunc("PATCH "+item, h)
	}

	if res.remove != nil {
		mux.HandleFunc("DELETE "+item, func(w http.ResponseWriter, r *http.Request) {
			id, ok := pathID(r)
			if !ok {
				writeError(w, http.StatusNotFound, "no encontrado")
				return
			}
			if err := res.remove(r.Context(), id); err != nil {
				s.writeDomainError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, messageBody{Message: res.deleted})
		})
	}
}

func body[T any](v T, build func(T) any) any {
	if build == nil {
		return v
	}
	return build(v)
}
