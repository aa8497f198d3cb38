package api

import (
	"net/http"

	"marehpilates/internal/models"
)

func (s *HTTPServer) mountUsers(mux *http.ServeMux) {
	users := s.svc.Users

	mount(s, mux, resource[*models.User, models.UserInput]{
		path:    "/usuarios",
		list:    func(r *http.Request) ([]*models.User, error) { return users.ListUsers(r.Context()) },
		get:     users.GetUser,
		create:  users.CreateUser,
		update:  users.UpdateUser,
		remove:  users.DeleteUser,
		deleted: "Usuario eliminado",
	})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		s.writeBodyError(w, err)
		return
	}
	res, err := s.svc.Users.Login(r.Context(), creds)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
