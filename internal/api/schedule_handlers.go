package api

import (
	"net/http"

	"marehpilates/internal/models"
)

func (s *HTTPServer) mountSchedule(mux *http.ServeMux) {
	schedule := s.svc.Schedule

	mount(s, mux, resource[*models.ClassTemplate, models.ClassTemplateInput]{
		path:    "/class-templates",
		list:    func(r *http.Request) ([]*models.ClassTemplate, error) { return schedule.ListTemplates(r.Context()) },
		get:     schedule.GetTemplate,
		create:  schedule.CreateTemplate,
		update:  schedule.UpdateTemplate,
		remove:  schedule.DeleteTemplate,
		created: func(t *models.ClassTemplate) any { return idBody{ID: t.ID} },
		deleted: "ClassTemplate eliminado",
	})

	mount(s, mux, resource[*models.ClassSession, models.ClassSessionInput]{
		path:    "/class-sessions",
		list:    func(r *http.Request) ([]*models.ClassSession, error) { return schedule.ListSessions(r.Context()) },
		get:     schedule.GetSession,
		create:  schedule.CreateSession,
		update:  schedule.UpdateSession,
		remove:  schedule.DeleteSession,
		created: func(cs *models.ClassSession) any { return idBody{ID: cs.ID} },
		deleted: "ClassSession eliminado",
	})
}
