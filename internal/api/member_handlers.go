package api

import (
	"net/http"

	"marehpilates/internal/models"
)

func (s *HTTPServer) mountMembers(mux *http.ServeMux) {
	members := s.svc.Members
	memberships := s.svc.Memberships

	mount(s, mux, resource[*models.Client, models.PersonInput]{
		path:    "/clients",
		list:    func(r *http.Request) ([]*models.Client, error) { return members.ListClients(r.Context()) },
		get:     members.GetClient,
		create:  members.CreateClient,
		update:  members.UpdateClient,
		remove:  members.DeleteClient,
		created: func(c *models.Client) any { return idBody{ID: c.ID} },
		deleted: "Client eliminado",
	})
	mux.HandleFunc("GET /clients/{id}/balance", s.handleClientBalance)

	mount(s, mux, resource[*models.Coach, models.PersonInput]{
		path:    "/coaches",
		list:    func(r *http.Request) ([]*models.Coach, error) { return members.ListCoaches(r.Context()) },
		get:     members.GetCoach,
		create:  members.CreateCoach,
		update:  members.UpdateCoach,
		remove:  members.DeleteCoach,
		created: func(c *models.Coach) any { return idBody{ID: c.ID} },
		deleted: "Coach eliminado",
	})

	mount(s, mux, resource[*models.MembershipPlan, models.MembershipPlanInput]{
		path:    "/membership-plans",
		list:    func(r *http.Request) ([]*models.MembershipPlan, error) { return memberships.ListPlans(r.Context()) },
		get:     memberships.GetPlan,
		create:  memberships.CreatePlan,
		update:  memberships.UpdatePlan,
		remove:  memberships.DeletePlan,
		created: func(p *models.MembershipPlan) any { return idBody{ID: p.ID} },
		deleted: "MembershipPlan eliminado",
	})

	mount(s, mux, resource[*models.Membership, models.MembershipInput]{
		path:    "/memberships",
		list:    func(r *http.Request) ([]*models.Membership, error) { return memberships.ListMemberships(r.Context()) },
		get:     memberships.GetMembership,
		create:  memberships.CreateMembership,
		update:  memberships.UpdateMembership,
		remove:  memberships.DeleteMembership,
		created: func(m *models.Membership) any { return idBody{ID: m.ID} },
		deleted: "Membership eliminado",
	})
	mux.HandleFunc("POST /memberships/reconcile", s.handleReconcileMemberships)
}

func (s *HTTPServer) handleClientBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "no encontrado")
		return
	}
	balance, err := s.svc.Ledger.Balance(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

type reconcileBody struct {
	Today   string `json:"today"`
	Expired int64  `json:"expired"`
}

func (s *HTTPServer) handleReconcileMemberships(w http.ResponseWriter, r *http.Request) {
	today := s.svc.Memberships.Today()
	n, err := s.svc.Memberships.ExpireLapsed(r.Context(), today)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reconcileBody{Today: today.String(), Expired: n})
}
