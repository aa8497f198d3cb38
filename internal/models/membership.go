package models

import "github.com/shopspring/decimal"

type MembershipPlan struct {
	ID                 int64           `json:"id"`
	Nombre             string          `json:"nombre"`
	MaxClasesPorSemana *int            `json:"max_clases_por_semana"`
	MaxClasesTotales   *int            `json:"max_clases_totales"`
	DuracionDias       *int            `json:"duracion_dias"`
	Precio             decimal.Decimal `json:"precio"`
	Activo             bool            `json:"activo"`
}

type MembershipPlanInput struct {
	Nombre             Field[string]          `json:"nombre"`
	MaxClasesPorSemana Field[int]             `json:"max_clases_por_semana"`
	MaxClasesTotales   Field[int]             `json:"max_clases_totales"`
	DuracionDias       Field[int]             `json:"duracion_dias"`
	Precio             Field[decimal.Decimal] `json:"precio"`
	Activo             Field[bool]            `json:"activo"`
}

type Membership struct {
	ID           int64  `json:"id"`
	ClientID     int64  `json:"client_id"`
	PlanID       int64  `json:"plan_id"`
	FechaInicio  Date   `json:"fecha_inicio"`
	FechaFin     Date   `json:"fecha_fin"`
	Estado       string `json:"estado"`
	ClasesUsadas int    `json:"clases_usadas"`
}

// ActiveOn reports whether the membership may be used on day: it must be
// marked active and not have ended before day.
func (m *Membership) ActiveOn(day Date) bool {
	return m.Estado == MembershipActive && !m.FechaFin.Before(day)
}

// Covers reports whether a class held on day falls within the membership term end.
func (m *Membership) Covers(day Date) bool {
	return !day.After(m.FechaFin)
}

type MembershipInput struct {
	ClientID     Field[int64]  `json:"client_id"`
	PlanID       Field[int64]  `json:"plan_id"`
	FechaInicio  Field[Date]   `json:"fecha_inicio"`
	FechaFin     Field[Date]   `json:"fecha_fin"`
	Estado       Field[string] `json:"estado"`
	ClasesUsadas Field[int]    `json:"clases_usadas"`
}

// WeekWindow returns the Monday–Saturday span containing day. For a Sunday the
// span is the preceding Monday–Saturday, so the Sunday itself falls outside it.
func WeekWindow(day Date) (Date, Date) {
	start := day.AddDays(-day.WeekdayFromMonday())
	return start, start.AddDays(5)
}
