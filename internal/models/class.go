package models

type ClassTemplate struct {
	ID          int64     `json:"id"`
	Nombre      string    `json:"nombre"`
	CoachID     int64     `json:"coach_id"`
	DiaSemana   int       `json:"dia_semana"`
	HoraInicio  TimeOfDay `json:"hora_inicio"`
	HoraFin     TimeOfDay `json:"hora_fin"`
	Capacidad   int       `json:"capacidad"`
	Estado      string    `json:"estado"`
	FechaInicio *Date     `json:"fecha_inicio"`
	FechaFin    *Date     `json:"fecha_fin"`
}

type ClassTemplateInput struct {
	Nombre      Field[string]    `json:"nombre"`
	CoachID     Field[int64]     `json:"coach_id"`
	DiaSemana   Field[int]       `json:"dia_semana"`
	HoraInicio  Field[TimeOfDay] `json:"hora_inicio"`
	HoraFin     Field[TimeOfDay] `json:"hora_fin"`
	Capacidad   Field[int]       `json:"capacidad"`
	Estado      Field[string]    `json:"estado"`
	FechaInicio Field[Date]      `json:"fecha_inicio"`
	FechaFin    Field[Date]      `json:"fecha_fin"`
}

type ClassSession struct {
	ID         int64     `json:"id"`
	TemplateID *int64    `json:"template_id"`
	Fecha      Date      `json:"fecha"`
	HoraInicio TimeOfDay `json:"hora_inicio"`
	HoraFin    TimeOfDay `json:"hora_fin"`
	CoachID    int64     `json:"coach_id"`
	Capacidad  int       `json:"capacidad"`
	Estado     string    `json:"estado"`
	Nota       *string   `json:"nota"`
}

type ClassSessionInput struct {
	TemplateID Field[int64]     `json:"template_id"`
	Fecha      Field[Date]      `json:"fecha"`
	HoraInicio Field[TimeOfDay] `json:"hora_inicio"`
	HoraFin    Field[TimeOfDay] `json:"hora_fin"`
	CoachID    Field[int64]     `json:"coach_id"`
	Capacidad  Field[int]       `json:"capacidad"`
	Estado     Field[string]    `json:"estado"`
	Nota       Field[string]    `json:"nota"`
}
