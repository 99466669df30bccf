package models

import (
	"encoding/json"
	"time"
)

// LabGroupView is the externally emitted shape of one LabGroup, matching
// the resultados_organizacion.<semester>.<subject>.grupos.<label> shape.
type LabGroupView struct {
	Profesor   string   `json:"profesor"`
	ProfesorID string   `json:"profesor_id"`
	Aula       string   `json:"aula"`
	Dia        string   `json:"dia"`
	Franja     string   `json:"franja"`
	Fechas     []string `json:"fechas"`
	Alumnos    []string `json:"alumnos"`
	Capacidad  int      `json:"capacidad"`
	Mixta      bool     `json:"mixta"`
	GrupoSimple string  `json:"grupo_simple"`
	GrupoDoble  string  `json:"grupo_doble,omitempty"`
}

// SubjectResult bundles every lab group produced for one subject.
type SubjectResult struct {
	Grupos map[string]LabGroupView `json:"grupos"`
}

// ConflictView is the externally emitted shape of one Conflict.
type ConflictView struct {
	Tipo      string   `json:"tipo"`
	Semestre  int      `json:"semestre"`
	Asignatura string  `json:"asignatura"`
	Grupo     string   `json:"grupo,omitempty"`
	Dia       string   `json:"dia,omitempty"`
	Franja    string   `json:"franja,omitempty"`
	Fecha     string   `json:"fecha,omitempty"`
	Fechas    []string `json:"fechas,omitempty"`
	Detalle   string   `json:"detalle"`
}

// ConflictBuckets separates conflicts into the two dimensions the result
// document reports them under.
type ConflictBuckets struct {
	Profesores []ConflictView `json:"profesores"`
	Aulas      []ConflictView `json:"aulas"`
}

// ResultMetadata carries run bookkeeping.
type ResultMetadata struct {
	UltimaEjecucion time.Time `json:"ultima_ejecucion"`
	Version         string    `json:"version"`
}

// PlanningResult is the full emitted document, matching
// resultados_organizacion in spec.
type PlanningResult struct {
	DatosDisponibles  bool                     `json:"datos_disponibles"`
	FechaActualizacion time.Time               `json:"fecha_actualizacion"`
	Semestres         map[int]map[string]SubjectResult `json:"-"`
	Conflictos        ConflictBuckets          `json:"conflictos"`
	Avisos            []string                 `json:"avisos"`
	Metadata          ResultMetadata           `json:"_metadata"`
}

// Semestre1 and Semestre2 expose the fixed two-semester keys the document
// shape expects in JSON (semestre_1 / semestre_2), since Go maps with
// non-string keys cannot be marshaled directly into that shape.
type resultDocument struct {
	DatosDisponibles   bool                     `json:"datos_disponibles"`
	FechaActualizacion time.Time                `json:"fecha_actualizacion"`
	Semestre1          map[string]SubjectResult `json:"semestre_1"`
	Semestre2          map[string]SubjectResult `json:"semestre_2"`
	Conflictos         ConflictBuckets          `json:"conflictos"`
	Avisos             []string                 `json:"avisos"`
	Metadata           ResultMetadata           `json:"_metadata"`
}

// MarshalJSON renders PlanningResult into the fixed semestre_1/semestre_2
// document shape external consumers expect.
func (r PlanningResult) MarshalJSON() ([]byte, error) {
	doc := resultDocument{
		DatosDisponibles:   r.DatosDisponibles,
		FechaActualizacion: r.FechaActualizacion,
		Semestre1:          r.Semestres[1],
		Semestre2:          r.Semestres[2],
		Conflictos:         r.Conflictos,
		Avisos:             r.Avisos,
		Metadata:           r.Metadata,
	}
	if doc.Semestre1 == nil {
		doc.Semestre1 = map[string]SubjectResult{}
	}
	if doc.Semestre2 == nil {
		doc.Semestre2 = map[string]SubjectResult{}
	}
	return json.Marshal(doc)
}
