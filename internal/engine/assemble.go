package engine

import (
	"time"

	"github.com/opticampus/lab-scheduler/internal/models"
)

// ResultVersion is stamped into every assembled result's _metadata.version
// field.
const ResultVersion = "1.0"

// AssembleResult builds the resultados_organizacion-shaped document from
// every group and conflict produced across all subjects in a run.
func AssembleResult(groups []*models.LabGroup, conflicts []models.Conflict, notes []string, now time.Time) *models.PlanningResult {
	semesters := make(map[int]map[string]models.SubjectResult)

	for _, g := range groups {
		bySubject, ok := semesters[g.Semester]
		if !ok {
			bySubject = make(map[string]models.SubjectResult)
			semesters[g.Semester] = bySubject
		}
		result, ok := bySubject[g.SubjectCode]
		if !ok {
			result = models.SubjectResult{Grupos: make(map[string]models.LabGroupView)}
			bySubject[g.SubjectCode] = result
		}
		result.Grupos[g.Label] = models.LabGroupView{
			Profesor:    g.TeacherName,
			ProfesorID:  g.TeacherID,
			Aula:        g.Room,
			Dia:         g.Weekday,
			Franja:      g.TimeRange,
			Fechas:      g.Dates,
			Alumnos:     g.Students,
			Capacidad:   g.Capacity,
			Mixta:       g.Mixed,
			GrupoSimple: g.SimpleGroupCode,
			GrupoDoble:  g.DualGroupCode,
		}
	}

	// Every conflict kind is reported under "profesores"; the "aulas"
	// bucket is carried in the emitted shape but never populated, matching
	// the original engine, which threads a conflictos_aulas parameter
	// through every planning function but never appends to it.
	buckets := models.ConflictBuckets{Profesores: []models.ConflictView{}, Aulas: []models.ConflictView{}}
	for _, c := range conflicts {
		buckets.Profesores = append(buckets.Profesores, models.ConflictView{
			Tipo:       string(c.Kind),
			Semestre:   c.Semester,
			Asignatura: c.SubjectCode,
			Grupo:      c.GroupLabel,
			Dia:        c.Weekday,
			Franja:     c.TimeRange,
			Fecha:      c.Date,
			Fechas:     c.CandidateDates,
			Detalle:    c.Detail,
		})
	}

	if notes == nil {
		notes = []string{}
	}

	return &models.PlanningResult{
		DatosDisponibles:   true,
		FechaActualizacion: now,
		Semestres:          semesters,
		Conflictos:         buckets,
		Avisos:             notes,
		Metadata: models.ResultMetadata{
			UltimaEjecucion: now,
			Version:         ResultVersion,
		},
	}
}
