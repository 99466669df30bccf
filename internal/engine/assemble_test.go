package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opticampus/lab-scheduler/internal/models"
)

func TestAssembleResultRoutesAllConflictKindsToProfesores(t *testing.T) {
	// conflictos_aulas is threaded through motor_organizacion.py's
	// functions but never appended to; every conflict, regardless of
	// sub-kind, must land under "profesores" and "aulas" must stay empty.
	conflicts := []models.Conflict{
		{Kind: models.ConflictNoTeacherEligible},
		{Kind: models.ConflictTeacherUnavailable},
		{Kind: models.ConflictNoRoomSlot},
		{Kind: models.ConflictInsufficientDates},
		{Kind: models.ConflictNoCalendarForDay},
		{Kind: models.ConflictCannotBalanceParity},
	}

	result := AssembleResult(nil, conflicts, nil, time.Now())

	require.Len(t, result.Conflictos.Profesores, len(conflicts))
	require.Empty(t, result.Conflictos.Aulas)
}
