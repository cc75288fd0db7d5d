package domain_test

import (
	"testing"
	"time"

	"github.com/mtlprog/bodyshop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(t *testing.T, now time.Time) *domain.RepairTask {
	t.Helper()
	task := domain.NewRepairTask(
		"shop-1", "AB-1234", "Mr. Wang", "PingAn", 5000,
		now.Add(72*time.Hour), "rear bumper", "consultant-1", now,
	)
	task.ID = "task-1"
	return task
}

func TestStageNext(t *testing.T) {
	next, ok := domain.StageAssessment.Next()
	require.True(t, ok)
	assert.Equal(t, domain.StageMetalwork, next)

	next, ok = domain.StageDelivery.Next()
	require.True(t, ok)
	assert.Equal(t, domain.StageFinished, next)

	_, ok = domain.StageFinished.Next()
	assert.False(t, ok)
}

func TestStagePermissions(t *testing.T) {
	assert.True(t, domain.StageAssessment.CanClose(domain.RoleConsultant))
	assert.True(t, domain.StageAssessment.CanClose(domain.RoleManager))
	assert.False(t, domain.StageAssessment.CanClose(domain.RolePainter))
	assert.False(t, domain.StageAssessment.CanClose(domain.RoleSpareParts))

	assert.True(t, domain.StageMetalwork.CanClose(domain.RoleMetalworker))
	assert.True(t, domain.StagePainting.CanClose(domain.RolePainter))
	assert.False(t, domain.StagePainting.CanClose(domain.RoleMetalworker))

	// FINISHED maps to the empty set.
	for _, role := range []domain.Role{
		domain.RoleConsultant, domain.RoleMetalworker, domain.RolePainter,
		domain.RoleManager, domain.RoleSpareParts, domain.RoleHQOperator,
	} {
		assert.False(t, domain.StageFinished.CanClose(role))
	}
}

func TestNewRepairTask(t *testing.T) {
	now := time.Date(2024, time.January, 8, 10, 0, 0, 0, time.UTC)
	task := newTask(t, now)

	assert.Equal(t, domain.StageAssessment, task.CurrentStage)
	assert.False(t, task.SparePartsReady)
	require.Len(t, task.History, 1)

	open := task.OpenEntry()
	require.NotNil(t, open)
	assert.Equal(t, domain.StageAssessment, open.Stage)
	assert.Equal(t, "consultant-1", open.Handler)
	assert.Equal(t, now, open.StartedAt)
	assert.Nil(t, open.EndedAt)
}

func TestAdvance_ClosesOpenEntryAndOpensNext(t *testing.T) {
	now := time.Date(2024, time.January, 8, 10, 0, 0, 0, time.UTC)
	task := newTask(t, now)

	later := now.Add(2 * time.Hour)
	err := task.Advance(domain.RoleConsultant, "consultant-1", later)
	require.NoError(t, err)

	assert.Equal(t, domain.StageMetalwork, task.CurrentStage)
	require.Len(t, task.History, 2)

	require.NotNil(t, task.History[0].EndedAt)
	assert.Equal(t, later, *task.History[0].EndedAt)

	open := task.OpenEntry()
	require.NotNil(t, open)
	assert.Equal(t, domain.StageMetalwork, open.Stage)
	assert.Equal(t, "consultant-1", open.Handler)
	assert.Equal(t, later, open.StartedAt)
}

func TestAdvance_PermissionDeniedLeavesTaskUnchanged(t *testing.T) {
	now := time.Date(2024, time.January, 8, 10, 0, 0, 0, time.UTC)
	task := newTask(t, now)

	err := task.Advance(domain.RolePainter, "painter-1", now.Add(time.Hour))
	require.ErrorIs(t, err, domain.ErrPermissionDenied)

	assert.Equal(t, domain.StageAssessment, task.CurrentStage)
	require.Len(t, task.History, 1)
	assert.Nil(t, task.History[0].EndedAt)
}

func TestAdvance_WalkToFinished(t *testing.T) {
	now := time.Date(2024, time.January, 8, 10, 0, 0, 0, time.UTC)
	task := newTask(t, now)

	expected := []domain.Stage{
		domain.StageMetalwork, domain.StagePainting, domain.StageDelivery, domain.StageFinished,
	}
	for i, stage := range expected {
		step := now.Add(time.Duration(i+1) * time.Hour)
		require.NoError(t, task.Advance(domain.RoleManager, "manager-1", step))
		assert.Equal(t, stage, task.CurrentStage)
	}

	// FINISHED closes the log: four intervals, none open.
	assert.True(t, task.IsFinished())
	require.Len(t, task.History, 4)
	for _, entry := range task.History {
		assert.NotNil(t, entry.EndedAt)
	}
	assert.Nil(t, task.OpenEntry())

	// History start times never decrease, and no entry ends before it starts.
	for i, entry := range task.History {
		if i > 0 {
			assert.False(t, entry.StartedAt.Before(task.History[i-1].StartedAt))
		}
		assert.False(t, entry.EndedAt.Before(entry.StartedAt))
	}
}

func TestAdvance_FinishedIsNoOp(t *testing.T) {
	now := time.Date(2024, time.January, 8, 10, 0, 0, 0, time.UTC)
	task := newTask(t, now)
	for i := 0; i < 4; i++ {
		require.NoError(t, task.Advance(domain.RoleManager, "manager-1", now.Add(time.Duration(i+1)*time.Hour)))
	}

	err := task.Advance(domain.RoleManager, "manager-1", now.Add(10*time.Hour))
	require.ErrorIs(t, err, domain.ErrTaskFinished)
	assert.Equal(t, domain.StageFinished, task.CurrentStage)
	assert.Len(t, task.History, 4)
}

func TestCompletionTime(t *testing.T) {
	now := time.Date(2024, time.January, 8, 10, 0, 0, 0, time.UTC)
	task := newTask(t, now)

	// Unfinished tasks complete "now".
	probe := now.Add(5 * time.Hour)
	assert.Equal(t, probe, task.CompletionTime(probe))

	for i := 0; i < 4; i++ {
		require.NoError(t, task.Advance(domain.RoleManager, "manager-1", now.Add(time.Duration(i+1)*time.Hour)))
	}
	assert.Equal(t, now.Add(4*time.Hour), task.CompletionTime(probe))
}

func TestAssessmentClosedAt(t *testing.T) {
	now := time.Date(2024, time.January, 8, 10, 0, 0, 0, time.UTC)
	task := newTask(t, now)

	probe := now.Add(time.Hour)
	assert.Equal(t, probe, task.AssessmentClosedAt(probe), "open assessment falls back to now")

	closed := now.Add(30 * time.Minute)
	require.NoError(t, task.Advance(domain.RoleConsultant, "consultant-1", closed))
	assert.Equal(t, closed, task.AssessmentClosedAt(probe))
}
