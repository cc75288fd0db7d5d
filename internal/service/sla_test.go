package service_test

import (
	"testing"
	"time"

	"github.com/mtlprog/bodyshop/internal/domain"
	"github.com/mtlprog/bodyshop/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTask(amount int64, createdAt, expectedDeliveryAt time.Time) *domain.RepairTask {
	task := domain.NewRepairTask(
		"shop-1", "AB-1234", "Mr. Wang", "PingAn", amount,
		expectedDeliveryAt, "", "consultant-1", createdAt,
	)
	task.ID = "task-" + createdAt.Format(time.RFC3339Nano)
	return task
}

// finishTask walks the task through all four transitions, ending at the
// given time.
func finishTask(t *testing.T, task *domain.RepairTask, endedAt time.Time) {
	t.Helper()
	steps := []time.Time{
		endedAt.Add(-3 * time.Minute),
		endedAt.Add(-2 * time.Minute),
		endedAt.Add(-time.Minute),
		endedAt,
	}
	for _, step := range steps {
		require.NoError(t, task.Advance(domain.RoleManager, "manager-1", step))
	}
}

func TestAssessmentDeadline_Tiers(t *testing.T) {
	created := monday(10, 0)
	delivery := created.Add(72 * time.Hour)

	small := buildTask(1500, created, delivery)
	deadline, ok := service.AssessmentDeadline(small)
	require.True(t, ok)
	assert.Equal(t, monday(14, 0), deadline, "small tier counts working hours")

	mid := buildTask(5000, created, delivery)
	deadline, ok = service.AssessmentDeadline(mid)
	require.True(t, ok)
	assert.Equal(t, created.Add(48*time.Hour), deadline, "mid tier counts calendar hours")

	midUpper := buildTask(10000, created, delivery)
	_, ok = service.AssessmentDeadline(midUpper)
	assert.True(t, ok, "mid tier is inclusive of its upper bound")

	large := buildTask(10001, created, delivery)
	_, ok = service.AssessmentDeadline(large)
	assert.False(t, ok, "large repairs carry no assessment target")
}

func TestIsOverdue(t *testing.T) {
	created := monday(10, 0)
	delivery := created.Add(72 * time.Hour)

	task := buildTask(1500, created, delivery)
	deadline := monday(14, 0)

	assert.False(t, service.IsOverdue(task, deadline), "at the deadline is still on time")
	assert.True(t, service.IsOverdue(task, deadline.Add(time.Millisecond)))

	// Once assessment is closed the working-hours target no longer applies.
	require.NoError(t, task.Advance(domain.RoleConsultant, "consultant-1", monday(13, 0)))
	assert.False(t, service.IsOverdue(task, deadline.Add(time.Hour)))

	// Past the expected delivery an unfinished task is overdue regardless.
	assert.True(t, service.IsOverdue(task, delivery.Add(time.Second)))

	done := buildTask(1500, created, delivery)
	finishTask(t, done, created.Add(6*time.Hour))
	assert.False(t, service.IsOverdue(done, delivery.Add(time.Hour)), "finished tasks never go overdue")
}

func TestComputeReport_EmptySnapshot(t *testing.T) {
	report := service.ComputeReport(nil, monday(10, 0))

	assert.Equal(t, 0, report.ActiveCount)
	assert.Equal(t, 0, report.OverdueCount)
	assert.Equal(t, int64(0), report.TotalAmount)
	assert.Equal(t, 100, report.AssessmentSLARate)
	assert.Equal(t, 100, report.FastRepairRate)
	assert.Equal(t, 100, report.OnTimeDeliveryRate)
}

func TestComputeReport_AssessmentBoundary(t *testing.T) {
	created := monday(10, 0)
	delivery := created.Add(720 * time.Hour)
	deadline := monday(14, 0)

	passed := buildTask(1500, created, delivery)
	require.NoError(t, passed.Advance(domain.RoleConsultant, "consultant-1", deadline))

	failed := buildTask(1500, created, delivery)
	require.NoError(t, failed.Advance(domain.RoleConsultant, "consultant-1", deadline.Add(time.Millisecond)))

	report := service.ComputeReport([]*domain.RepairTask{passed, failed}, deadline.Add(time.Hour))
	assert.Equal(t, 50, report.AssessmentSLARate, "closing exactly at the deadline passes, one tick later fails")
}

func TestComputeReport_OpenAssessmentJudgedAtNow(t *testing.T) {
	created := monday(10, 0)
	delivery := created.Add(720 * time.Hour)
	task := buildTask(1500, created, delivery)

	before := service.ComputeReport([]*domain.RepairTask{task}, monday(13, 0))
	assert.Equal(t, 100, before.AssessmentSLARate, "still inside the window")

	after := service.ComputeReport([]*domain.RepairTask{task}, monday(15, 0))
	assert.Equal(t, 0, after.AssessmentSLARate, "open past the deadline already counts as a miss")
}

func TestComputeReport_FastRepairRate(t *testing.T) {
	created := monday(9, 0)
	delivery := created.Add(720 * time.Hour)
	fastDeadline := monday(17, 0) // 8 working hours from opening

	onTime := buildTask(1000, created, delivery)
	finishTask(t, onTime, fastDeadline)

	late := buildTask(1999, created, delivery)
	finishTask(t, late, fastDeadline.Add(time.Minute))

	// Mid-tier amounts are not fast-repair eligible at all.
	excluded := buildTask(2000, created, delivery)

	report := service.ComputeReport([]*domain.RepairTask{onTime, late, excluded}, fastDeadline.Add(time.Hour))
	assert.Equal(t, 50, report.FastRepairRate)
}

func TestComputeReport_OnTimeDelivery(t *testing.T) {
	created := monday(10, 0)
	delivery := created.Add(48 * time.Hour)

	early := buildTask(5000, created, delivery)
	finishTask(t, early, delivery.Add(-time.Hour))

	lateFinish := buildTask(5000, created, delivery)
	finishTask(t, lateFinish, delivery.Add(time.Hour))

	// Unfinished but the expected delivery has not passed: not yet eligible.
	pending := buildTask(5000, created, delivery)

	now := delivery.Add(-30 * time.Minute)
	report := service.ComputeReport([]*domain.RepairTask{early, lateFinish, pending}, now)
	assert.Equal(t, 50, report.OnTimeDeliveryRate)
	assert.Equal(t, 0, report.OverdueCount)

	// Once the window passes, the pending task becomes an eligible miss.
	now = delivery.Add(time.Minute)
	report = service.ComputeReport([]*domain.RepairTask{early, lateFinish, pending}, now)
	assert.Equal(t, 33, report.OnTimeDeliveryRate)
	assert.Equal(t, 1, report.OverdueCount)
}

func TestComputeReport_Aggregates(t *testing.T) {
	created := monday(10, 0)
	delivery := created.Add(720 * time.Hour)

	inAssessment := buildTask(11000, created, delivery)

	inPainting := buildTask(12000, created, delivery)
	require.NoError(t, inPainting.Advance(domain.RoleManager, "manager-1", created.Add(time.Hour)))
	require.NoError(t, inPainting.Advance(domain.RoleManager, "manager-1", created.Add(2*time.Hour)))
	inPainting.SparePartsReady = true

	done := buildTask(13000, created, delivery)
	finishTask(t, done, created.Add(3*time.Hour))

	report := service.ComputeReport([]*domain.RepairTask{inAssessment, inPainting, done}, created.Add(4*time.Hour))

	assert.Equal(t, 2, report.ActiveCount)
	assert.Equal(t, int64(36000), report.TotalAmount)
	assert.Equal(t, 1, report.SparePartsMissing, "only active tasks without parts count")
	assert.Equal(t, 1, report.StageCounts[domain.StageAssessment])
	assert.Equal(t, 1, report.StageCounts[domain.StagePainting])
	assert.Equal(t, 1, report.StageCounts[domain.StageFinished])
}
