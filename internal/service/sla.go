package service

import (
	"math"
	"time"

	"github.com/mtlprog/bodyshop/internal/domain"
)

// Tiered SLA policy: repairs assessed below the small threshold get
// working-hours targets, the mid tier gets a flat calendar-hours target,
// amounts above the mid threshold carry no assessment target at all.
const (
	smallRepairAmount = 2000
	midRepairAmount   = 10000

	assessmentSmallHours = 4  // working hours
	assessmentMidHours   = 48 // calendar hours
	fastRepairHours      = 8  // working hours
)

// Report holds the aggregate dashboard values computed over a task snapshot.
// All rates are whole percentages; an empty eligible set reports 100.
type Report struct {
	ActiveCount        int
	OverdueCount       int
	TotalAmount        int64
	SparePartsMissing  int
	AssessmentSLARate  int
	FastRepairRate     int
	OnTimeDeliveryRate int
	StageCounts        map[domain.Stage]int
}

// AssessmentDeadline returns the turnaround deadline for the task's
// assessment stage per the tiered policy. The second return value is false
// for amounts above the mid tier, which have no target.
func AssessmentDeadline(task *domain.RepairTask) (time.Time, bool) {
	switch {
	case task.AssessmentAmount < smallRepairAmount:
		return WorkingHoursDeadline(task.CreatedAt, assessmentSmallHours), true
	case task.AssessmentAmount <= midRepairAmount:
		return task.CreatedAt.Add(assessmentMidHours * time.Hour), true
	default:
		return time.Time{}, false
	}
}

// IsOverdue reports whether the task has blown a live deadline: either its
// assessment stage is still open past the tiered target, or the expected
// delivery time has passed without the task finishing.
func IsOverdue(task *domain.RepairTask, now time.Time) bool {
	if task.CurrentStage == domain.StageAssessment {
		if deadline, ok := AssessmentDeadline(task); ok && now.After(deadline) {
			return true
		}
	}
	return now.After(task.ExpectedDeliveryAt) && !task.IsFinished()
}

// ComputeReport derives the dashboard metrics from a snapshot of tasks.
// It never mutates the tasks and is safe to recompute on every read.
func ComputeReport(tasks []*domain.RepairTask, now time.Time) Report {
	report := Report{StageCounts: make(map[domain.Stage]int)}

	var assessmentEligible, assessmentPassed int
	var fastEligible, fastPassed int
	var deliveryEligible, deliveryPassed int

	for _, task := range tasks {
		report.TotalAmount += task.AssessmentAmount
		report.StageCounts[task.CurrentStage]++
		if !task.IsFinished() {
			report.ActiveCount++
			if !task.SparePartsReady {
				report.SparePartsMissing++
			}
		}
		if IsOverdue(task, now) {
			report.OverdueCount++
		}

		completion := task.CompletionTime(now)

		if deadline, ok := AssessmentDeadline(task); ok {
			assessmentEligible++
			if !task.AssessmentClosedAt(now).After(deadline) {
				assessmentPassed++
			}
		}

		if task.AssessmentAmount < smallRepairAmount {
			fastEligible++
			if !completion.After(WorkingHoursDeadline(task.CreatedAt, fastRepairHours)) {
				fastPassed++
			}
		}

		if task.IsFinished() || now.After(task.ExpectedDeliveryAt) {
			deliveryEligible++
			if !completion.After(task.ExpectedDeliveryAt) {
				deliveryPassed++
			}
		}
	}

	report.AssessmentSLARate = slaRate(assessmentPassed, assessmentEligible)
	report.FastRepairRate = slaRate(fastPassed, fastEligible)
	report.OnTimeDeliveryRate = slaRate(deliveryPassed, deliveryEligible)
	return report
}

// slaRate rounds passed/eligible to a whole percentage, vacuously 100 when
// nothing was eligible.
func slaRate(passed, eligible int) int {
	if eligible == 0 {
		return 100
	}
	return int(math.Round(float64(passed) / float64(eligible) * 100))
}
