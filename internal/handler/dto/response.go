package dto

import (
	"time"

	"github.com/mtlprog/bodyshop/internal/domain"
	"github.com/mtlprog/bodyshop/internal/service"
)

// TaskResponse represents a repair task in API responses.
type TaskResponse struct {
	ID                 string    `json:"id"`
	ShopID             string    `json:"shop_id"`
	LicensePlate       string    `json:"license_plate"`
	ContactPerson      string    `json:"contact_person"`
	InsuranceCompany   string    `json:"insurance_company"`
	AssessmentAmount   int64     `json:"assessment_amount"`
	ExpectedDeliveryAt time.Time `json:"expected_delivery_at"`
	CurrentStage       string    `json:"current_stage"`
	SparePartsReady    bool      `json:"spare_parts_ready"`
	Remarks            string    `json:"remarks"`
	IsOverdue          bool      `json:"is_overdue"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// StageEntryInfo represents one stage history interval.
type StageEntryInfo struct {
	Stage     string     `json:"stage"`
	Handler   string     `json:"handler"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// TaskDetailResponse represents full task details with stage history.
type TaskDetailResponse struct {
	Task    TaskResponse     `json:"task"`
	History []StageEntryInfo `json:"history"`
}

// TasksListResponse represents the response for GET /tasks.
type TasksListResponse struct {
	Tasks  []TaskResponse `json:"tasks"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// DashboardResponse represents the SLA report for GET /dashboard.
type DashboardResponse struct {
	ActiveCount        int            `json:"active_count"`
	OverdueCount       int            `json:"overdue_count"`
	TotalAmount        int64          `json:"total_amount"`
	SparePartsMissing  int            `json:"spare_parts_missing"`
	AssessmentSLARate  int            `json:"assessment_sla_rate"`
	FastRepairRate     int            `json:"fast_repair_rate"`
	OnTimeDeliveryRate int            `json:"on_time_delivery_rate"`
	StageCounts        map[string]int `json:"stage_counts"`
}

// ToTaskResponse converts a domain task to its API representation.
func ToTaskResponse(task *domain.RepairTask, isOverdue bool) TaskResponse {
	return TaskResponse{
		ID:                 task.ID,
		ShopID:             task.ShopID,
		LicensePlate:       task.LicensePlate,
		ContactPerson:      task.ContactPerson,
		InsuranceCompany:   task.InsuranceCompany,
		AssessmentAmount:   task.AssessmentAmount,
		ExpectedDeliveryAt: task.ExpectedDeliveryAt,
		CurrentStage:       string(task.CurrentStage),
		SparePartsReady:    task.SparePartsReady,
		Remarks:            task.Remarks,
		IsOverdue:          isOverdue,
		CreatedAt:          task.CreatedAt,
		UpdatedAt:          task.UpdatedAt,
	}
}

// ToTaskDetailResponse converts a domain task with history.
func ToTaskDetailResponse(task *domain.RepairTask, isOverdue bool) TaskDetailResponse {
	history := make([]StageEntryInfo, len(task.History))
	for i, entry := range task.History {
		history[i] = StageEntryInfo{
			Stage:     string(entry.Stage),
			Handler:   entry.Handler,
			StartedAt: entry.StartedAt,
			EndedAt:   entry.EndedAt,
		}
	}
	return TaskDetailResponse{
		Task:    ToTaskResponse(task, isOverdue),
		History: history,
	}
}

// ToDashboardResponse converts an SLA report.
func ToDashboardResponse(report service.Report) DashboardResponse {
	stageCounts := make(map[string]int, len(report.StageCounts))
	for stage, count := range report.StageCounts {
		stageCounts[string(stage)] = count
	}
	return DashboardResponse{
		ActiveCount:        report.ActiveCount,
		OverdueCount:       report.OverdueCount,
		TotalAmount:        report.TotalAmount,
		SparePartsMissing:  report.SparePartsMissing,
		AssessmentSLARate:  report.AssessmentSLARate,
		FastRepairRate:     report.FastRepairRate,
		OnTimeDeliveryRate: report.OnTimeDeliveryRate,
		StageCounts:        stageCounts,
	}
}
