package service

import (
	"fmt"
	"strings"

	"github.com/mtlprog/bodyshop/internal/domain"
)

// Validator handles permission and state validation for task operations.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// CanAdvance validates if a staff member may close the task's current stage.
func (v *Validator) CanAdvance(task *domain.RepairTask, staff *domain.Staff) error {
	if !staff.CanAccessShop(task.ShopID) {
		return fmt.Errorf("%w: task %s belongs to shop %s, staff %s to shop %s", domain.ErrPermissionDenied, task.ID, task.ShopID, staff.ID, staff.ShopID)
	}

	if task.IsFinished() {
		return fmt.Errorf("%w: task %s", domain.ErrTaskFinished, task.ID)
	}

	if !task.CurrentStage.CanClose(staff.Role) {
		return fmt.Errorf("%w: role %s cannot close stage %s of task %s", domain.ErrPermissionDenied, staff.Role, task.CurrentStage, task.ID)
	}

	return nil
}

// CanToggleSpareParts validates if a staff member may flip the flag.
func (v *Validator) CanToggleSpareParts(task *domain.RepairTask, staff *domain.Staff) error {
	if !staff.CanAccessShop(task.ShopID) {
		return fmt.Errorf("%w: task %s belongs to shop %s, staff %s to shop %s", domain.ErrPermissionDenied, task.ID, task.ShopID, staff.ID, staff.ShopID)
	}

	if !staff.Role.CanToggleSpareParts() {
		return fmt.Errorf("%w: role %s cannot toggle spare parts", domain.ErrPermissionDenied, staff.Role)
	}

	return nil
}

// CanEditRemarks validates if a staff member may edit task remarks.
// Any role may edit remarks within its own shop.
func (v *Validator) CanEditRemarks(task *domain.RepairTask, staff *domain.Staff) error {
	if !staff.CanAccessShop(task.ShopID) {
		return fmt.Errorf("%w: task %s belongs to shop %s, staff %s to shop %s", domain.ErrPermissionDenied, task.ID, task.ShopID, staff.ID, staff.ShopID)
	}
	return nil
}

// ValidateCreate checks the registrant's role and the identifying fields of
// a new task. Deeper validation such as plate format is a UI concern.
func (v *Validator) ValidateCreate(staff *domain.Staff, params CreateTaskParams) error {
	if !staff.Role.CanRegisterTask() {
		return fmt.Errorf("%w: role %s cannot register tasks", domain.ErrPermissionDenied, staff.Role)
	}

	if strings.TrimSpace(params.LicensePlate) == "" {
		return fmt.Errorf("%w: license plate", domain.ErrEmptyField)
	}
	if strings.TrimSpace(params.ContactPerson) == "" {
		return fmt.Errorf("%w: contact person", domain.ErrEmptyField)
	}
	if strings.TrimSpace(params.InsuranceCompany) == "" {
		return fmt.Errorf("%w: insurance company", domain.ErrEmptyField)
	}
	if params.AssessmentAmount < 0 {
		return domain.ErrInvalidAmount
	}

	return nil
}
