package dto

import "time"

// CreateTaskRequest represents the request body for POST /tasks.
type CreateTaskRequest struct {
	LicensePlate       string    `json:"license_plate"`
	ContactPerson      string    `json:"contact_person"`
	InsuranceCompany   string    `json:"insurance_company"`
	AssessmentAmount   int64     `json:"assessment_amount"`
	ExpectedDeliveryAt time.Time `json:"expected_delivery_at"`
	Remarks            string    `json:"remarks,omitempty"`
}

// SetSparePartsRequest represents the request body for PATCH /tasks/:id/spare-parts.
type SetSparePartsRequest struct {
	Ready bool `json:"ready"`
}

// SetRemarksRequest represents the request body for PATCH /tasks/:id/remarks.
type SetRemarksRequest struct {
	Remarks string `json:"remarks"`
}
