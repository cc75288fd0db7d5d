package domain

import "time"

// StageEntry is one interval of the task's append-only stage history.
// An entry with a nil EndedAt is the currently open interval.
type StageEntry struct {
	ID        string
	TaskID    string
	Stage     Stage
	Handler   string
	StartedAt time.Time
	EndedAt   *time.Time
}

// IsOpen returns true while the interval has not been closed.
func (e *StageEntry) IsOpen() bool {
	return e.EndedAt == nil
}

// RepairTask represents one vehicle's repair job moving through the workshop.
type RepairTask struct {
	ID                 string
	ShopID             string
	LicensePlate       string
	ContactPerson      string
	InsuranceCompany   string
	AssessmentAmount   int64
	ExpectedDeliveryAt time.Time
	CurrentStage       Stage
	SparePartsReady    bool
	Remarks            string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// History is ordered by StartedAt; at most one entry is open, and none
	// once the task is FINISHED.
	History []StageEntry
}

// OpenEntry returns the currently open history entry, or nil when the
// history is fully closed (finished task, or history not loaded).
func (t *RepairTask) OpenEntry() *StageEntry {
	for i := len(t.History) - 1; i >= 0; i-- {
		if t.History[i].IsOpen() {
			return &t.History[i]
		}
	}
	return nil
}

// IsFinished returns true once the task has reached the terminal stage.
func (t *RepairTask) IsFinished() bool {
	return t.CurrentStage.IsTerminal()
}

// CompletionTime returns the instant the task finished, or now for tasks
// still in progress. The SLA rules judging overall turnaround compare
// against this value.
func (t *RepairTask) CompletionTime(now time.Time) time.Time {
	if !t.IsFinished() || len(t.History) == 0 {
		return now
	}
	last := t.History[len(t.History)-1]
	if last.EndedAt == nil {
		return now
	}
	return *last.EndedAt
}

// AssessmentClosedAt returns the instant the assessment stage was closed,
// or now while it is still open.
func (t *RepairTask) AssessmentClosedAt(now time.Time) time.Time {
	for _, e := range t.History {
		if e.Stage == StageAssessment && e.EndedAt != nil {
			return *e.EndedAt
		}
	}
	return now
}

// NewRepairTask constructs a task in the ASSESSMENT stage with a single
// open history entry owned by the registrant.
func NewRepairTask(shopID, plate, contact, insurer string, amount int64, expectedDeliveryAt time.Time, remarks, registrant string, now time.Time) *RepairTask {
	return &RepairTask{
		ShopID:             shopID,
		LicensePlate:       plate,
		ContactPerson:      contact,
		InsuranceCompany:   insurer,
		AssessmentAmount:   amount,
		ExpectedDeliveryAt: expectedDeliveryAt,
		CurrentStage:       StageAssessment,
		SparePartsReady:    false,
		Remarks:            remarks,
		CreatedAt:          now,
		History: []StageEntry{{
			Stage:     StageAssessment,
			Handler:   registrant,
			StartedAt: now,
		}},
	}
}

// Advance moves the task to the next stage in StageOrder: the open history
// entry is closed at now and, unless the next stage is terminal, a new open
// entry is appended for the acting handler. The task is left untouched when
// the role may not close the current stage or the task is already finished.
func (t *RepairTask) Advance(role Role, handler string, now time.Time) error {
	if t.IsFinished() {
		return ErrTaskFinished
	}
	if !t.CurrentStage.CanClose(role) {
		return ErrPermissionDenied
	}

	next, ok := t.CurrentStage.Next()
	if !ok {
		return ErrTaskFinished
	}

	if open := t.OpenEntry(); open != nil {
		closed := now
		open.EndedAt = &closed
	}
	if !next.IsTerminal() {
		t.History = append(t.History, StageEntry{
			TaskID:    t.ID,
			Stage:     next,
			Handler:   handler,
			StartedAt: now,
		})
	}
	t.CurrentStage = next
	return nil
}
