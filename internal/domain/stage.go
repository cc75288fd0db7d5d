package domain

// Stage represents one step of the fixed repair workflow.
type Stage string

const (
	StageAssessment Stage = "ASSESSMENT"
	StageMetalwork  Stage = "METALWORK"
	StagePainting   Stage = "PAINTING"
	StageDelivery   Stage = "DELIVERY"
	StageFinished   Stage = "FINISHED"
)

// StageOrder is the fixed workflow order. FINISHED is terminal.
var StageOrder = []Stage{
	StageAssessment,
	StageMetalwork,
	StagePainting,
	StageDelivery,
	StageFinished,
}

// StagePermissions maps each stage to the roles allowed to close it.
// Adding a role or stage is a data change, not new branching.
var StagePermissions = map[Stage][]Role{
	StageAssessment: {RoleConsultant, RoleManager},
	StageMetalwork:  {RoleMetalworker, RoleConsultant, RoleManager},
	StagePainting:   {RolePainter, RoleConsultant, RoleManager},
	StageDelivery:   {RoleConsultant, RoleManager},
	StageFinished:   {},
}

// IsTerminal returns true if no stage follows this one.
func (s Stage) IsTerminal() bool {
	return s == StageFinished
}

// IsValid checks if the stage is one of the allowed values.
func (s Stage) IsValid() bool {
	switch s {
	case StageAssessment, StageMetalwork, StagePainting, StageDelivery, StageFinished:
		return true
	default:
		return false
	}
}

// Next returns the stage immediately following s in StageOrder.
// The second return value is false for FINISHED and unknown stages.
func (s Stage) Next() (Stage, bool) {
	for i, stage := range StageOrder {
		if stage == s && i < len(StageOrder)-1 {
			return StageOrder[i+1], true
		}
	}
	return s, false
}

// CanClose reports whether the role may close this stage.
func (s Stage) CanClose(role Role) bool {
	for _, r := range StagePermissions[s] {
		if r == role {
			return true
		}
	}
	return false
}
