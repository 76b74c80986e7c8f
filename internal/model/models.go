package model

import "time"

// ImportRole is the role a caller declares for an import run. It is derived
// by the HTTP layer from the user's role flags, never inside the engine.
type ImportRole string

const (
	RoleCoach ImportRole = "coach"
	RoleLead  ImportRole = "lead"
	RoleAdmin ImportRole = "admin"
)

// User is a dashboard account with role flags.
type User struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	IsAdmin   bool       `json:"isAdmin"`
	IsCoach   bool       `json:"isCoach"`
	IsLead    bool       `json:"isLead"`
	IsManager bool       `json:"isManager"`
	CreatedAt time.Time  `json:"createdAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Engineer is the person being evaluated, not a system role.
type Engineer struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	LeadUserID *int64    `json:"leadUserId,omitempty"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CoachAssignment pairs an engineer with a coach. The active assignment is
// the one with is_active set and no end date.
type CoachAssignment struct {
	ID          int64      `json:"id"`
	EngineerID  int64      `json:"engineerId"`
	CoachUserID int64      `json:"coachUserId"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	IsActive    bool       `json:"isActive"`
}

// Evaluation is one coaching evaluation for an (engineer, month) pair.
// EvaluationDate is always the first day of the month.
type Evaluation struct {
	ID             int64      `json:"id"`
	EngineerID     int64      `json:"engineerId"`
	CoachUserID    int64      `json:"coachUserId"`
	EvaluationDate time.Time  `json:"evaluationDate"`
	DeletedAt      *time.Time `json:"deletedAt,omitempty"`
}

// CaseFields are the seven tri-state quality attributes tracked per case.
// nil means the attribute was not assessed.
type CaseFields struct {
	KBPotential            *bool `json:"kbPotential"`
	ArticleLinked          *bool `json:"articleLinked"`
	ArticleImproved        *bool `json:"articleImproved"`
	ImprovementOpportunity *bool `json:"improvementOpportunity"`
	ArticleCreated         *bool `json:"articleCreated"`
	CreateOpportunity      *bool `json:"createOpportunity"`
	RelevantLink           *bool `json:"relevantLink"`
}

// CaseEvaluation is one case slot within an evaluation. Slots are
// pre-allocated with an empty CaseID; a slot with a CaseID holds real data.
type CaseEvaluation struct {
	ID           int64      `json:"id"`
	EvaluationID int64      `json:"evaluationId"`
	CaseNumber   int        `json:"caseNumber"`
	CaseID       string     `json:"caseId"`
	CaseFields
	Notes     string     `json:"notes,omitempty"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}
