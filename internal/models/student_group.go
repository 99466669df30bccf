package models

// StudentGroupMembership links a student to one academic-group code they
// belong to. A student carries at most one simple and one dual membership;
// the engine does not enforce that here; it is a property of the input
// data the planning assembly step trusts.
type StudentGroupMembership struct {
	StudentID string `db:"student_id" json:"student_id"`
	GroupCode string `db:"group_code" json:"group_code"`
}

// StudentSubjectEnrollment records whether a student is enrolled for lab
// planning purposes in one subject, and optionally overrides which
// academic-group code that student should be treated as belonging to for
// that subject only.
type StudentSubjectEnrollment struct {
	StudentID     string  `db:"student_id" json:"student_id"`
	SubjectID     string  `db:"subject_id" json:"subject_id"`
	Enrolled      bool    `db:"enrolled" json:"enrolled"`
	GroupOverride *string `db:"group_override" json:"group_override,omitempty"`
}
