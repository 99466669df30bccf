package models

import "regexp"

var (
	simpleGroupPattern = regexp.MustCompile(`^[A-Za-z]\d{3}$`)
	dualGroupPattern   = regexp.MustCompile(`^[A-Za-z]{2}\d{3}$`)
)

// ClassifyGroupCode determines the GroupKind of an academic-group code by
// its pattern: one letter + 3 digits is simple, two letters + 3 digits is
// dual. Codes matching neither pattern classify as simple, the permissive
// default the rest of the pipeline tolerates rather than rejects.
func ClassifyGroupCode(code string) GroupKind {
	if dualGroupPattern.MatchString(code) {
		return GroupKindDual
	}
	if simpleGroupPattern.MatchString(code) {
		return GroupKindSimple
	}
	return GroupKindSimple
}

// NewAcademicGroup builds an AcademicGroup with its kind classified from
// the code.
func NewAcademicGroup(code string) AcademicGroup {
	return AcademicGroup{Code: code, Kind: ClassifyGroupCode(code)}
}

// AcademicGroupRecord is the persisted row backing one AcademicGroup.
type AcademicGroupRecord struct {
	ID        string `db:"id" json:"id"`
	Code      string `db:"code" json:"code"`
	SubjectID string `db:"subject_id" json:"subject_id"`
}
