package models

// Delegation grants ToNationalID the authority to act for another party
// within a permission scope. Resolved per request from the delegation
// service; not owned by the worker.
type Delegation struct {
	ToNationalID string `json:"toNationalId"`
	SubjectID    string `json:"subjectId"`
}
