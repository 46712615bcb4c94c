package dto

type ParseTaskRequest struct {
	Input         string  `json:"input"`
	ReferenceTime *string `json:"referenceTime"`
}

type ParseTranscriptRequest struct {
	Transcript string `json:"transcript"`
}

// TaskCandidate is a parsed task that has not been stored yet.
type TaskCandidate struct {
	Name        string `json:"name"`
	Assignee    string `json:"assignee"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
	Status      string `json:"status"`
}
