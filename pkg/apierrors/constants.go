package apierrors

const (
	MsgFailListTask       = "errorListTask"
	MsgFailGetTask        = "failGetTask"
	MsgInvalidTaskID      = "invalidTaskID"
	MsgInvalidTaskPayload = "invalidTaskPayload"
	MsgInvalidTaskFilter  = "invalidTaskFilter"
	MsgTaskNotFound       = "taskNotFound"
	MsgFailCreateTask     = "failCreateTask"
	MsgFailCreateTasks    = "failCreateTasks"
	MsgFailUpdateTask     = "failUpdateTask"
	MsgFailDeleteTask     = "failDeleteTask"
	MsgFailTaskStats      = "failTaskStats"
	MsgFailListAssignees  = "failListAssignees"
	MsgInputRequired      = "inputRequired"
	MsgTranscriptRequired = "transcriptRequired"
	MsgInvalidReference   = "invalidReferenceTime"
	MsgFailParseTask      = "failParseTask"
	MsgFailTranscript     = "failParseTranscript"
	MsgTooManyRequests    = "tooManyRequests"
)
