package parsing

import (
	"fmt"
	"time"
)

const singleTaskPrompt = `You are a task parsing expert. Extract structured task information from natural language input and respond with valid JSON only.

Parse the following natural language task input and extract structured information. Return a JSON object with the following fields:
- name: The main task description/action
- assignee: The person assigned to the task (if not specified, use "Unassigned")
- dueDate: The due date and time in ISO 8601 format (if relative like "tomorrow" or "next week", calculate the actual date)
- priority: One of P1 (critical), P2 (high), P3 (medium), P4 (low). Default to P3 if not specified.
- description: Additional context or details (optional)

Current date and time: %s

Task input: "%s"

Return only a valid JSON object.`

const transcriptPrompt = `You are a task extraction system. Extract tasks from the following meeting transcript.

Rules:
1. Return ONLY a JSON array, nothing else
2. Each task must have exactly these fields: name, assignee, dueDate, priority
3. Priority must be one of: P1, P2, P3, P4 (default to P3)
4. Do not include any explanations or additional text

Example Input:
"Aman you take the landing page by 10pm tomorrow. Rajeev you take care of client follow-up by Wednesday."

Example Output:
[{"name":"Take the landing page","assignee":"Aman","dueDate":"10:00 PM, Tomorrow","priority":"P3"},{"name":"Client follow-up","assignee":"Rajeev","dueDate":"Wednesday","priority":"P3"}]

Now parse this transcript (remember, respond with ONLY the JSON array):
%s`

// isoMillis matches the ISO-8601 form used for due dates: UTC with
// millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z"

func formatISO(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// The user text is interpolated verbatim.
func buildSingleTaskPrompt(input string, reference time.Time) string {
	return fmt.Sprintf(singleTaskPrompt, formatISO(reference), input)
}

func buildTranscriptPrompt(transcript string) string {
	return fmt.Sprintf(transcriptPrompt, transcript)
}
