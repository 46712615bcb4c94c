package tests

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskflow/internal/adapter/http/dto"
	"taskflow/internal/adapter/http/handlers"
	"taskflow/internal/adapter/http/middleware"
	"taskflow/internal/app/parsing"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

var reference = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func newParseRouter(parser ports.TaskParser, exposeDetails bool) *gin.Engine {
	handler := handlers.NewParseHandler(parser, exposeDetails).WithClock(func() time.Time { return reference })

	router := gin.New()
	api := router.Group("/api", middleware.LanguageMiddleware())
	api.POST("/tasks/parse", handler.ParseTask)
	api.POST("/tasks/parse-transcript", handler.ParseTranscript)
	return router
}

type cannedGenerator struct {
	text string
	err  error
}

func (g cannedGenerator) Generate(context.Context, string) (string, error) {
	return g.text, g.err
}

func TestParseHandler_ParseTask_Success(t *testing.T) {
	parserMock := new(taskParserMock)
	parserMock.On("ParseOne", mock.Anything, "Call Rajeev tomorrow 5pm, urgent", reference).Return(domain.TaskCandidate{
		Name:     "Call Rajeev",
		Assignee: "Rajeev",
		DueDate:  "2026-10-20T17:00:00.000Z",
		Priority: domain.PriorityP1,
		Status:   domain.TaskStatusPending,
	}, nil).Once()

	rec := doRequest(newParseRouter(parserMock, false), http.MethodPost, "/api/tasks/parse", `{"input":"Call Rajeev tomorrow 5pm, urgent"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{
		"name":"Call Rajeev",
		"assignee":"Rajeev",
		"dueDate":"2026-10-20T17:00:00.000Z",
		"priority":"P1",
		"description":"",
		"status":"pending"
	}`, rec.Body.String())
	parserMock.AssertExpectations(t)
}

func TestParseHandler_ParseTask_ReferenceTimeOverride(t *testing.T) {
	override := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	parserMock := new(taskParserMock)
	parserMock.On("ParseOne", mock.Anything, "Standup notes", mock.MatchedBy(func(ref time.Time) bool {
		return ref.Equal(override)
	})).Return(domain.TaskCandidate{Name: "Standup notes"}, nil).Once()
	router := newParseRouter(parserMock, false)

	rec := doRequest(router, http.MethodPost, "/api/tasks/parse", `{"input":"Standup notes","referenceTime":"2026-01-05T08:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodPost, "/api/tasks/parse", `{"input":"Standup notes","referenceTime":"next monday"}`)
	requireAPIError(t, rec, http.StatusBadRequest, "referenceTime must be an RFC 3339 timestamp")
	parserMock.AssertExpectations(t)
}

func TestParseHandler_ParseTask_InputRequired(t *testing.T) {
	for _, body := range []string{`{}`, `{"input":"   "}`, `not json`} {
		parserMock := new(taskParserMock)

		rec := doRequest(newParseRouter(parserMock, false), http.MethodPost, "/api/tasks/parse", body)

		requireAPIError(t, rec, http.StatusBadRequest, "Input is required")
		parserMock.AssertNotCalled(t, "ParseOne", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestParseHandler_ParseTask_FailureHidesDetailsInProduction(t *testing.T) {
	parserMock := new(taskParserMock)
	parserMock.On("ParseOne", mock.Anything, mock.Anything, mock.Anything).
		Return(domain.TaskCandidate{}, fmt.Errorf("%w: googleai: quota exceeded", domain.ErrProvider)).Once()

	rec := doRequest(newParseRouter(parserMock, false), http.MethodPost, "/api/tasks/parse", `{"input":"Call Rajeev"}`)

	got := requireAPIError(t, rec, http.StatusInternalServerError, "Failed to parse natural language task. Please try rephrasing your input.")
	require.Equal(t, "provider_error", got.ErrDetails.Kind)
	require.Empty(t, got.ErrDetails.Details)
	parserMock.AssertExpectations(t)
}

func TestParseHandler_ParseTranscript_Success(t *testing.T) {
	parserMock := new(taskParserMock)
	parserMock.On("ParseMany", mock.Anything, "Aman you take the landing page by 10pm tonight").Return([]domain.TaskCandidate{
		{Name: "Take the landing page", Assignee: "Aman", DueDate: "10pm tonight", Priority: domain.PriorityP3, Status: domain.TaskStatusPending},
	}, nil).Once()

	rec := doRequest(newParseRouter(parserMock, false), http.MethodPost, "/api/tasks/parse-transcript", `{"transcript":"Aman you take the landing page by 10pm tonight"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []dto.TaskCandidate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "Aman", got[0].Assignee)
	require.Equal(t, "pending", got[0].Status)
	parserMock.AssertExpectations(t)
}

func TestParseHandler_ParseTranscript_EmptyResultIsEmptyArray(t *testing.T) {
	parserMock := new(taskParserMock)
	parserMock.On("ParseMany", mock.Anything, mock.Anything).Return([]domain.TaskCandidate{}, nil).Once()

	rec := doRequest(newParseRouter(parserMock, false), http.MethodPost, "/api/tasks/parse-transcript", `{"transcript":"small talk only"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestParseHandler_ParseTranscript_Required(t *testing.T) {
	for _, body := range []string{`{}`, `{"transcript":""}`, `{"transcript":"  \n "}`} {
		parserMock := new(taskParserMock)

		rec := doRequest(newParseRouter(parserMock, false), http.MethodPost, "/api/tasks/parse-transcript", body)

		requireAPIError(t, rec, http.StatusBadRequest, "Transcript is required")
		parserMock.AssertNotCalled(t, "ParseMany", mock.Anything, mock.Anything)
	}
}

// The handlers below run the real pipeline behind a canned provider reply.

func TestParsePipeline_SingleDefaultsApplied(t *testing.T) {
	parser := parsing.NewParser(cannedGenerator{text: "```json\n{\"name\":\"\",\"priority\":\"urgent\"}\n```"}, nil)

	rec := doRequest(newParseRouter(parser, true), http.MethodPost, "/api/tasks/parse", `{"input":"something vague"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{
		"name":"Unnamed task",
		"assignee":"Unassigned",
		"dueDate":"2026-10-20T09:30:00.000Z",
		"priority":"P3",
		"description":"",
		"status":"pending"
	}`, rec.Body.String())
}

func TestParsePipeline_FailureKinds(t *testing.T) {
	cases := []struct {
		name      string
		path      string
		body      string
		generator cannedGenerator
		message   string
		kind      string
	}{
		{
			name:      "prose around fence",
			path:      "/api/tasks/parse",
			body:      `{"input":"Call Rajeev"}`,
			generator: cannedGenerator{text: "Here is your task: {\"name\":\"x\"}"},
			message:   "Failed to parse natural language task. Please try rephrasing your input.",
			kind:      "malformed_response",
		},
		{
			name:      "empty completion",
			path:      "/api/tasks/parse",
			body:      `{"input":"Call Rajeev"}`,
			generator: cannedGenerator{text: ""},
			message:   "Failed to parse natural language task. Please try rephrasing your input.",
			kind:      "malformed_response",
		},
		{
			name:      "provider down",
			path:      "/api/tasks/parse-transcript",
			body:      `{"transcript":"Aman take the landing page"}`,
			generator: cannedGenerator{err: fmt.Errorf("%w: openai: %w", domain.ErrProvider, errors.New("503"))},
			message:   "Failed to process transcript",
			kind:      "provider_error",
		},
		{
			name:      "object instead of array",
			path:      "/api/tasks/parse-transcript",
			body:      `{"transcript":"Aman take the landing page"}`,
			generator: cannedGenerator{text: `{"name":"x","assignee":"y","dueDate":"z"}`},
			message:   "Failed to process transcript",
			kind:      "shape_error",
		},
		{
			name:      "missing assignee",
			path:      "/api/tasks/parse-transcript",
			body:      `{"transcript":"Someone take the landing page"}`,
			generator: cannedGenerator{text: `[{"name":"Landing page","dueDate":"tonight"}]`},
			message:   "Failed to process transcript",
			kind:      "missing_field",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newParseRouter(parsing.NewParser(tc.generator, nil), true)

			rec := doRequest(router, http.MethodPost, tc.path, tc.body)

			got := requireAPIError(t, rec, http.StatusInternalServerError, tc.message)
			require.Equal(t, tc.kind, got.ErrDetails.Kind)
			require.NotEmpty(t, got.ErrDetails.Details)
		})
	}
}
