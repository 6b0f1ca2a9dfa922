package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/handler/health"
)

// sessionPath is the {id} parameter of every session route.
type sessionPath struct {
	ID string `path:"id" description:"Session ID returned on creation."`
}

type (
	answerOperation struct {
		sessionPath
		AnswerRequest
	}
	restartOperation struct {
		sessionPath
		RestartRequest
	}
	tierOperation struct {
		sessionPath
		TierRequest
	}
)

type specBuilder struct {
	r    *openapi3.Reflector
	errs []error
}

func (b *specBuilder) add(method, path string, setup func(oc openapi.OperationContext)) {
	oc, err := b.r.NewOperationContext(method, path)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("%s %s: %w", method, path, err))
		return
	}
	setup(oc)
	if err := b.r.AddOperation(oc); err != nil {
		b.errs = append(b.errs, fmt.Errorf("%s %s: %w", method, path, err))
	}
}

func newOpenAPISpec() (*openapi3.Spec, error) {
	b := &specBuilder{r: openapi3.NewReflector()}
	b.r.Spec.Info.Title = "Maths Quiz API"
	b.r.Spec.Info.Version = "0.1.0"
	b.r.Spec.Info.WithDescription("Hosts one-minute arithmetic quiz screens.")

	b.add(http.MethodGet, "/healthz", func(oc openapi.OperationContext) {
		oc.SetSummary("Health check")
		oc.SetDescription("Returns the health status of the preference backend.")
		oc.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusOK))
		oc.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	})

	b.add(http.MethodGet, "/api/highscore", func(oc openapi.OperationContext) {
		oc.SetSummary("High score")
		oc.SetDescription("Returns the persisted high score, 0 if none was recorded.")
		oc.AddRespStructure(HighScoreResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	})

	b.add(http.MethodPost, "/api/sessions", func(oc openapi.OperationContext) {
		oc.SetSummary("Start a quiz")
		oc.SetDescription("Creates a quiz screen at the given tier (easy, medium, hard) and starts the match.")
		oc.AddReqStructure(CreateSessionRequest{})
		oc.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	})

	b.add(http.MethodGet, "/api/sessions/{id}", func(oc openapi.OperationContext) {
		oc.SetSummary("Get screen")
		oc.SetDescription("Returns the current frame of the quiz screen.")
		oc.AddReqStructure(sessionPath{})
		oc.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	})

	b.add(http.MethodDelete, "/api/sessions/{id}", func(oc openapi.OperationContext) {
		oc.SetSummary("Close screen")
		oc.SetDescription("Stops the screen's timers, ends its streams and discards it.")
		oc.AddReqStructure(sessionPath{})
		oc.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	})

	b.add(http.MethodPost, "/api/sessions/{id}/answer", func(oc openapi.OperationContext) {
		oc.SetSummary("Submit answer")
		oc.SetDescription("Scores the answer text and deals the next question. Non-numeric text counts as wrong.")
		oc.AddReqStructure(answerOperation{})
		oc.AddRespStructure(AnswerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	})

	b.add(http.MethodPost, "/api/sessions/{id}/restart", func(oc openapi.OperationContext) {
		oc.SetSummary("Play again")
		oc.SetDescription("Resets the score and starts a fresh match, optionally at a new tier.")
		oc.AddReqStructure(restartOperation{})
		oc.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	})

	b.add(http.MethodPut, "/api/sessions/{id}/tier", func(oc openapi.OperationContext) {
		oc.SetSummary("Select difficulty")
		oc.SetDescription("Sets the tier used for the next question.")
		oc.AddReqStructure(tierOperation{})
		oc.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	})

	b.add(http.MethodGet, "/api/sessions/{id}/events", func(oc openapi.OperationContext) {
		oc.SetSummary("SSE frame stream")
		oc.SetDescription("Server-Sent Events stream of frames, one per timer tick or state change. " +
			"A closed event ends the stream when the screen is discarded.")
		oc.AddReqStructure(sessionPath{})
		oc.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
			openapi.WithContentType("text/event-stream"))
	})

	b.add(http.MethodGet, "/api/sessions/{id}/ws", func(oc openapi.OperationContext) {
		oc.SetSummary("WebSocket screen")
		oc.SetDescription("Upgrades to a WebSocket that pushes frames and accepts answer, restart and tier commands.")
		oc.AddReqStructure(sessionPath{})
		oc.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
			openapi.WithContentType("text/plain"))
	})

	return b.r.Spec, errors.Join(b.errs...)
}

func handleOpenAPI(logger *slog.Logger) http.HandlerFunc {
	spec, err := newOpenAPISpec()
	if err != nil {
		logger.Error("building openapi document", "error", err)
	}
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
