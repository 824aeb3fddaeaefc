package worker

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aescanero/scicalc/internal/calcerr"
	"github.com/aescanero/scicalc/internal/engine"
)

// Request is one calculation read from the request stream
type Request struct {
	RequestID string `json:"request_id"`
	Operation string `json:"operation"`
	// OutputID prefixes chart file names, defaults to RequestID
	OutputID string `json:"output_id,omitempty"`
}

// ResultEvent is published to the result stream for a successful evaluation
type ResultEvent struct {
	RequestID string            `json:"request_id"`
	WorkerID  string            `json:"worker_id"`
	Operation string            `json:"operation"`
	Operator  string            `json:"operator"`
	Kind      string            `json:"kind"`
	Result    string            `json:"result"`
	Fields    map[string]string `json:"fields,omitempty"`
	ChartPath string            `json:"chart_path,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// ErrorEvent is published to the error stream for a failed evaluation
type ErrorEvent struct {
	RequestID string    `json:"request_id"`
	WorkerID  string    `json:"worker_id"`
	Operation string    `json:"operation"`
	Error     string    `json:"error"`
	ErrorKind string    `json:"error_kind"`
	Timestamp time.Time `json:"timestamp"`
}

// parseRequest parses a request from the "data" field of a stream message
func parseRequest(values map[string]interface{}) (*Request, error) {
	dataStr, ok := values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'data' field")
	}

	var request Request
	if err := json.Unmarshal([]byte(dataStr), &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request: %w", err)
	}

	if strings.TrimSpace(request.Operation) == "" {
		return nil, fmt.Errorf("request has no operation")
	}
	if request.RequestID == "" {
		request.RequestID = uuid.NewString()
	}
	if request.OutputID == "" {
		request.OutputID = request.RequestID
	}

	return &request, nil
}

func newResultEvent(workerID string, req *Request, res engine.Result, now time.Time) ResultEvent {
	event := ResultEvent{
		RequestID: req.RequestID,
		WorkerID:  workerID,
		Operation: req.Operation,
		Operator:  res.Operator,
		Kind:      string(res.Kind),
		Result:    res.String(),
		Timestamp: now.UTC(),
	}
	if res.Kind == engine.ResultRegression {
		event.Fields = make(map[string]string)
		for _, f := range res.Fields() {
			event.Fields[f.Name] = engine.FormatNumber(f.Value)
		}
	}
	if res.Kind == engine.ResultRender {
		event.ChartPath = res.Render.Path
	}
	return event
}

func newErrorEvent(workerID string, req *Request, err error, now time.Time) ErrorEvent {
	kind := calcerr.KindOf(err)
	msg := err.Error()
	if kind == calcerr.KindUnexpected {
		msg = "Unexpected error: " + msg
	}
	return ErrorEvent{
		RequestID: req.RequestID,
		WorkerID:  workerID,
		Operation: req.Operation,
		Error:     msg,
		ErrorKind: kind.String(),
		Timestamp: now.UTC(),
	}
}
