// Package output renders command results as the JSON envelope printed
// on stdout: {"success":..., "data":..., "error":...}.
package output

import (
	"encoding/json"
	"errors"

	"github.com/vicentereig/line-cli/internal/rpc"
	"github.com/vicentereig/line-cli/internal/transport"
)

type Result struct {
	Success bool    `json:"success"`
	Data    any     `json:"data"`
	Error   *string `json:"error"`
	// Status is the HTTP status of a failed REST call.
	Status *int `json:"status,omitempty"`
	// Code is the exception code of a failed RPC call.
	Code *int32 `json:"code,omitempty"`
}

func Success(data any) string {
	return render(Result{Success: true, Data: data})
}

func Error(err error) string {
	errMsg := err.Error()
	r := Result{Error: &errMsg}

	var statusErr *transport.StatusError
	if errors.As(err, &statusErr) {
		r.Status = &statusErr.StatusCode
		// Pass the server's JSON error body through when there is one.
		var body any
		if json.Unmarshal(statusErr.Body, &body) == nil {
			r.Data = body
		}
	}
	var svcErr *rpc.ServiceError
	if errors.As(err, &svcErr) {
		r.Code = &svcErr.Code
	}
	return render(r)
}

func render(r Result) string {
	b, err := json.Marshal(r)
	if err != nil {
		msg := "failed to encode result: " + err.Error()
		b, _ = json.Marshal(Result{Error: &msg})
	}
	return string(b)
}
