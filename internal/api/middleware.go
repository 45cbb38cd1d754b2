package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/shelfmark/shelfmark-server/internal/metrics"
)

// EnvelopeVersion is the wire version of the response envelope. Bump
// only when the envelope structure itself changes in a way clients
// must detect.
const EnvelopeVersion = 1

// APIEnvelope wraps every response body. Success responses carry Data,
// simple error responses carry Error.
type APIEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload"`
	Error   string `json:"error,omitempty" doc:"Error message when success is false"`
}

// APIErrorEnvelope wraps detailed errors that carry a machine-readable
// code and optional details alongside the message.
type APIErrorEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Always false"`
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps all API responses in a versioned envelope.
// The version field is named "v" exactly; clients key their parsing
// off it.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if status >= "400" {
		// Detailed errors keep their code and details.
		if apiErr, ok := v.(*APIError); ok {
			if apiErr.Code != "" {
				return APIErrorEnvelope{
					Version: EnvelopeVersion,
					Success: false,
					Code:    apiErr.Code,
					Message: apiErr.Message,
					Details: apiErr.Details,
				}, nil
			}
			return APIEnvelope{
				Version: EnvelopeVersion,
				Success: false,
				Error:   apiErr.Message,
			}, nil
		}

		if err, ok := v.(error); ok {
			return APIEnvelope{
				Version: EnvelopeVersion,
				Success: false,
				Error:   err.Error(),
			}, nil
		}
	}

	return APIEnvelope{
		Version: EnvelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}

// metricsMiddleware records request count and duration for every
// request passing through the router.
func metricsMiddleware(recorder metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			recorder.RecordHTTPRequest(r.Method, r.URL.Path, ww.Status(), time.Since(start))
		})
	}
}
