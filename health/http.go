package health

import (
	"encoding/json"
	"net/http"
	"time"
)

// Response is the JSON body of the detailed health endpoint.
type Response struct {
	Status    string          `json:"status"`
	Timestamp string          `json:"timestamp"`
	Checks    []CheckResponse `json:"checks,omitempty"`
}

// CheckResponse is one check in a Response.
type CheckResponse struct {
	Name     string         `json:"name"`
	Status   string         `json:"status"`
	Message  string         `json:"message,omitempty"`
	Duration string         `json:"duration,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// NewResponse converts a Summary to its JSON form.
func NewResponse(s Summary) Response {
	resp := Response{
		Status:    s.Status.String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    make([]CheckResponse, 0, len(s.Checks)),
	}
	for _, r := range s.Checks {
		resp.Checks = append(resp.Checks, newCheckResponse(r.Name, r.Result))
	}
	return resp
}

func newCheckResponse(name string, r Result) CheckResponse {
	c := CheckResponse{
		Name:     name,
		Status:   r.Status.String(),
		Message:  r.Message,
		Duration: r.Duration.String(),
		Details:  r.Details,
	}
	if r.Error != nil {
		c.Error = r.Error.Error()
	}
	return c
}

// httpStatus maps degraded to 200: a degraded service still answers.
func httpStatus(s Status) int {
	if s == StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

// LivenessHandler always answers 200 "OK".
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler answers "OK", "DEGRADED" (both 200) or "UNHEALTHY" (503).
func ReadinessHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := agg.CheckAll(r.Context())

		body := "OK"
		switch s.Status {
		case StatusDegraded:
			body = "DEGRADED"
		case StatusUnhealthy:
			body = "UNHEALTHY"
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(httpStatus(s.Status))
		_, _ = w.Write([]byte(body))
	}
}

// DetailedHandler answers with a JSON Response. With a "check" query
// parameter only that check runs.
func DetailedHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if name := r.URL.Query().Get("check"); name != "" {
			res, err := agg.Check(r.Context(), name)
			if err != nil {
				w.WriteHeader(http.StatusNotFound)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
				return
			}
			w.WriteHeader(httpStatus(res.Status))
			_ = json.NewEncoder(w).Encode(newCheckResponse(name, res))
			return
		}

		s := agg.CheckAll(r.Context())
		w.WriteHeader(httpStatus(s.Status))
		_ = json.NewEncoder(w).Encode(NewResponse(s))
	}
}

// RegisterHandlers mounts /healthz, /readyz and /health on mux.
func RegisterHandlers(mux *http.ServeMux, agg *Aggregator) {
	mux.Handle("GET /healthz", LivenessHandler())
	mux.Handle("GET /readyz", ReadinessHandler(agg))
	mux.Handle("GET /health", DetailedHandler(agg))
}
