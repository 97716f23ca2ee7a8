package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/njchilds90/gotaylor"
	"github.com/njchilds90/gotaylor/tool"
)

const maxBodyBytes = 1 << 20 // 1 MiB

var fallback = gologadapter.New()

func tracer() tracing.Trace {
	if t := gtrace.CoreTracer; t != nil {
		return t
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// recovered turns a panic in h into a 500 response.
func recovered(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				tracer().Errorf("panic in %s: %v\n%s", name, rec, string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		h(w, r)
	}
}

func newHandler(eng *gotaylor.Engine, defaults gotaylor.Request) http.Handler {
	mux := http.NewServeMux()

	// POST /tool
	mux.HandleFunc("/tool", recovered("/tool", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		defer r.Body.Close()

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		var req tool.ToolRequest
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if dec.More() {
			writeError(w, http.StatusBadRequest, "invalid JSON: trailing data")
			return
		}
		tracer().Debugf("tool call %s", req.Tool)
		writeJSON(w, http.StatusOK, tool.HandleToolCall(eng, req))
	}))

	// GET /series?function=&center=&order=
	mux.HandleFunc("/series", recovered("/series", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		req, err := seriesRequest(r, defaults)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		res, err := eng.Compute(req)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, gotaylor.ErrParse) || errors.Is(err, gotaylor.ErrEmptyFunction) {
				status = http.StatusUnprocessableEntity
			}
			writeJSON(w, status, struct {
				gotaylor.Result
				Error string `json:"error"`
			}{res, err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, res)
	}))

	// GET /functions
	mux.HandleFunc("/functions", recovered("/functions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, tool.Functions(eng))
	}))

	// GET /schema
	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, tool.ToolSpec())
	})

	// GET /health
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	return mux
}

func seriesRequest(r *http.Request, def gotaylor.Request) (gotaylor.Request, error) {
	q := r.URL.Query()
	req := def
	if f := q.Get("function"); f != "" {
		req.Function = f
	}
	if c := q.Get("center"); c != "" {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return req, fmt.Errorf("invalid center %q", c)
		}
		req.Center = v
	}
	if o := q.Get("order"); o != "" {
		v, err := strconv.Atoi(o)
		if err != nil {
			return req, fmt.Errorf("invalid order %q", o)
		}
		req.Order = v
	}
	return req, nil
}
