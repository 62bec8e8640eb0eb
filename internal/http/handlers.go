package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"bikeshare/internal/amqp"
	"bikeshare/internal/core"
	"bikeshare/internal/export"
	"bikeshare/internal/log"
	"bikeshare/internal/metrics"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady reports whether the datasets are loaded and templates parsed.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.reporter != nil && s.reporter.Ready() {
		checks["dataset"] = "ok"
	} else {
		checks["dataset"] = "failed: " + core.ErrDataUnavailable.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}

	checks["asset"] = s.asset != nil
	checks["async_reports"] = s.queue != nil
	checks["rate_limiter"] = map[string]interface{}{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	writeJSON(w, httpStatus, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleIndex renders the full dashboard page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	if s.templates == nil {
		s.templateMissing(w, r)
		return
	}

	rep, err := s.report(r, r.URL.Query(), surfaceHTML)
	if err != nil {
		s.reportFailed(w, r, err)
		return
	}

	data := pageData{
		Report:       newReportView(rep),
		HasAsset:     s.asset != nil,
		QueueEnabled: s.queue != nil,
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Index template execution failed",
			log.FieldError, err,
			log.FieldOperation, log.OpRender)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleReportPartial renders the report section for an HTMX swap.
func (s *Server) handleReportPartial(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	if s.templates == nil {
		s.templateMissing(w, r)
		return
	}

	rep, err := s.report(r, r.URL.Query(), surfaceHTML)
	if err != nil {
		s.reportFailed(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "report", newReportView(rep)); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Report template execution failed",
			log.FieldError, err,
			log.FieldOperation, log.OpRender)
		InternalServerError("Could not render the report").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerRangeChanged(rep.Range).
		PushRange(rep.Range).
		BodyHTML(buf.String()).
		Write(w)
}

// handleReportAPI returns the report as JSON for the charts.
func (s *Server) handleReportAPI(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	rep, err := s.report(r, r.URL.Query(), surfaceAPI)
	if err != nil {
		writeJSON(w, errorStatus(err), map[string]string{"error": publicError(err)})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// handleExport streams the report as an xlsx workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	rep, err := s.report(r, r.URL.Query(), surfaceXLSX)
	if err != nil {
		http.Error(w, publicError(err), errorStatus(err))
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, rep); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Workbook export failed",
			log.FieldError, err,
			log.FieldOperation, log.OpExport,
			log.FieldRangeStart, rep.Range.Start.String(),
			log.FieldRangeEnd, rep.Range.End.String())
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", contentDisposition(export.FileName(rep.Range)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// handleEnqueueReport publishes an asynchronous report request.
func (s *Server) handleEnqueueReport(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if s.queue == nil {
		ServiceUnavailableError("Asynchronous reports are not enabled").Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	logger := log.FromContext(ctx)

	bounds, err := s.reporter.Bounds(ctx)
	if err != nil {
		ErrorResponse(errorStatus(err), publicError(err)).Write(w)
		return
	}
	rng := s.resolveRange(ctx, r.Form, bounds)

	req := amqp.NewReportRequest(rng)
	if err := s.queue.PublishReportRequest(ctx, req); err != nil {
		s.recorder.IncQueued(metrics.OutcomeError)
		logger.ErrorContext(ctx, "Failed to queue report request",
			log.FieldError, err,
			log.FieldOperation, log.OpEnqueue,
			log.FieldReportID, req.ID.String())
		ServiceUnavailableError("Could not queue the report, try again later").
			Notify(NotificationError, "Could not queue the report").
			Write(w)
		return
	}
	s.recorder.IncQueued(metrics.OutcomeOK)
	logger.InfoContext(ctx, "Report request queued",
		log.FieldReportID, req.ID.String(),
		log.FieldRangeStart, rng.Start.String(),
		log.FieldRangeEnd, rng.End.String())

	if wantsJSON(r) {
		writeJSON(w, http.StatusAccepted, map[string]interface{}{
			"id":    req.ID.String(),
			"range": rng,
		})
		return
	}
	NewHTMXResponse().
		Status(http.StatusAccepted).
		TriggerReportQueued(req.ID.String(), rng).
		Notify(NotificationSuccess, "Report queued").
		BodyHTML(`<div class="success">Report <code>` + template.HTMLEscapeString(req.ID.String()) +
			`</code> queued for ` + template.HTMLEscapeString(rng.String()) + `</div>`).
		Write(w)
}

// handleAsset serves the optional sidebar image.
func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	if s.asset == nil {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Asset requested but not configured")
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", s.asset.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, s.asset.Name, s.asset.ModTime, bytes.NewReader(s.asset.Data))
}

// report resolves the requested range against the dataset bounds and
// computes the report for it.
func (s *Server) report(r *http.Request, values url.Values, surface string) (core.Report, error) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	bounds, err := s.reporter.Bounds(ctx)
	if err != nil {
		return core.Report{}, err
	}
	return s.reporter.Report(ctx, s.resolveRange(ctx, values, bounds), surface)
}

func (s *Server) resolveRange(ctx context.Context, values url.Values, bounds core.DateRange) core.DateRange {
	params := ParseRangeParams(values)
	rng, err := params.Resolve(bounds)
	if err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Invalid date range, using dataset bounds",
			log.FieldError, err,
			"start", params.Start,
			"end", params.End)
	}
	return rng
}

func (s *Server) reportFailed(w http.ResponseWriter, r *http.Request, err error) {
	log.FromContext(r.Context()).ErrorContext(r.Context(), "Report failed",
		log.FieldError, err,
		log.FieldOperation, log.OpReport)
	ErrorResponse(errorStatus(err), publicError(err)).Write(w)
}

func (s *Server) templateMissing(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded",
		log.FieldPath, r.URL.Path,
		log.FieldComponent, log.ComponentTemplate)
	http.Error(w, "templates not loaded", http.StatusInternalServerError)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func publicError(err error) string {
	switch {
	case errors.Is(err, core.ErrDataUnavailable):
		return "Dataset unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return "Report timed out"
	default:
		return "Internal error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
