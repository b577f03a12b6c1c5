package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rgehrsitz/pvfin/internal/breakeven"
	"github.com/rgehrsitz/pvfin/internal/calculation"
	"github.com/rgehrsitz/pvfin/internal/compare"
	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/rgehrsitz/pvfin/internal/gridcost"
	"github.com/rgehrsitz/pvfin/internal/store"
	"github.com/rgehrsitz/pvfin/internal/transform"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	runIDHeader   = "X-Run-ID"
	maxBodyBytes  = 1 << 20
	maxSweepCells = 2500
)

// scenarioRequest carries a scenario whose omitted fields keep their defaults.
type scenarioRequest struct {
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	Parameters      domain.ModelParameters `json:"parameters"`
	Route           json.RawMessage        `json:"route,omitempty"`
	UseGridEstimate bool                   `json:"useGridEstimate"`
}

func (req scenarioRequest) scenario() (*domain.Scenario, error) {
	s := &domain.Scenario{
		Name:            req.Name,
		Description:     req.Description,
		Parameters:      req.Parameters,
		UseGridEstimate: req.UseGridEstimate,
	}
	if raw := bytes.TrimSpace(req.Route); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		route := domain.DefaultRouteParameters()
		if err := json.Unmarshal(raw, &route); err != nil {
			return nil, badRequest("invalid route: " + err.Error())
		}
		s.Route = &route
	}
	return s, nil
}

type sensitivityRequest struct {
	scenarioRequest
	Voltages  []decimal.Decimal `json:"voltages,omitempty"`
	Distances []decimal.Decimal `json:"distances,omitempty"`
}

// breakevenRequest is a scenario plus the input to solve for.
type breakevenRequest struct {
	scenarioRequest
	Target    breakeven.Target  `json:"target"`
	Goal      breakeven.Goal    `json:"goal"`
	TargetIRR decimal.Decimal   `json:"targetIRR"`
	Bounds    *breakeven.Bounds `json:"bounds,omitempty"`
}

// compareRequest holds raw scenarios so each one decodes over the defaults.
type compareRequest struct {
	Base         json.RawMessage   `json:"base"`
	Alternatives []json.RawMessage `json:"alternatives,omitempty"`
	Templates    []string          `json:"templates,omitempty"`
	Transforms   []string          `json:"transforms,omitempty"`
}

func decodeScenario(raw json.RawMessage) (*domain.Scenario, error) {
	req := scenarioRequest{Parameters: domain.DefaultModelParameters()}
	if raw := bytes.TrimSpace(raw); len(raw) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return nil, badRequest("invalid scenario: " + err.Error())
		}
	}
	return req.scenario()
}

type duplicateRequest struct {
	Name string `json:"name"`
}

// requestError is a client mistake reported as 400.
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error { return &requestError{msg: msg} }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	req := scenarioRequest{Parameters: domain.DefaultModelParameters()}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	sc, err := req.scenario()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	runID := uuid.New().String()
	result, err := s.engine.RunScenario(sc)
	if err != nil {
		s.log.Warn("model run failed", zap.String("run_id", runID), zap.Error(err))
		writeError(w, statusFor(err), err)
		return
	}
	s.log.Debug("model run complete", zap.String("run_id", runID), zap.String("lcoe", result.Summary.LCOE.StringFixed(2)))
	w.Header().Set(runIDHeader, runID)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGridCost(w http.ResponseWriter, r *http.Request) {
	route := domain.DefaultRouteParameters()
	if err := decodeJSON(r, &route); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	b, err := s.engine.EstimateGridCost(route)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	req := sensitivityRequest{scenarioRequest: scenarioRequest{Parameters: domain.DefaultModelParameters()}}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if len(req.Voltages) == 0 {
		req.Voltages = calculation.DefaultSweepVoltages()
	}
	if len(req.Distances) == 0 {
		req.Distances = calculation.DefaultSweepDistances()
	}
	if n := len(req.Voltages) * len(req.Distances); n > maxSweepCells {
		writeError(w, http.StatusBadRequest, badRequest(fmt.Sprintf("sweep of %d cells exceeds the limit of %d", n, maxSweepCells)))
		return
	}
	sc, err := req.scenario()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	baseline, _, err := s.engine.ResolveScenario(sc)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	analyzer := calculation.NewSensitivityAnalyzer(s.engine)
	if s.opts.SweepWorkers > 0 {
		analyzer.Workers = s.opts.SweepWorkers
	}

	runID := uuid.New().String()
	matrix, err := analyzer.SweepGrid(r.Context(), baseline, req.Voltages, req.Distances)
	if err != nil {
		s.log.Warn("sensitivity sweep failed", zap.String("run_id", runID), zap.Error(err))
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set(runIDHeader, runID)
	writeJSON(w, http.StatusOK, matrix)
}

func (s *Server) handleBreakEven(w http.ResponseWriter, r *http.Request) {
	req := breakevenRequest{scenarioRequest: scenarioRequest{Parameters: domain.DefaultModelParameters()}}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if req.Target == "" {
		writeError(w, http.StatusBadRequest, badRequest("target is required"))
		return
	}
	if req.Goal == "" {
		req.Goal = breakeven.GoalZeroNPV
	}
	sc, err := req.scenario()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	baseline, _, err := s.engine.ResolveScenario(sc)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	runID := uuid.New().String()
	result, err := breakeven.NewDefaultSolver(s.engine).Solve(r.Context(), breakeven.Request{
		Baseline:  baseline,
		Target:    req.Target,
		Goal:      req.Goal,
		TargetIRR: req.TargetIRR,
		Bounds:    req.Bounds,
	})
	if err != nil {
		s.log.Warn("break-even solve failed", zap.String("run_id", runID), zap.Error(err))
		writeError(w, statusFor(err), err)
		return
	}
	s.log.Debug("break-even solved", zap.String("run_id", runID), zap.String("target", string(result.Target)),
		zap.String("value", result.Value.String()), zap.Int("iterations", result.Iterations))
	w.Header().Set(runIDHeader, runID)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	base, err := decodeScenario(req.Base)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if base.Name == "" {
		base.Name = "Base"
	}

	ce := compare.NewCompareEngine(s.engine)
	opts := compare.CompareOptions{Templates: req.Templates}
	for i, raw := range req.Alternatives {
		alt, err := decodeScenario(raw)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		if alt.Name == "" {
			alt.Name = "Alternative " + strconv.Itoa(i+1)
		}
		opts.Scenarios = append(opts.Scenarios, alt)
	}
	for _, name := range req.Templates {
		if _, ok := ce.TemplateRegistry.Get(name); !ok {
			writeError(w, http.StatusBadRequest, badRequest("unknown template "+name))
			return
		}
	}
	registry := transform.NewTransformRegistry()
	for _, spec := range req.Transforms {
		t, err := registry.ParseTransformSpec(spec)
		if err != nil {
			writeError(w, http.StatusBadRequest, badRequest(err.Error()))
			return
		}
		opts.Transforms = append(opts.Transforms, t)
	}
	if len(opts.Scenarios)+len(opts.Templates)+len(opts.Transforms) == 0 {
		writeError(w, http.StatusBadRequest, badRequest("nothing to compare"))
		return
	}

	compSet, err := ce.Compare(r.Context(), base, opts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, compSet)
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("id"); id != "" {
		src, ok := gridcost.LookupSource(id)
		if !ok {
			writeError(w, http.StatusNotFound, errors.New("unknown source "+id))
			return
		}
		writeJSON(w, http.StatusOK, src)
		return
	}
	writeJSON(w, http.StatusOK, gridcost.Sources())
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ProjectFilter{Search: q.Get("search")}
	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	projects, err := s.store.ListProjects(r.Context(), filter)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.decodeProject(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	created, err := s.store.CreateProject(r.Context(), p)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.log.Info("project created", zap.String("id", created.ID), zap.String("name", created.Name))
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.decodeProject(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	p.ID = chi.URLParam(r, "id")
	updated, err := s.store.UpdateProject(r.Context(), p)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDuplicateProject(w http.ResponseWriter, r *http.Request) {
	var req duplicateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, badRequest("name is required"))
		return
	}
	copied, err := s.store.DuplicateProject(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, copied)
}

// handleRunProject re-runs a saved project and stores the fresh summary.
func (s *Server) handleRunProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := s.store.GetProject(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	result, err := s.engine.RunScenario(p.Scenario())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	p.Summary = &result.Summary
	if _, err := s.store.UpdateProject(ctx, p); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// decodeProject reads a scenario body, runs it and attaches the summary.
func (s *Server) decodeProject(r *http.Request) (*domain.SavedProject, error) {
	req := scenarioRequest{Parameters: domain.DefaultModelParameters()}
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, badRequest("name is required")
	}
	sc, err := req.scenario()
	if err != nil {
		return nil, err
	}
	result, err := s.engine.RunScenario(sc)
	if err != nil {
		return nil, err
	}
	return &domain.SavedProject{
		Name:            sc.Name,
		Description:     sc.Description,
		Parameters:      sc.Parameters,
		Route:           sc.Route,
		UseGridEstimate: sc.UseGridEstimate,
		Summary:         &result.Summary,
	}, nil
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("request body is empty")
		}
		return badRequest("invalid JSON: " + err.Error())
	}
	return nil
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, badRequest("invalid integer " + strconv.Quote(v))
	}
	return n, nil
}

// statusFor maps an error onto an HTTP status.
func statusFor(err error) int {
	var reqErr *requestError
	var calcErr *calculation.CalculationError
	var beErr *breakeven.BreakEvenError
	var trErr *transform.TransformError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest
	case store.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsValidationError(err), errors.As(err, &calcErr), errors.As(err, &beErr), errors.As(err, &trErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
