package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"roomify/internal/app"
	"roomify/internal/domain"
	"roomify/internal/pricing"
)

type Handlers struct {
	T *app.TrainingService
	P *app.PricingService

	// DefaultCapacity applies when a request omits capacity.
	DefaultCapacity float64
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/model/train", h.train)
	s.mux.Get("/v1/model/metrics", h.modelMetrics)
	s.mux.Post("/v1/pricing/optimize", h.optimize)
	s.mux.Post("/v1/pricing/sensitivity", h.sensitivity)
	s.mux.Post("/v1/pricing/scenarios", h.scenarios)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeDomainError maps the error taxonomy onto problem+json statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Failed", ve.Error())
		return
	}
	var ide *domain.InsufficientDataError
	if errors.As(err, &ide) {
		writeProblem(w, http.StatusUnprocessableEntity, "Insufficient Data", ide.Error())
		return
	}
	if errors.Is(err, domain.ErrModelNotTrained) {
		writeProblem(w, http.StatusConflict, "Model Not Trained", "train the model before querying it")
		return
	}
	log.Error().Err(err).Msg("pricing request failed")
	writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// ---- request DTOs ----

type contextDTO struct {
	Date            string  `json:"date,omitempty"`
	Season          string  `json:"season"`
	DayType         string  `json:"day_type"`
	Holiday         bool    `json:"holiday"`
	CompetitorPrice float64 `json:"competitor_price"`
}

// toDomain parses the wire context. The API rejects out-of-domain
// categoricals outright; lenient defaulting is for dataset loads only.
func (d contextDTO) toDomain() (domain.Context, error) {
	season, ok := domain.ParseSeason(d.Season)
	if !ok {
		return domain.Context{}, &domain.ValidationError{Field: "season", Reason: "must be one of winter/spring/summer/fall"}
	}
	dayType, ok := domain.ParseDayType(d.DayType)
	if !ok {
		return domain.Context{}, &domain.ValidationError{Field: "day_type", Reason: "must be weekday or weekend"}
	}
	c := domain.Context{
		Season:          season,
		DayType:         dayType,
		Holiday:         d.Holiday,
		CompetitorPrice: d.CompetitorPrice,
	}
	if d.Date != "" {
		t, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			return domain.Context{}, &domain.ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
		}
		c.Date = t
	}
	return c, nil
}

func (h *Handlers) capacityOr(v float64) float64 {
	if v > 0 {
		return v
	}
	return h.DefaultCapacity
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return false
	}
	return true
}

// ---- handlers ----

type trainRequest struct {
	Capacity float64 `json:"capacity"`
}

func (h *Handlers) train(w http.ResponseWriter, r *http.Request) {
	var req trainRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}
	diag, err := h.T.Train(r.Context(), h.capacityOr(req.Capacity))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, diag)
}

func (h *Handlers) modelMetrics(w http.ResponseWriter, r *http.Request) {
	diag, err := h.P.Diagnostics()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	etag, body := calcETagAndBody(diag)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write model metrics body")
	}
}

type optimizeRequest struct {
	contextDTO
	PriceMin float64 `json:"price_min"`
	PriceMax float64 `json:"price_max"`
	Step     float64 `json:"step"`
	Capacity float64 `json:"capacity"`
}

func (h *Handlers) optimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := req.toDomain()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	res, err := h.P.Optimize(r.Context(), c, pricing.Grid{Min: req.PriceMin, Max: req.PriceMax, Step: req.Step}, h.capacityOr(req.Capacity))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type sensitivityRequest struct {
	contextDTO
	OwnPrice  float64   `json:"own_price"`
	Dimension string    `json:"dimension"`
	Values    []float64 `json:"values"`
	Capacity  float64   `json:"capacity"`
}

type elasticityDTO struct {
	FromPrice  float64 `json:"from_price"`
	ToPrice    float64 `json:"to_price"`
	Elasticity float64 `json:"elasticity"`
	Undefined  bool    `json:"undefined,omitempty"`
}

type sensitivityResponse struct {
	Dimension  string               `json:"dimension"`
	Points     []pricing.SweepPoint `json:"points"`
	Elasticity []elasticityDTO      `json:"elasticity,omitempty"`
}

func (h *Handlers) sensitivity(w http.ResponseWriter, r *http.Request) {
	var req sensitivityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := req.toDomain()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dim := pricing.SweepDimension(req.Dimension)
	values := req.Values
	// categorical sweeps default to their full domain
	if len(values) == 0 {
		switch dim {
		case pricing.SweepSeason:
			values = pricing.SeasonSweep()
		case pricing.SweepDayType:
			values = pricing.DayTypeSweep()
		}
	}

	points, els, err := h.P.Sensitivity(r.Context(), c, req.OwnPrice, dim, values, h.capacityOr(req.Capacity))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := sensitivityResponse{Dimension: req.Dimension, Points: points}
	for _, e := range els {
		resp.Elasticity = append(resp.Elasticity, elasticityDTO{
			FromPrice:  e.FromPrice,
			ToPrice:    e.ToPrice,
			Elasticity: e.Elasticity,
			Undefined:  e.Err != nil,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type scenarioDTO struct {
	Name string `json:"name"`
	contextDTO
	PriceMin float64 `json:"price_min"`
	PriceMax float64 `json:"price_max"`
	Step     float64 `json:"step"`
}

type scenariosRequest struct {
	Scenarios []scenarioDTO `json:"scenarios"`
	Capacity  float64       `json:"capacity"`
}

type scenarioResultDTO struct {
	Name   string                     `json:"name"`
	Result *domain.OptimizationResult `json:"result,omitempty"`
	Error  string                     `json:"error,omitempty"`
}

func (h *Handlers) scenarios(w http.ResponseWriter, r *http.Request) {
	var req scenariosRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Scenarios) == 0 {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Failed", "scenarios must not be empty")
		return
	}

	batch := make([]pricing.Scenario, 0, len(req.Scenarios))
	for _, sc := range req.Scenarios {
		c, err := sc.toDomain()
		if err != nil {
			writeDomainError(w, err)
			return
		}
		batch = append(batch, pricing.Scenario{
			Name:    sc.Name,
			Context: c,
			Grid:    pricing.Grid{Min: sc.PriceMin, Max: sc.PriceMax, Step: sc.Step},
		})
	}

	results, err := h.P.Scenarios(r.Context(), batch, h.capacityOr(req.Capacity))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]scenarioResultDTO, len(results))
	for i, res := range results {
		out[i] = scenarioResultDTO{Name: res.Name, Result: res.Result}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
		}
	}
	writeJSON(w, http.StatusOK, out)
}
