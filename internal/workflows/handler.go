package workflows

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/estimator"
	"github.com/2beens/fitcoach/internal/fitness"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type mealEstimator interface {
	EstimateMeal(ctx context.Context, image []byte, mimeType string) (*estimator.Estimate, error)
}

type TodayResponse struct {
	Date   string          `json:"date"`
	Plan   fitness.DayPlan `json:"plan"`
	Streak int             `json:"streak"`
}

type OneRepMaxResponse struct {
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	OneRepMax int     `json:"oneRepMax"`
}

type workoutRequest struct {
	Exercises map[string]fitness.LogValue `json:"exercises"`
}

type weightRequest struct {
	Weight float64 `json:"weight"`
}

type nutritionRequest struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
}

type Handler struct {
	dispatcher     *Dispatcher
	estimator      mealEstimator
	metricsManager *metrics.Manager
}

func NewHandler(dispatcher *Dispatcher, est mealEstimator, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		dispatcher:     dispatcher,
		estimator:      est,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/coach/today", handler.HandleToday).Methods("GET", "OPTIONS").Name("coach-today")
	r.HandleFunc("/coach/onerepmax", handler.HandleOneRepMax).Methods("GET", "OPTIONS").Name("coach-onerepmax")
	r.HandleFunc("/workouts", handler.HandleWorkout).Methods("POST", "OPTIONS").Name("log-workout")
	r.HandleFunc("/weight", handler.HandleWeight).Methods("POST", "OPTIONS").Name("log-weight")
	r.HandleFunc("/nutrition", handler.HandleNutrition).Methods("POST", "OPTIONS").Name("log-nutrition")
	r.HandleFunc("/meals/estimate", handler.HandleEstimateMeal).Methods("POST", "OPTIONS").Name("estimate-meal")
	r.HandleFunc("/meals", handler.HandleLogMeal).Methods("POST", "OPTIONS").Name("log-meal")
	r.HandleFunc("/progress", handler.HandleProgress).Methods("GET", "OPTIONS").Name("progress")
}

func (handler *Handler) HandleToday(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.today")
	defer span.End()

	doc, err := handler.dispatcher.Document(ctx, auth.FromContext(ctx))
	if err != nil {
		writeError(w, "get today plan", err)
		return
	}

	now := handler.dispatcher.Now()
	pkg.WriteJSON(w, TodayResponse{
		Date:   fitness.FormatDate(now),
		Plan:   fitness.PlanFor(now.Weekday(), doc.PRs),
		Streak: fitness.StreakFor(doc, now),
	}, http.StatusOK)
}

func (handler *Handler) HandleOneRepMax(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.oneRepMax")
	defer span.End()

	weight, err := strconv.ParseFloat(r.URL.Query().Get("weight"), 64)
	if err != nil {
		http.Error(w, "error, invalid weight", http.StatusBadRequest)
		return
	}
	reps, err := strconv.Atoi(r.URL.Query().Get("reps"))
	if err != nil {
		http.Error(w, "error, invalid reps", http.StatusBadRequest)
		return
	}

	oneRepMax, ok := fitness.EstimateOneRepMax(weight, reps)
	if !ok {
		http.Error(w, "error, weight and reps must be positive", http.StatusBadRequest)
		return
	}

	pkg.WriteJSON(w, OneRepMaxResponse{
		Weight:    weight,
		Reps:      reps,
		OneRepMax: oneRepMax,
	}, http.StatusOK)
}

func (handler *Handler) HandleWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workflow.workout")
	defer span.End()

	var req workoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	handler.dispatch(ctx, w, Workout, Input{Exercises: req.Exercises})
}

func (handler *Handler) HandleWeight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workflow.weight")
	defer span.End()

	var req weightRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	handler.dispatch(ctx, w, Weight, Input{Weight: req.Weight})
}

func (handler *Handler) HandleNutrition(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workflow.nutrition")
	defer span.End()

	var req nutritionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	handler.dispatch(ctx, w, Nutrition, Input{Calories: req.Calories, Protein: req.Protein})
}

// HandleEstimateMeal only estimates; nothing is logged until the user confirms via HandleLogMeal.
func (handler *Handler) HandleEstimateMeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.estimate")
	defer span.End()

	if !auth.FromContext(ctx).Authenticated {
		writeError(w, "estimate meal", ErrNotAuthenticated)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, estimator.MaxImageSize+1<<20)
	if err := r.ParseMultipartForm(estimator.MaxImageSize); err != nil {
		log.Tracef("estimate meal, parse multipart form: %s", err)
		http.Error(w, "error, expected multipart form with an image", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "error, image missing", http.StatusBadRequest)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	image, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "error, read image", http.StatusBadRequest)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(image)
	}
	span.SetAttributes(attribute.String("mime_type", mimeType))

	begin := time.Now()
	estimate, err := handler.estimator.EstimateMeal(ctx, image, mimeType)
	handler.countEstimation(time.Since(begin), err)
	if err != nil {
		if StatusCode(err) == http.StatusInternalServerError {
			// upstream failures are not ours
			log.Errorf("estimate meal: %s", err)
			http.Error(w, "error, meal estimation failed", http.StatusBadGateway)
			return
		}
		writeError(w, "estimate meal", err)
		return
	}

	pkg.WriteJSON(w, estimate, http.StatusOK)
}

func (handler *Handler) HandleLogMeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workflow.meal")
	defer span.End()

	var estimate estimator.Estimate
	if !decodeJSON(w, r, &estimate) {
		return
	}

	handler.dispatch(ctx, w, Meal, Input{Meal: &estimate})
}

func (handler *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workflow.progress")
	defer span.End()

	handler.dispatch(ctx, w, Progress, Input{})
}

func (handler *Handler) dispatch(ctx context.Context, w http.ResponseWriter, name Name, in Input) {
	result, err := handler.dispatcher.Dispatch(ctx, auth.FromContext(ctx), name, in)
	if err != nil {
		writeError(w, string(name), err)
		return
	}
	pkg.WriteJSON(w, result, http.StatusOK)
}

func (handler *Handler) countEstimation(took time.Duration, err error) {
	if handler.metricsManager == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "failed"
	}
	handler.metricsManager.CounterEstimations.WithLabelValues(result).Inc()
	handler.metricsManager.HistEstimationDuration.Observe(took.Seconds())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Tracef("unmarshal json params: %s", err)
		http.Error(w, "error, invalid json body", http.StatusBadRequest)
		return false
	}
	return true
}

// StatusCode maps workflow, estimator and store errors to HTTP status codes.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrRestDay),
		errors.Is(err, ErrUnknownWorkflow),
		errors.Is(err, estimator.ErrInvalidImage):
		return http.StatusBadRequest
	case errors.Is(err, estimator.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, estimator.ErrMalformedEstimate):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, op string, err error) {
	code := StatusCode(err)
	switch code {
	case http.StatusInternalServerError:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "error, "+op+" failed", code)
	case http.StatusUnauthorized:
		http.Error(w, "no can do", code)
	default:
		log.Debugf("%s: %s", op, err)
		http.Error(w, err.Error(), code)
	}
}
