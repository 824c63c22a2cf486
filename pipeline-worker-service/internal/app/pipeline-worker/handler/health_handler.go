package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/entity"
	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/repository"
	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type HealthCheckHandler struct {
	pool        *pgxpool.Pool
	mongoClient *mongo.Client
	loadSvc     service.LoadServiceInterface
}

func NewHealthCheckHandler(
	pool *pgxpool.Pool,
	mongoClient *mongo.Client,
	loadSvc service.LoadServiceInterface,
) *HealthCheckHandler {
	return &HealthCheckHandler{
		pool:        pool,
		mongoClient: mongoClient,
		loadSvc:     loadSvc,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

func (h *HealthCheckHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	overallStatus := "healthy"

	if err := h.checkWarehouse(ctx); err != nil {
		checks["warehouse"] = "unhealthy: " + err.Error()
		overallStatus = "unhealthy"
	} else {
		checks["warehouse"] = "healthy"
	}

	if err := h.checkMongo(ctx); err != nil {
		checks["mongodb"] = "unhealthy: " + err.Error()
		overallStatus = "unhealthy"
	} else {
		checks["mongodb"] = "healthy"
	}

	// Состояние последнего прогона информационное: упавшая загрузка
	// не делает сам воркер нездоровым
	checks["last_run"] = h.lastRunStatus(ctx)

	response := HealthResponse{
		Status:    overallStatus,
		Checks:    checks,
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")

	if overallStatus != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

func (h *HealthCheckHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.checkWarehouse(ctx); err != nil {
		http.Error(w, "warehouse not ready", http.StatusServiceUnavailable)
		return
	}

	if err := h.checkMongo(ctx); err != nil {
		http.Error(w, "mongodb not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

func (h *HealthCheckHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("alive"))
}

func (h *HealthCheckHandler) checkWarehouse(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

func (h *HealthCheckHandler) checkMongo(ctx context.Context) error {
	return h.mongoClient.Ping(ctx, readpref.Primary())
}

func (h *HealthCheckHandler) lastRunStatus(ctx context.Context) string {
	run, err := h.loadSvc.LastRun(ctx)
	if err != nil {
		if err == repository.ErrRunNotFound {
			return "no runs yet"
		}
		return "unknown: " + err.Error()
	}

	if run.Status == entity.RunStatusFailed {
		return "failed: " + run.Error
	}
	return run.Status
}

func (h *HealthCheckHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/health/readiness", h.Readiness)
	mux.HandleFunc("/health/liveness", h.Liveness)
}
