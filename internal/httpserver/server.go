package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/fdg312/fuel-score/internal/auth"
	"github.com/fdg312/fuel-score/internal/blob"
	"github.com/fdg312/fuel-score/internal/config"
	"github.com/fdg312/fuel-score/internal/intakes"
	"github.com/fdg312/fuel-score/internal/nutrition"
	"github.com/fdg312/fuel-score/internal/profiles"
	"github.com/fdg312/fuel-score/internal/reports"
	"github.com/fdg312/fuel-score/internal/scorecache"
	"github.com/fdg312/fuel-score/internal/scores"
	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/fdg312/fuel-score/internal/storage/memory"
	"github.com/fdg312/fuel-score/internal/storage/postgres"
	"github.com/fdg312/fuel-score/internal/training"
)

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	cache          scorecache.Cache
	blobStore      blob.Store
	authMiddleware *auth.Middleware
}

// New создаёт сервер, подключает хранилища и регистрирует маршруты
func New(cfg *config.Config) (*Server, error) {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	ctx := context.Background()
	s.initStorage(ctx)
	s.cache = scorecache.New(ctx, cfg.Cache)

	store, mode, err := blob.NewBlobStore(ctx, cfg.Blob, log.Default())
	if err != nil {
		s.Close()
		return nil, err
	}
	s.blobStore = store
	log.Printf("INFO reports: storage mode=%s", mode)

	if err := s.routes(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// initStorage выбирает Postgres при DATABASE_URL, иначе in-memory
func (s *Server) initStorage(ctx context.Context) {
	if s.config.DatabaseURL == "" {
		log.Println("INFO storage: using in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("INFO storage: connecting to PostgreSQL...")
	pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
	if err != nil {
		log.Printf("WARN storage: postgres connect failed: %v, fallback to in-memory", err)
		s.storage = memory.New()
		return
	}
	log.Println("INFO storage: PostgreSQL connected")
	s.storage = pgStorage
}

// routes регистрирует маршруты
func (s *Server) routes() error {
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - локальный токен для разработки
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Profiles API
	profileService := profiles.NewService(s.storage).WithScoreCache(s.cache)
	profileHandler := profiles.NewHandler(profileService)
	s.mux.HandleFunc("GET /v1/profiles", profileHandler.HandleList)
	s.mux.HandleFunc("POST /v1/profiles", profileHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/profiles/{id}", profileHandler.HandleGet)
	s.mux.HandleFunc("PATCH /v1/profiles/{id}", profileHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/profiles/{id}", profileHandler.HandleDelete)

	foodLogsStorage := s.getFoodLogsStorage()
	intakesStorage := s.getIntakesStorage()
	trainingStorage := s.getTrainingStorage()
	scoresStorage := s.getScoresStorage()

	// Training API
	trainingService := training.NewService(trainingStorage, profileService, s.cache)
	trainingHandler := training.NewHandlers(trainingService)
	s.mux.HandleFunc("PUT /v1/training/plan", trainingHandler.HandleReplacePlan)
	s.mux.HandleFunc("POST /v1/training/activities", trainingHandler.HandleSyncActivities)
	s.mux.HandleFunc("GET /v1/training/day", trainingHandler.HandleGetDay)

	// Targets API
	nutritionService := nutrition.NewService(profileService, trainingService)
	nutritionHandler := nutrition.NewHandler(nutritionService)
	s.mux.HandleFunc("GET /v1/targets/day", nutritionHandler.HandleGetDayTarget)

	// Food logs & water
	intakesService := intakes.NewService(foodLogsStorage, intakesStorage, profileService, s.cache, s.config)
	intakesHandler := intakes.NewHandlers(intakesService)
	s.mux.HandleFunc("POST /v1/food/logs", intakesHandler.HandleCreateFoodLog)
	s.mux.HandleFunc("GET /v1/food/logs", intakesHandler.HandleListFoodLogs)
	s.mux.HandleFunc("DELETE /v1/food/logs/{id}", intakesHandler.HandleDeleteFoodLog)
	s.mux.HandleFunc("POST /v1/intakes/water", intakesHandler.HandleAddWater)
	s.mux.HandleFunc("GET /v1/intakes/daily", intakesHandler.HandleGetIntakesDaily)

	// Scores API
	scoresService, err := scores.NewService(scores.Deps{
		Profiles: profileService,
		FoodLogs: foodLogsStorage,
		Intakes:  intakesStorage,
		Training: trainingStorage,
		Scores:   scoresStorage,
		Cache:    s.cache,
	}, s.config.Scoring)
	if err != nil {
		return fmt.Errorf("scores: %w", err)
	}
	scoresHandler := scores.NewHandlers(scoresService)
	s.mux.HandleFunc("GET /v1/scores/day", scoresHandler.HandleGetDay)
	s.mux.HandleFunc("GET /v1/scores", scoresHandler.HandleHistory)

	// Reports API
	reportsService := reports.NewService(
		s.getReportsStorage(),
		scoresStorage,
		profileService,
		s.blobStore,
		s.config.ReportsMaxRangeDays,
		s.config.Blob.S3.PresignTTLSeconds,
	)
	reportsHandler := reports.NewHandlers(reportsService)
	s.mux.HandleFunc("POST /v1/reports", reportsHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/reports", reportsHandler.HandleList)
	s.mux.HandleFunc("GET /v1/reports/{id}/download", reportsHandler.HandleDownload)
	s.mux.HandleFunc("DELETE /v1/reports/{id}", reportsHandler.HandleDelete)

	return nil
}

func (s *Server) getFoodLogsStorage() storage.FoodLogsStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetFoodLogsStorage()
	case *postgres.PostgresStorage:
		return st.GetFoodLogsStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

func (s *Server) getIntakesStorage() storage.IntakesStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetIntakesStorage()
	case *postgres.PostgresStorage:
		return st.GetIntakesStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

func (s *Server) getTrainingStorage() storage.TrainingStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetTrainingStorage()
	case *postgres.PostgresStorage:
		return st.GetTrainingStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

func (s *Server) getScoresStorage() storage.ScoresStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetScoresStorage()
	case *postgres.PostgresStorage:
		return st.GetScoresStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

func (s *Server) getReportsStorage() storage.ReportsStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetReportsStorage()
	case *postgres.PostgresStorage:
		return st.GetReportsStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Handler собирает цепочку middleware: CORS → Auth → Rate Limit → Router
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	handler = RateLimitMiddleware(s.config, handler)
	handler = s.authMiddleware.Wrap(handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	log.Printf("INFO server: listening on http://localhost%s", addr)
	log.Printf("INFO server: health check http://localhost%s/healthz", addr)

	return http.ListenAndServe(addr, s.Handler())
}

// Close закрывает storage и кэш
func (s *Server) Close() error {
	if closer, ok := s.cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Printf("WARN scorecache: close failed: %v", err)
		}
	}
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
