package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/o0olele/svon-go/builder"
	"github.com/o0olele/svon-go/config"
	"github.com/o0olele/svon-go/geometry"
	"github.com/o0olele/svon-go/math32"
	"github.com/o0olele/svon-go/octree"
	"github.com/o0olele/svon-go/query"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP path search API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "configuration file, watched for search setting changes")
}

// 初始化请求结构
type InitRequest struct {
	Bounds geometry.AABB `json:"bounds"`
	Layers int           `json:"layers"`
}

// 路径查找请求结构
type PathfindRequest struct {
	Start math32.Vector3 `json:"start"`
	End   math32.Vector3 `json:"end"`
}

// 路径查找响应结构
type PathfindResponse struct {
	Path   []math32.Vector3 `json:"path"`
	Found  bool             `json:"found"`
	Length int              `json:"length"`
	Result query.Result     `json:"result"`
	Debug  []math32.Vector3 `json:"debug,omitempty"`
}

// 保存和加载请求结构
type SaveRequest struct {
	NavigationFilename string `json:"navigation_filename"`
}

type LoadRequest struct {
	NavigationFilename string `json:"navigation_filename"`
}

type BatchRequest struct {
	Requests []query.PathRequest `json:"requests"`
}

type requestIDKey struct{}

// Server holds the scene being edited and the query over the last built or
// loaded volume.
type Server struct {
	cfg    config.ServerConfig
	logger *slog.Logger

	// buildMu guards builder and everything it accumulates, including
	// a Build in progress.
	buildMu sync.Mutex
	builder *builder.Builder

	mu       sync.RWMutex
	query    *query.NavigationQuery
	settings query.Settings
}

// NewServer creates a server with no volume loaded.
func NewServer(cfg config.ServerConfig, settings query.Settings, logger *slog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		logger:   logger,
		settings: settings,
	}
}

// Routes builds the HTTP handler with CORS and request ids applied.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestIDMiddleware)

	// API 路由
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/init", s.initHandler).Methods("POST")
	api.HandleFunc("/geometry", s.addGeometryHandler).Methods("POST")
	api.HandleFunc("/boxes", s.addBoxesHandler).Methods("POST")
	api.HandleFunc("/build", s.buildHandler).Methods("POST")
	api.HandleFunc("/octree", s.getOctreeHandler).Methods("GET")
	api.HandleFunc("/pathfind", s.findPathHandler).Methods("POST")
	api.HandleFunc("/batch", s.batchHandler).Methods("POST")
	api.HandleFunc("/occupied", s.checkOccupiedHandler).Methods("GET")
	api.HandleFunc("/debug", s.debugHandler).Methods("POST")
	api.HandleFunc("/save", s.saveHandler).Methods("POST")
	api.HandleFunc("/load", s.loadHandler).Methods("POST")
	api.HandleFunc("/navigation/info", s.getNavigationInfoHandler).Methods("GET")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// 配置CORS
	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, requestID)))
		s.logger.Debug("request served",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"elapsed", time.Since(start))
	})
}

func requestLogger(base *slog.Logger, r *http.Request) *slog.Logger {
	if id, ok := r.Context().Value(requestIDKey{}).(string); ok {
		return base.With("request_id", id)
	}
	return base
}

// SetQuery installs a query, applying the current settings to it.
func (s *Server) SetQuery(nq *query.NavigationQuery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := nq.SetSettings(s.settings); err != nil {
		return err
	}
	s.query = nq
	return nil
}

// UpdateSettings changes the settings of the current and future queries.
func (s *Server) UpdateSettings(settings query.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	if s.query != nil {
		return s.query.SetSettings(settings)
	}
	return nil
}

func (s *Server) currentQuery() *query.NavigationQuery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

func (s *Server) newQuery(volume *octree.Volume, r *http.Request) (*query.NavigationQuery, error) {
	s.mu.RLock()
	settings := s.settings
	s.mu.RUnlock()
	return query.NewNavigationQuery(volume,
		query.WithLogger(requestLogger(s.logger, r)),
		query.WithSettings(settings))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// 初始化导航构建器
func (s *Server) initHandler(w http.ResponseWriter, r *http.Request) {
	var req InitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Bounds.IsEmpty() || !req.Bounds.IsCube() || req.Layers < 1 || req.Layers > octree.MaxLayers {
		http.Error(w, "Invalid bounds or layers", http.StatusBadRequest)
		return
	}

	b := builder.NewBuilder(req.Bounds, req.Layers)
	b.SetLogger(requestLogger(s.logger, r))

	s.buildMu.Lock()
	s.builder = b
	s.buildMu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "initialized"})
}

// 添加障碍物
func (s *Server) addGeometryHandler(w http.ResponseWriter, r *http.Request) {
	var box geometry.Box
	if err := json.NewDecoder(r.Body).Decode(&box); err != nil {
		http.Error(w, "Invalid box data", http.StatusBadRequest)
		return
	}

	s.buildMu.Lock()
	defer s.buildMu.Unlock()
	if s.builder == nil {
		http.Error(w, "Navigation builder not initialized", http.StatusBadRequest)
		return
	}
	s.builder.AddBox(box)

	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// 批量添加障碍物
func (s *Server) addBoxesHandler(w http.ResponseWriter, r *http.Request) {
	var boxes []geometry.Box
	if err := json.NewDecoder(r.Body).Decode(&boxes); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	s.buildMu.Lock()
	defer s.buildMu.Unlock()
	if s.builder == nil {
		http.Error(w, "Navigation builder not initialized", http.StatusBadRequest)
		return
	}
	s.builder.AddBoxes(boxes)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "added",
		"count":  len(boxes),
	})
}

// 构建体素八叉树
func (s *Server) buildHandler(w http.ResponseWriter, r *http.Request) {
	s.buildMu.Lock()
	b := s.builder
	if b == nil {
		s.buildMu.Unlock()
		http.Error(w, "Navigation builder not initialized", http.StatusBadRequest)
		return
	}
	volume, err := b.Build()
	memory := b.GetMemoryUsage()
	s.buildMu.Unlock()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to build volume: %v", err), http.StatusInternalServerError)
		return
	}
	nq, err := s.newQuery(volume, r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to create query: %v", err), http.StatusInternalServerError)
		return
	}
	if err := s.SetQuery(nq); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "built",
		"stats":  nq.GetStats(),
		"memory": memory,
	})
}

// 获取八叉树统计信息
func (s *Server) getOctreeHandler(w http.ResponseWriter, r *http.Request) {
	nq := s.currentQuery()
	if nq == nil {
		http.Error(w, "Volume not loaded", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, nq.GetStats())
}

// 查找路径
func (s *Server) findPathHandler(w http.ResponseWriter, r *http.Request) {
	nq := s.currentQuery()
	if nq == nil {
		http.Error(w, "Volume not loaded", http.StatusBadRequest)
		return
	}

	var req PathfindRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	path, res, err := nq.FindPath(r.Context(), req.Start, req.End)
	switch {
	case errors.Is(err, query.ErrInvalidLink):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil && !errors.Is(err, query.ErrNoPath):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	resp := PathfindResponse{Found: res.Found, Result: res}
	if path != nil {
		resp.Path = path.Points
		resp.Length = path.Len()
	}
	writeJSON(w, http.StatusOK, resp)
}

// 批量查找路径
func (s *Server) batchHandler(w http.ResponseWriter, r *http.Request) {
	nq := s.currentQuery()
	if nq == nil {
		http.Error(w, "Volume not loaded", http.StatusBadRequest)
		return
	}

	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	responses, err := nq.FindPaths(r.Context(), req.Requests, s.cfg.BatchLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, responses)
}

// 检查点是否被占用
func (s *Server) checkOccupiedHandler(w http.ResponseWriter, r *http.Request) {
	nq := s.currentQuery()
	if nq == nil {
		http.Error(w, "Volume not loaded", http.StatusBadRequest)
		return
	}

	// 从查询参数获取坐标
	var point math32.Vector3
	for i, key := range []string{"x", "y", "z"} {
		f, err := strconv.ParseFloat(r.URL.Query().Get(key), 32)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid %s", key), http.StatusBadRequest)
			return
		}
		switch i {
		case 0:
			point.X = float32(f)
		case 1:
			point.Y = float32(f)
		case 2:
			point.Z = float32(f)
		}
	}

	writeJSON(w, http.StatusOK, map[string]bool{"occupied": !nq.IsWalkable(point)})
}

// 调试寻路：返回搜索打开过的所有节点位置
func (s *Server) debugHandler(w http.ResponseWriter, r *http.Request) {
	nq := s.currentQuery()
	if nq == nil {
		http.Error(w, "Volume not loaded", http.StatusBadRequest)
		return
	}

	var req PathfindRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	start, err := nq.FindNearestLink(req.Start)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	goal, err := nq.FindNearestLink(req.End)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	settings := nq.Settings()
	settings.DebugOpenNodes = true
	var opened []math32.Vector3
	pf := query.NewPathfinder(nq.GetVolume(), settings, query.WithObserver(func(_ octree.Link, pos math32.Vector3) {
		opened = append(opened, pos)
	}))

	path := &query.Path{}
	res, err := pf.FindPath(r.Context(), start, goal, req.Start, req.End, path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, PathfindResponse{
		Path:   path.Points,
		Found:  res.Found,
		Length: path.Len(),
		Result: res,
		Debug:  opened,
	})
}

// 保存导航数据
func (s *Server) saveHandler(w http.ResponseWriter, r *http.Request) {
	nq := s.currentQuery()
	if nq == nil {
		http.Error(w, "Volume not loaded", http.StatusBadRequest)
		return
	}

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NavigationFilename == "" {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := builder.Save(nq.GetVolume(), req.NavigationFilename); err != nil {
		http.Error(w, fmt.Sprintf("Failed to save navigation data: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// 加载导航数据
func (s *Server) loadHandler(w http.ResponseWriter, r *http.Request) {
	var req LoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NavigationFilename == "" {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	begTime := time.Now()
	volume, err := builder.Load(req.NavigationFilename)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load navigation data: %v", err), http.StatusInternalServerError)
		return
	}
	nq, err := s.newQuery(volume, r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to create query: %v", err), http.StatusInternalServerError)
		return
	}
	if err := s.SetQuery(nq); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	stats := nq.GetStats()
	requestLogger(s.logger, r).Info("navigation data loaded",
		"file", req.NavigationFilename,
		"nodes", stats.NodeCount,
		"elapsed", time.Since(begTime))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "loaded",
		"stats":  stats,
	})
}

// 获取导航文件信息
func (s *Server) getNavigationInfoHandler(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		http.Error(w, "Missing filename parameter", http.StatusBadRequest)
		return
	}

	info, err := builder.GetFileInfo(filename)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get file info: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	settings, err := cfg.Search.Settings()
	if err != nil {
		return err
	}

	srv := NewServer(cfg.Server, settings, logger)

	var volume *octree.Volume
	if cfg.Server.NavFile != "" {
		volume, err = builder.Load(cfg.Server.NavFile)
	} else {
		b := builder.NewBuilder(cfg.Volume.Bounds, cfg.Volume.Layers)
		b.SetLogger(logger)
		b.AddBoxes(cfg.Volume.Obstacles)
		volume, err = b.Build()
	}
	if err != nil {
		return err
	}
	nq, err := query.NewNavigationQuery(volume, query.WithLogger(logger), query.WithSettings(settings))
	if err != nil {
		return err
	}
	if err := srv.SetQuery(nq); err != nil {
		return err
	}

	if configPath != "" {
		err := config.Watch(ctx, configPath, logger, func(c config.Config) {
			s, err := c.Search.Settings()
			if err == nil {
				err = srv.UpdateSettings(s)
			}
			if err != nil {
				logger.Warn("search settings not applied", "error", err)
			}
		})
		if err != nil {
			return err
		}
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Server.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("server shutting down")
	return httpServer.Shutdown(shutdownCtx)
}
