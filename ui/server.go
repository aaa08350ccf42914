// Package ui exposes the exploration service over HTTP.
package ui

import (
	"net/http"
	"strings"

	"godesign/app"
	"godesign/domain/core"
	"godesign/internal"
	"godesign/internal/errors"
	"godesign/ports"

	"github.com/gin-gonic/gin"
)

// Server wraps the gin router around an exploration service
type Server struct {
	router  *gin.Engine
	service *app.ExplorationService
	log     *internal.Logger
}

// NewServer builds the router. Mode should be one of gin's release, debug,
// or test modes.
func NewServer(service *app.ExplorationService, mode string, logger *internal.Logger) *Server {
	if mode != "" {
		gin.SetMode(mode)
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:  gin.New(),
		service: service,
		log:     logger.Named("http"),
	}
	s.router.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	v1.POST("/solve", s.handleSolve)
	v1.GET("/runs", s.handleRuns)
	v1.GET("/runs/:id", s.handleRun)
	v1.GET("/runs/:id/trace", s.handleTrace)
	v1.GET("/runs/:id/journey/:candidate", s.handleJourney)
	v1.GET("/runs/:id/patterns", s.handlePatterns)
	v1.GET("/runs/:id/statistics", s.handleStatistics)
	v1.GET("/runs/:id/export/:format", s.handleExport)
	v1.GET("/plugins", s.handlePlugins)
	v1.POST("/plugins/substitute", s.handleSubstitute)
}

// Router exposes the underlying engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the server on the given address
func (s *Server) Start(addr string) error {
	s.log.Info("listening on http://%s", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSolve(c *gin.Context) {
	var req app.SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	result, err := s.service.Solve(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleRuns(c *gin.Context) {
	runs := s.service.Runs()
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

func (s *Server) handleRun(c *gin.Context) {
	runID, ok := s.runID(c)
	if !ok {
		return
	}
	result, err := s.service.Result(runID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleTrace(c *gin.Context) {
	runID, ok := s.runID(c)
	if !ok {
		return
	}
	var types []ports.DecisionType
	if raw := c.Query("type"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			types = append(types, ports.DecisionType(strings.TrimSpace(t)))
		}
	}
	events, err := s.service.Trace(runID, types...)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

func (s *Server) handleJourney(c *gin.Context) {
	runID, ok := s.runID(c)
	if !ok {
		return
	}
	candidateID, err := core.ParseCandidateID(c.Param("candidate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidate id"})
		return
	}
	journey, err := s.service.Journey(runID, candidateID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, journey)
}

func (s *Server) handlePatterns(c *gin.Context) {
	runID, ok := s.runID(c)
	if !ok {
		return
	}
	patterns, err := s.service.Patterns(runID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, patterns)
}

func (s *Server) handleStatistics(c *gin.Context) {
	runID, ok := s.runID(c)
	if !ok {
		return
	}
	stats, err := s.service.Statistics(runID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleExport(c *gin.Context) {
	runID, ok := s.runID(c)
	if !ok {
		return
	}
	format := ports.ExportFormat(c.Param("format"))
	data, contentType, err := s.service.Export(runID, format)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

func (s *Server) handlePlugins(c *gin.Context) {
	plugins := s.service.Plugins()
	c.JSON(http.StatusOK, gin.H{"plugins": plugins, "count": len(plugins)})
}

type substituteRequest struct {
	Role   string                 `json:"role"`
	Name   string                 `json:"name"`
	Params map[string]interface{} `json:"params,omitempty"`
}

func (s *Server) handleSubstitute(c *gin.Context) {
	var req substituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Role == "" || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role and name are required"})
		return
	}
	if err := s.service.Substitute(ports.PluginRole(req.Role), req.Name, req.Params); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": req.Role, "active": req.Name})
}

func (s *Server) runID(c *gin.Context) (core.RunID, bool) {
	runID, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return core.RunID(""), false
	}
	return runID, true
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeInvalidInput, errors.CodeConfigInvalid:
		status = http.StatusBadRequest
	case errors.CodeShapeViolation:
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
