// Package httpapi exposes the grading service over HTTP
package httpapi

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"sheetmark/adapters/report"
	"sheetmark/app"
	"sheetmark/domain/core"
	"sheetmark/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// maxUploadBytes caps each workbook upload. Assignment workbooks are
// small; anything near this size is not a student submission.
const maxUploadBytes = 20 << 20

// Server wires the grading service into a gin router
type Server struct {
	router  *gin.Engine
	service *app.GradingService
	schemes ports.SchemeStore
	log     zerolog.Logger
}

// NewServer creates the HTTP server around a grading service
func NewServer(service *app.GradingService, schemes ports.SchemeStore, mode string, log zerolog.Logger) *Server {
	gin.SetMode(mode)
	s := &Server{
		router:  gin.New(),
		service: service,
		schemes: schemes,
		log:     log.With().Str("component", "httpapi").Logger(),
	}
	s.router.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.healthz)

	api := s.router.Group("/api")
	{
		api.POST("/evaluations", s.createEvaluation)
		api.POST("/evaluations/annotated", s.createAnnotatedWorkbook)
		api.GET("/evaluations/:id", s.getEvaluation)
		api.GET("/evaluations/:id/report", s.getEvaluationReport)
		api.GET("/schemes", s.listSchemes)
	}
}

// Run starts the HTTP server on the given port
func (s *Server) Run(port string) error {
	s.log.Info().Str("port", port).Msg("starting http server")
	return s.router.Run(":" + port)
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// createEvaluation grades one submission against an answer key. Both
// workbooks arrive as multipart files; the scheme and student name are
// optional form fields.
func (s *Server) createEvaluation(c *gin.Context) {
	req, err := s.buildGradeRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.service.Grade(c.Request.Context(), *req)
	if err != nil {
		s.respondGradeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.ToMap())
}

// createAnnotatedWorkbook grades a submission and returns a copy of the
// student workbook with feedback comments attached to incorrect cells.
func (s *Server) createAnnotatedWorkbook(c *gin.Context) {
	req, err := s.buildGradeRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.service.Grade(c.Request.Context(), *req)
	if err != nil {
		s.respondGradeError(c, err)
		return
	}

	annotated, err := s.service.AnnotateSubmission(req.Submission, *result)
	if err != nil {
		s.log.Error().Err(err).Msg("could not annotate submission")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not annotate submission"})
		return
	}

	filename := req.StudentFile
	if filename == "" {
		filename = "submission.xlsx"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "graded_"+filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", annotated)
}

// getEvaluation fetches a stored evaluation result by ID
func (s *Server) getEvaluation(c *gin.Context) {
	id, err := core.ParseEvaluationID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.service.GetResult(c.Request.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "evaluation not found"})
			return
		}
		s.log.Error().Err(err).Str("evaluation", id.String()).Msg("could not fetch evaluation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch evaluation"})
		return
	}
	c.JSON(http.StatusOK, result.ToMap())
}

// getEvaluationReport renders the plain-text report for a stored result
func (s *Server) getEvaluationReport(c *gin.Context) {
	id, err := core.ParseEvaluationID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.service.GetResult(c.Request.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "evaluation not found"})
			return
		}
		s.log.Error().Err(err).Str("evaluation", id.String()).Msg("could not fetch evaluation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch evaluation"})
		return
	}
	c.String(http.StatusOK, report.Text(*result))
}

// listSchemes returns the available mark schemes
func (s *Server) listSchemes(c *gin.Context) {
	schemes, err := s.schemes.ListSchemes(c.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("could not list schemes")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list schemes"})
		return
	}

	out := make([]gin.H, 0, len(schemes))
	for _, m := range schemes {
		out = append(out, gin.H{
			"id":          m.ID.String(),
			"name":        m.Name,
			"questions":   len(m.Questions),
			"total_marks": m.TotalMarks(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"schemes": out})
}

func (s *Server) buildGradeRequest(c *gin.Context) (*app.GradeRequest, error) {
	answerKey, _, err := readUpload(c, "answer_key")
	if err != nil {
		return nil, err
	}
	submission, submissionName, err := readUpload(c, "submission")
	if err != nil {
		return nil, err
	}

	return &app.GradeRequest{
		AnswerKey:   answerKey,
		Submission:  submission,
		StudentName: c.PostForm("student_name"),
		StudentFile: submissionName,
		SchemeID:    core.SchemeID(c.PostForm("scheme_id")),
	}, nil
}

func (s *Server) respondGradeError(c *gin.Context, err error) {
	switch {
	case core.IsLoadError(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case core.IsSchemeError(err), core.IsNotFoundError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.log.Error().Err(err).Msg("grading failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "grading failed"})
	}
}

func readUpload(c *gin.Context, field string) ([]byte, string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, "", fmt.Errorf("missing %s file", field)
	}
	if header.Size > maxUploadBytes {
		return nil, "", fmt.Errorf("%s exceeds upload limit", field)
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", field, err)
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", field, err)
	}
	return data, header.Filename, nil
}
