// Package dashboard is a very simple gin HTTP server for inspecting the
// last solve from a web page. There is no live scheduler loop here, so
// a gin.Engine serves a mutex-guarded pointer to the most recent
// SolverResult, updated by the CLI after each solve.
package dashboard

import (
	"html/template"
	"net/http"
	"sync"

	"github.com/draganovic/mistsched/internal/search"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const indexTemplate = `<!DOCTYPE html>
<html>
<head><title>mistsched</title></head>
<body>
<h1>mistsched</h1>
<p>Instance: {{.Instance}}</p>
<p>Status: {{.Status}} / State: {{.State}}</p>
<p>Objective: {{.Objective}}</p>
<p><a href="/state">raw JSON</a></p>
</body>
</html>`

// Server holds the last solve result and serves it over HTTP.
type Server struct {
	router *gin.Engine

	mutex      sync.RWMutex
	instance   string
	lastResult search.SolverResult
	hasResult  bool
}

// New builds a Server with routes registered but not yet listening.
func New() *Server {
	s := &Server{router: gin.Default()}

	tmpl := template.Must(template.New("index").Parse(indexTemplate))
	s.router.SetHTMLTemplate(tmpl)
	s.router.Use(cors.Default())

	s.router.GET("/", s.handleIndex)
	s.router.GET("/state", s.handleState)

	return s
}

// Update is called by the CLI after every solve to publish the newest
// result to anyone polling the dashboard.
func (s *Server) Update(instanceName string, result search.SolverResult) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.instance = instanceName
	s.lastResult = result
	s.hasResult = true
}

// Run blocks, serving on addr (e.g. ":8080").
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) handleIndex(ctx *gin.Context) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.hasResult {
		ctx.HTML(http.StatusOK, "index", gin.H{"Instance": "(none yet)", "Status": "-", "State": "-", "Objective": 0.0})
		return
	}

	ctx.HTML(http.StatusOK, "index", gin.H{
		"Instance":  s.instance,
		"Status":    s.lastResult.Status.String(),
		"State":     s.lastResult.State.State(),
		"Objective": s.lastResult.Objective,
	})
}

func (s *Server) handleState(ctx *gin.Context) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.hasResult {
		ctx.JSON(http.StatusOK, gin.H{"content": "no solve has run yet"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"instance":        s.instance,
		"status":          s.lastResult.Status.String(),
		"state":           s.lastResult.State.State(),
		"iterations":      s.lastResult.Iterations,
		"runtime_ms":      s.lastResult.Runtime.Milliseconds(),
		"objective":       s.lastResult.Objective,
		"schedule_span":   s.lastResult.State.ScheduleSpan(),
		"finish_time_sum": s.lastResult.State.FinishTimeSum(),
		"processors_cost": s.lastResult.State.ProcessorsCost(),
		"delay_cost":      s.lastResult.State.DelayCost(),
	})
}
