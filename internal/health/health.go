package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Status represents the health status of a service or dependency.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult represents the health check result for a single dependency.
type CheckResult struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Report is the overall health of the service. SessionActive tells operators
// whether an alarm is ringing right now; draining a ringing instance loses
// the session.
type Report struct {
	Status        Status                 `json:"status"`
	Version       string                 `json:"version,omitempty"`
	SessionActive bool                   `json:"session_active"`
	Checks        map[string]CheckResult `json:"checks,omitempty"`
}

// SessionProbe reports whether an alarm session is currently active.
type SessionProbe func() bool

// Checker performs health checks on service dependencies.
type Checker struct {
	redisClient  *redis.Client
	version      string
	sessionProbe SessionProbe
}

func NewChecker(redisClient *redis.Client, version string, sessionProbe SessionProbe) *Checker {
	return &Checker{
		redisClient:  redisClient,
		version:      version,
		sessionProbe: sessionProbe,
	}
}

// Check pings the dependencies and returns the overall status.
func (c *Checker) Check(ctx context.Context) *Report {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	report := &Report{
		Status:  StatusHealthy,
		Version: c.version,
		Checks:  make(map[string]CheckResult),
	}

	if c.sessionProbe != nil {
		report.SessionActive = c.sessionProbe()
	}

	if c.redisClient != nil {
		start := time.Now()
		if err := c.redisClient.Ping(checkCtx).Err(); err != nil {
			report.Status = StatusUnhealthy
			report.Checks["redis"] = CheckResult{
				Status: StatusUnhealthy,
				Error:  err.Error(),
			}
		} else {
			report.Checks["redis"] = CheckResult{
				Status:    StatusHealthy,
				LatencyMs: time.Since(start).Milliseconds(),
			}
		}
	}

	return report
}

// LiveHandler returns a Gin handler for liveness probes.
func (c *Checker) LiveHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// ReadyHandler returns a Gin handler for readiness probes.
func (c *Checker) ReadyHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		report := c.Check(ctx.Request.Context())

		httpStatus := http.StatusOK
		if report.Status != StatusHealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		ctx.JSON(httpStatus, report)
	}
}
