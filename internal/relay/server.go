package relay

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"devsecrets/internal/domain"
	"devsecrets/internal/metrics"
	"devsecrets/internal/queue"
	"devsecrets/internal/queue/memory"
)

// Server holds the relay's queues.
type Server struct {
	mu       sync.Mutex
	queues   map[domain.QueueName]*memory.Queue
	timeout  time.Duration
	log      logrus.FieldLogger
	validate *validator.Validate
}

// NewServer returns a relay whose deliveries stay invisible for timeout.
// A zero timeout means queue.DefaultVisibilityTimeout.
func NewServer(log logrus.FieldLogger, timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = queue.DefaultVisibilityTimeout
	}
	return &Server{
		queues:   make(map[domain.QueueName]*memory.Queue),
		timeout:  timeout,
		log:      log,
		validate: validator.New(),
	}
}

type queueParam struct {
	Name string `validate:"required,max=128,excludesall=/ "`
}

// Router wires the handlers into a gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(s.accessLog())

	q := r.Group("/queues/:queue")
	q.POST("/messages", s.PostMessage)
	q.GET("/messages/next", s.NextMessage)
	q.DELETE("/messages/:id", s.AckMessage)

	r.GET("/healthz", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// Close drops every queue.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, q := range s.queues {
		q.Close()
		delete(s.queues, name)
	}
}

// queueFor resolves the :queue parameter. On failure it has already written
// the response and returns nil.
func (s *Server) queueFor(ctx *gin.Context, create bool) *memory.Queue {
	name := ctx.Param("queue")
	if err := s.validate.Struct(queueParam{Name: name}); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid queue name"})
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queues[domain.QueueName(name)]
	if ok {
		return q
	}
	if !create {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "unknown queue"})
		return nil
	}
	q = memory.New(domain.QueueName(name), memory.WithVisibilityTimeout(s.timeout))
	s.queues[q.Name()] = q
	s.log.WithField("queue", name).Info("queue created")
	return q
}

func (s *Server) PostMessage(ctx *gin.Context) {
	var req sendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q := s.queueFor(ctx, true)
	if q == nil {
		return
	}
	id, err := q.Put(req.Body)
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	metrics.RelayQueueDepth.WithLabelValues(string(q.Name())).Set(float64(q.Len()))
	ctx.JSON(http.StatusCreated, sendResponse{ID: id})
}

func (s *Server) NextMessage(ctx *gin.Context) {
	q := s.queueFor(ctx, true)
	if q == nil {
		return
	}
	d, ok, err := q.ReceiveNext(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		ctx.Status(http.StatusNoContent)
		return
	}
	ctx.JSON(http.StatusOK, d)
}

func (s *Server) AckMessage(ctx *gin.Context) {
	q := s.queueFor(ctx, false)
	if q == nil {
		return
	}
	d := domain.Delivery{ID: ctx.Param("id"), Receipt: ctx.Query("receipt")}
	err := q.Acknowledge(ctx.Request.Context(), d)
	switch {
	case errors.Is(err, queue.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "unknown message"})
		return
	case errors.Is(err, queue.ErrStaleReceipt):
		ctx.JSON(http.StatusConflict, gin.H{"error": "stale receipt"})
		return
	case err != nil:
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	metrics.RelayQueueDepth.WithLabelValues(string(q.Name())).Set(float64(q.Len()))
	ctx.Status(http.StatusNoContent)
}

func requestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetHeader("X-Request-ID") == "" {
			ctx.Request.Header.Set("X-Request-ID", uuid.NewString())
		}
		ctx.Header("X-Request-ID", ctx.GetHeader("X-Request-ID"))
		ctx.Next()
	}
}

// accessLog logs every request and records its latency. Message bodies are
// never logged.
func (s *Server) accessLog() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		elapsed := time.Since(start)

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		code := strconv.Itoa(ctx.Writer.Status())
		metrics.RelayRequests.WithLabelValues(ctx.Request.Method, route, code).Observe(elapsed.Seconds())
		s.log.WithFields(logrus.Fields{
			"method":     ctx.Request.Method,
			"path":       ctx.Request.URL.Path,
			"status":     ctx.Writer.Status(),
			"latency":    elapsed,
			"request_id": ctx.GetHeader("X-Request-ID"),
		}).Debug("request")
	}
}
