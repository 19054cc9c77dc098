package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

// defaultShutdownTimeout — сколько ждём остановку HTTP-сервера.
const defaultShutdownTimeout = 5 * time.Second

// Job — работа, которую выполняет хост. Ожидается, что job вызовет
// StopApplication; если нет, хост остановится сам после возврата job.
type Job func(ctx context.Context)

// Host — run-once хост процесса.
type Host struct {
	addr            string
	handler         http.Handler
	shutdownTimeout time.Duration
	logger          *slog.Logger

	done     chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	listener net.Listener
}

// Config — конфигурация Host.
type Config struct {
	// Addr — адрес HTTP-сервера; пустой — сервер не поднимается.
	Addr string

	// Metrics — обработчик /metrics; nil — endpoint не регистрируется.
	Metrics http.Handler

	// ShutdownTimeout — default: 5s.
	ShutdownTimeout time.Duration

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Host.
func New(cfg Config) *Host {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	h := &Host{
		addr:            cfg.Addr,
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
		done:            make(chan struct{}),
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.healthz)
	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics)
	}
	h.handler = Chain(Recovery(logger), Logging(logger))(mux)

	return h
}

// StopApplication сообщает хосту, что проход завершён. Идемпотентно.
func (h *Host) StopApplication() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}

// Done закрывается после StopApplication.
func (h *Host) Done() <-chan struct{} {
	return h.done
}

// Handler возвращает HTTP-обработчик хоста.
func (h *Host) Handler() http.Handler {
	return h.handler
}

// Addr возвращает фактический адрес HTTP-сервера или "", если он не запущен.
func (h *Host) Addr() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listener == nil {
		return ""
	}
	return h.listener.Addr().String()
}

// Run поднимает HTTP-сервер, выполняет job и ждёт StopApplication.
//
// Ошибка возвращается только если не удалось занять адрес: тогда job
// не запускается.
func (h *Host) Run(ctx context.Context, job Job) error {
	var srv *http.Server
	serveErr := make(chan error, 1)

	if h.addr != "" {
		ln, err := net.Listen("tcp", h.addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", h.addr, err)
		}
		h.mu.Lock()
		h.listener = ln
		h.mu.Unlock()

		srv = &http.Server{
			Handler:           h.handler,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			h.logger.Info("listening", "addr", ln.Addr().String())
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
		}()
	}

	jobDone := make(chan struct{})
	go func() {
		defer close(jobDone)
		defer h.StopApplication()
		job(ctx)
	}()

	select {
	case <-h.done:
	case err := <-serveErr:
		// проход продолжается без HTTP: health и metrics не критичны
		h.logger.Error("http server error", "error", err)
		<-h.done
	}
	<-jobDone

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			h.logger.Warn("http server shutdown", "error", err)
		}
	}

	return nil
}

func (h *Host) healthz(w http.ResponseWriter, _ *http.Request) {
	select {
	case <-h.done:
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("stopping"))
	default:
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
