// Package dashboard exposes read-only state projections over HTTP and
// funnels presentation-layer actions, one at a time, into the engine loop.
// All formatting beyond JSON encoding belongs to the consumer.
package dashboard

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/BoraOzcoban/ma-simulatiion/internal/domain"
	"github.com/BoraOzcoban/ma-simulatiion/internal/services/finance"
	"github.com/BoraOzcoban/ma-simulatiion/internal/stats"
)

// Engine is the loop surface the dashboard needs: current state snapshots
// out, actions in.
type Engine interface {
	State() domain.EngineState
	Submit(ctx context.Context, action domain.Action) error
}

// Server exposes the HTTP endpoints serving projections and accepting actions.
type Server struct {
	Addr   string
	Engine Engine
	Logger *zap.Logger
}

// NewServer creates a new web server instance.
func NewServer(addr string, engine Engine, logger *zap.Logger) *Server {
	return &Server{Addr: addr, Engine: engine, Logger: logger}
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/state", s.handleState)
	r.Get("/book", s.handleBook)
	r.Get("/financials", s.handleFinancials)
	r.Get("/financials/consistency", s.handleConsistency)
	r.Get("/valuation", s.handleValuation)
	r.Get("/indicators", s.handleIndicators)

	r.Route("/actions", func(r chi.Router) {
		r.Post("/price", s.handleSetPrice)
		r.Post("/order", s.handleOrder)
		r.Post("/simulate", s.submitAction(domain.SimulateQuarter{}))
		r.Post("/scenario", s.handleScenario)
		r.Post("/ownership", s.handleOwnership)
		r.Post("/headline", s.handleHeadline)
		r.Post("/toggle-auto", s.submitAction(domain.ToggleAuto{}))
		r.Post("/toggle-theme", s.submitAction(domain.ToggleTheme{}))
		r.Post("/reset", s.submitAction(domain.Reset{}))
	})

	return r
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.router(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartWithAutoTLS runs an HTTPS server with automatic TLS certificates via
// ACME. It also starts an HTTP server on port 80 for ACME HTTP-01 challenges.
func (s *Server) StartWithAutoTLS(ctx context.Context, domains []string, cacheDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(domains) == 0 {
		return fmt.Errorf("no domains provided for automatic TLS")
	}
	if cacheDir == "" {
		cacheDir = "cert-cache"
	}

	manager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...),
		Cache:      autocert.DirCache(cacheDir),
	}

	httpSrv := &http.Server{
		Addr:              ":80",
		Handler:           manager.HTTPHandler(nil),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	tlsConfig := manager.TLSConfig()
	tlsConfig.MinVersion = tls.VersionTLS12

	httpsSrv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.router(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
		TLSConfig:         tlsConfig,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		_ = httpsSrv.Shutdown(shutdownCtx)
	}()

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Warn("acme challenge server stopped", zap.Error(err))
		}
	}()

	if err := httpsSrv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Warn("response encode failed", zap.Error(err))
	}
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.Engine.State())
}

func (s *Server) handleBook(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.Engine.State().Book)
}

func (s *Server) handleFinancials(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.Engine.State().Financials)
}

func (s *Server) handleConsistency(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.Engine.State().Financials.ConsistencyCheck())
}

func (s *Server) handleValuation(w http.ResponseWriter, _ *http.Request) {
	state := s.Engine.State()
	s.writeJSON(w, finance.Valuate(state.Price, state.Financials))
}

type indicatorsResponse struct {
	SMA20 []decimal.Decimal `json:"sma20,omitempty"`
	EMA12 []decimal.Decimal `json:"ema12,omitempty"`
	RSI14 []decimal.Decimal `json:"rsi14,omitempty"`
}

func (s *Server) handleIndicators(w http.ResponseWriter, _ *http.Request) {
	history := s.Engine.State().PriceHistory

	// insufficient history yields empty series, not an error
	var resp indicatorsResponse
	if sma, err := stats.SMA(history, 20); err == nil {
		resp.SMA20 = sma
	}
	if ema, err := stats.EMA(history, 12); err == nil {
		resp.EMA12 = ema
	}
	if rsi, err := stats.RSI(history, 14); err == nil {
		resp.RSI14 = rsi
	}

	s.writeJSON(w, resp)
}

// submitAction returns a handler enqueueing a fixed payload-free action.
func (s *Server) submitAction(action domain.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.enqueue(w, r, action)
	}
}

func (s *Server) enqueue(w http.ResponseWriter, r *http.Request, action domain.Action) {
	if err := s.Engine.Submit(r.Context(), action); err != nil {
		http.Error(w, "engine unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// validPositive filters out the non-finite and non-positive numbers that the
// engine treats as silent no-ops; rejecting them here with a 400 keeps junk
// out of the action queue and tells the client nothing was enqueued.
func validPositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func (s *Server) handleSetPrice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !validPositive(req.Price) {
		http.Error(w, "invalid price", http.StatusBadRequest)
		return
	}
	s.enqueue(w, r, domain.SetPrice{Price: decimal.NewFromFloat(req.Price)})
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Side     string  `json:"side"`
		Price    float64 `json:"price"`
		Lots     float64 `json:"lots"`
		BidderID string  `json:"bidder_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid order", http.StatusBadRequest)
		return
	}
	side, ok := domain.ParseSide(req.Side)
	if !ok || !validPositive(req.Price) || !validPositive(req.Lots) {
		http.Error(w, "invalid order", http.StatusBadRequest)
		return
	}
	s.enqueue(w, r, domain.SubmitOrder{
		Side:     side,
		Price:    decimal.NewFromFloat(req.Price),
		Lots:     int64(math.Floor(req.Lots)),
		BidderID: req.BidderID,
	})
}

func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Scenario string `json:"scenario"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid scenario", http.StatusBadRequest)
		return
	}
	scenario, ok := domain.ParseScenario(req.Scenario)
	if !ok {
		http.Error(w, "invalid scenario", http.StatusBadRequest)
		return
	}
	s.enqueue(w, r, domain.SetScenario{Scenario: scenario})
}

func (s *Server) handleOwnership(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HolderID     string  `json:"holder_id"`
		TargetShares float64 `json:"target_shares"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.HolderID == "" || math.IsNaN(req.TargetShares) || math.IsInf(req.TargetShares, 0) {
		http.Error(w, "invalid ownership edit", http.StatusBadRequest)
		return
	}
	s.enqueue(w, r, domain.EditOwnership{
		HolderID:     req.HolderID,
		TargetShares: decimal.NewFromFloat(req.TargetShares),
	})
}

func (s *Server) handleHeadline(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, "invalid headline", http.StatusBadRequest)
		return
	}
	s.enqueue(w, r, domain.AddHeadline{Text: req.Text})
}
