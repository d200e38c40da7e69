// Package server wires stores, handlers and background jobs into the
// homebase HTTP server.
package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dukerupert/homebase/internal/auth"
	"github.com/dukerupert/homebase/internal/backup"
	"github.com/dukerupert/homebase/internal/config"
	"github.com/dukerupert/homebase/internal/handler"
	"github.com/dukerupert/homebase/internal/middleware"
	"github.com/dukerupert/homebase/internal/model"
	"github.com/dukerupert/homebase/internal/push"
	"github.com/dukerupert/homebase/internal/store"
	ws "github.com/dukerupert/homebase/internal/websocket"
)

const (
	loginLimit     = 10
	loginWindow    = time.Minute
	sweepInterval  = time.Hour
	limiterCleanup = 5 * time.Minute
)

type Server struct {
	db     *sql.DB
	cfg    config.Config
	hub    *ws.Hub
	stores *store.Stores
	tokens *auth.TokenService

	shoppingH *handler.ShoppingHandler
	expenseH  *handler.ExpenseHandler
	eventH    *handler.EventHandler
	choreH    *handler.ChoreHandler
	catTaskH  *handler.CatTaskHandler
	binH      *handler.RecycleBinHandler
	authH     *handler.AuthHandler
	pushH     *handler.PushHandler
	backupH   *handler.BackupHandler

	rateLimiter   *middleware.RateLimiter
	sweeper       *store.Sweeper
	backupManager *backup.Manager
	pushScheduler *push.Scheduler
	logger        *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfg config.Config, db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	stores := store.New(db)
	tokens := auth.NewTokenService(cfg.SessionSecret, auth.DefaultTTL)
	names := handler.Names{
		model.MemberA: cfg.Members.A,
		model.MemberB: cfg.Members.B,
	}

	backupMgr := backup.NewManager(backup.Config{
		S3: backup.S3Config{
			Endpoint:  cfg.Backup.S3.Endpoint,
			Bucket:    cfg.Backup.S3.Bucket,
			Region:    cfg.Backup.S3.Region,
			AccessKey: cfg.Backup.S3.AccessKey,
			SecretKey: cfg.Backup.S3.SecretKey,
		},
		DBPath:        cfg.DBPath,
		Passphrase:    cfg.Backup.Passphrase,
		Hour:          cfg.Backup.Hour,
		RetentionDays: cfg.Backup.RetentionDays,
	}, db, stores.Backups, logger.With("component", "backup"))

	// Push notification service + scheduler
	var pushSched *push.Scheduler
	var pushH *handler.PushHandler
	if cfg.PushEnabled() {
		pushSvc := push.NewService(cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey, cfg.Push.Subscriber)
		pushSched = push.NewScheduler(pushSvc, stores.Push, stores.Events, stores.CatTasks, logger.With("component", "push"))
		pushH = handler.NewPushHandler(stores.Push, pushSched, cfg.Push.VAPIDPublicKey, logger.With("component", "push_handler"))
	}

	return &Server{
		db:            db,
		cfg:           cfg,
		hub:           hub,
		stores:        stores,
		tokens:        tokens,
		shoppingH:     handler.NewShoppingHandler(stores.Shopping, hub, logger.With("component", "shopping")),
		expenseH:      handler.NewExpenseHandler(stores.Expenses, names, hub, logger.With("component", "expense")),
		eventH:        handler.NewEventHandler(stores.Events, names, hub, logger.With("component", "event")),
		choreH:        handler.NewChoreHandler(stores.Chores, names, hub, logger.With("component", "chore")),
		catTaskH:      handler.NewCatTaskHandler(stores.CatTasks, names, hub, logger.With("component", "cat_task")),
		binH:          handler.NewRecycleBinHandler(stores, hub, logger.With("component", "recycle_bin")),
		authH:         handler.NewAuthHandler(cfg.CheckPIN, tokens, names, logger.With("component", "auth")),
		pushH:         pushH,
		backupH:       handler.NewBackupHandler(backupMgr, logger.With("component", "backup_handler")),
		rateLimiter:   middleware.NewRateLimiter(),
		sweeper:       stores.Sweeper(cfg.RetentionDays),
		backupManager: backupMgr,
		pushScheduler: pushSched,
		logger:        logger,
	}
}

// Stores returns the entity stores.
func (s *Server) Stores() *store.Stores {
	return s.stores
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

// Start runs the retention sweep, the push and backup schedulers and rate
// limiter cleanup until Stop is called or ctx is done.
func (s *Server) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.sweep(ctx)
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
	go func() {
		defer s.wg.Done()
		s.rateLimiter.RunCleanup(ctx, limiterCleanup)
	}()

	if s.pushScheduler != nil {
		s.pushScheduler.Start(ctx)
	}
	s.backupManager.Start(ctx)
}

// Stop halts the background jobs started by Start.
func (s *Server) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.pushScheduler != nil {
		s.pushScheduler.Stop()
	}
	s.backupManager.Stop()
	s.wg.Wait()
}

// sweep is best effort: a failure is logged and retried on the next tick.
func (s *Server) sweep(ctx context.Context) {
	res, err := s.sweeper.Run(ctx, time.Now())
	if err != nil {
		s.logger.Error("retention sweep", "error", err)
		return
	}
	if res.Events > 0 {
		s.hub.Broadcast(ws.Invalidate(model.EntityEvent, "swept", 0, ""))
	}
	if res.Chores > 0 {
		s.hub.Broadcast(ws.Invalidate(model.EntityChore, "swept", 0, ""))
	}
	if res.Events+res.Chores > 0 {
		s.logger.Info("retention sweep", "events", res.Events, "chores", res.Chores)
	}
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes, wrapped with RequireSession
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)
	outerMux.Handle("/", middleware.RequireSession(s.tokens)(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("health check", "error", err)
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":     status,
		"ws_clients": s.hub.ClientCount(),
		"backups":    s.backupManager.Enabled(),
		"push":       s.pushScheduler != nil,
	})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	return middleware.RateLimit(s.rateLimiter, middleware.RealIP, loginLimit, loginWindow)(h).ServeHTTP
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	member := func(h http.HandlerFunc) http.Handler { return middleware.RequireMember(h) }

	// Session
	mux.HandleFunc("POST /logout", s.authH.Logout)
	mux.HandleFunc("GET /api/session", s.authH.Session)
	mux.HandleFunc("POST /api/session/member", s.authH.SetMember)

	// Shopping
	mux.HandleFunc("GET /api/shopping", s.shoppingH.List)
	mux.HandleFunc("GET /api/shopping/categories", s.shoppingH.Categories)
	mux.HandleFunc("POST /api/shopping", s.shoppingH.Create)
	mux.HandleFunc("PATCH /api/shopping/{id}", s.shoppingH.Update)
	mux.HandleFunc("DELETE /api/shopping/{id}", s.shoppingH.Delete)
	mux.HandleFunc("POST /api/shopping/{id}/bought", s.shoppingH.ToggleBought)
	mux.HandleFunc("POST /api/shopping/clear-bought", s.shoppingH.ClearBought)

	// Expenses
	mux.HandleFunc("GET /api/expenses", s.expenseH.List)
	mux.HandleFunc("POST /api/expenses", s.expenseH.Create)
	mux.HandleFunc("PATCH /api/expenses/{id}", s.expenseH.Update)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.expenseH.Delete)
	mux.HandleFunc("GET /api/balance", s.expenseH.Balance)

	// Events
	mux.HandleFunc("GET /api/events", s.eventH.List)
	mux.HandleFunc("GET /api/events.ics", s.eventH.Calendar)
	mux.HandleFunc("POST /api/events", s.eventH.Create)
	mux.HandleFunc("PATCH /api/events/{id}", s.eventH.Update)
	mux.HandleFunc("DELETE /api/events/{id}", s.eventH.Delete)

	// Chores
	mux.HandleFunc("GET /api/chores", s.choreH.List)
	mux.HandleFunc("POST /api/chores", s.choreH.Create)
	mux.HandleFunc("PATCH /api/chores/{id}", s.choreH.Update)
	mux.HandleFunc("DELETE /api/chores/{id}", s.choreH.Delete)
	mux.Handle("POST /api/chores/{id}/complete", member(s.choreH.Complete))
	mux.HandleFunc("POST /api/chores/{id}/uncomplete", s.choreH.Uncomplete)

	// Cat care
	mux.HandleFunc("GET /api/cat-tasks", s.catTaskH.List)
	mux.HandleFunc("POST /api/cat-tasks", s.catTaskH.Create)
	mux.HandleFunc("PATCH /api/cat-tasks/{id}", s.catTaskH.Update)
	mux.HandleFunc("DELETE /api/cat-tasks/{id}", s.catTaskH.Delete)
	mux.Handle("POST /api/cat-tasks/{id}/complete", member(s.catTaskH.Complete))

	// Recycle bin, archive, dashboard
	mux.HandleFunc("GET /api/recycle-bin", s.binH.List)
	mux.HandleFunc("POST /api/recycle-bin/{entity}/{id}/restore", s.binH.Restore)
	mux.HandleFunc("DELETE /api/recycle-bin/{entity}/{id}", s.binH.Purge)
	mux.HandleFunc("GET /api/archive", s.binH.Archive)
	mux.HandleFunc("GET /api/summary", s.binH.Summary)

	// Push notifications
	if s.pushH != nil {
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
		mux.Handle("POST /api/push/subscribe", member(s.pushH.Subscribe))
		mux.Handle("GET /api/push/subscriptions", member(s.pushH.ListSubscriptions))
		mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
		mux.Handle("POST /api/push/test", member(s.pushH.TestNotification))
	}

	// Backups
	mux.HandleFunc("GET /api/backups", s.backupH.List)
	mux.HandleFunc("GET /api/backups/status", s.backupH.Status)
	mux.HandleFunc("POST /api/backups", s.backupH.Run)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.Handler(s.hub, s.logger.With("component", "websocket"), s.cfg.AllowedOrigins, func(r *http.Request) string {
		return string(auth.Member(r.Context()))
	}))
}
