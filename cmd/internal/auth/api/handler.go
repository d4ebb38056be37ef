package authapi

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Gratix0/FastapiMindRememberAPI/cmd/identity"
	authtoken "github.com/Gratix0/FastapiMindRememberAPI/cmd/internal/auth/token"
	"github.com/Gratix0/FastapiMindRememberAPI/cmd/internal/knowledge"
	"github.com/Gratix0/FastapiMindRememberAPI/cmd/security/password"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler wires the HTTP surface to the identity and knowledge stores.
type Handler struct {
	log *slog.Logger
	cfg Config

	dbEnabled bool
	pool      *pgxpool.Pool

	identity  identity.Store
	knowledge knowledge.Store
	tokens    authtoken.AccessTokenManager
	passwords password.Config

	dummyHash string
}

// HandlerOption overrides a default handler dependency.
type HandlerOption func(*Handler)

// WithIdentityStore overrides the default Postgres-backed identity store.
func WithIdentityStore(st identity.Store) HandlerOption {
	return func(h *Handler) {
		if h == nil || st == nil {
			return
		}
		h.identity = st
	}
}

// WithKnowledgeStore overrides the default Postgres-backed knowledge store.
func WithKnowledgeStore(st knowledge.Store) HandlerOption {
	return func(h *Handler) {
		if h == nil || st == nil {
			return
		}
		h.knowledge = st
	}
}

// WithTokenManager overrides the default JWT access-token manager.
func WithTokenManager(m authtoken.AccessTokenManager) HandlerOption {
	return func(h *Handler) {
		if h == nil || m == nil {
			return
		}
		h.tokens = m
	}
}

// NewHandler constructs the API handler. If dbEnabled is false, handlers return 503.
func NewHandler(log *slog.Logger, pool *pgxpool.Pool, cfg Config, tokCfg authtoken.Config, pwCfg password.Config, dbEnabled bool, opts ...HandlerOption) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}

	h := &Handler{
		log:       log,
		cfg:       cfg,
		dbEnabled: dbEnabled,
		pool:      pool,
		passwords: pwCfg,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(h)
	}

	if !dbEnabled {
		return h, nil
	}

	if (h.identity == nil || h.knowledge == nil) && pool == nil {
		return nil, errors.New("auth: nil db pool")
	}
	if h.identity == nil {
		st, err := identity.NewPostgresStore(pool, identityStoreOpts(cfg)...)
		if err != nil {
			return nil, err
		}
		h.identity = st
	}
	if h.knowledge == nil {
		st, err := knowledge.NewPostgresStore(pool, knowledgeStoreOpts(cfg)...)
		if err != nil {
			return nil, err
		}
		h.knowledge = st
	}
	if h.tokens == nil {
		mgr, err := authtoken.NewJWTManager(tokCfg)
		if err != nil {
			return nil, err
		}
		h.tokens = mgr
	}

	// Dummy hash for timing-resistant login checks.
	if hash, err := pwCfg.Hash("dummy-password-for-timing-only"); err == nil {
		h.dummyHash = hash
	}

	return h, nil
}

func identityStoreOpts(cfg Config) []identity.PostgresOption {
	if strings.TrimSpace(cfg.DBSchema) == "" {
		return nil
	}
	return []identity.PostgresOption{identity.WithSchema(cfg.DBSchema)}
}

func knowledgeStoreOpts(cfg Config) []knowledge.StoreOption {
	if strings.TrimSpace(cfg.DBSchema) == "" {
		return nil
	}
	return []knowledge.StoreOption{knowledge.WithSchema(cfg.DBSchema)}
}

// Register wires the API routes onto the provided mux.
//
// Method-qualified patterns let the mux answer 405 for wrong methods and
// carry the folder_id/theme_id path values.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("POST /reg", h.handleRegister)
	mux.HandleFunc("POST /login", h.handleLogin)

	mux.HandleFunc("POST /add_one_folder", h.handleFolderCreate)
	mux.HandleFunc("GET /folders", h.handleFolderList)
	mux.HandleFunc("POST /folders/{folder_id}/add_theme", h.handleThemeCreate)
	mux.HandleFunc("GET /folders/{folder_id}/themes", h.handleThemeList)
	mux.HandleFunc("POST /themes/{theme_id}/add_record", h.handleRecordCreate)
	mux.HandleFunc("GET /themes/{theme_id}/records", h.handleRecordList)
	mux.HandleFunc("POST /knowledge_queue", h.handleKnowledgeQueueCreate)
	mux.HandleFunc("GET /knowledge_queue", h.handleKnowledgeQueueList)
}

// ---- auth handlers ----

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !h.dbEnabled {
		writeError(w, http.StatusServiceUnavailable, "db_unavailable", "database not configured")
		return
	}

	var req registerRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	login := identity.NormalizeLogin(req.Login)
	if login == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "login is required")
		return
	}

	ctx := r.Context()
	ip := clientIP(r, h.cfg.TrustProxy)
	ua := strings.TrimSpace(r.UserAgent())

	// Uniqueness pre-check; a concurrent registration slipping past it is
	// caught again by the store's unique-violation mapping below.
	if _, err := h.identity.GetUserByLogin(ctx, login); err == nil {
		h.auditRegisterConflict(ctx, login, ip, ua)
		writeError(w, http.StatusConflict, "login_taken", "a user with this login already exists")
		return
	} else if !identity.IsNotFound(err) {
		h.log.Error("auth.register.lookup.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	hash, err := h.passwords.Hash(req.Password)
	if err != nil {
		switch {
		case errors.Is(err, password.ErrPasswordTooShort),
			errors.Is(err, password.ErrPasswordTooLong),
			errors.Is(err, password.ErrWeakPassword):
			writeError(w, http.StatusBadRequest, "invalid_request", "password does not meet the configured policy")
		default:
			h.log.Error("auth.register.hash.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		}
		return
	}

	res, err := h.identity.CreateUser(ctx, identity.CreateUserInput{
		Login:        login,
		PasswordHash: hash,
	})
	if err != nil {
		switch {
		case identity.IsConflict(err):
			h.auditRegisterConflict(ctx, login, ip, ua)
			writeError(w, http.StatusConflict, "login_taken", "a user with this login already exists")
		case identity.IsInvalidInput(err):
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid input")
		default:
			h.log.Error("auth.register.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		}
		return
	}

	h.auditRegisterSuccess(ctx, res.User.ID, res.User.Login, ip, ua)

	writeJSON(w, http.StatusCreated, registerResponse{
		ID:    res.User.ID,
		Login: res.User.Login,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.dbEnabled {
		writeError(w, http.StatusServiceUnavailable, "db_unavailable", "database not configured")
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	username := identity.NormalizeLogin(req.Username)
	pw := req.HashedPassword
	if username == "" || strings.TrimSpace(pw) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()
	ip := clientIP(r, h.cfg.TrustProxy)
	ua := strings.TrimSpace(r.UserAgent())

	u, err := h.identity.GetUserByLogin(ctx, username)
	if err != nil {
		if identity.IsNotFound(err) {
			// Timing resistance: burn a verify against a fixed hash so the
			// unknown-login path costs about as much as a mismatch.
			if h.dummyHash != "" {
				_, _ = h.passwords.Verify(h.dummyHash, pw)
			}
			h.auditLoginFailed(ctx, nil, username, ip, ua, "not_found")
			writeUnauthorized(w, "invalid_credentials", "incorrect username or password")
			return
		}
		h.log.Error("auth.login.lookup.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	okPw, err := h.passwords.Verify(u.PasswordHash, pw)
	if err != nil || !okPw {
		h.auditLoginFailed(ctx, &u.ID, username, ip, ua, "bad_password")
		writeUnauthorized(w, "invalid_credentials", "incorrect username or password")
		return
	}

	tok, _, err := h.tokens.Issue(u.Login, now)
	if err != nil {
		h.log.Error("auth.login.issue_token.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	h.auditLoginSuccess(ctx, u.ID, u.Login, ip, ua, tok)
	h.setAccessTokenCookie(w, tok)

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: tok,
		TokenType:   "bearer",
	})
}

// ---- knowledge handlers ----

func (h *Handler) handleFolderCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	var req folderCreateRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	folder, err := h.knowledge.CreateFolder(r.Context(), knowledge.CreateFolderInput{
		TextFolder:     req.TextFolder,
		NumberOfTopics: req.NumberOfTopics,
		UserID:         u.ID,
		Now:            time.Now().UTC(),
	})
	if err != nil {
		h.writeAddError(w, "folder", "Failed to add folder.", err)
		return
	}

	writeJSON(w, http.StatusOK, toFolderResponse(folder))
}

func (h *Handler) handleFolderList(w http.ResponseWriter, r *http.Request) {
	u, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	folders, err := h.knowledge.ListFoldersByUser(r.Context(), u.ID)
	if err != nil {
		h.writeListError(w, "folders", err)
		return
	}

	writeJSON(w, http.StatusOK, toFolderResponses(folders))
}

func (h *Handler) handleThemeCreate(w http.ResponseWriter, r *http.Request) {
	// The requesting identity is only a gate here: theme creation trusts the
	// structural folder id without an ownership re-check.
	if _, ok := h.requireAuth(w, r); !ok {
		return
	}

	folderID, ok := pathID(r, "folder_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "folder_id must be an integer")
		return
	}

	var req themeCreateRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	theme, err := h.knowledge.CreateTheme(r.Context(), knowledge.CreateThemeInput{
		NameTheme:       req.NameTheme,
		NumberOfRecords: req.NumberOfRecords,
		FolderID:        folderID,
		Now:             time.Now().UTC(),
	})
	if err != nil {
		h.writeAddError(w, "theme", "Failed to add theme.", err)
		return
	}

	writeJSON(w, http.StatusOK, toThemeResponse(theme))
}

func (h *Handler) handleThemeList(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAuth(w, r); !ok {
		return
	}

	folderID, ok := pathID(r, "folder_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "folder_id must be an integer")
		return
	}

	themes, err := h.knowledge.ListThemesByFolder(r.Context(), folderID)
	if err != nil {
		h.writeListError(w, "themes", err)
		return
	}

	writeJSON(w, http.StatusOK, toThemeResponses(themes))
}

func (h *Handler) handleRecordCreate(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAuth(w, r); !ok {
		return
	}

	themeID, ok := pathID(r, "theme_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "theme_id must be an integer")
		return
	}

	var req recordCreateRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	rec, err := h.knowledge.CreateRecord(r.Context(), knowledge.CreateRecordInput{
		NameRecord:  req.NameRecord,
		TextRecords: req.TextRecords,
		CountText:   req.CountText,
		ThemeID:     themeID,
		Now:         time.Now().UTC(),
	})
	if err != nil {
		h.writeAddError(w, "record", "Failed to add record.", err)
		return
	}

	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

func (h *Handler) handleRecordList(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAuth(w, r); !ok {
		return
	}

	themeID, ok := pathID(r, "theme_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "theme_id must be an integer")
		return
	}

	records, err := h.knowledge.ListRecordsByTheme(r.Context(), themeID)
	if err != nil {
		h.writeListError(w, "records", err)
		return
	}

	writeJSON(w, http.StatusOK, toRecordResponses(records))
}

func (h *Handler) handleKnowledgeQueueCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	var req knowledgeQueueCreateRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	// req.NextAlertCard is intentionally dropped; the store nulls the column.
	q, err := h.knowledge.CreateKnowledgeQueue(r.Context(), knowledge.CreateKnowledgeQueueInput{
		ContentKnowledgeQueue: req.ContentKnowledgeQueue,
		CompletedTaskStatus:   req.CompletedTaskStatus,
		NumberOfCycles:        req.NumberOfCycles,
		UserID:                u.ID,
		Now:                   time.Now().UTC(),
	})
	if err != nil {
		h.writeAddError(w, "knowledge_queue", "Failed to add knowledge queue.", err)
		return
	}

	writeJSON(w, http.StatusOK, toKnowledgeQueueResponse(q))
}

func (h *Handler) handleKnowledgeQueueList(w http.ResponseWriter, r *http.Request) {
	u, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	queues, err := h.knowledge.ListKnowledgeQueuesByUser(r.Context(), u.ID)
	if err != nil {
		h.writeListError(w, "knowledge_queue", err)
		return
	}

	writeJSON(w, http.StatusOK, toKnowledgeQueueResponses(queues))
}

// ---- helpers ----

// requireAuth resolves the caller from the access cookie.
//
// Identity rides exclusively on the cookie; there is no Authorization header
// fallback. A missing cookie, a malformed/tampered/expired token, or a
// subject that no longer maps to a user all collapse to the same 401.
func (h *Handler) requireAuth(w http.ResponseWriter, r *http.Request) (identity.User, bool) {
	if !h.dbEnabled {
		writeError(w, http.StatusServiceUnavailable, "db_unavailable", "database not configured")
		return identity.User{}, false
	}

	tok := h.accessTokenFromCookie(r)
	if tok == "" {
		writeUnauthorized(w, "unauthorized", "could not verify credentials")
		return identity.User{}, false
	}

	claims, err := h.tokens.Verify(tok, time.Now().UTC())
	if err != nil {
		writeUnauthorized(w, "unauthorized", "could not verify credentials")
		return identity.User{}, false
	}

	u, err := h.identity.GetUserByLogin(r.Context(), claims.Subject)
	if err != nil {
		if identity.IsNotFound(err) {
			writeUnauthorized(w, "unauthorized", "could not verify credentials")
		} else {
			h.log.Error("auth.resolve_user.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		}
		return identity.User{}, false
	}

	return u, true
}

// writeAddError maps create-path store errors onto the flat 400 the wire
// contract uses for every "failed to add" case; only unexpected store
// failures escalate to 500.
func (h *Handler) writeAddError(w http.ResponseWriter, entity, msg string, err error) {
	switch {
	case knowledge.IsConflict(err), knowledge.IsNotFound(err), knowledge.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, "add_failed", msg)
	default:
		h.log.Error("knowledge."+entity+".add.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}

func (h *Handler) writeListError(w http.ResponseWriter, entity string, err error) {
	if knowledge.IsInvalidInput(err) {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid input")
		return
	}
	h.log.Error("knowledge."+entity+".list.fail", "err", err)
	writeError(w, http.StatusInternalServerError, "server_error", "internal error")
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue(name)), 10, 64)
	return id, err == nil
}

func clientIP(r *http.Request, trustProxy bool) net.IP {
	if trustProxy {
		if ip := parseForwardedIP(r.Header.Get("X-Forwarded-For")); ip != nil {
			return ip
		}
		if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil {
		if ip := net.ParseIP(host); ip != nil {
			return ip
		}
	}
	return nil
}

func parseForwardedIP(raw string) net.IP {
	if raw == "" {
		return nil
	}
	for _, p := range strings.Split(raw, ",") {
		if ip := net.ParseIP(strings.TrimSpace(p)); ip != nil {
			return ip
		}
	}
	return nil
}
