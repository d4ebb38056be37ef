package authapi

import (
	"context"
	"net"
	"strings"

	"github.com/Gratix0/FastapiMindRememberAPI/cmd/identity/ids"
	"github.com/Gratix0/FastapiMindRememberAPI/cmd/security/token"

	"github.com/jackc/pgx/v5"
)

// Best-effort audit trail for register/login attempts. Rows land in
// <schema>.auth_events; a failed insert is logged and swallowed so auditing
// can never fail a request.

func (h *Handler) auditRegisterSuccess(ctx context.Context, userID int64, login string, ip net.IP, ua string) {
	h.insertAuthEvent(ctx, "auth.register", "success", &userID, login, ip, ua, "")
}

func (h *Handler) auditRegisterConflict(ctx context.Context, login string, ip net.IP, ua string) {
	h.insertAuthEvent(ctx, "auth.register", "login_taken", nil, login, ip, ua, "")
}

func (h *Handler) auditLoginSuccess(ctx context.Context, userID int64, login string, ip net.IP, ua string, accessToken string) {
	// Only a keyed fingerprint of the token is stored, never the token.
	h.insertAuthEvent(ctx, "auth.login", "success", &userID, login, ip, ua, token.FingerprintHex(accessToken))
}

func (h *Handler) auditLoginFailed(ctx context.Context, userID *int64, login string, ip net.IP, ua string, reason string) {
	h.insertAuthEvent(ctx, "auth.login", reason, userID, login, ip, ua, "")
}

func (h *Handler) insertAuthEvent(ctx context.Context, event, outcome string, userID *int64, login string, ip net.IP, ua string, tokenFP string) {
	if h == nil || h.pool == nil || !h.dbEnabled {
		return
	}

	table := pgx.Identifier{h.auditSchema(), "auth_events"}.Sanitize()

	var ipVal any
	if ip != nil {
		ipVal = ip.String()
	}

	var reqID any
	if id := ids.RequestID(ctx); id != "" {
		reqID = id
	}

	_, err := h.pool.Exec(ctx, `
		INSERT INTO `+table+` (
			event, outcome, user_id, login, request_id, ip, user_agent, token_fingerprint, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
	`, event, outcome, userID, trimOrNil(login), reqID, ipVal, trimOrNil(ua), trimOrNil(tokenFP))
	if err != nil {
		h.log.Error("auth.audit.insert.fail", "err", err, "event", event, "outcome", outcome)
	}
}

func (h *Handler) auditSchema() string {
	s := strings.TrimSpace(h.cfg.DBSchema)
	if s == "" {
		return "mindremember"
	}
	return s
}

func trimOrNil(s string) any {
	v := strings.TrimSpace(s)
	if v == "" {
		return nil
	}
	return v
}
