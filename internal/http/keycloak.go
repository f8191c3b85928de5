package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/lanternlabs/gatehouse/internal/keycloak"
	"github.com/lanternlabs/gatehouse/internal/service"
	"github.com/lanternlabs/gatehouse/internal/session"
	"github.com/lanternlabs/gatehouse/pkg/cryptox"
	"github.com/lanternlabs/gatehouse/pkg/httpx"
	"github.com/lanternlabs/gatehouse/pkg/slogx"
)

// Short-lived cookies that carry the OIDC flow state across the redirect.
const (
	oidcStateCookie    = "kc_state"
	oidcNonceCookie    = "kc_nonce"
	oidcVerifierCookie = "kc_verifier"

	oidcFlowTTL = 10 * time.Minute
)

type KeycloakHandler struct {
	OIDC         *keycloak.OIDC
	UserService  *service.UserService
	Sessions     *session.Manager
	SecureCookie bool
}

// HandleLogin godoc
//
//	@Summary		Keycloak Login Endpoint
//	@Description	Start a browser login through the Keycloak realm
//	@Tags			Keycloak
//	@Success		302	"redirect to the realm's authorization endpoint"
//	@Router			/auth/keycloak/login [get].
func (h *KeycloakHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state := cryptox.MustGenerateToken(cryptox.TokenSize128)
	nonce := cryptox.MustGenerateToken(cryptox.TokenSize128)
	verifier := cryptox.MustGenerateToken(cryptox.TokenSize256)

	for name, value := range map[string]string{
		oidcStateCookie:    state,
		oidcNonceCookie:    nonce,
		oidcVerifierCookie: verifier,
	} {
		http.SetCookie(w, h.flowCookie(name, value, int(oidcFlowTTL.Seconds())))
	}

	http.Redirect(w, r, h.OIDC.AuthCodeURL(state, nonce, verifier), http.StatusFound)
}

// HandleCallback godoc
//
//	@Summary		Keycloak Callback Endpoint
//	@Description	Finish the realm login: verify the ID token, map it to a local
//	@Description	account and set the session cookie
//	@Tags			Keycloak
//	@Success		302	"redirect to the home page with a session cookie"
//	@Failure		400	{object}	httpx.DetailResponse	"state mismatch, failed exchange or identity without an email"
//	@Router			/auth/keycloak/callback [get].
func (h *KeycloakHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	state, nonce, verifier, ok := h.readFlowCookies(r)
	h.clearFlowCookies(w)
	if !ok || r.URL.Query().Get("state") != state {
		httpx.WriteDetail(w, http.StatusBadRequest, "OIDC_STATE_MISMATCH")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		httpx.WriteDetail(w, http.StatusBadRequest, "OIDC_CODE_MISSING")
		return
	}

	identity, err := h.OIDC.Exchange(ctx, code, nonce, verifier)
	if err != nil {
		log.Warn("keycloak login failed", "err", err)
		httpx.WriteDetail(w, http.StatusBadRequest, "OIDC_EXCHANGE_FAILED")
		return
	}

	user, err := h.UserService.GetOrCreateFederated(ctx, identity.Email, identity.Username)
	if err != nil {
		if errors.Is(err, service.ErrFederatedEmailMissing) {
			httpx.WriteDetail(w, http.StatusBadRequest, "OIDC_EMAIL_MISSING")
			return
		}
		log.Error("failed to map federated identity", "err", err, "subject", identity.Subject)
		httpx.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := h.Sessions.Issue(ctx, user.ID)
	if err != nil {
		log.Error("failed to issue session", "err", err, "user_id", user.ID)
		httpx.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, sessionCookie(token, int(h.Sessions.TTL.Seconds()), h.SecureCookie))
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *KeycloakHandler) flowCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/auth/keycloak",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *KeycloakHandler) readFlowCookies(r *http.Request) (state, nonce, verifier string, ok bool) {
	for name, dst := range map[string]*string{
		oidcStateCookie:    &state,
		oidcNonceCookie:    &nonce,
		oidcVerifierCookie: &verifier,
	} {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return "", "", "", false
		}
		*dst = c.Value
	}
	return state, nonce, verifier, true
}

func (h *KeycloakHandler) clearFlowCookies(w http.ResponseWriter) {
	for _, name := range []string{oidcStateCookie, oidcNonceCookie, oidcVerifierCookie} {
		http.SetCookie(w, h.flowCookie(name, "", -1))
	}
}
