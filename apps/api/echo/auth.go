package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Renato2024Valente/Buscativa2026/core"
	"github.com/Renato2024Valente/Buscativa2026/core/access"
)

const (
	sessionCookie     = "buscativa_session"
	sessionSubject    = "attendance"
	contextSessionKey = "session"
)

// Claims represents the session claims transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
}

type sessionManager struct {
	key    []byte
	issuer string
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func newSessionManager(conf *core.Config) *sessionManager {
	return &sessionManager{
		key:    []byte(conf.SecretKey),
		issuer: conf.AppName,
		ttl:    conf.Server.SessionTTL,
		secure: !(conf.Debug || conf.TestMode),
		now:    time.Now,
	}
}

// GenerateToken returns a signed session token and its expiry.
func (sm *sessionManager) GenerateToken() (string, time.Time, error) {
	now := sm.now()
	exp := now.Add(sm.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    sm.issuer,
			Subject:   sessionSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sm.key)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "signing token")
	}
	return token, exp, nil
}

func (sm *sessionManager) parseToken(token string) (*Claims, error) {
	claims := new(Claims)
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return sm.key, nil
	})
	if err != nil || !parsed.Valid || claims.Subject != sessionSubject {
		return nil, errUnauthorized
	}
	return claims, nil
}

// tokenFromRequest reads the session token from the Authorization header or the session cookie.
func tokenFromRequest(ctx echo.Context) string {
	if auth := ctx.Request().Header.Get(echo.HeaderAuthorization); auth != "" {
		if scheme, token, ok := strings.Cut(auth, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := ctx.Cookie(sessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func (sm *sessionManager) authenticated(ctx echo.Context) bool {
	token := tokenFromRequest(ctx)
	if token == "" {
		return false
	}
	claims, err := sm.parseToken(token)
	if err != nil {
		return false
	}
	ctx.Set(contextSessionKey, claims)
	return true
}

// middleware rejects requests without a valid session.
func (sm *sessionManager) middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !sm.authenticated(ctx) {
				return errUnauthorized
			}
			return next(ctx)
		}
	}
}

func (sm *sessionManager) cookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

type (
	PasswordRequest struct {
		Password string `json:"password"`
	}

	LoginResponse struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}

	StatusResponse struct {
		OK            bool `json:"ok"`
		Authenticated bool `json:"authenticated"`
	}

	OKResponse struct {
		OK bool `json:"ok"`
	}
)

type authApi struct {
	sessions *sessionManager
	gate     *access.Gate
}

func registerAuthAPI(g *echo.Group, sessions *sessionManager, gate *access.Gate) {
	api := authApi{sessions: sessions, gate: gate}

	ag := g.Group("/auth")
	ag.GET("/status", api.status)
	ag.POST("/login", api.login)
	ag.POST("/logout", api.logout)
}

func (api *authApi) status(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, StatusResponse{OK: true, Authenticated: api.sessions.authenticated(ctx)})
}

func (api *authApi) login(ctx echo.Context) error {
	var data PasswordRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordRequest")
	}
	if err := api.gate.Check(data.Password); err != nil {
		return err
	}

	token, exp, err := api.sessions.GenerateToken()
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	ctx.SetCookie(api.sessions.cookie(token, exp))
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, ExpiresAt: exp.UTC()})
}

func (api *authApi) logout(ctx echo.Context) error {
	cookie := api.sessions.cookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	ctx.SetCookie(cookie)
	return ctx.JSON(http.StatusOK, OKResponse{OK: true})
}
