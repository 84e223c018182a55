package webserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/doodhdairy/dairyledger/config"
	jwtv4 "github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Context keys populated by server middleware for every request.
const (
	ContextDBKey  = "dairyledger.db"
	ContextAppKey = "dairyledger.app"
)

type WebServer struct {
	cfg    *config.AppConfig
	db     *gorm.DB
	appCtx interface{}
	root   *echo.Echo
	api    *echo.Group
	pub    *echo.Group
}

var server *WebServer

// Init builds the web server: public routes under /api/v1/public and
// JWT-protected routes under /api/v1. The JWT middleware is the
// identity boundary; verified claims carry the caller's id, name and
// role, which handlers thread explicitly into the core.
func Init(cfg *config.AppConfig, db *gorm.DB, appCtx interface{}) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextDBKey, db)
			c.Set(ContextAppKey, appCtx)
			start := time.Now()
			err := next(c)
			zap.L().Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Duration("elapsed", time.Since(start)))
			return err
		}
	})

	pub := e.Group("/api/v1/public")
	api := e.Group("/api/v1")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.Web.Secret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
		},
	}))

	server = &WebServer{cfg: cfg, db: db, appCtx: appCtx, root: e, api: api, pub: pub}
	return server
}

// Start runs the HTTP listener until it fails.
func (s *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port)
	zap.L().Info("starting web server", zap.String("listen", addr))
	return s.root.Start(addr)
}

// Echo exposes the underlying engine (used in tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

func ApiGET(path string, h echo.HandlerFunc)    { server.api.GET(path, h) }
func ApiPOST(path string, h echo.HandlerFunc)   { server.api.POST(path, h) }
func ApiPUT(path string, h echo.HandlerFunc)    { server.api.PUT(path, h) }
func ApiDELETE(path string, h echo.HandlerFunc) { server.api.DELETE(path, h) }
func PubGET(path string, h echo.HandlerFunc)    { server.pub.GET(path, h) }

// IssueToken mints a signed operator token for the given identity.
// Used by the CLI token helper; production deployments normally receive
// tokens from the external identity service instead.
func IssueToken(secret, userID, name, role string, ttl time.Duration) (string, error) {
	claims := jwtv4.MapClaims{
		"uid":  userID,
		"name": name,
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	token := jwtv4.NewWithClaims(jwtv4.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
