package session

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"
	goredis "github.com/redis/go-redis/v9"

	"github.com/premiumgate/premiumgate/internal/pkg/cache"
	"github.com/premiumgate/premiumgate/internal/pkg/config"
	"github.com/premiumgate/premiumgate/internal/pkg/usercontext"
)

// CookieName is the session cookie.
const CookieName = "session_id"

// ErrNoSession is returned by UserID when the request carries no login.
var ErrNoSession = errors.New("no authenticated session")

// NewStore builds the session store. Sessions live in redis (DB 1) when a
// reachable cache client is given, otherwise in process memory.
func NewStore(cfg config.Config, cacheClient *goredis.Client, l *log.Logger) *session.Store {
	sc := session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		CookieSecure:   strings.HasPrefix(cfg.PublicBaseURL, "https://"),
		Expiration:     cfg.SessionTTL,
		KeyLookup:      "cookie:" + CookieName,
	}
	if sc.Expiration <= 0 {
		sc.Expiration = 24 * time.Hour
	}

	if cacheClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := cache.Ping(ctx, cacheClient); err != nil {
			l.Warn("cache unreachable, keeping sessions in memory", "err", err)
		} else {
			port, _ := strconv.Atoi(cfg.Cache.Port)
			sc.Storage = redis.New(redis.Config{
				Host:     cfg.Cache.Host,
				Port:     port,
				Password: cfg.Cache.Password,
				Database: cache.SessionDB,
				Reset:    false,
			})
			l.Info("sessions stored in redis", "addr", cfg.Cache.Addr(), "db", cache.SessionDB)
		}
	}

	return session.New(sc)
}

// Login binds the request's session to userID under a fresh session id.
func Login(c *fiber.Ctx, store *session.Store, userID uint) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(usercontext.KeyUserID, userID)
	return sess.Save()
}

// Logout destroys the request's session.
func Logout(c *fiber.Ctx, store *session.Store) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// UserID returns the user id bound to the request's session.
func UserID(c *fiber.Ctx, store *session.Store) (uint, error) {
	sess, err := store.Get(c)
	if err != nil {
		return 0, err
	}
	id, ok := sess.Get(usercontext.KeyUserID).(uint)
	if !ok || id == 0 {
		return 0, ErrNoSession
	}
	return id, nil
}
