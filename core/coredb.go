package core

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"go.uber.org/zap"
)

// CoreDB bundles the stores, the session manager and the permission config.
// main assembles it from the sqldb implementations.
type CoreDB struct {
	UserDB
	OrderDB
	ItemDB
	PaymentDB
	InventoryDB
	FinanceDB

	SessionManager *scs.SessionManager
	Allowlists     Allowlists
	Logger         *zap.SugaredLogger

	SqlDB *sql.DB // required for the init subcommand
}

func (c *CoreDB) Init(sessionStore scs.Store, cookiePath string) error {
	if c.Logger == nil {
		c.Logger = zap.NewNop().Sugar()
	}

	c.SessionManager = scs.New()
	c.SessionManager.Store = sessionStore
	c.SessionManager.Cookie.Path = cookiePath + "/"
	c.SessionManager.Cookie.Persist = false                 // don't keep the cookie across browser sessions
	c.SessionManager.Cookie.SameSite = http.SameSiteLaxMode // good CSRF protection if HTTP GET doesn't modify anything
	c.SessionManager.Cookie.Secure = false                  // else running on localhost or behind a http proxy fails
	c.SessionManager.IdleTimeout = 12 * time.Hour
	c.SessionManager.Lifetime = 720 * time.Hour

	return nil
}
