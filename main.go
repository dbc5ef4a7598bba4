package main

import (
	"database/sql"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aggrandize/agencydesk/api"
	"github.com/aggrandize/agencydesk/core"
	"github.com/aggrandize/agencydesk/logging"
	"github.com/aggrandize/agencydesk/sqldb"
	"github.com/aggrandize/agencydesk/sqldb/mysql"
	"github.com/aggrandize/agencydesk/sqldb/sqlite3"
	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/xo/dburl"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {

	var configPath string // is in both FlagSets

	// default FlagSet

	flag.StringVar(&configPath, "config", "", "read settings from this ini `file`")
	var dbArg = flag.String("db", "", "sql database url, see github.com/xo/dburl, overrides the config file")
	var debug = flag.Bool("debug", false, "log with the development encoder")
	var listenAddr = flag.String("listen", "", "serve HTTP at this `ip:port`, overrides the config file")

	// init FlagSet

	var initFlags = flag.NewFlagSet("init", flag.ExitOnError)
	initFlags.StringVar(&configPath, "config", "", "read settings from this ini `file`")
	var initEmail = initFlags.String("user", "", "create this user and prompt for a password")
	var initRole = initFlags.String("role", "admin", "role of the created user")

	var isInit = len(os.Args) > 1 && os.Args[1] == "init"
	if isInit {
		initFlags.Parse(os.Args[2:])
	} else {
		flag.Parse()
	}

	logger, err := logging.New(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := core.LoadConfig(configPath)
	if err != nil {
		logger.Errorw("could not load config", "err", err)
		return
	}
	if *dbArg != "" {
		cfg.DBURL = *dbArg
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	// database

	dbURL, err := dburl.Parse(cfg.DBURL)
	if err != nil {
		logger.Errorw("could not parse database url", "err", err)
		return
	}

	sqlDB, err := sql.Open(dbURL.Driver, dbURL.DSN)
	if err != nil {
		logger.Errorw("could not open sql database", "err", err)
		return
	}

	if err = sqlDB.Ping(); err != nil {
		logger.Errorw("could not ping sql database", "err", err)
		return
	}

	logger.Infow("using database", "driver", dbURL.Driver)

	var sessionStore scs.Store
	switch dbURL.Driver {
	case "mysql":
		sessionStore = mysql.NewSessionStore(sqlDB)
	case "sqlite3":
		sessionStore = sqlite3.NewSessionStore(sqlDB)
	default:
		logger.Errorw("unknown database backend", "driver", dbURL.Driver)
		return
	}

	// assemble stuff

	var base = strings.Trim(cfg.Base, "/")
	if base != "" {
		base = "/" + base
	}

	db := &core.CoreDB{}
	db.Allowlists = cfg.Allowlists
	db.Logger = logger
	if err := db.Init(sessionStore, base); err != nil {
		logger.Errorw("could not init", "err", err) // not Fatalw, deferred functions must run
		return
	}

	db.UserDB = sqldb.NewUserDB(sqlDB)
	db.OrderDB = sqldb.NewOrderDB(sqlDB)
	db.InventoryDB = sqldb.NewInventoryDB(sqlDB)
	itemDB := sqldb.NewItemDB(sqlDB)
	db.ItemDB = itemDB
	db.PaymentDB = sqldb.NewPaymentDB(sqlDB, itemDB)
	db.FinanceDB = sqldb.NewFinanceDB(sqlDB)
	db.SqlDB = sqlDB

	defer func() {
		logger.Info("closing database")
		sqlDB.Close()
	}()

	// init

	if isInit {
		if *initEmail != "" {
			insertUser(db, *initEmail, core.Role(*initRole))
		} else {
			initFlags.Usage()
		}
		return
	}

	listen(db, logger, cfg.ListenAddr, base)
}

func insertUser(db *core.CoreDB, email string, role core.Role) {

	if !role.Valid() {
		db.Logger.Errorw("unknown role", "role", role)
		return
	}

	fmt.Printf("password for user %s: ", email)
	pass1, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		db.Logger.Errorw("error reading password", "err", err)
		return
	}

	fmt.Printf("repeat password: ")
	pass2, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		db.Logger.Errorw("error reading password", "err", err)
		return
	}

	if string(pass1) != string(pass2) {
		db.Logger.Error("passwords don't match")
		return
	}

	profile, err := db.UpsertProfile(email, "", role)
	if err != nil {
		db.Logger.Errorw("error creating user", "email", email, "err", err)
		return
	}

	if err := db.SetPassword(profile.ID, string(pass1)); err != nil {
		db.Logger.Errorw("error setting password", "err", err)
		return
	}
}

func listen(db *core.CoreDB, logger *zap.SugaredLogger, addr string, base string) {

	var handler http.Handler = api.NewRouter(db)
	if base != "" {
		handler = http.StripPrefix(base, handler)
	}

	sigintChannel := make(chan os.Signal, 1)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Errorw("could not listen", "addr", addr, "err", err)
		return
	}

	logger.Infow("listening", "addr", addr)

	httpSrv := &http.Server{
		Handler:      db.SessionManager.LoadAndSave(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil {

			// don't panic, we want a graceful shutdown
			if err != http.ErrServerClosed {
				logger.Errorw("error listening", "err", err)
			}

			// ensure graceful shutdown
			sigintChannel <- os.Interrupt
		}
	}()

	// graceful shutdown

	signal.Notify(sigintChannel, os.Interrupt, syscall.SIGTERM) // SIGINT (Interrupt) or SIGTERM
	<-sigintChannel

	logger.Info("shutting down")
	httpSrv.Close()
}
