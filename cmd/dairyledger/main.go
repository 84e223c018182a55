package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/doodhdairy/dairyledger/config"
	"github.com/doodhdairy/dairyledger/internal/adminapi"
	"github.com/doodhdairy/dairyledger/internal/app"
	"github.com/doodhdairy/dairyledger/internal/webserver"
	"go.uber.org/zap"
)

var (
	cfile   = flag.String("c", "dairyledger.yml", "config file")
	initdb  = flag.Bool("initdb", false, "drop and recreate all tables")
	mktoken = flag.String("mktoken", "", "issue an operator token: uid:name:role")
)

func main() {
	flag.Parse()

	cfg := config.LoadConfig(*cfile)

	if *mktoken != "" {
		issueToken(cfg, *mktoken)
		return
	}

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	ws := webserver.Init(cfg, application.DB(), application)
	adminapi.Init(application.Ledger(), application.Reports(), application.Snapshots())

	if err := ws.Start(); err != nil {
		zap.L().Fatal("web server failed", zap.Error(err))
	}
}

func issueToken(cfg *config.AppConfig, spec string) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		fmt.Fprintln(os.Stderr, "usage: -mktoken uid:name:role")
		os.Exit(1)
	}
	token, err := webserver.IssueToken(cfg.Web.Secret, parts[0], parts[1], parts[2], 24*time.Hour)
	if err != nil {
		fmt.Fprintln(os.Stderr, "token error:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
