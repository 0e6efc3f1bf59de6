package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"railcross"
	"railcross/internal/app"
	"railcross/internal/gateway"
	"railcross/internal/journal"
	"railcross/internal/logger"
	"railcross/internal/nav"
	"railcross/internal/poll"
	"railcross/internal/session"
	"railcross/internal/view"
)

func main() {
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// open the local gate-override journal
	db, err := openJournal(log)
	if err != nil {
		log.Fatalw("failed to init journal", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Errorw("failed to close journal", "err", cerr)
		}
	}()

	// wire dependencies
	store := session.NewStore()
	binder := view.NewConsoleBinder(os.Stdout)
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		binder.DisableColor()
	}

	client := gateway.NewClient(viper.GetString("api.base_url"), apiTimeout(), store, log)
	loc := nav.NewLocation()
	controller := poll.NewController(log)
	router := nav.NewRouter(nav.Deps{
		Location:     loc,
		Session:      store,
		View:         binder,
		Poll:         controller,
		Telemetry:    gateway.NewTelemetryGateway(client),
		History:      gateway.NewHistoryGateway(client),
		PollInterval: pollInterval(),
		Log:          log,
	})
	application := app.New(app.Deps{
		Store:   store,
		Router:  router,
		Auth:    gateway.NewAuthGateway(client),
		Gate:    gateway.NewGateCommandGateway(client),
		Journal: journal.NewRepo(db),
		View:    binder,
		Log:     log,
	})
	client.OnUnauthorized(application.ForceLogout)

	// initial routing
	router.Navigate(railcross.PanelHome.Fragment())

	runCommandLoop(application, router, controller, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

func openJournal(log *logger.Logger) (*sql.DB, error) {
	path := viper.GetString("journal.path")
	if path == "" {
		log.Infow("journal.path not set in config; using default file", "default", "railcross.db")
		path = "railcross.db"
	}
	return journal.Open(path)
}

func pollInterval() time.Duration {
	ms := viper.GetInt("poll.interval_ms")
	if ms <= 0 {
		ms = 2000
	}
	return time.Duration(ms) * time.Millisecond
}

func apiTimeout() time.Duration {
	// 0 means no per-call deadline; a hung call leaves one tick inert.
	return time.Duration(viper.GetInt("api.timeout_ms")) * time.Millisecond
}

// runCommandLoop reads dashboard commands from stdin until quit, EOF, or a
// termination signal.
func runCommandLoop(a *app.App, router *nav.Router, controller *poll.Controller, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sc := bufio.NewScanner(os.Stdin)
		printHelp()
		for {
			fmt.Print("> ")
			if !sc.Scan() {
				return
			}
			if !dispatch(a, router, sc, strings.Fields(strings.TrimSpace(sc.Text()))) {
				return
			}
		}
	}()

	select {
	case <-quit:
		log.Infow("shutting down")
	case <-done:
	}
	// leave no timer behind
	controller.StopIfRunning()
}

// dispatch runs one command; returns false to exit the loop.
func dispatch(a *app.App, router *nav.Router, sc *bufio.Scanner, args []string) bool {
	if len(args) == 0 {
		return true
	}
	ctx := context.Background()
	switch args[0] {
	case "go":
		if len(args) < 2 {
			fmt.Println("usage: go <home|login|signup|dashboard|sensors|history>")
			return true
		}
		router.Navigate("#/" + args[1])
	case "login":
		email := argOr(args, 1, "")
		if email == "" {
			email = prompt(sc, "email: ")
		}
		_ = a.Login(ctx, email, readPassword(sc, "password: "))
	case "signup":
		in := gateway.SignupInput{
			Name:  prompt(sc, "name: "),
			Email: prompt(sc, "email: "),
			Role:  prompt(sc, "role (Government / Railway Officer): "),
		}
		in.Password = readPassword(sc, "password: ")
		in.ConfirmPassword = readPassword(sc, "confirm password: ")
		_ = a.Signup(ctx, in)
	case "logout":
		a.Logout()
	case "gate":
		if len(args) < 2 {
			fmt.Println("usage: gate <open|close>")
			return true
		}
		_ = a.ForceGate(ctx, railcross.GateAction(strings.ToUpper(args[1])))
	case "audit":
		_ = a.Audit(ctx, 50)
	case "help":
		printHelp()
	case "quit", "exit":
		return false
	default:
		fmt.Printf("unknown command %q; try help\n", args[0])
	}
	return true
}

func printHelp() {
	fmt.Println(`commands:
  go <panel>        navigate (home, login, signup, dashboard, sensors, history)
  login [email]     sign in
  signup            register a new account
  gate <open|close> force the gate and log the override
  audit             show the local override journal
  logout            drop the session
  quit              exit`)
}

func argOr(args []string, i int, fallback string) string {
	if len(args) > i {
		return args[i]
	}
	return fallback
}

func prompt(sc *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !sc.Scan() {
		return ""
	}
	return strings.TrimSpace(sc.Text())
}

// readPassword reads without echo when stdin is a terminal, falling back to a
// plain line otherwise (piped input).
func readPassword(sc *bufio.Scanner, label string) string {
	fmt.Print(label)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err == nil {
			return string(b)
		}
	}
	if !sc.Scan() {
		return ""
	}
	return strings.TrimSpace(sc.Text())
}
