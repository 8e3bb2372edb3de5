package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/reelplan/reelplan/internal/client"
	"github.com/reelplan/reelplan/internal/config"
	"github.com/reelplan/reelplan/internal/logger"
	"github.com/reelplan/reelplan/internal/models"
	"github.com/reelplan/reelplan/internal/planner"
	"github.com/reelplan/reelplan/internal/provider"
	"github.com/reelplan/reelplan/internal/session"
	"github.com/reelplan/reelplan/internal/store/local"
	"github.com/reelplan/reelplan/internal/store/remote"
)

var (
	version   string
	buildDate string
)

// splashTimeout bounds how long startup waits for the identity provider
// to deliver its first value before the shell opens anyway.
const splashTimeout = time.Second

// waitForSession polls until the session store leaves the loading state
// or the splash timeout elapses.
func waitForSession(sess *session.Store) {
	deadline := time.Now().Add(splashTimeout)
	for sess.Loading() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
}

func promptLine(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func printTasks(tasks []models.CalendarTask) {
	if len(tasks) == 0 {
		fmt.Println("No tasks")
		return
	}
	for _, t := range tasks {
		fmt.Printf("%s %s  %-7s  %s  [%s]\n", t.Date, t.Hour, t.Type, t.Title, t.ID)
	}
}

// repl runs the interactive shell loop, accepting commands to manage the
// content calendar and the current session.
func repl(sess *session.Store, gateway provider.Gateway, facade *planner.Facade) {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("reelplan> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, signup, login, guest, whoami, logout, add, list, day <date>, delete <id>, exit")
		case "signup", "login":
			creds := provider.Credentials{
				Email:    promptLine(scanner, "Email: "),
				Password: promptLine(scanner, "Password: "),
			}
			var (
				p   provider.Principal
				err error
			)
			if args[0] == "signup" {
				p, err = gateway.SignUp(ctx, creds)
			} else {
				p, err = gateway.SignIn(ctx, creds)
			}
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Printf("Signed in as %s\n", p.Email)
		case "guest":
			guest := models.NewGuestIdentity()
			sess.SetIdentity(&guest)
			fmt.Println("Continuing as guest; tasks stay on this device")
		case "whoami":
			identity := sess.Identity()
			switch {
			case identity == nil:
				fmt.Printf("Not signed in (%s)\n", sess.State())
			case identity.IsGuest:
				fmt.Println("Guest")
			default:
				fmt.Printf("%s <%s>\n", identity.DisplayName, identity.Email)
			}
		case "logout":
			if err := sess.SignOut(ctx); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Signed out")
		case "add":
			draft := client.PromptForTask()
			id, err := facade.Create(ctx, draft)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Task created:", id)
		case "list":
			tasks, err := facade.List(ctx)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			printTasks(tasks)
		case "day":
			if len(args) < 2 {
				fmt.Println("Usage: day <date>")
				continue
			}
			tasks, err := facade.ListByDate(ctx, args[1])
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			printTasks(tasks)
		case "delete":
			if len(args) < 2 {
				fmt.Println("Usage: delete <id>")
				continue
			}
			if err := facade.Delete(ctx, args[1]); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Task deleted")
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func main() {
	showVer := flag.Bool("version", false, "show build version and date")
	options := config.Parse()

	if *showVer {
		fmt.Printf("ReelPlan Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	httpClient := &http.Client{Timeout: 10 * time.Second}
	gateway := provider.NewHTTPGateway(httpClient, options.BaseURL, zapLogger)

	sess := session.New(gateway, zapLogger)
	sess.Init()
	defer sess.Dispose()
	waitForSession(sess)

	kv, err := local.Open(options.StatePath)
	if err != nil {
		zapLogger.Fatal("cannot open state file", zap.Error(err))
	}

	localStore := planner.NewLocalOnlyStore(kv)
	var store planner.RecordStore = localStore
	if !options.RemoteDisabled {
		remoteClient := remote.NewClient(httpClient, options.BaseURL, gateway.Token)
		queue := planner.NewMirrorQueue(remoteClient, zapLogger, 64)
		queue.Start(context.Background())
		defer queue.Stop()
		store = planner.NewMirroredStore(localStore, remoteClient, queue, zapLogger)
	}

	facade := planner.NewFacade(sess, kv, store, zapLogger)

	repl(sess, gateway, facade)
}
