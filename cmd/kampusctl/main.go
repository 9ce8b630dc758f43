// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command kampusctl is a terminal client for the campus event bulletin.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/olegiv/kampus-go/internal/client"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs one command. Any error or panic is turned into a fallback
// message with a retry hint and a non-zero exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			reportFailure(stderr, fmt.Errorf("%v", r))
			code = 2
		}
	}()

	fs := flag.NewFlagSet("kampusctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	origin := fs.String("api", envOr("KAMPUS_API_URL", client.DefaultOrigin), "API origin")
	sessionPath := fs.String("session", "", "Session file (default: user config dir)")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		usage(fs)
		return 2
	}

	app, err := newApp(*origin, *sessionPath, stdout)
	if err != nil {
		reportFailure(stderr, err)
		return 1
	}

	if err := app.run(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		reportFailure(stderr, err)
		return 1
	}
	return 0
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	_, _ = fmt.Fprintf(out, "kampusctl - campus event bulletin client\n\n")
	_, _ = fmt.Fprintf(out, "Usage: kampusctl [options] <command> [args]\n\n")
	_, _ = fmt.Fprintf(out, "Commands:\n")
	_, _ = fmt.Fprintf(out, "  register -name N -email E -password P\n")
	_, _ = fmt.Fprintf(out, "  login -email E -password P\n")
	_, _ = fmt.Fprintf(out, "  logout\n")
	_, _ = fmt.Fprintf(out, "  events\n")
	_, _ = fmt.Fprintf(out, "  event <id>\n")
	_, _ = fmt.Fprintf(out, "  add -title T -date YYYY-MM-DD -location L -description D -organizer O [-image FILE]\n")
	_, _ = fmt.Fprintf(out, "  delete <id>\n\n")
	_, _ = fmt.Fprintf(out, "Options:\n")
	fs.PrintDefaults()
}

func reportFailure(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Something went wrong: %v\n", err)
	_, _ = fmt.Fprintf(w, "Check that the server is running and retry the command.\n")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type app struct {
	api     *client.Client
	session *client.Session
	board   *client.Board
	out     io.Writer
}

func newApp(origin, sessionPath string, out io.Writer) (*app, error) {
	api, err := client.New(origin, nil)
	if err != nil {
		return nil, err
	}
	if sessionPath == "" {
		sessionPath, err = client.DefaultSessionPath()
		if err != nil {
			return nil, err
		}
	}
	session, err := client.LoadSession(sessionPath)
	if err != nil {
		return nil, err
	}
	return &app{
		api:     api,
		session: session,
		board:   client.NewBoard(api),
		out:     out,
	}, nil
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.show(client.ViewRegister, func() error { return a.register(ctx, args) })
	case "login":
		return a.show(client.ViewLogin, func() error { return a.login(ctx, args) })
	case "logout":
		return a.logout()
	case "events":
		return a.show(client.ViewEvents, func() error { return a.listEvents(ctx) })
	case "event":
		if len(args) != 1 {
			return errors.New("usage: event <id>")
		}
		return a.show(client.ViewEvent, func() error { return a.showEvent(ctx, args[0]) })
	case "add":
		return a.show(client.ViewEvents, func() error { return a.addEvent(ctx, args) })
	case "delete":
		if len(args) != 1 {
			return errors.New("usage: delete <id>")
		}
		return a.show(client.ViewEvents, func() error { return a.deleteEvent(ctx, args[0]) })
	default:
		_, _ = fmt.Fprintf(a.out, "Page not found: %s\n", cmd)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// show renders view, or the login prompt when the guard redirects.
func (a *app) show(view client.View, render func() error) error {
	if client.Guard(a.session, view) != view {
		_, _ = fmt.Fprintln(a.out, "Please log in first: kampusctl login -email E -password P")
		return errors.New("not logged in")
	}
	return render()
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "Full name")
	email := fs.String("email", "", "Email")
	password := fs.String("password", "", "Password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.api.Register(ctx, *name, *email, *password)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "Registered %s <%s>. You can now log in.\n", user.Name, user.Email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "Email")
	password := fs.String("password", "", "Password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.session.Login(user); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "Welcome, %s.\n", user.Name)
	return nil
}

func (a *app) logout() error {
	if err := a.session.Logout(); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *app) listEvents(ctx context.Context) error {
	if err := a.board.Refresh(ctx); err != nil {
		return fmt.Errorf("loading events: %w", err)
	}
	events := a.board.Events()
	if len(events) == 0 {
		_, _ = fmt.Fprintln(a.out, "No events yet.")
		return nil
	}
	for _, e := range events {
		_, _ = fmt.Fprintf(a.out, "%s  %s  %s @ %s\n", e.ID, e.Date, e.Title, e.Location)
	}
	return nil
}

func (a *app) showEvent(ctx context.Context, id string) error {
	if err := a.board.Refresh(ctx); err != nil {
		return fmt.Errorf("loading events: %w", err)
	}
	e, ok := a.board.Find(id)
	if !ok {
		_, _ = fmt.Fprintf(a.out, "Event %s not found.\n", id)
		return fmt.Errorf("event %s not found", id)
	}

	_, _ = fmt.Fprintf(a.out, "%s\n", e.Title)
	_, _ = fmt.Fprintf(a.out, "Date:        %s\n", e.Date)
	_, _ = fmt.Fprintf(a.out, "Location:    %s\n", e.Location)
	_, _ = fmt.Fprintf(a.out, "Organizer:   %s\n", e.Organizer)
	if e.Image != "" {
		_, _ = fmt.Fprintf(a.out, "Image:       %s\n", e.Image)
	}
	_, _ = fmt.Fprintf(a.out, "\n%s\n", e.Description)
	return nil
}

func (a *app) addEvent(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	title := fs.String("title", "", "Title")
	date := fs.String("date", "", "Date (YYYY-MM-DD)")
	location := fs.String("location", "", "Location")
	description := fs.String("description", "", "Description")
	organizer := fs.String("organizer", "", "Organizer")
	imagePath := fs.String("image", "", "Image file (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *title == "" || *date == "" || *location == "" || *description == "" || *organizer == "" {
		return errors.New("all text fields are required")
	}

	ev := client.NewEvent{
		Title:       *title,
		Date:        *date,
		Location:    *location,
		Description: *description,
		Organizer:   *organizer,
	}
	if *imagePath != "" {
		f, err := os.Open(*imagePath)
		if err != nil {
			return fmt.Errorf("opening image: %w", err)
		}
		defer func() { _ = f.Close() }()
		ev.Image = f
		ev.ImageName = filepath.Base(*imagePath)
	}

	created, err := a.board.Add(ctx, ev)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "Added event %s (%s).\n", created.ID, created.Title)
	return nil
}

func (a *app) deleteEvent(ctx context.Context, id string) error {
	if err := a.board.Remove(ctx, id); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "Deleted event %s.\n", id)
	return nil
}
