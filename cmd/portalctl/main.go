package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/internhub/portal-client/internal/api"
	"github.com/internhub/portal-client/internal/core/domain"
	"github.com/internhub/portal-client/internal/core/ports"
	"github.com/internhub/portal-client/internal/core/service"
	"github.com/internhub/portal-client/internal/infrastructure/storage/bolt"
	"github.com/internhub/portal-client/internal/infrastructure/transport"
	"github.com/internhub/portal-client/internal/pkg/config"
	"github.com/internhub/portal-client/pkg/logger"
)

const usage = `portalctl <command> [flags]

Commands:
  login         -user <name-or-email> -pass <password>
  register      -user -email -pass -name [-role student|company] [...profile flags]
  logout
  whoami
  internships   [-search s] [-location l] [-page n] [-size n]
  show          -id <posting id>
  apply         -id <posting id> [-letter text]
  applications  [-page n] [-size n]
  withdraw      -id <application id>
`

// app bundles the wired client stack for the subcommand handlers.
type app struct {
	manager      *service.SessionManager
	internships  *api.InternshipsClient
	applications *api.ApplicationsClient
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Pretty})

	store, err := bolt.Open(cfg.StorePath)
	if err != nil {
		fatal("open session store: %v", err)
	}
	defer store.Close()

	var manager *service.SessionManager
	tc, err := transport.New(transport.Options{
		BaseURL:        cfg.APIURL,
		Store:          store,
		Timeout:        cfg.HTTPTimeout,
		OnUnauthorized: func() { manager.ForceLogout() },
		Logger:         log,
	})
	if err != nil {
		fatal("%v", err)
	}
	manager = service.NewSessionManager(api.NewAuthClient(tc, log), store, log)
	manager.Rehydrate()

	a := &app{
		manager:      manager,
		internships:  api.NewInternshipsClient(tc),
		applications: api.NewApplicationsClient(tc),
	}

	ctx := context.Background()
	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "login":
		err = a.login(ctx, args)
	case "register":
		err = a.register(ctx, args)
	case "logout":
		a.manager.Logout()
		fmt.Println("logged out")
	case "whoami":
		err = a.whoami()
	case "internships":
		err = a.listInternships(ctx, args)
	case "show":
		err = a.showInternship(ctx, args)
	case "apply":
		err = a.apply(ctx, args)
	case "applications":
		err = a.listApplications(ctx, args)
	case "withdraw":
		err = a.withdraw(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fatal("%v", err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "portalctl: "+format+"\n", args...)
	os.Exit(1)
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	user := fs.String("user", "", "username or email")
	pass := fs.String("pass", "", "password")
	fs.Parse(args)

	sess, err := a.manager.Login(ctx, *user, *pass)
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s (%s)\n", sess.User.Username, sess.User.Role)
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	user := fs.String("user", "", "username")
	email := fs.String("email", "", "email address")
	pass := fs.String("pass", "", "password")
	name := fs.String("name", "", "full name")
	role := fs.String("role", "student", "student or company")
	university := fs.String("university", "", "university (student)")
	major := fs.String("major", "", "major (student)")
	gradYear := fs.Int("grad-year", 0, "graduation year (student)")
	company := fs.String("company", "", "company name (company)")
	industry := fs.String("industry", "", "industry (company)")
	website := fs.String("website", "", "website (company)")
	fs.Parse(args)

	payload := ports.RegisterPayload{
		Username:       *user,
		Email:          *email,
		Password:       *pass,
		FullName:       *name,
		Role:           domain.Role(strings.ToUpper(*role)),
		University:     *university,
		Major:          *major,
		GraduationYear: *gradYear,
		CompanyName:    *company,
		Industry:       *industry,
		Website:        *website,
	}
	sess, err := a.manager.Register(ctx, payload)
	if err != nil {
		return err
	}
	fmt.Printf("registered and signed in as %s (%s)\n", sess.User.Username, sess.User.Role)
	return nil
}

func (a *app) whoami() error {
	sess := a.manager.Current()
	if !sess.Authenticated() {
		fmt.Println("not signed in")
		return nil
	}
	u := sess.User
	fmt.Printf("%s <%s> %s %s\n", u.Username, u.Email, u.FullName, u.Role)
	switch {
	case u.Student != nil:
		fmt.Printf("  %s, %s (class of %d)\n", u.Student.University, u.Student.Major, u.Student.GraduationYear)
	case u.Company != nil:
		fmt.Printf("  %s, %s\n", u.Company.CompanyName, u.Company.Industry)
	}
	return nil
}

func (a *app) listInternships(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("internships", flag.ExitOnError)
	search := fs.String("search", "", "text filter")
	location := fs.String("location", "", "location filter")
	page := fs.Int("page", 0, "page number")
	size := fs.Int("size", 10, "page size")
	fs.Parse(args)

	feed, err := a.internships.ListPublic(ctx, api.PublicListOptions{
		Page:     *page,
		Size:     *size,
		Search:   *search,
		Location: *location,
	})
	if err != nil {
		return err
	}
	for _, p := range feed.Content {
		remote := ""
		if p.Remote {
			remote = " [remote]"
		}
		fmt.Printf("%4d  %-40s %s%s\n", p.ID, p.Title, p.CompanyName, remote)
	}
	fmt.Printf("page %d/%d (%d total)\n", feed.Number+1, feed.TotalPages, feed.TotalElements)
	return nil
}

func (a *app) showInternship(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	id := fs.Int64("id", 0, "posting id")
	fs.Parse(args)

	p, err := a.internships.GetPublic(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s, %s\n\n%s\n", p.Title, p.CompanyName, p.Location, p.Description)
	if p.Requirements != "" {
		fmt.Printf("\nRequirements:\n%s\n", p.Requirements)
	}
	fmt.Printf("\napplications so far: %d\n", p.ApplicationsCount)
	return nil
}

func (a *app) apply(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	id := fs.Int64("id", 0, "posting id")
	letter := fs.String("letter", "", "cover letter")
	fs.Parse(args)

	appn, err := a.applications.Apply(ctx, api.ApplicationRequest{
		InternshipID: *id,
		CoverLetter:  *letter,
	})
	if err != nil {
		return err
	}
	fmt.Printf("application %d submitted (%s)\n", appn.ID, appn.Status)
	return nil
}

func (a *app) listApplications(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("applications", flag.ExitOnError)
	page := fs.Int("page", 0, "page number")
	size := fs.Int("size", 10, "page size")
	fs.Parse(args)

	apps, err := a.applications.Mine(ctx, *page, *size)
	if err != nil {
		return err
	}
	for _, appn := range apps.Content {
		fmt.Printf("%4d  %-40s %s\n", appn.ID, appn.InternshipTitle, appn.Status)
	}
	fmt.Printf("page %d/%d (%d total)\n", apps.Number+1, apps.TotalPages, apps.TotalElements)
	return nil
}

func (a *app) withdraw(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("withdraw", flag.ExitOnError)
	id := fs.Int64("id", 0, "application id")
	fs.Parse(args)

	appn, err := a.applications.Withdraw(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("application %d is now %s\n", appn.ID, appn.Status)
	return nil
}
