// The admin tool operates on the same SQLite file as the main client:
// list, search and delete for users, reservations and reviews, plus
// Excel exports.
//
// Usage:
//
//	admin [-config path] <table> <action> [arg]
//
//	admin users list
//	admin users search 2021
//	admin users delete 2021001
//	admin reservations list
//	admin reservations delete 42
//	admin reviews search soup
//	admin export users|reservations|reviews
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/handicapstudent/ppt-project/internal/config"
	"github.com/handicapstudent/ppt-project/internal/database"
	"github.com/handicapstudent/ppt-project/internal/export"
	"github.com/handicapstudent/ppt-project/internal/logging"
	"github.com/handicapstudent/ppt-project/internal/models"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("admin: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	configPath := fs.String("config", "configs/config.yaml", "path to config.yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) < 2 {
		fs.Usage()
		return fmt.Errorf("expected: <table> <action> [arg]")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	adminLogger := logger.With().Str("component", "admin").Logger()

	db, err := database.NewDB(cfg.Database.Path, &adminLogger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	table, action := rest[0], rest[1]
	arg := ""
	if len(rest) > 2 {
		arg = rest[2]
	}

	switch table {
	case "users":
		return usersCommand(ctx, db, action, arg)
	case "reservations":
		return reservationsCommand(ctx, db, action, arg)
	case "reviews":
		return reviewsCommand(ctx, db, action, arg)
	case "export":
		return exportCommand(ctx, db, cfg, &adminLogger, action)
	default:
		return fmt.Errorf("unknown table %q", table)
	}
}

func usersCommand(ctx context.Context, db *database.DB, action, arg string) error {
	switch action {
	case "list", "search":
		var (
			users []*models.User
			err   error
		)
		if action == "list" {
			users, err = db.ListUsers(ctx)
		} else {
			users, err = db.SearchUsers(ctx, arg)
		}
		if err != nil {
			return err
		}
		for _, u := range users {
			cert := ""
			if len(u.CertBlob) > 0 || u.CertPath != "" {
				cert = " [certificate]"
			}
			fmt.Printf("%s%s\n", u.UserID, cert)
		}
		fmt.Printf("%d user(s)\n", len(users))
		return nil
	case "delete":
		if arg == "" {
			return fmt.Errorf("users delete needs a student id")
		}
		if err := db.DeleteUser(ctx, arg); err != nil {
			return err
		}
		fmt.Printf("deleted user %s\n", arg)
		return nil
	default:
		return fmt.Errorf("unknown users action %q", action)
	}
}

func reservationsCommand(ctx context.Context, db *database.DB, action, arg string) error {
	switch action {
	case "list", "search":
		var (
			reservations []*models.Reservation
			err          error
		)
		if action == "list" {
			reservations, err = db.ListReservations(ctx)
		} else {
			reservations, err = db.SearchReservations(ctx, arg)
		}
		if err != nil {
			return err
		}
		for _, r := range reservations {
			fmt.Printf("#%d %s %s seat %s %s ~ %s\n",
				r.ID, r.UserID, r.Restaurant, r.Seat,
				r.StartTime.Format("2006-01-02 15:04"), r.EndTime.Format("15:04"))
		}
		fmt.Printf("%d reservation(s)\n", len(reservations))
		return nil
	case "delete":
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("reservations delete needs a numeric id")
		}
		if err := db.DeleteReservationByID(ctx, id); err != nil {
			return err
		}
		fmt.Printf("deleted reservation #%d\n", id)
		return nil
	default:
		return fmt.Errorf("unknown reservations action %q", action)
	}
}

func reviewsCommand(ctx context.Context, db *database.DB, action, arg string) error {
	switch action {
	case "list", "search":
		var (
			reviews []*models.Review
			err     error
		)
		if action == "list" {
			reviews, err = db.ListReviews(ctx)
		} else {
			reviews, err = db.SearchReviews(ctx, arg)
		}
		if err != nil {
			return err
		}
		for _, rv := range reviews {
			fmt.Printf("#%d %s [%d/5] %s (%s)\n",
				rv.ID, rv.UserID, rv.Rating, rv.Text, rv.Timestamp.Format("2006-01-02 15:04"))
		}
		fmt.Printf("%d review(s)\n", len(reviews))
		return nil
	case "delete":
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("reviews delete needs a numeric id")
		}
		if err := db.DeleteReview(ctx, id); err != nil {
			return err
		}
		fmt.Printf("deleted review #%d\n", id)
		return nil
	default:
		return fmt.Errorf("unknown reviews action %q", action)
	}
}

func exportCommand(ctx context.Context, db *database.DB, cfg *config.Config, logger *zerolog.Logger, kind string) error {
	exporter := export.NewExporter(cfg.Exports, logger)

	var (
		path string
		err  error
	)
	switch kind {
	case "users":
		var users []*models.User
		if users, err = db.ListUsers(ctx); err == nil {
			path, err = exporter.ExportUsers(users)
		}
	case "reservations":
		var reservations []*models.Reservation
		if reservations, err = db.ListReservations(ctx); err == nil {
			path, err = exporter.ExportReservations(reservations)
		}
	case "reviews":
		var reviews []*models.Review
		if reviews, err = db.ListReviews(ctx); err == nil {
			path, err = exporter.ExportReviews(reviews)
		}
	default:
		return fmt.Errorf("unknown export target %q", kind)
	}
	if err != nil {
		return err
	}

	fmt.Printf("exported to %s\n", path)
	return nil
}
