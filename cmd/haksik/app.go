package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/handicapstudent/ppt-project/internal/config"
	"github.com/handicapstudent/ppt-project/internal/database"
	"github.com/handicapstudent/ppt-project/internal/domain"
	"github.com/handicapstudent/ppt-project/internal/events"
	"github.com/handicapstudent/ppt-project/internal/layout"
	"github.com/handicapstudent/ppt-project/internal/menu"
	"github.com/handicapstudent/ppt-project/internal/models"
	"github.com/handicapstudent/ppt-project/internal/service"
	"github.com/handicapstudent/ppt-project/internal/session"
)

// app is the thin terminal front end over the reservation core. All domain
// decisions live in the session and service layers; this type only reads
// lines and prints snapshots.
type app struct {
	cfg     *config.Config
	logger  *zerolog.Logger
	db      *database.DB
	states  domain.StateRepository
	bus     *events.EventBus
	users   *service.UserService
	reviews *service.ReviewService
	menus   *menu.Fetcher

	in  io.Reader
	out io.Writer

	scanner *bufio.Scanner
	user    *models.User
}

func (a *app) Run(ctx context.Context) error {
	a.scanner = bufio.NewScanner(a.in)

	if err := a.authLoop(ctx); err != nil {
		return err
	}
	if a.user == nil {
		return nil
	}
	return a.mainLoop(ctx)
}

func (a *app) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

// prompt prints a label and reads one trimmed line. Returns false when
// stdin is closed or the context is done.
func (a *app) prompt(ctx context.Context, label string) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	default:
	}
	a.printf("%s", label)
	if !a.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.scanner.Text()), true
}

func (a *app) authLoop(ctx context.Context) error {
	for {
		a.printf("\n=== %s ===\n1) log in\n2) sign up\n3) forgot password\nq) quit\n", a.cfg.App.Name)
		choice, ok := a.prompt(ctx, "> ")
		if !ok {
			return nil
		}
		switch choice {
		case "1":
			if a.login(ctx) {
				return nil
			}
		case "2":
			a.signUp(ctx)
		case "3":
			a.recoverPassword(ctx)
		case "q":
			return nil
		}
	}
}

func (a *app) login(ctx context.Context) bool {
	userID, ok := a.prompt(ctx, "student id: ")
	if !ok {
		return false
	}
	password, ok := a.prompt(ctx, "password: ")
	if !ok {
		return false
	}

	user, err := a.users.Login(ctx, userID, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRateLimited):
			a.printf("too many attempts, try again later\n")
		case errors.Is(err, service.ErrInvalidCredentials):
			a.printf("wrong id or password\n")
		default:
			a.printf("login failed: %v\n", err)
		}
		return false
	}

	a.user = user
	a.printf("welcome, %s\n", user.UserID)
	return true
}

func (a *app) signUp(ctx context.Context) {
	userID, ok := a.prompt(ctx, "student id: ")
	if !ok || userID == "" {
		return
	}
	password, ok := a.prompt(ctx, "password: ")
	if !ok || password == "" {
		return
	}
	question, ok := a.prompt(ctx, "security question: ")
	if !ok {
		return
	}
	answer, ok := a.prompt(ctx, "security answer: ")
	if !ok {
		return
	}
	certPath, ok := a.prompt(ctx, "disability certificate file (optional): ")
	if !ok {
		return
	}

	u := &models.User{
		UserID:           userID,
		Password:         password,
		SecurityQuestion: question,
		SecurityAnswer:   answer,
	}
	if err := a.users.SignUp(ctx, u, certPath); err != nil {
		a.printf("sign up failed: %v\n", err)
		return
	}
	a.printf("account created, you can log in now\n")
}

func (a *app) recoverPassword(ctx context.Context) {
	userID, ok := a.prompt(ctx, "student id: ")
	if !ok {
		return
	}
	question, err := a.users.SecurityQuestion(ctx, userID)
	if err != nil {
		a.printf("unknown student id\n")
		return
	}
	answer, ok := a.prompt(ctx, question+": ")
	if !ok {
		return
	}
	password, err := a.users.RecoverPassword(ctx, userID, answer)
	if err != nil {
		a.printf("that answer does not match\n")
		return
	}
	a.printf("your password is: %s\n", password)
}

func (a *app) mainLoop(ctx context.Context) error {
	for {
		a.printf("\n1) reserve a seat\n2) weekly menu\n3) reviews\nq) quit\n")
		choice, ok := a.prompt(ctx, "> ")
		if !ok {
			return nil
		}
		switch choice {
		case "1":
			a.reservationLoop(ctx)
		case "2":
			a.showWeeklyMenu(ctx)
		case "3":
			a.reviewLoop(ctx)
		case "q":
			return nil
		}
	}
}

func (a *app) chooseRestaurant(ctx context.Context) (string, bool) {
	names := layout.Restaurants()
	a.printf("\nrestaurants:\n")
	for i, name := range names {
		a.printf("%d) %s\n", i+1, name)
	}
	choice, ok := a.prompt(ctx, "> ")
	if !ok {
		return "", false
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(names) {
		a.printf("pick a number between 1 and %d\n", len(names))
		return "", false
	}
	return names[idx-1], true
}

func (a *app) reservationLoop(ctx context.Context) {
	restaurant, ok := a.chooseRestaurant(ctx)
	if !ok {
		return
	}

	sessCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess := session.New(session.Config{
		Restaurant:      restaurant,
		UserID:          a.user.UserID,
		Store:           a.db,
		States:          a.states,
		Bus:             a.bus,
		Logger:          a.logger,
		RefreshInterval: time.Duration(a.cfg.Reservation.RefreshSeconds) * time.Second,
		OnUpdate:        a.renderSnapshot,
	})

	if _, err := sess.Open(sessCtx); err != nil {
		a.printf("could not open seat map: %v\n", err)
		return
	}
	go sess.Run(sessCtx)

	for {
		line, ok := a.prompt(ctx, "[seat row-col | cancel | r refresh | b back] > ")
		if !ok {
			return
		}
		switch line {
		case "b":
			return
		case "r":
			if _, err := sess.Refresh(sessCtx); err != nil {
				a.printf("refresh failed: %v\n", err)
			}
		case "cancel":
			a.cancelFlow(sessCtx, sess)
		default:
			a.selectFlow(sessCtx, sess, line)
		}
	}
}

func (a *app) selectFlow(ctx context.Context, sess *session.Session, seatID string) {
	if err := sess.SelectSeat(ctx, seatID); err != nil {
		a.printf("%s\n", session.UserMessage(err))
		return
	}

	line, ok := a.prompt(ctx, "start time HH:MM (empty to go back): ")
	if !ok || line == "" {
		sess.CancelTimeSelect(ctx)
		return
	}
	start, err := a.parseStart(line)
	if err != nil {
		a.printf("time must look like 13:30\n")
		sess.CancelTimeSelect(ctx)
		return
	}

	if _, err := sess.ConfirmTime(ctx, start); err != nil {
		a.printf("%s\n", session.UserMessage(err))
		return
	}
	a.printf("seat %s reserved from %s for 30 minutes\n", seatID, start.Format("15:04"))
}

func (a *app) cancelFlow(ctx context.Context, sess *session.Session) {
	if err := sess.RequestCancel(ctx); err != nil {
		a.printf("%s\n", session.UserMessage(err))
		return
	}
	answer, ok := a.prompt(ctx, "cancel your reservation? (y/n): ")
	if !ok {
		return
	}
	if _, err := sess.ConfirmCancel(ctx, answer == "y"); err != nil {
		a.printf("%s\n", session.UserMessage(err))
		return
	}
	if answer == "y" {
		a.printf("reservation cancelled\n")
	}
}

// parseStart interprets HH:MM as a wall-clock time today.
func (a *app) parseStart(line string) (time.Time, error) {
	t, err := time.Parse("15:04", line)
	if err != nil {
		return time.Time{}, err
	}
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), nil
}

func (a *app) renderSnapshot(snap session.Snapshot) {
	a.printf("\n--- %s ---\n", snap.Restaurant)
	if snap.Banner != "" {
		a.printf("%s\n", snap.Banner)
	}
	for _, row := range snap.Rows {
		var b strings.Builder
		for _, view := range row {
			b.WriteString(a.cellGlyph(view))
		}
		a.printf("%s\n", b.String())
	}
	if a.cfg.Accessibility.HighContrast {
		a.printf("legend: [r-c] free  ?r-c? pending  Xr-cX occupied  ##### wall\n")
	} else {
		a.printf("legend: [r-c] free  (r-c) pending  {r-c} occupied  ##### wall\n")
	}
}

func (a *app) cellGlyph(view session.SeatView) string {
	switch view.Cell.Kind {
	case layout.CellSeat:
		id := view.Cell.SeatID()
		if a.cfg.Accessibility.HighContrast {
			switch view.Status {
			case models.SeatFree:
				return fmt.Sprintf("[%s] ", id)
			case models.SeatPending:
				return fmt.Sprintf("?%s? ", id)
			default:
				return fmt.Sprintf("X%sX ", id)
			}
		}
		switch view.Status {
		case models.SeatFree:
			return fmt.Sprintf("[%s] ", id)
		case models.SeatPending:
			return fmt.Sprintf("(%s) ", id)
		default:
			return fmt.Sprintf("{%s} ", id)
		}
	case layout.CellTaken:
		return "{###} "
	case layout.CellDivider:
		return "##### "
	case layout.CellPillar:
		return "IIIII "
	default:
		return "      "
	}
}

func (a *app) showWeeklyMenu(ctx context.Context) {
	table, days, err := a.menus.FetchWeek(ctx)
	if err != nil {
		a.printf("could not load menus: %v\n", err)
		return
	}
	for restaurant, week := range table {
		a.printf("\n== %s ==\n", restaurant)
		for _, day := range days {
			meals := week[day]
			if len(meals) == 0 {
				continue
			}
			a.printf("%s:\n", day)
			for mealName, lines := range meals {
				a.printf("  %s: %s\n", mealName, strings.Join(lines, " | "))
			}
		}
	}
}

func (a *app) reviewLoop(ctx context.Context) {
	for {
		a.printf("\n1) my reviews\n2) write review\n3) edit review\n4) delete review\nb) back\n")
		choice, ok := a.prompt(ctx, "> ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			a.listReviews(ctx)
		case "2":
			a.writeReview(ctx)
		case "3":
			a.editReview(ctx)
		case "4":
			a.deleteReview(ctx)
		case "b":
			return
		}
	}
}

func (a *app) listReviews(ctx context.Context) {
	reviews, err := a.reviews.ListByUser(ctx, a.user.UserID)
	if err != nil {
		a.printf("could not load reviews: %v\n", err)
		return
	}
	if len(reviews) == 0 {
		a.printf("no reviews yet\n")
		return
	}
	for _, rv := range reviews {
		a.printf("#%d [%d/5] %s (%s)\n", rv.ID, rv.Rating, rv.Text, rv.Timestamp.Format("2006-01-02 15:04"))
	}
}

func (a *app) readReviewInput(ctx context.Context) (string, int, bool) {
	text, ok := a.prompt(ctx, "review: ")
	if !ok {
		return "", 0, false
	}
	ratingLine, ok := a.prompt(ctx, "rating (1-5): ")
	if !ok {
		return "", 0, false
	}
	rating, err := strconv.Atoi(ratingLine)
	if err != nil {
		a.printf("rating must be a number\n")
		return "", 0, false
	}
	return text, rating, true
}

func (a *app) writeReview(ctx context.Context) {
	text, rating, ok := a.readReviewInput(ctx)
	if !ok {
		return
	}
	if _, err := a.reviews.Submit(ctx, a.user.UserID, text, rating); err != nil {
		a.printf("could not save review: %v\n", err)
		return
	}
	a.printf("review saved\n")
}

func (a *app) editReview(ctx context.Context) {
	idLine, ok := a.prompt(ctx, "review id: ")
	if !ok {
		return
	}
	id, err := strconv.ParseInt(idLine, 10, 64)
	if err != nil {
		a.printf("id must be a number\n")
		return
	}
	text, rating, ok := a.readReviewInput(ctx)
	if !ok {
		return
	}
	if err := a.reviews.Update(ctx, id, text, rating); err != nil {
		a.printf("could not update review: %v\n", err)
		return
	}
	a.printf("review updated\n")
}

func (a *app) deleteReview(ctx context.Context) {
	idLine, ok := a.prompt(ctx, "review id: ")
	if !ok {
		return
	}
	id, err := strconv.ParseInt(idLine, 10, 64)
	if err != nil {
		a.printf("id must be a number\n")
		return
	}
	if err := a.reviews.Delete(ctx, id); err != nil {
		a.printf("could not delete review: %v\n", err)
		return
	}
	a.printf("review deleted\n")
}
