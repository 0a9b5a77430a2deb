// Package main is the Team Step Hub command line interface.
//
// The architecture follows Clean Architecture and DDD:
// - Domain: pure step-tracking logic without external dependencies
// - Application: use case orchestration (Commands/Queries)
// - Infrastructure: snapshot persistence, event bus, stats cache
// - Interface: this CLI
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	// Application layer
	"github.com/step-hub/team-step-hub/internal/application/command"
	"github.com/step-hub/team-step-hub/internal/application/query"

	// Domain layer
	"github.com/step-hub/team-step-hub/internal/domain/challenge"
	"github.com/step-hub/team-step-hub/internal/domain/shared"

	// Infrastructure layer
	"github.com/step-hub/team-step-hub/internal/infrastructure/messaging"
	"github.com/step-hub/team-step-hub/internal/infrastructure/persistence"
	"github.com/step-hub/team-step-hub/internal/infrastructure/persistence/file"
	"github.com/step-hub/team-step-hub/internal/infrastructure/persistence/postgres"
	redisbackend "github.com/step-hub/team-step-hub/internal/infrastructure/persistence/redis"

	// Packages
	"github.com/step-hub/team-step-hub/config"
	"github.com/step-hub/team-step-hub/pkg/logger"
	"github.com/step-hub/team-step-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage()
		return errors.New("no command given")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Debug("starting Team Step Hub",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("backend", string(cfg.Storage.Backend)),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. SNAPSHOT BACKEND
	// ─────────────────────────────────────────────────────────────────────────
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage backend: %w", err)
	}
	defer backend.Close()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. EVENT BUS AND STATS CACHE
	// ─────────────────────────────────────────────────────────────────────────
	bus := messaging.NewEventBus(log)

	var statsCache *redisbackend.StatsCache
	if cfg.Redis.URL != "" && !cfg.Redis.CacheDisabled {
		if rb, ok := backend.(*redisbackend.Backend); ok {
			statsCache = redisbackend.NewStatsCache(rb.Client(), cfg.Redis.StatsCacheTTL)
		} else if rb, err := redisbackend.New(ctx, cfg.Redis.URL); err == nil {
			defer rb.Close()
			statsCache = redisbackend.NewStatsCache(rb.Client(), cfg.Redis.StatsCacheTTL)
		} else {
			log.Warn("failed to connect to Redis, stats cache disabled", logger.Err(err))
		}
	}
	if statsCache != nil {
		// Every successful mutation makes cached aggregates stale.
		bus.SubscribeAll(func(event shared.Event) {
			if err := statsCache.Invalidate(context.Background()); err != nil {
				log.Warn("failed to invalidate stats cache", logger.Err(err))
			}
		})
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. STORE AND HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	store, err := persistence.New(ctx, backend, persistence.Options{Bus: bus, Logger: log})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	app := &application{
		cfg:      cfg,
		log:      log,
		store:    store,
		commands: command.NewHandler(store, log),
		cache:    statsCache,
		today:    timeutil.Day(time.Now().In(cfg.App.Location)),
		out:      os.Stdout,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. COMMAND DISPATCH
	// ─────────────────────────────────────────────────────────────────────────
	return app.dispatch(ctx, args[0], args[1:])
}

// ══════════════════════════════════════════════════════════════════════════════
// APPLICATION
// ══════════════════════════════════════════════════════════════════════════════

type application struct {
	cfg      *config.Config
	log      *logger.Logger
	store    *persistence.Store
	commands *command.Handler
	cache    *redisbackend.StatsCache
	today    time.Time
	out      io.Writer
}

func (a *application) dispatch(ctx context.Context, name string, args []string) error {
	switch name {
	case "log":
		return a.cmdLogSteps(ctx, args)
	case "goal":
		return a.cmdSetGoal(ctx, args)
	case "add-member":
		return a.cmdAddMember(ctx, args)
	case "remove-member":
		return a.cmdRemoveMember(ctx, args)
	case "clear-members":
		return a.cmdClearMembers(ctx, args)
	case "members":
		return a.cmdMembers(args)
	case "member":
		return a.cmdMemberStats(args)
	case "leaderboard":
		return a.cmdLeaderboard(args)
	case "stats":
		return a.cmdStats(ctx, args)
	case "series":
		return a.cmdSeries(args)
	case "contribution":
		return a.cmdContribution(args)
	case "milestones":
		return a.cmdMilestones(args)
	case "challenge":
		return a.cmdChallenge(ctx, args)
	case "weekly":
		return a.cmdWeekly(ctx, args)
	case "announce":
		return a.cmdAnnounce(ctx, args)
	case "export":
		return a.cmdExport(args)
	case "backup":
		return a.cmdBackup(args)
	case "restore":
		return a.cmdRestore(ctx, args)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", name)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Write commands
// ─────────────────────────────────────────────────────────────────────────────

func (a *application) cmdLogSteps(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("log", flag.ContinueOnError)
	user := fs.String("user", "", "member username")
	date := fs.String("date", timeutil.FormatDay(a.today), "calendar day, YYYY-MM-DD")
	steps := fs.Int("steps", -1, "step count for that day")
	if err := fs.Parse(args); err != nil {
		return err
	}

	before := query.Milestones(a.store.ExportSnapshot())

	err := a.commands.LogSteps(ctx, command.LogStepsCommand{
		Username: *user,
		Date:     *date,
		Steps:    *steps,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged %d steps for %s on %s\n", *steps, *user, *date)

	if a.cfg.Features.IsEnabled(config.FeatureMilestoneCelebrations, config.FeatureContext{Username: *user}) {
		after := query.Milestones(a.store.ExportSnapshot())
		if after.Achieved != nil && (before.Achieved == nil || after.Achieved.Threshold > before.Achieved.Threshold) {
			fmt.Fprintf(a.out, "milestone reached: %s! %s\n",
				after.Achieved.Title, after.Achieved.Description)
		}
	}
	return nil
}

func (a *application) cmdSetGoal(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("goal", flag.ContinueOnError)
	user := fs.String("user", "", "member username")
	goal := fs.Int("goal", 0, "daily step goal")
	if err := fs.Parse(args); err != nil {
		return err
	}

	err := a.commands.SetGoal(ctx, command.SetGoalCommand{Username: *user, Goal: *goal})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "daily goal for %s set to %d\n", *user, *goal)
	return nil
}

func (a *application) cmdAddMember(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-member", flag.ContinueOnError)
	user := fs.String("user", "", "member username")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.commands.AddMember(ctx, command.AddMemberCommand{Username: *user}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "member %s registered\n", *user)
	return nil
}

func (a *application) cmdRemoveMember(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("remove-member", flag.ContinueOnError)
	user := fs.String("user", "", "member username")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.commands.RemoveMember(ctx, command.RemoveMemberCommand{Username: *user}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "member %s removed\n", *user)
	return nil
}

func (a *application) cmdClearMembers(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("clear-members", flag.ContinueOnError)
	confirm := fs.String("confirm", "", "type DELETE ALL to confirm")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.commands.ClearMembers(ctx, command.ClearMembersCommand{Confirm: *confirm}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "all members cleared")
	return nil
}

func (a *application) cmdChallenge(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("challenge needs a subcommand: start, end or status")
	}

	switch args[0] {
	case "start":
		fs := flag.NewFlagSet("challenge start", flag.ContinueOnError)
		goal := fs.Int("goal", 0, "collective step target")
		start := fs.String("start", timeutil.FormatDay(a.today), "first counted day, YYYY-MM-DD")
		target := fs.String("target", "", "aspirational finish day, YYYY-MM-DD (optional)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		err := a.commands.StartChallenge(ctx, command.StartChallengeCommand{
			TeamGoal:      *goal,
			StartDate:     *start,
			TargetEndDate: *target,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "challenge started: %d steps from %s\n", *goal, *start)
		return nil

	case "end":
		fs := flag.NewFlagSet("challenge end", flag.ContinueOnError)
		end := fs.String("end", timeutil.FormatDay(a.today), "last counted day, YYYY-MM-DD")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := a.commands.EndChallenge(ctx, command.EndChallengeCommand{EndDate: *end}); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "challenge ended on %s\n", *end)
		return nil

	case "status":
		return a.printChallengeStatus()

	default:
		return fmt.Errorf("unknown challenge subcommand %q", args[0])
	}
}

func (a *application) cmdWeekly(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("weekly needs a subcommand: set or status")
	}

	switch args[0] {
	case "set":
		fs := flag.NewFlagSet("weekly set", flag.ContinueOnError)
		goal := fs.Int("goal", 0, "weekly team step target, 0 clears it")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		err := a.commands.SetWeeklyGoal(ctx, command.SetWeeklyGoalCommand{
			Goal:  *goal,
			Today: a.today,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "weekly goal set to %d\n", *goal)
		return nil

	case "status":
		status := query.WeeklyGoalStatus(a.store.ExportSnapshot(), a.today)
		if !status.Set {
			fmt.Fprintln(a.out, "no weekly goal set")
			return nil
		}
		fmt.Fprintf(a.out, "week %s .. %s\n", status.WeekStart, status.WeekEnd)
		fmt.Fprintf(a.out, "goal:     %d\n", status.Goal)
		fmt.Fprintf(a.out, "progress: %d (%.1f%%)\n", status.Progress, status.ProgressPercent)
		return nil

	default:
		return fmt.Errorf("unknown weekly subcommand %q", args[0])
	}
}

func (a *application) cmdAnnounce(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("announce", flag.ContinueOnError)
	text := fs.String("text", "", "announcement text, empty clears it")
	show := fs.Bool("show", false, "print the current announcement instead")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *show {
		msg := a.store.Announcement()
		if msg == "" {
			fmt.Fprintln(a.out, "no announcement")
		} else {
			fmt.Fprintln(a.out, msg)
		}
		return nil
	}

	if err := a.commands.SetAnnouncement(ctx, command.SetAnnouncementCommand{Text: *text}); err != nil {
		return err
	}
	if *text == "" {
		fmt.Fprintln(a.out, "announcement cleared")
	} else {
		fmt.Fprintln(a.out, "announcement set")
	}
	return nil
}

func (a *application) cmdRestore(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	in := fs.String("in", "", "backup JSON file, - for stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		doc []byte
		err error
	)
	switch *in {
	case "":
		return errors.New("restore requires -in")
	case "-":
		doc, err = io.ReadAll(os.Stdin)
	default:
		doc, err = os.ReadFile(*in)
	}
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	if err := a.commands.RestoreBackup(ctx, command.RestoreBackupCommand{Document: doc}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "backup restored")
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Read commands
// ─────────────────────────────────────────────────────────────────────────────

func (a *application) cmdMembers(args []string) error {
	for _, name := range a.store.ListUsernames() {
		fmt.Fprintln(a.out, name)
	}
	return nil
}

func (a *application) cmdMemberStats(args []string) error {
	fs := flag.NewFlagSet("member", flag.ContinueOnError)
	user := fs.String("user", "", "member username")
	recent := fs.Int("recent", query.DefaultRecentLimit, "how many recent days to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := query.MemberStats(a.store.ExportSnapshot(), a.today, query.MemberStatsQuery{
		Username:    *user,
		RecentLimit: *recent,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (daily goal %d)\n", result.Username, result.DailyGoal)
	fmt.Fprintf(a.out, "days logged:    %d\n", result.DaysLogged)
	fmt.Fprintf(a.out, "total steps:    %d\n", result.TotalSteps)
	fmt.Fprintf(a.out, "avg per day:    %d\n", result.AvgPerDay)
	fmt.Fprintf(a.out, "goals met:      %d\n", result.GoalsMet)
	fmt.Fprintf(a.out, "today:          %d\n", result.TodaySteps)
	fmt.Fprintf(a.out, "current streak: %d\n", result.CurrentStreak)
	if len(result.Recent) > 0 {
		fmt.Fprintln(a.out, "recent days:")
		for _, e := range result.Recent {
			marker := " "
			if e.GoalMet {
				marker = "*"
			}
			fmt.Fprintf(a.out, "  %s %s %6d (%.1f%%)\n", marker, e.Date, e.Steps, e.ProgressPercent)
		}
	}
	return nil
}

func (a *application) cmdLeaderboard(args []string) error {
	fs := flag.NewFlagSet("leaderboard", flag.ContinueOnError)
	period := fs.String("period", string(query.PeriodToday), "ranking window: today or week")
	if err := fs.Parse(args); err != nil {
		return err
	}

	snapshot := a.store.ExportSnapshot()
	rows, err := query.Leaderboard(snapshot, a.today, query.LeaderboardQuery{
		Period: query.Period(*period),
	})
	if err != nil {
		return err
	}

	for i, row := range rows {
		fmt.Fprintf(a.out, "%2d. %-20s %8d steps  goal %6d  %.1f%%",
			i+1, row.User, row.Steps, row.Goal, row.ProgressPercent)
		if a.cfg.Features.IsEnabled(config.FeatureLeaderboardStreaks, config.FeatureContext{Username: row.User}) {
			if m := snapshot.Users[row.User]; m != nil {
				if streak := m.Streak(a.today); streak > 0 {
					fmt.Fprintf(a.out, "  streak %d", streak)
				}
			}
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

func (a *application) cmdStats(ctx context.Context, args []string) error {
	stats, err := a.teamStats(ctx)
	if err != nil {
		return err
	}
	if stats == nil {
		fmt.Fprintln(a.out, "no members yet")
		return nil
	}

	fmt.Fprintf(a.out, "members:            %d\n", stats.TotalMembers)
	fmt.Fprintf(a.out, "active today:       %d\n", stats.ActiveToday)
	fmt.Fprintf(a.out, "active this week:   %d\n", stats.ActiveThisWeek)
	fmt.Fprintf(a.out, "steps today:        %d (avg %d)\n", stats.TotalStepsToday, stats.AvgStepsPerMemberToday)
	fmt.Fprintf(a.out, "steps this week:    %d (avg %d)\n", stats.TotalStepsWeek, stats.AvgStepsPerMemberWeek)
	fmt.Fprintf(a.out, "steps all time:     %d (avg %d)\n", stats.TotalStepsAllTime, stats.AvgStepsPerMemberAllTime)
	fmt.Fprintf(a.out, "goals met today:    %d\n", stats.GoalsMetToday)
	fmt.Fprintf(a.out, "goals met (week):   %d\n", stats.GoalsMetWeek)
	fmt.Fprintf(a.out, "longest streak:     %d\n", stats.LongestStreak)
	fmt.Fprintf(a.out, "avg streak:         %d\n", stats.AvgStreak)
	fmt.Fprintf(a.out, "participation:      %.1f%%\n", stats.ParticipationRate)
	fmt.Fprintf(a.out, "goal success:       %.1f%%\n", stats.GoalSuccessRate)

	if a.cfg.Features.IsEnabled(config.FeatureStatsTips, config.FeatureContext{}) {
		for _, tip := range query.TeamTips(stats) {
			fmt.Fprintf(a.out, "tip: %s\n", tip)
		}
	}
	return nil
}

// teamStats computes team statistics, serving from the Redis cache when one
// is wired and fresh.
func (a *application) teamStats(ctx context.Context) (*query.TeamStats, error) {
	const cacheEntry = "team_statistics"

	useCache := a.cache != nil &&
		a.cfg.Features.IsEnabled(config.FeatureStatsCache, config.FeatureContext{})

	if useCache {
		if raw, err := a.cache.Get(ctx, cacheEntry); err == nil {
			var stats query.TeamStats
			if err := json.Unmarshal(raw, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats := query.TeamStatistics(a.store.ExportSnapshot(), a.today)

	if useCache && stats != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := a.cache.Set(ctx, cacheEntry, raw); err != nil {
				a.log.Warn("failed to cache team statistics", logger.Err(err))
			}
		}
	}
	return stats, nil
}

func (a *application) cmdSeries(args []string) error {
	fs := flag.NewFlagSet("series", flag.ContinueOnError)
	days := fs.Int("days", 7, "trailing window size in days")
	if err := fs.Parse(args); err != nil {
		return err
	}

	points, err := query.TeamProgressSeries(a.store.ExportSnapshot(), a.today, query.TeamProgressSeriesQuery{
		Days: *days,
	})
	if err != nil {
		return err
	}
	for _, p := range points {
		fmt.Fprintf(a.out, "%s %8d\n", p.Date, p.TotalSteps)
	}
	return nil
}

func (a *application) cmdContribution(args []string) error {
	fs := flag.NewFlagSet("contribution", flag.ContinueOnError)
	period := fs.String("period", string(query.PeriodToday), "window: today or week")
	if err := fs.Parse(args); err != nil {
		return err
	}

	contrib, err := query.TeamContribution(a.store.ExportSnapshot(), a.today, query.TeamContributionQuery{
		Period: query.Period(*period),
	})
	if err != nil {
		return err
	}

	for _, name := range a.store.ListUsernames() {
		if steps, ok := contrib[name]; ok {
			fmt.Fprintf(a.out, "%-20s %8d\n", name, steps)
		}
	}
	return nil
}

func (a *application) cmdMilestones(args []string) error {
	result := query.Milestones(a.store.ExportSnapshot())

	fmt.Fprintf(a.out, "team total: %d steps\n", result.Total)
	if result.Achieved != nil {
		fmt.Fprintf(a.out, "achieved:   %s (%d) %s\n",
			result.Achieved.Title, result.Achieved.Threshold, result.Achieved.Description)
	}
	if result.Next != nil {
		fmt.Fprintf(a.out, "next:       %s (%d), %d to go (%.1f%%)\n",
			result.Next.Title, result.Next.Threshold, result.Remaining, result.Percent)
	}
	return nil
}

func (a *application) printChallengeStatus() error {
	status := query.ChallengeStatus(a.store.ExportSnapshot(), a.today)
	if !status.Configured {
		fmt.Fprintln(a.out, "no challenge configured")
		return nil
	}

	state := "ended"
	if status.Active {
		state = "active"
	}
	fmt.Fprintf(a.out, "challenge %s: %d steps\n", state, status.TeamGoal)
	fmt.Fprintf(a.out, "from %s", status.StartDate)
	if status.EndDate != "" {
		fmt.Fprintf(a.out, " to %s", status.EndDate)
	}
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "progress: %d (%.1f%%)\n", status.Progress, status.ProgressPercent)

	if p := status.Pace; p != nil {
		switch p.Mode {
		case challenge.PaceTarget:
			fmt.Fprintf(a.out, "pace: %.0f steps/day for %d days to hit %s\n",
				p.StepsPerDay, p.DaysLeft, status.TargetEndDate)
		case challenge.PaceTargetToday:
			fmt.Fprintf(a.out, "pace: target date is today, %d steps remain\n", p.Remaining)
		case challenge.PaceTargetPassed:
			fmt.Fprintf(a.out, "pace: target date %s has passed\n", status.TargetEndDate)
		case challenge.PaceAverage:
			fmt.Fprintf(a.out, "pace: averaging %.0f steps/day over %d days\n", p.AvgPerDay, p.DaysIn)
			if p.HasDaysToGoal {
				fmt.Fprintf(a.out, "pace: about %d more days to the goal\n", p.DaysToGoal)
			}
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Export and backup
// ─────────────────────────────────────────────────────────────────────────────

func (a *application) cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	out := fs.String("out", "-", "CSV output file, - for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w, closeFn, err := openOutput(*out)
	if err != nil {
		return err
	}
	defer closeFn()

	rows := query.ExportRows(a.store.ExportSnapshot())

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "User", "Steps", "Daily Goal"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Date,
			row.User,
			strconv.Itoa(row.Steps),
			strconv.Itoa(row.DailyGoal),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (a *application) cmdBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	out := fs.String("out", "-", "JSON output file, - for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w, closeFn, err := openOutput(*out)
	if err != nil {
		return err
	}
	defer closeFn()

	doc, err := json.MarshalIndent(a.store.ExportSnapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	if _, err := w.Write(append(doc, '\n')); err != nil {
		return err
	}
	return nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func openBackend(ctx context.Context, cfg *config.Config) (persistence.Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return persistence.NewMemoryBackend(), nil
	case config.BackendFile:
		return file.New(cfg.Storage.Path)
	case config.BackendPostgres:
		return postgres.New(ctx, cfg.Database.URL)
	case config.BackendRedis:
		return redisbackend.New(ctx, cfg.Redis.URL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Output = os.Stderr
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	return logger.New(opts)
}

func usage() {
	fmt.Fprint(os.Stderr, `Team Step Hub

Usage: stephub <command> [flags]

Members
  add-member    -user NAME
  remove-member -user NAME
  clear-members -confirm "DELETE ALL"
  members
  member        -user NAME [-recent N]

Steps and goals
  log           -user NAME [-date YYYY-MM-DD] -steps N
  goal          -user NAME -goal N

Team views
  leaderboard   [-period today|week]
  stats
  series        [-days N]
  contribution  [-period today|week]
  milestones

Challenge and weekly goal
  challenge     start -goal N [-start D] [-target D] | end [-end D] | status
  weekly        set -goal N | status

Admin
  announce      [-text MSG] [-show]
  export        [-out FILE]
  backup        [-out FILE]
  restore       -in FILE

Configuration is taken from the environment: STORAGE_BACKEND
(memory|file|postgres|redis), STORAGE_PATH, DATABASE_URL, REDIS_URL,
LOG_LEVEL, APP_ENV, APP_TIMEZONE.
`)
}
