package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/store"
)

// Number of entries in each productivity window.
const (
	dailyWindowDays   = 30
	weeklyWindowCount = 4
	monthlyTrendCount = 6
	recentTaskCount   = 5
)

// Display colors for the priority breakdown.
const (
	colorHighPriority = "#ef4444"
	colorMedium       = "#f59e0b"
	colorCompleted    = "#10b981"
)

// TaskStats aggregates a user's tasks into headline counters.
type TaskStats struct {
	Total        int `json:"total"`
	Completed    int `json:"completed"`
	Pending      int `json:"pending"`
	Overdue      int `json:"overdue"`
	HighPriority int `json:"high_priority"`

	// AverageCompletionTime is the mean of (due date − created at) in
	// whole days over completed tasks, rounded to one decimal. Zero when
	// nothing is completed.
	AverageCompletionTime float64 `json:"average_completion_time"`
}

// RecentTask is the reduced shape of a task in the profile view.
type RecentTask struct {
	ID     uint              `json:"id"`
	Title  string            `json:"title"`
	Status domain.TaskStatus `json:"status"`
	Date   time.Time         `json:"date"`
}

// Profile is the user's account data enriched with task statistics.
type Profile struct {
	domain.PublicUser
	TaskStats   TaskStats    `json:"task_stats"`
	RecentTasks []RecentTask `json:"recent_tasks"`
}

// DailyBucket counts tasks due on a single calendar day.
type DailyBucket struct {
	Date      string `json:"date"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Pending   int    `json:"pending"`
	Overdue   int    `json:"overdue"`
}

// WeeklyBucket summarizes one trailing 7-day window.
type WeeklyBucket struct {
	Week       string `json:"week"`
	Total      int    `json:"total"`
	Completed  int    `json:"completed"`
	Efficiency int    `json:"efficiency"`
}

// PriorityBucket is one slice of the priority breakdown.
type PriorityBucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// MonthlyBucket counts activity in one calendar month.
type MonthlyBucket struct {
	Month     string `json:"month"`
	Completed int    `json:"completed"`
	Created   int    `json:"created"`
}

// ProductivitySummary holds the overall productivity figures.
type ProductivitySummary struct {
	CompletionRate int     `json:"completion_rate"`
	AvgTasksPerDay float64 `json:"avg_tasks_per_day"`
	Streak         int     `json:"streak"`
}

// Productivity is the full productivity breakdown for a user.
type Productivity struct {
	Daily    []DailyBucket       `json:"daily"`
	Weekly   []WeeklyBucket      `json:"weekly"`
	Priority []PriorityBucket    `json:"priority"`
	Monthly  []MonthlyBucket     `json:"monthly"`
	Summary  ProductivitySummary `json:"summary"`
}

// ProfileService reads a user and their tasks and derives aggregate
// statistics in memory. It performs no writes.
type ProfileService struct {
	users   store.UserStore
	tasks   store.TaskStore
	logger  *slog.Logger
	nowFunc func() time.Time // Injectable for testing
}

// NewProfileService creates a new ProfileService.
func NewProfileService(users store.UserStore, tasks store.TaskStore, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{
		users:   users,
		tasks:   tasks,
		logger:  logger.With(slog.String("component", "profile_service")),
		nowFunc: time.Now,
	}
}

// Profile returns the user's public data with task statistics and the five
// tasks with the latest due dates.
func (s *ProfileService) Profile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByOwner(ctx, userID, store.ListOptions{Descending: true})
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	profile := &Profile{
		PublicUser: user.Public(),
		TaskStats:  s.taskStats(tasks),
	}

	recent := tasks
	if len(recent) > recentTaskCount {
		recent = recent[:recentTaskCount]
	}
	profile.RecentTasks = make([]RecentTask, 0, len(recent))
	for _, t := range recent {
		profile.RecentTasks = append(profile.RecentTasks, RecentTask{
			ID:     t.ID,
			Title:  t.Title,
			Status: t.Status,
			Date:   t.Date,
		})
	}

	return profile, nil
}

// taskStats computes the headline counters over the full task list.
func (s *ProfileService) taskStats(tasks []domain.Task) TaskStats {
	stats := TaskStats{Total: len(tasks)}
	today := domain.StartOfDay(s.nowFunc())

	var completionDays int
	for _, t := range tasks {
		switch t.Status {
		case domain.TaskStatusCompleted:
			stats.Completed++
			completionDays += daysBetween(t.CreatedAt, t.Date)
		case domain.TaskStatusPending:
			stats.Pending++
			if domain.StartOfDay(t.Date).Before(today) {
				stats.Overdue++
			}
		}
		if t.IsEmergency() {
			stats.HighPriority++
		}
	}

	if stats.Completed > 0 {
		stats.AverageCompletionTime = round1(float64(completionDays) / float64(stats.Completed))
	}
	return stats
}

// Productivity computes the 30-day daily buckets, the 4-week efficiency
// trend, the priority breakdown, the 6-month trend, and the summary block.
func (s *ProfileService) Productivity(ctx context.Context, userID uint) (*Productivity, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByOwner(ctx, userID, store.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	now := s.nowFunc()
	return &Productivity{
		Daily:    s.dailyBuckets(tasks, now),
		Weekly:   s.weeklyBuckets(tasks, now),
		Priority: s.priorityBreakdown(tasks),
		Monthly:  s.monthlyTrend(tasks, now),
		Summary:  s.summary(tasks, now),
	}, nil
}

// dailyBuckets produces one bucket per day for the trailing 30-day window,
// oldest first, matching tasks by exact date string.
func (s *ProfileService) dailyBuckets(tasks []domain.Task, now time.Time) []DailyBucket {
	today := domain.StartOfDay(now)
	buckets := make([]DailyBucket, 0, dailyWindowDays)

	for i := dailyWindowDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := dateKey(day)
		bucket := DailyBucket{Date: key}

		for _, t := range tasks {
			if dateKey(t.Date) != key {
				continue
			}
			bucket.Total++
			switch t.Status {
			case domain.TaskStatusCompleted:
				bucket.Completed++
			case domain.TaskStatusPending:
				bucket.Pending++
				if day.Before(today) {
					bucket.Overdue++
				}
			}
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// weeklyBuckets produces four trailing 7-day windows, oldest first, each
// with a completion-efficiency percentage.
func (s *ProfileService) weeklyBuckets(tasks []domain.Task, now time.Time) []WeeklyBucket {
	today := domain.StartOfDay(now)
	buckets := make([]WeeklyBucket, 0, weeklyWindowCount)

	for i := weeklyWindowCount - 1; i >= 0; i-- {
		end := today.AddDate(0, 0, -7*i)
		start := end.AddDate(0, 0, -6)
		bucket := WeeklyBucket{Week: fmt.Sprintf("Week %d", weeklyWindowCount-i)}

		for _, t := range tasks {
			day := domain.StartOfDay(t.Date)
			if day.Before(start) || day.After(end) {
				continue
			}
			bucket.Total++
			if t.Status == domain.TaskStatusCompleted {
				bucket.Completed++
			}
		}
		bucket.Efficiency = percentage(bucket.Completed, bucket.Total)
		buckets = append(buckets, bucket)
	}
	return buckets
}

// priorityBreakdown splits tasks into high priority, medium, and completed.
func (s *ProfileService) priorityBreakdown(tasks []domain.Task) []PriorityBucket {
	var high, medium, completed int
	for _, t := range tasks {
		switch {
		case t.Status == domain.TaskStatusCompleted:
			completed++
		case t.IsEmergency():
			high++
		default:
			medium++
		}
	}
	return []PriorityBucket{
		{Name: "High Priority", Value: high, Color: colorHighPriority},
		{Name: "Medium", Value: medium, Color: colorMedium},
		{Name: "Completed", Value: completed, Color: colorCompleted},
	}
}

// monthlyTrend produces six trailing calendar months of created/completed
// counts, oldest first.
func (s *ProfileService) monthlyTrend(tasks []domain.Task, now time.Time) []MonthlyBucket {
	buckets := make([]MonthlyBucket, 0, monthlyTrendCount)

	for i := monthlyTrendCount - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		nextMonth := monthStart.AddDate(0, 1, 0)
		bucket := MonthlyBucket{Month: monthStart.Format("Jan")}

		for _, t := range tasks {
			if !t.CreatedAt.Before(monthStart) && t.CreatedAt.Before(nextMonth) {
				bucket.Created++
			}
			if t.Status == domain.TaskStatusCompleted &&
				!t.Date.Before(monthStart) && t.Date.Before(nextMonth) {
				bucket.Completed++
			}
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// summary computes the overall completion rate, the average tasks per day
// over the 30-day window, and the completion streak.
func (s *ProfileService) summary(tasks []domain.Task, now time.Time) ProductivitySummary {
	today := domain.StartOfDay(now)
	windowStart := today.AddDate(0, 0, -(dailyWindowDays - 1))

	var completed, inWindow int
	for _, t := range tasks {
		if t.Status == domain.TaskStatusCompleted {
			completed++
		}
		day := domain.StartOfDay(t.Date)
		if !day.Before(windowStart) && !day.After(today) {
			inWindow++
		}
	}

	return ProductivitySummary{
		CompletionRate: percentage(completed, len(tasks)),
		AvgTasksPerDay: round1(float64(inWindow) / float64(dailyWindowDays)),
		Streak:         s.streak(tasks, today),
	}
}

// streak counts consecutive calendar days, walking backward from today,
// with at least one task completed on that exact date. It stops at the
// first day without one.
func (s *ProfileService) streak(tasks []domain.Task, today time.Time) int {
	completedDays := make(map[string]bool)
	for _, t := range tasks {
		if t.Status == domain.TaskStatusCompleted {
			completedDays[dateKey(t.Date)] = true
		}
	}

	streak := 0
	for day := today; completedDays[dateKey(day)]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// daysBetween returns the whole-day difference between two instants using
// ceiling division on the millisecond delta. Negative deltas floor at zero.
func daysBetween(from, to time.Time) int {
	ms := to.Sub(from).Milliseconds()
	if ms <= 0 {
		return 0
	}
	return int(math.Ceil(float64(ms) / float64(24*time.Hour/time.Millisecond)))
}

// dateKey formats a time as its calendar day string.
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// round1 rounds to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// percentage returns part/total as a percentage rounded to the nearest
// integer, or zero when total is zero.
func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
