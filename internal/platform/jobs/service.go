package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/attendance"
	"hrms/internal/domain/audit"
	"hrms/internal/domain/leave"
	"hrms/internal/platform/config"
)

const (
	JobCarryForward = "leave_carry_forward"
	JobCloseDay     = "attendance_close_day"
)

// systemActor attributes job-driven mutations in the audit trail.
var systemActor = audit.Actor{UserID: "", RequestID: "system"}

type Service struct {
	DB    *pgxpool.Pool
	Cfg   config.Config
	queue chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config) *Service {
	return &Service{
		DB:    db,
		Cfg:   cfg,
		queue: make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.CarryForwardInterval > 0 {
		go s.scheduleCarryForward(ctx, s.Cfg.CarryForwardInterval)
	}
	if s.Cfg.CloseDayInterval > 0 {
		go s.scheduleCloseDay(ctx, s.Cfg.CloseDayInterval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

// scheduleCarryForward seeds next year's balances once the year has rolled
// over. The rollover itself is idempotent, so firing more than once in
// January is harmless.
func (s *Service) scheduleCarryForward(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now().UTC()
			if now.Month() != time.January {
				continue
			}
			fromYear := now.Year() - 1
			s.Enqueue(JobCarryForward, func(ctx context.Context) (any, error) {
				seeded, err := leave.NewService(s.DB).RunCarryForward(ctx, systemActor, fromYear)
				return map[string]any{"fromYear": fromYear, "seeded": seeded}, err
			})
		}
	}
}

// scheduleCloseDay marks yesterday's no-shows as absent.
func (s *Service) scheduleCloseDay(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			yesterday := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
			s.Enqueue(JobCloseDay, func(ctx context.Context) (any, error) {
				marked, err := attendance.NewService(s.DB).CloseDay(ctx, systemActor, yesterday)
				return map[string]any{"date": yesterday.Format(time.DateOnly), "marked": marked}, err
			})
		}
	}
}
