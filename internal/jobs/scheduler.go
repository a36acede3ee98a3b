package jobs

import (
	"context"
	"log"
	"time"

	"hrhub/internal/repositories"
	"hrhub/internal/services"

	"github.com/go-co-op/gocron/v2"
)

const otpCleanupInterval = 1 * time.Hour

// Scheduler runs periodic maintenance jobs.
type Scheduler struct {
	scheduler gocron.Scheduler
	otpRepo   repositories.OTPRepository
}

func NewScheduler(otpRepo repositories.OTPRepository) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		scheduler: scheduler,
		otpRepo:   otpRepo,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(otpCleanupInterval),
		gocron.NewTask(s.cleanupExpiredOtps),
		gocron.WithName("otp-cleanup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	log.Printf("Starting background job scheduler")
	s.scheduler.Start()
}

func (s *Scheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return s.scheduler.Shutdown()
}

// cleanupExpiredOtps purges consumed and expired verification codes. Live
// codes are untouched; correctness never depends on this job because expiry
// is enforced at consume time.
func (s *Scheduler) cleanupExpiredOtps() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.otpRepo.DeleteExpired(ctx, services.OtpTTL)
	if err != nil {
		log.Printf("OTP cleanup failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("OTP cleanup removed %d rows", removed)
	}
}
