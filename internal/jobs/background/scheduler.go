package background

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"monktrader/internal/caching"
	"monktrader/internal/notify"
	"monktrader/internal/repositories"
)

const (
	// The blocklist interval is the accepted staleness bound for block
	// enforcement on authenticated requests.
	blocklistRefreshInterval = 4 * time.Hour
	otpCleanupInterval       = 10 * time.Minute
)

// JobScheduler runs the periodic maintenance work: blocklist mirroring and
// expired-OTP cleanup.
type JobScheduler struct {
	scheduler gocron.Scheduler
	blocklist *caching.Blocklist
	otps      repositories.OTPRepository
	notifier  notify.Notifier
}

func NewJobScheduler(blocklist *caching.Blocklist, otps repositories.OTPRepository,
	notifier notify.Notifier) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		blocklist: blocklist,
		otps:      otps,
		notifier:  notifier,
	}
	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) registerJobs() error {
	_, err := js.scheduler.NewJob(
		gocron.DurationJob(blocklistRefreshInterval),
		gocron.NewTask(js.refreshBlocklist),
		gocron.WithName("blocklist-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}

	_, err = js.scheduler.NewJob(
		gocron.DurationJob(otpCleanupInterval),
		gocron.NewTask(js.cleanupExpiredOTPs),
		gocron.WithName("otp-cleanup"),
	)
	return err
}

func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) refreshBlocklist() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := js.blocklist.Refresh(ctx); err != nil {
		log.Printf("[Blocklist Refresh Error] %v", err)
		js.notifier.NotifyInternal(ctx, fmt.Sprintf("[Blocklist Refresh Error] %v", err))
	}
}

func (js *JobScheduler) cleanupExpiredOTPs() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := js.otps.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("[OTP Cleaner Error] %v", err)
		js.notifier.NotifyInternal(ctx, fmt.Sprintf("[OTP Cleaner Error] %v", err))
		return
	}
	if deleted > 0 {
		log.Printf("otp cleanup: removed %d expired rows", deleted)
	}
}
