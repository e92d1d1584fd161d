package services

import (
	"context"
	"log"

	"campus-complaintdesk/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// MaintenanceService runs scheduled housekeeping jobs
type MaintenanceService struct {
	refreshTokenRepo repositories.RefreshTokenRepository
	cron             *cron.Cron
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(refreshTokenRepo repositories.RefreshTokenRepository) *MaintenanceService {
	return &MaintenanceService{
		refreshTokenRepo: refreshTokenRepo,
		cron:             cron.New(),
	}
}

// Start registers and starts the scheduled jobs
func (s *MaintenanceService) Start() error {
	// Purge expired refresh tokens daily at 03:00
	if _, err := s.cron.AddFunc("0 3 * * *", s.purgeExpiredTokens); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Maintenance scheduler started")
	return nil
}

// Stop halts the scheduler and waits for running jobs to finish
func (s *MaintenanceService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Maintenance scheduler stopped")
}

func (s *MaintenanceService) purgeExpiredTokens() {
	if err := s.refreshTokenRepo.DeleteExpired(context.Background()); err != nil {
		log.Printf("❌ Failed to purge expired refresh tokens: %v", err)
		return
	}
	log.Println("✅ Expired refresh tokens purged")
}
