package config

import (
	"log"

	"campus-complaintdesk/internal/adapters/persistence/models"
	"campus-complaintdesk/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	if err := s.seedStaffUsers(); err != nil {
		log.Printf("⚠️ Staff seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	// Check if admin already exists
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "admin").Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     "Portal Admin",
		Email:    "admin@campus.edu",
		Password: hashedPassword,
		Role:     "admin",
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}

// seedStaffUsers seeds one demo staff account per department so assignment
// works out of the box in development
func (s *Seeder) seedStaffUsers() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "staff").Count(&count)
	if count > 0 {
		return nil // Staff already exist
	}

	hashedPassword, err := password.Hash("staff123456")
	if err != nil {
		return err
	}

	staff := []*models.User{
		{Name: "Hostel Warden", Email: "hostel@campus.edu", Password: hashedPassword, Role: "staff", Department: "Hostel", IsActive: true},
		{Name: "IT Support", Email: "itsupport@campus.edu", Password: hashedPassword, Role: "staff", Department: "IT", IsActive: true},
		{Name: "Academic Office", Email: "academics@campus.edu", Password: hashedPassword, Role: "staff", Department: "Academics", IsActive: true},
	}

	for _, u := range staff {
		if err := s.db.Create(u).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ %d staff users created", len(staff))
	return nil
}
