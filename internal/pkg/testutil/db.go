package testutil

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ChorusHQ/Chorus/app/models"
)

// SetupTestDB opens an in-memory SQLite database with all models migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Community{},
		&models.CommunityMembership{},
		&models.PaywallTier{},
		&models.CommunitySubscription{},
		&models.CommunityAffiliate{},
		&models.MonetizationSetting{},
		&models.ModerationCase{},
		&models.DomainEvent{},
		&models.PaymentWebhookEvent{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the underlying connection.
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close test database: %v", err)
	}
}

// SeedCommunity inserts a community owned by the given user.
func SeedCommunity(t *testing.T, db *gorm.DB, slug string, ownerID uint) *models.Community {
	t.Helper()

	community := &models.Community{
		Slug:    slug,
		Name:    slug,
		OwnerID: ownerID,
	}
	if err := db.Create(community).Error; err != nil {
		t.Fatalf("Failed to seed community %s: %v", slug, err)
	}
	return community
}

// SeedUser inserts a user with the given email and platform role.
func SeedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()

	user := &models.User{
		Email:    email,
		Password: "x",
		Role:     role,
		Status:   models.STATUS_ACTIVE,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user %s: %v", email, err)
	}
	return user
}

// SeedMembership inserts a membership row directly.
func SeedMembership(t *testing.T, db *gorm.DB, communityID, userID uint, role models.MemberRole, status models.MemberStatus) *models.CommunityMembership {
	t.Helper()

	m := &models.CommunityMembership{
		CommunityID: communityID,
		UserID:      userID,
		Role:        role,
		Status:      status,
		JoinedAt:    time.Now(),
	}
	if status != models.MemberStatusActive {
		left := m.JoinedAt
		m.LeftAt = &left
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("Failed to seed membership %d/%d: %v", communityID, userID, err)
	}
	return m
}
