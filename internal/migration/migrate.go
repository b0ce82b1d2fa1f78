package migration

import (
	"fmt"

	"github.com/pickboard/pickboard-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Models lists every table owned by the service
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.Post{},
		&domain.Comment{},
		&domain.PostLike{},
		&domain.CommentLike{},
	}
}

// Run executes AutoMigrate for all tables
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// DemoPassword is the password of the seeded demo account
const DemoPassword = "pickboard"

// SeedDemo inserts a demo account with a few picks when the posts table is empty
func SeedDemo(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.Post{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		user := &domain.User{Email: "demo@pickboard.local", Username: "demo", PasswordHash: string(hash)}
		if err := tx.Where("email = ?", user.Email).FirstOrCreate(user).Error; err != nil {
			return err
		}

		posts := []domain.Post{
			{UserID: user.ID, Username: user.Username, Title: "Lakers cover at home", Content: "Rested starters against a back-to-back.", Sport: "NBA", Odds: "-110"},
			{UserID: user.ID, Username: user.Username, Title: "Over 2.5 in the derby", Content: "Both sides concede late.", Sport: "Soccer", Odds: "+120"},
			{UserID: user.ID, Username: user.Username, Title: "Chiefs moneyline", Content: "Defense travels.", Sport: "NFL", Odds: "-150"},
		}
		return tx.Create(&posts).Error
	})
}
