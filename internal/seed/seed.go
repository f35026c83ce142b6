// Package seed provides database seeding utilities for development and demos.
package seed

import (
	"fmt"
	"log"
	"time"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Run populates the database with the admin account, demo users, posts and
// comments. The admin is always created first so it receives id 1.
func Run(db *gorm.DB, opts Options) error {
	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return err
		}
	}

	gofakeit.Seed(time.Now().UnixNano())

	admin, err := createUser(db, "admin@quillblog.dev", "admin-password", "Site Admin")
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	log.Printf("Seeded admin %s (id %d)", admin.Email, admin.ID)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := createUser(db, gofakeit.Email(), gofakeit.Password(true, true, true, false, false, 12), gofakeit.Name())
		if err != nil {
			return fmt.Errorf("seeding user %d: %w", i, err)
		}
		users = append(users, user)
	}

	for i := 0; i < opts.NumPosts; i++ {
		post := &models.Post{
			Title:    fmt.Sprintf("%s #%d", gofakeit.Sentence(4), i+1),
			Subtitle: gofakeit.Sentence(6),
			Date:     time.Now().Format(models.DateLayout),
			Body:     gofakeit.Paragraph(3, 4, 12, "\n\n"),
			ImgURL:   fmt.Sprintf("https://picsum.photos/seed/%s/800/450", gofakeit.UUID()),
			AuthorID: admin.ID,
		}
		if err := db.Create(post).Error; err != nil {
			return fmt.Errorf("seeding post %d: %w", i, err)
		}

		for _, user := range users {
			if gofakeit.Bool() {
				continue
			}
			comment := &models.Comment{
				Text:     gofakeit.Sentence(10),
				PostID:   post.ID,
				AuthorID: user.ID,
			}
			if err := db.Create(comment).Error; err != nil {
				return fmt.Errorf("seeding comment on post %d: %w", post.ID, err)
			}
		}
	}

	log.Printf("Seeded %d users and %d posts", opts.NumUsers+1, opts.NumPosts)
	return nil
}

func createUser(db *gorm.DB, email, password, name string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:    email,
		Password: string(hashed),
		Name:     name,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func clean(db *gorm.DB) error {
	// Delete order respects the foreign keys.
	for _, model := range []interface{}{&models.Comment{}, &models.Post{}, &models.User{}} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
