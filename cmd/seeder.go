package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"activity_log", "deletion_reviews", "comments", "publications", "categories", "user_roles", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		// the owner account matches the configured owner email; ownership
		// itself comes from config, never from a role row
		seedUser(db, cfg.App.OwnerEmail, "Site Owner", string(hash))
		editorID := seedUser(db, "layla@majalla.example", "Layla", string(hash))
		authorID := seedUser(db, "samir@majalla.example", "Samir", string(hash))

		seedRole(db, editorID, "editor")
		seedRole(db, authorID, "author")

		categories := []struct {
			NameAr string
			NameEn string
			Slug   string
		}{
			{"شعر", "Poetry", "poetry"},
			{"قصة قصيرة", "Short Stories", "short-stories"},
			{"نقد أدبي", "Literary Criticism", "criticism"},
		}
		for _, c := range categories {
			var exists int
			if err := db.Raw("SELECT 1 FROM categories WHERE slug = ?", c.Slug).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec(
				"INSERT INTO categories (name_ar, name_en, slug, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())",
				c.NameAr, c.NameEn, c.Slug,
			).Error; err != nil {
				log.Fatalf("failed to insert category %s: %v", c.Slug, err)
			}
			fmt.Println("Seeded category:", c.Slug)
		}

		var poetryID int64
		if err := db.Raw("SELECT id FROM categories WHERE slug = ?", "poetry").Row().Scan(&poetryID); err != nil {
			log.Fatalf("failed to lookup poetry category: %v", err)
		}

		slug := "qasida-on-the-sea"
		var exists int
		if err := db.Raw("SELECT 1 FROM publications WHERE slug = ?", slug).Row().Scan(&exists); err != nil {
			if err := db.Exec(
				`INSERT INTO publications (title_ar, title_en, slug, excerpt_ar, body_ar, author_name, category_id, is_published, published_at, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, true, now(), now(), now())`,
				"قصيدة عن البحر", "Qasida on the Sea", slug,
				"مقتطف من القصيدة", "نص القصيدة الكامل",
				"Samir", poetryID,
			).Error; err != nil {
				log.Fatalf("failed to insert sample publication: %v", err)
			}
			fmt.Println("Seeded publication:", slug)
		}

		fmt.Println("Seeding complete")
	},
}

func seedUser(db *gorm.DB, email, name, passwordHash string) int64 {
	var id int64
	if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&id); err == nil {
		fmt.Println("user already exists:", email)
		return id
	}

	if err := db.Exec(
		"INSERT INTO users (email, name, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())",
		email, name, passwordHash,
	).Error; err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}
	if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&id); err != nil {
		log.Fatalf("failed to lookup user id for %s: %v", email, err)
	}
	fmt.Println("Seeded user:", email)
	return id
}

func seedRole(db *gorm.DB, userID int64, role string) {
	var exists int
	if err := db.Raw("SELECT 1 FROM user_roles WHERE user_id = ? AND role = ?", userID, role).Row().Scan(&exists); err == nil {
		return
	}
	if err := db.Exec(
		"INSERT INTO user_roles (user_id, role, granted_by, created_at) VALUES (?, ?, NULL, now())",
		userID, role,
	).Error; err != nil {
		log.Fatalf("failed to grant role %s to user %d: %v", role, userID, err)
	}
	fmt.Printf("Granted role %s to user %d\n", role, userID)
}
