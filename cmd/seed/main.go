package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/shinyyama/placereview/internal/config"
	"github.com/shinyyama/placereview/internal/db"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	Password     string    `db:"-"`
	PasswordHash string    `db:"password_hash"`
	FullName     string    `db:"full_name"`
	IsAdmin      bool      `db:"is_admin"`
	IsActive     bool      `db:"is_active"`
	Now          time.Time `db:"now"`
}

type seedCategory struct {
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Now         time.Time `db:"now"`
}

type seedItem struct {
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Category    string    `db:"category"`
	Address     string    `db:"address"`
	WebsiteURL  string    `db:"website_url"`
	PhoneNumber string    `db:"phone_number"`
	Owner       string    `db:"owner"`
	ImageURL    string    `db:"image_url"`
	Now         time.Time `db:"now"`
}

type seedReview struct {
	User    string    `db:"user"`
	Item    string    `db:"item"`
	Rating  int       `db:"rating"`
	Title   string    `db:"title"`
	Content string    `db:"content"`
	Now     time.Time `db:"now"`
}

type seedComment struct {
	User       string    `db:"user"`
	ReviewUser string    `db:"review_user"`
	ReviewItem string    `db:"review_item"`
	Content    string    `db:"content"`
	Now        time.Time `db:"now"`
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() (err error) {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer db.Close(gdb)
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("sql db: %w", err)
	}
	// sqlx picks the placeholder style from the driver name
	dbx := sqlx.NewDb(sqlDB, cfg.DBDriver)

	canSeed, err := shouldSeed(ctx, dbx)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("users already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	now := time.Now()
	users := buildUsers(now)
	for i := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(users[i].Password), cfg.BcryptCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", users[i].Username, err)
		}
		users[i].PasswordHash = string(hash)
	}

	tx, err := dbx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = clearTables(ctx, tx); err != nil {
		return err
	}
	if err = insertAll(ctx, tx, users, buildCategories(now), buildItems(now), buildReviews(now), buildComments(now)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	log.Printf("seeded %d users, 2 categories, 3 items, 3 reviews, 2 comments", len(users))
	return nil
}

func clearTables(ctx context.Context, tx *sqlx.Tx) error {
	for _, table := range []string{"review_comments", "reviews", "item_images", "items", "categories", "users"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func insertAll(ctx context.Context, tx *sqlx.Tx, users []seedUser, categories []seedCategory, items []seedItem, reviews []seedReview, comments []seedComment) error {
	for _, u := range users {
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO users (username, email, password_hash, full_name, is_admin, is_active, created_at, updated_at)
			 VALUES (:username, :email, :password_hash, :full_name, :is_admin, :is_active, :now, :now)`, u); err != nil {
			return fmt.Errorf("insert user %q: %w", u.Username, err)
		}
	}
	for _, c := range categories {
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO categories (name, description, created_at, updated_at)
			 VALUES (:name, :description, :now, :now)`, c); err != nil {
			return fmt.Errorf("insert category %q: %w", c.Name, err)
		}
	}
	for _, it := range items {
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO items (name, description, category_id, address, website_url, phone_number, created_by, is_approved, created_at, updated_at)
			 VALUES (:name, :description,
			   (SELECT id FROM categories WHERE name = :category),
			   :address, :website_url, :phone_number,
			   (SELECT id FROM users WHERE username = :owner),
			   TRUE, :now, :now)`, it); err != nil {
			return fmt.Errorf("insert item %q: %w", it.Name, err)
		}
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO item_images (item_id, image_url, is_primary, uploaded_at)
			 VALUES ((SELECT id FROM items WHERE name = :name), :image_url, TRUE, :now)`, it); err != nil {
			return fmt.Errorf("insert image for %q: %w", it.Name, err)
		}
	}
	for _, r := range reviews {
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO reviews (user_id, item_id, rating, title, content, is_approved, created_at, updated_at)
			 VALUES ((SELECT id FROM users WHERE username = :user),
			   (SELECT id FROM items WHERE name = :item),
			   :rating, :title, :content, TRUE, :now, :now)`, r); err != nil {
			return fmt.Errorf("insert review %s/%s: %w", r.User, r.Item, err)
		}
	}
	for _, c := range comments {
		var reviewID uint64
		if err := tx.GetContext(ctx, &reviewID, tx.Rebind(
			`SELECT reviews.id FROM reviews
			 JOIN users ON users.id = reviews.user_id
			 JOIN items ON items.id = reviews.item_id
			 WHERE users.username = ? AND items.name = ?`), c.ReviewUser, c.ReviewItem); err != nil {
			return fmt.Errorf("find review %s/%s: %w", c.ReviewUser, c.ReviewItem, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(
			`INSERT INTO review_comments (user_id, review_id, content, created_at, updated_at)
			 VALUES ((SELECT id FROM users WHERE username = ?), ?, ?, ?, ?)`),
			c.User, reviewID, c.Content, c.Now, c.Now); err != nil {
			return fmt.Errorf("insert comment by %s: %w", c.User, err)
		}
	}
	return nil
}

func buildUsers(now time.Time) []seedUser {
	return []seedUser{
		{Username: "admin", Email: "admin@example.com", Password: "admin123", FullName: "Admin User", IsAdmin: true, IsActive: true, Now: now},
		{Username: "user1", Email: "user1@example.com", Password: "password1", FullName: "John Doe", IsActive: true, Now: now},
		{Username: "user2", Email: "user2@example.com", Password: "password2", FullName: "Jane Smith", IsActive: true, Now: now},
	}
}

func buildCategories(now time.Time) []seedCategory {
	return []seedCategory{
		{Name: "Restaurants", Description: "Places to eat", Now: now},
		{Name: "Books", Description: "Books to read", Now: now},
	}
}

func buildItems(now time.Time) []seedItem {
	items := []seedItem{
		{Name: "Burger Place", Description: "Great burgers downtown", Category: "Restaurants",
			Address: "123 Main St", WebsiteURL: "http://burgerplace.com", PhoneNumber: "555-1234"},
		{Name: "Pizza Joint", Description: "Best pizza in town", Category: "Restaurants",
			Address: "456 Elm St", WebsiteURL: "http://pizzajoint.com", PhoneNumber: "555-5678"},
		{Name: "Programming Book", Description: "Learn to code", Category: "Books",
			WebsiteURL: "http://example.com/programming-book"},
	}
	for i := range items {
		items[i].Owner = "user1"
		items[i].ImageURL = placeholderURL(items[i].Name)
		// distinct timestamps keep newest-first ordering stable
		items[i].Now = now.Add(time.Duration(i) * time.Second)
	}
	return items
}

func buildReviews(now time.Time) []seedReview {
	return []seedReview{
		{User: "user1", Item: "Burger Place", Rating: 5, Title: "Amazing burgers!", Content: "The best burgers I ever had.", Now: now},
		{User: "user2", Item: "Burger Place", Rating: 4, Title: "Good burgers", Content: "Very tasty but a bit pricey.", Now: now},
		{User: "user1", Item: "Pizza Joint", Rating: 3, Title: "Decent pizza", Content: "Not bad but nothing special.", Now: now},
	}
}

func buildComments(now time.Time) []seedComment {
	return []seedComment{
		{User: "user2", ReviewUser: "user1", ReviewItem: "Burger Place", Content: "I agree, their burgers are fantastic!", Now: now},
		{User: "user1", ReviewUser: "user2", ReviewItem: "Burger Place", Content: "Thanks for your feedback!", Now: now},
	}
}

func shouldSeed(ctx context.Context, dbx *sqlx.DB) (bool, error) {
	var cnt int
	if err := dbx.GetContext(ctx, &cnt, `SELECT COUNT(*) FROM users`); err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if cnt == 0 {
		return true, nil
	}
	force := os.Getenv("FORCE_SEED")
	return strings.EqualFold(force, "true"), nil
}

func placeholderURL(name string) string {
	return "https://placehold.co/300x200?text=" + url.QueryEscape(name)
}
