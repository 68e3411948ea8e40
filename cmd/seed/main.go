package main

import (
	"log"
	"os"
	"time"

	"timetrack-be/internal/model"
	"timetrack-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seeds a small demo workspace: an admin, two members, two projects, one team
// and a week of reviewed entries. Safe to run repeatedly.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("🌱 Seeding demo data\n")

	admin := seedUser(db, "admin", "admin@example.com", "admin123", true)
	alice := seedUser(db, "alice", "alice@example.com", "password", false)
	bob := seedUser(db, "bob", "bob@example.com", "password", false)
	color.Green("Users: admin, alice, bob")

	redesign := seedProject(db, "Acme Redesign", "Marketing site overhaul", admin.Id)
	internal := seedProject(db, "Internal Tools", "Back office dashboards", admin.Id)
	color.Green("Projects: %s, %s", redesign.Name, internal.Name)

	team := seedTeam(db, "Platform", admin.Id, []uuid.UUID{alice.Id, bob.Id})
	color.Green("Team: %s (2 members)", team.Name)

	seedEntries(db, alice.Id, redesign.Id, admin.Id)
	seedEntries(db, bob.Id, internal.Id, admin.Id)
	color.Green("Time entries: last 5 workdays for alice and bob")

	color.Cyan("\n✅ Seed complete")
}

func seedUser(db *gorm.DB, username, email, password string, isAdmin bool) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	user := &model.User{
		Id:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: true,
	}).Create(user).Error
	if err != nil {
		color.Red("Failed to seed user %s: %v", username, err)
		os.Exit(1)
	}
	// On conflict the generated id is not the stored one; fetch the row back.
	db.Where("username = ?", username).First(user)
	return user
}

func seedProject(db *gorm.DB, name, description string, createdBy uuid.UUID) *model.Project {
	project := &model.Project{}
	err := db.Where(model.Project{Name: name}).Attrs(model.Project{
		Id:          uuid.New(),
		Description: &description,
		CreatedById: &createdBy,
	}).FirstOrCreate(project).Error
	if err != nil {
		color.Red("Failed to seed project %s: %v", name, err)
		os.Exit(1)
	}
	return project
}

func seedTeam(db *gorm.DB, name string, managerID uuid.UUID, memberIDs []uuid.UUID) *model.Team {
	team := &model.Team{}
	err := db.Where(model.Team{Name: name, ManagerId: managerID}).Attrs(model.Team{
		Id: uuid.New(),
	}).FirstOrCreate(team).Error
	if err != nil {
		color.Red("Failed to seed team %s: %v", name, err)
		os.Exit(1)
	}

	for _, userID := range memberIDs {
		member := &model.TeamMember{}
		db.Where(model.TeamMember{TeamId: team.Id, UserId: userID}).Attrs(model.TeamMember{
			Id: uuid.New(),
		}).FirstOrCreate(member)
	}
	return team
}

func seedEntries(db *gorm.DB, userID, projectID, approverID uuid.UUID) {
	for day := 1; day <= 5; day++ {
		start := time.Now().AddDate(0, 0, -day).Truncate(24 * time.Hour).Add(9 * time.Hour)
		end := start.Add(7*time.Hour + 30*time.Minute)
		approvedAt := end.Add(time.Hour)

		attrs := model.TimeEntry{
			Id:          uuid.New(),
			EndTime:     &end,
			Description: "Time tracked",
		}
		// Leave the most recent day pending review.
		if day > 1 {
			attrs.Approved = true
			attrs.ApprovedById = &approverID
			attrs.ApprovedAt = &approvedAt
		}

		entry := &model.TimeEntry{}
		db.Where(model.TimeEntry{UserId: userID, ProjectId: projectID, StartTime: start}).Attrs(attrs).FirstOrCreate(entry)
	}
}
