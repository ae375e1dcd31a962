package database

import (
	"log"

	"learnhub/config"
	"learnhub/models"

	"golang.org/x/crypto/bcrypt"
)

// SeedUsers creates the default admin and a demo student if they do not exist
func SeedUsers() {
	seedUser(config.AppConfig.SeedAdminEmail, "Admin User", config.AppConfig.SeedAdminPassword, models.RoleAdmin)
	seedUser(config.AppConfig.SeedStudentEmail, "Test Student", config.AppConfig.SeedStudentPassword, models.RoleStudent)
}

func seedUser(email, name, password, role string) {
	db := Database.Db

	// Create only if the email is not already registered
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing seed password for %s: %v", email, err)
		return
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
		Role:     role,
	}

	if err := db.Create(&user).Error; err != nil {
		log.Printf("Error seeding user %s: %v", email, err)
		return
	}

	log.Printf("Seeded %s user: %s", role, email)
}
