package database

import (
	"errors"
	"fmt"
	"time"

	config "github.com/fitplan/fitplan_backend/configs"
	"github.com/fitplan/fitplan_backend/logger"
	"github.com/fitplan/fitplan_backend/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

func ConnectDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.IsProduction() {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		PrepareStmt:            false,
		SkipDefaultTransaction: true,
		// Foreign keys are declared explicitly in ensureForeignKeys; models carry no relation fields.
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	DB = db
	logger.Log.Info("database connected", zap.String("environment", cfg.Environment))
	return db, nil
}

// Models lists every table in creation order.
func Models() []any {
	return []any{
		&models.User{},
		&models.UserMetrics{},
		&models.Coach{},
		&models.CoachMetrics{},
		&models.Admin{},
		&models.TransactionLog{},
		&models.UserTransactionLog{},
		&models.WorkoutPlan{},
		&models.Take{},
		&models.Present{},
		&models.UserExercise{},
		&models.UserRequestExercise{},
		&models.Exercise{},
		&models.WorkoutPlanExercise{},
		&models.UserExerciseExercise{},
		&models.UserMeal{},
		&models.UserRequestMeal{},
		&models.MealSupplement{},
		&models.WorkoutPlanMealSupplement{},
		&models.UserMealMealSupplement{},
		&models.Gym{},
		&models.CoachGym{},
		&models.GymPlanPrice{},
		&models.GymComment{},
		&models.UserGymRegistration{},
		&models.CoachComment{},
		&models.CoachPlanPrice{},
		&models.Media{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := ensureForeignKeys(db); err != nil {
		return err
	}
	logger.Log.Info("database migration successful")
	return nil
}

func SeedAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Log.Warn("admin seed skipped, credentials not configured")
		return nil
	}

	var count int64
	if err := db.Model(&models.Admin{}).Where("email = ?", cfg.AdminEmail).Count(&count).Error; err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if count > 0 {
		logger.Log.Info("admin already exists", zap.String("email", cfg.AdminEmail))
		return nil
	}

	if cfg.AdminUserName == "" || cfg.AdminPhoneNumber == "" {
		return errors.New("admin user name and phone number are required to seed an admin")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.Admin{
		Password:    string(hashedPassword),
		UserName:    cfg.AdminUserName,
		Name:        cfg.AdminUserName,
		Email:       cfg.AdminEmail,
		PhoneNumber: cfg.AdminPhoneNumber,
		IsVerified:  true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	logger.Log.Info("admin seeded", zap.Uint("admin_id", admin.ID))
	return nil
}
