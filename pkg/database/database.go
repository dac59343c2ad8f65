package database

import (
	"fmt"
	"log"

	"foodbox_backend/pkg/config"
	"foodbox_backend/pkg/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

// QuotedNamingStrategy wraps the default naming strategy and quotes all identifiers
// so PostgreSQL keeps the case-sensitive column names defined on the models
type QuotedNamingStrategy struct {
	schema.NamingStrategy
}

// ColumnName quotes column names for PostgreSQL case-sensitivity
func (q QuotedNamingStrategy) ColumnName(table, column string) string {
	return fmt.Sprintf("\"%s\"", q.NamingStrategy.ColumnName(table, column))
}

// TableName quotes table names
func (q QuotedNamingStrategy) TableName(table string) string {
	return fmt.Sprintf("\"%s\"", q.NamingStrategy.TableName(table))
}

// JoinTableName quotes join table names
func (q QuotedNamingStrategy) JoinTableName(joinTable string) string {
	return fmt.Sprintf("\"%s\"", q.NamingStrategy.JoinTableName(joinTable))
}

// InitDatabase initializes the database connection
func InitDatabase() error {
	var err error

	gormConfig := &gorm.Config{
		PrepareStmt: false,
		NamingStrategy: QuotedNamingStrategy{
			schema.NamingStrategy{
				SingularTable: false,
			},
		},
	}

	// Development mode - verbose logging
	if config.IsDevelopment() {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	} else {
		// Production mode - only errors
		gormConfig.Logger = logger.Default.LogMode(logger.Error)
	}

	// Connect to PostgreSQL with implicit prepared statements disabled
	DB, err = gorm.Open(postgres.New(postgres.Config{
		DSN:                  config.AppConfig.DatabaseURL,
		PreferSimpleProtocol: true, // avoid "prepared statement already exists" under poolers
	}), gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	log.Println("✅ Database connection established")

	return nil
}

// AutoMigrate runs auto-migration for all models
func AutoMigrate() error {
	log.Println("🔄 Running database migrations...")

	err := DB.AutoMigrate(
		// Core models
		&models.User{},
		&models.Restaurant{},
		&models.Box{},

		// Orders & payments
		&models.Order{},
		&models.Payment{},
		&models.CancelOrder{},

		// Inventory audit
		&models.InventoryCommand{},

		// Notifications
		&models.UserDeviceToken{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("✅ Database migrations completed")

	createIndexes()

	return nil
}

// createIndexes creates additional indexes beyond what the model tags declare
func createIndexes() {
	log.Println("🔄 Creating additional indexes...")

	DB.Exec(`CREATE INDEX IF NOT EXISTS "Box_restaurantId_idx" ON "Box"("restaurantId")`)
	DB.Exec(`CREATE INDEX IF NOT EXISTS "Box_isAvailable_idx" ON "Box"("isAvailable")`)
	DB.Exec(`CREATE INDEX IF NOT EXISTS "Order_userId_idx" ON "Order"("userId")`)
	DB.Exec(`CREATE INDEX IF NOT EXISTS "Order_boxId_idx" ON "Order"("boxId")`)
	DB.Exec(`CREATE INDEX IF NOT EXISTS "Payment_orderId_idx" ON "Payment"("orderId")`)
	DB.Exec(`CREATE INDEX IF NOT EXISTS "InventoryCommand_boxId_idx" ON "InventoryCommand"("boxId")`)
	DB.Exec(`CREATE INDEX IF NOT EXISTS "UserDeviceToken_userId_idx" ON "UserDeviceToken"("userId")`)

	// Unique constraints
	DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS "CancelOrder_orderId_key" ON "CancelOrder"("orderId")`)

	log.Println("✅ Additional indexes created")
}

// CloseDatabase closes the database connection
func CloseDatabase() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("Error getting database instance: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	} else {
		log.Println("✅ Database connection closed")
	}
}
