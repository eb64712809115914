package database

import (
	"time"

	"github.com/google/uuid"
)

// Artist 表示平台上的艺术家账号。
type Artist struct {
	ID                 uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Email              string      `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash       string      `gorm:"size:255;not null"`
	FirstName          string      `gorm:"size:100;not null"`
	LastName           string      `gorm:"size:100;not null"`
	Bio                *string     `gorm:"size:1000"`
	Experience         *int
	ProfilePicturePath *string     `gorm:"size:500"`
	Portfolios         []Portfolio `gorm:"constraint:OnDelete:CASCADE"`
	Contracts          []Contract  `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Employer 表示发布合同的雇主（公司）账号。
type Employer struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyName  string     `gorm:"size:255;not null"`
	Email        string     `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `gorm:"size:255;not null"`
	CpFirstName  string     `gorm:"size:100;not null"`
	CpLastName   string     `gorm:"size:100;not null"`
	Contracts    []Contract `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Technique 是作品集的分类，例如油画、水彩。
type Technique struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name        string      `gorm:"size:100;not null"`
	Description string      `gorm:"size:1000;not null"`
	Portfolios  []Portfolio `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Portfolio 归属于一位艺术家与一种技法。
type Portfolio struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ArtistID    uuid.UUID `gorm:"type:uuid;index;not null"`
	TechniqueID uuid.UUID `gorm:"type:uuid;index;not null"`
	Title       string    `gorm:"size:200;not null"`
	Description *string   `gorm:"size:2000"`
	Artworks    []Artwork `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Artwork 是作品集中的单个作品，ImagePath 指向对象存储中的图片。
type Artwork struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PortfolioID uuid.UUID `gorm:"type:uuid;index;not null"`
	Title       string    `gorm:"size:200;not null"`
	Description *string   `gorm:"size:2000"`
	ImagePath   string    `gorm:"size:500;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Contract 连接一位艺术家与一位雇主。Status 以整数存储（Draft=0 … Rejected=4）。
type Contract struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ArtistID           uuid.UUID  `gorm:"type:uuid;index;not null"`
	EmployerID         uuid.UUID  `gorm:"type:uuid;index;not null"`
	ProjectDescription string     `gorm:"size:2000;not null"`
	StartDate          *time.Time
	EndDate            *time.Time
	Status             int        `gorm:"not null;default:0"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Admin 只能通过 admin 命令行创建。
type Admin struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email              string    `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash       string    `gorm:"size:255;not null"`
	MustChangePassword bool      `gorm:"not null;default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// AllModels lists every table in migration order.
func AllModels() []any {
	return []any{
		&Artist{},
		&Employer{},
		&Technique{},
		&Portfolio{},
		&Artwork{},
		&Contract{},
		&Admin{},
	}
}
