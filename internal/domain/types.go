// Package domain holds the ArtLink entities as the services see them, independent of storage.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Artist 艺术家。PasswordHash 从不出现在 API 响应中。
type Artist struct {
	ID                 uuid.UUID
	Email              string
	PasswordHash       string
	FirstName          string
	LastName           string
	Bio                *string
	Experience         *int
	ProfilePicturePath *string
}

// Employer 雇主，联系人姓名分为 CpFirstName / CpLastName。
type Employer struct {
	ID           uuid.UUID
	CompanyName  string
	Email        string
	PasswordHash string
	CpFirstName  string
	CpLastName   string
}

type Technique struct {
	ID          uuid.UUID
	Name        string
	Description string
}

type Portfolio struct {
	ID          uuid.UUID
	ArtistID    uuid.UUID
	TechniqueID uuid.UUID
	Title       string
	Description *string
}

type Artwork struct {
	ID          uuid.UUID
	PortfolioID uuid.UUID
	Title       string
	Description *string
	ImagePath   string
}

// Contract 合同。StartDate 与 EndDate 可以为空。
type Contract struct {
	ID                 uuid.UUID
	ArtistID           uuid.UUID
	EmployerID         uuid.UUID
	ProjectDescription string
	StartDate          *time.Time
	EndDate            *time.Time
	Status             ContractState
}

type Admin struct {
	ID                 uuid.UUID
	Email              string
	PasswordHash       string
	MustChangePassword bool
}
