package api

import (
	"time"

	"github.com/google/uuid"

	"artlink/internal/domain"
	"artlink/internal/service"
)

// 请求体字段统一使用 snake_case，响应中从不包含密码哈希。

type registerArtistRequest struct {
	FirstName          string  `json:"first_name" binding:"required,max=100"`
	LastName           string  `json:"last_name" binding:"required,max=100"`
	Email              string  `json:"email" binding:"required,email,max=255"`
	Password           string  `json:"password" binding:"required"`
	Bio                *string `json:"bio" binding:"omitempty,max=2000"`
	Experience         *int    `json:"experience" binding:"omitempty,min=0"`
	ProfilePicturePath *string `json:"profile_picture_path"`
}

func (r registerArtistRequest) toInput() service.RegisterArtistInput {
	return service.RegisterArtistInput{
		Email:              r.Email,
		Password:           r.Password,
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		Bio:                r.Bio,
		Experience:         r.Experience,
		ProfilePicturePath: r.ProfilePicturePath,
	}
}

type updateArtistRequest struct {
	FirstName          string  `json:"first_name" binding:"required,max=100"`
	LastName           string  `json:"last_name" binding:"required,max=100"`
	Email              string  `json:"email" binding:"required,email,max=255"`
	Bio                *string `json:"bio" binding:"omitempty,max=2000"`
	Experience         *int    `json:"experience" binding:"omitempty,min=0"`
	ProfilePicturePath *string `json:"profile_picture_path"`
}

type artistResponse struct {
	ID                 uuid.UUID `json:"id"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Email              string    `json:"email"`
	Bio                *string   `json:"bio"`
	ProfilePicturePath *string   `json:"profile_picture_path"`
	Experience         *int      `json:"experience"`
}

func newArtistResponse(a domain.Artist) artistResponse {
	return artistResponse{
		ID:                 a.ID,
		FirstName:          a.FirstName,
		LastName:           a.LastName,
		Email:              a.Email,
		Bio:                a.Bio,
		ProfilePicturePath: a.ProfilePicturePath,
		Experience:         a.Experience,
	}
}

type registerEmployerRequest struct {
	CompanyName string `json:"company_name" binding:"required,max=200"`
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required"`
	CpFirstName string `json:"cp_first_name" binding:"required,max=100"`
	CpLastName  string `json:"cp_last_name" binding:"required,max=100"`
}

func (r registerEmployerRequest) toInput() service.RegisterEmployerInput {
	return service.RegisterEmployerInput{
		CompanyName: r.CompanyName,
		Email:       r.Email,
		Password:    r.Password,
		CpFirstName: r.CpFirstName,
		CpLastName:  r.CpLastName,
	}
}

type updateEmployerRequest struct {
	CompanyName string `json:"company_name" binding:"required,max=200"`
	Email       string `json:"email" binding:"required,email,max=255"`
	CpFirstName string `json:"cp_first_name" binding:"required,max=100"`
	CpLastName  string `json:"cp_last_name" binding:"required,max=100"`
}

type employerResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"company_name"`
	Email       string    `json:"email"`
	CpFirstName string    `json:"cp_first_name"`
	CpLastName  string    `json:"cp_last_name"`
}

func newEmployerResponse(e domain.Employer) employerResponse {
	return employerResponse{
		ID:          e.ID,
		CompanyName: e.CompanyName,
		Email:       e.Email,
		CpFirstName: e.CpFirstName,
		CpLastName:  e.CpLastName,
	}
}

type adminResponse struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	MustChangePassword bool      `json:"must_change_password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type techniqueRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"required,max=2000"`
}

type techniqueResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

func newTechniqueResponse(t domain.Technique) techniqueResponse {
	return techniqueResponse{ID: t.ID, Name: t.Name, Description: t.Description}
}

type portfolioRequest struct {
	ArtistID    uuid.UUID `json:"artist_id" binding:"required"`
	TechniqueID uuid.UUID `json:"technique_id" binding:"required"`
	Title       string    `json:"title" binding:"required,max=200"`
	Description *string   `json:"description" binding:"omitempty,max=2000"`
}

func (r portfolioRequest) toDomain(id uuid.UUID) domain.Portfolio {
	return domain.Portfolio{
		ID:          id,
		ArtistID:    r.ArtistID,
		TechniqueID: r.TechniqueID,
		Title:       r.Title,
		Description: r.Description,
	}
}

// portfolioResponse 的主键字段名为 portfolio_id，与前端保持兼容。
type portfolioResponse struct {
	ID          uuid.UUID `json:"portfolio_id"`
	ArtistID    uuid.UUID `json:"artist_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	TechniqueID uuid.UUID `json:"technique_id"`
}

func newPortfolioResponse(p domain.Portfolio) portfolioResponse {
	return portfolioResponse{
		ID:          p.ID,
		ArtistID:    p.ArtistID,
		Title:       p.Title,
		Description: p.Description,
		TechniqueID: p.TechniqueID,
	}
}

type artworkRequest struct {
	PortfolioID uuid.UUID `json:"portfolio_id" binding:"required"`
	Title       string    `json:"title" binding:"required,max=200"`
	Description *string   `json:"description" binding:"omitempty,max=2000"`
	ImagePath   string    `json:"image_path" binding:"required,max=500"`
}

func (r artworkRequest) toDomain(id uuid.UUID) domain.Artwork {
	return domain.Artwork{
		ID:          id,
		PortfolioID: r.PortfolioID,
		Title:       r.Title,
		Description: r.Description,
		ImagePath:   r.ImagePath,
	}
}

type artworkResponse struct {
	ID          uuid.UUID `json:"id"`
	PortfolioID uuid.UUID `json:"portfolio_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	ImagePath   string    `json:"image_path"`
}

func newArtworkResponse(a domain.Artwork) artworkResponse {
	return artworkResponse{
		ID:          a.ID,
		PortfolioID: a.PortfolioID,
		Title:       a.Title,
		Description: a.Description,
		ImagePath:   a.ImagePath,
	}
}

// contractRequest 用于创建与更新；创建时 status 缺省为 Draft。
type contractRequest struct {
	ArtistID           uuid.UUID             `json:"artist_id" binding:"required"`
	EmployerID         uuid.UUID             `json:"employer_id" binding:"required"`
	ProjectDescription string                `json:"project_description" binding:"required,max=4000"`
	StartDate          *time.Time            `json:"start_date"`
	EndDate            *time.Time            `json:"end_date"`
	Status             *domain.ContractState `json:"status"`
}

func (r contractRequest) toDomain(id uuid.UUID) domain.Contract {
	status := domain.ContractDraft
	if r.Status != nil {
		status = *r.Status
	}
	return domain.Contract{
		ID:                 id,
		ArtistID:           r.ArtistID,
		EmployerID:         r.EmployerID,
		ProjectDescription: r.ProjectDescription,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		Status:             status,
	}
}

type contractResponse struct {
	ID                 uuid.UUID            `json:"id"`
	ArtistID           uuid.UUID            `json:"artist_id"`
	EmployerID         uuid.UUID            `json:"employer_id"`
	ProjectDescription string               `json:"project_description"`
	StartDate          *time.Time           `json:"start_date"`
	EndDate            *time.Time           `json:"end_date"`
	Status             domain.ContractState `json:"status"`
}

func newContractResponse(c domain.Contract) contractResponse {
	return contractResponse{
		ID:                 c.ID,
		ArtistID:           c.ArtistID,
		EmployerID:         c.EmployerID,
		ProjectDescription: c.ProjectDescription,
		StartDate:          c.StartDate,
		EndDate:            c.EndDate,
		Status:             c.Status,
	}
}

type createdResponse struct {
	ID uuid.UUID `json:"id"`
}

func mapList[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
