package repository

import (
	"artlink/internal/database"
	"artlink/internal/domain"
)

func artistToDomain(m database.Artist) domain.Artist {
	return domain.Artist{
		ID:                 m.ID,
		Email:              m.Email,
		PasswordHash:       m.PasswordHash,
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		Bio:                m.Bio,
		Experience:         m.Experience,
		ProfilePicturePath: m.ProfilePicturePath,
	}
}

func artistToModel(a domain.Artist) database.Artist {
	return database.Artist{
		ID:                 a.ID,
		Email:              a.Email,
		PasswordHash:       a.PasswordHash,
		FirstName:          a.FirstName,
		LastName:           a.LastName,
		Bio:                a.Bio,
		Experience:         a.Experience,
		ProfilePicturePath: a.ProfilePicturePath,
	}
}

func employerToDomain(m database.Employer) domain.Employer {
	return domain.Employer{
		ID:           m.ID,
		CompanyName:  m.CompanyName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CpFirstName:  m.CpFirstName,
		CpLastName:   m.CpLastName,
	}
}

func employerToModel(e domain.Employer) database.Employer {
	return database.Employer{
		ID:           e.ID,
		CompanyName:  e.CompanyName,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		CpFirstName:  e.CpFirstName,
		CpLastName:   e.CpLastName,
	}
}

func techniqueToDomain(m database.Technique) domain.Technique {
	return domain.Technique{ID: m.ID, Name: m.Name, Description: m.Description}
}

func portfolioToDomain(m database.Portfolio) domain.Portfolio {
	return domain.Portfolio{
		ID:          m.ID,
		ArtistID:    m.ArtistID,
		TechniqueID: m.TechniqueID,
		Title:       m.Title,
		Description: m.Description,
	}
}

func artworkToDomain(m database.Artwork) domain.Artwork {
	return domain.Artwork{
		ID:          m.ID,
		PortfolioID: m.PortfolioID,
		Title:       m.Title,
		Description: m.Description,
		ImagePath:   m.ImagePath,
	}
}

// contractToDomain 在数据库中出现未知状态值时返回 ErrUnknownContractState。
func contractToDomain(m database.Contract) (domain.Contract, error) {
	status, err := domain.ContractStateFromInt(m.Status)
	if err != nil {
		return domain.Contract{}, err
	}
	return domain.Contract{
		ID:                 m.ID,
		ArtistID:           m.ArtistID,
		EmployerID:         m.EmployerID,
		ProjectDescription: m.ProjectDescription,
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		Status:             status,
	}, nil
}

func adminToDomain(m database.Admin) domain.Admin {
	return domain.Admin{
		ID:                 m.ID,
		Email:              m.Email,
		PasswordHash:       m.PasswordHash,
		MustChangePassword: m.MustChangePassword,
	}
}

func mapSlice[M any, D any](models []M, conv func(M) D) []D {
	out := make([]D, 0, len(models))
	for _, m := range models {
		out = append(out, conv(m))
	}
	return out
}
