package person

import (
	"errors"

	"github.com/daybook-app/core/internal/models"
	"github.com/daybook-app/core/internal/pkg/pagination"
	"github.com/daybook-app/core/internal/pkg/response"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("person not found")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List(ownerID string, q pagination.Query) ([]models.PersonModel, response.Pagination, error) {
	tx := s.db.Model(&models.PersonModel{}).
		Where("owner_id = ?", ownerID).
		Order("surname ASC, name ASC")

	var persons []models.PersonModel
	pag, err := pagination.Paginate(tx, q, &persons)
	return persons, pag, err
}

func (s *Service) Get(ownerID string, id uint) (*models.PersonModel, error) {
	var p models.PersonModel
	err := s.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) Create(ownerID string, dto *CreatePersonDTO) (*models.PersonModel, error) {
	p := models.PersonModel{
		OwnerID:  ownerID,
		Name:     dto.Name,
		Surname:  dto.Surname,
		Nickname: dto.Nickname,
	}
	if err := s.db.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Update(ownerID string, id uint, dto *UpdatePersonDTO) (*models.PersonModel, error) {
	p, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Surname != nil {
		updates["surname"] = *dto.Surname
	}
	if dto.Nickname != nil {
		updates["nickname"] = dto.Nickname
	}
	if len(updates) == 0 {
		return p, nil
	}

	if err := s.db.Model(p).Updates(updates).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a person and any mention rows that point at them.
// Entries that mentioned the person are kept.
func (s *Service) Delete(ownerID string, id uint) error {
	p, err := s.Get(ownerID, id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("person_id = ?", p.ID).Delete(&models.MentionModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(p).Error
	})
}
