package services

import (
	"aidagent_go_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// CreateOrUpdateUser finds the user by email, creating the row on first
// sign-in.
func (s *UserService) CreateOrUpdateUser(email, name string) (*models.User, error) {
	user := models.User{
		Email: email,
		Name:  name,
	}
	result := s.db.Where(models.User{Email: email}).
		Attrs(models.User{ID: uuid.New()}).
		FirstOrCreate(&user)
	if result.Error != nil {
		return nil, wrapDBError(result.Error, "user not found")
	}
	return &user, nil
}

func (s *UserService) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	result := s.db.Where("id = ?", id).First(&user)
	if result.Error != nil {
		return nil, wrapDBError(result.Error, "user not found")
	}
	return &user, nil
}
