// services/user_service.go
package services

import (
	"errors"
	"fmt"
	"log"

	"kuberfashion-backend/models"
	"kuberfashion-backend/utils"

	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrPhoneTaken         = errors.New("phone already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("account disabled")
)

type UserService struct {
	DB        *gorm.DB
	Referrals *ReferralService
}

func NewUserService(db *gorm.DB, referrals *ReferralService) *UserService {
	return &UserService{DB: db, Referrals: referrals}
}

type RegisterInput struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Password     string
	ReferralCode string
	SupabaseID   *string
}

// Register creates the account and then runs the referral hook. Referral
// faults are logged and swallowed: the account must stay usable even when no
// reward was granted.
func (s *UserService) Register(in RegisterInput) (*models.User, error) {
	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}
	if err := s.DB.Model(&models.User{}).Where("phone = ?", in.Phone).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrPhoneTaken
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Phone:      in.Phone,
		Password:   hashed,
		Role:       models.RoleUser,
		Enabled:    true,
		SupabaseID: in.SupabaseID,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	if err := s.Referrals.HandlePostRegistration(&user, in.ReferralCode); err != nil {
		log.Printf("⚠️  [referral] post-registration handling failed for user %d: %v", user.ID, err)
	}

	return &user, nil
}

// Authenticate checks email+password and returns the user.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !user.Enabled {
		return nil, ErrUserDisabled
	}
	return &user, nil
}

func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByPhone(phone string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (s *UserService) ExistsByPhone(phone string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.User{}).Where("phone = ?", phone).Count(&count).Error
	return count > 0, err
}

func (s *UserService) ListAll() ([]models.User, error) {
	var users []models.User
	err := s.DB.Order("created_at DESC").Find(&users).Error
	return users, err
}

// UpdateProfile changes name/phone. Phone moves are rejected when taken,
// since the phone is also the user's referral code.
func (s *UserService) UpdateProfile(id uint, firstName, lastName, phone string) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if phone != user.Phone {
		taken, err := s.ExistsByPhone(phone)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrPhoneTaken
		}
	}

	user.FirstName = firstName
	user.LastName = lastName
	user.Phone = phone
	if err := s.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(id uint, currentPassword, newPassword string) error {
	user, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(user.Password, currentPassword) {
		return ErrInvalidCredentials
	}
	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.DB.Model(user).Update("password", hashed).Error
}

func (s *UserService) SetEnabled(id uint, enabled bool) error {
	res := s.DB.Model(&models.User{}).Where("id = ?", id).Update("enabled", enabled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *UserService) SetRole(id uint, role models.Role) error {
	res := s.DB.Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *UserService) Delete(id uint) error {
	res := s.DB.Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
