package service

import (
	"context"  // Request scoped operations
	"errors"   // Error inspection
	"fmt"      // Error wrapping
	"net/mail" // Email syntax check
	"strings"  // Input normalization

	"bookstore/internal/domain" // Importing domain models
	"bookstore/internal/utils"  // Password hashing and tokens

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterInput is a new account
type RegisterInput struct {
	Username        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	FirstName       string `json:"firstName" form:"firstName"`
	LastName        string `json:"lastName" form:"lastName"`
	PhoneNumber     string `json:"phoneNumber" form:"phoneNumber"`
	Role            string `json:"role" form:"role"` // Empty or User or Author
	ProfileImageURL string `json:"-" form:"-"`       // Set by the upload handler
}

func (in *RegisterInput) normalize() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Role = strings.TrimSpace(in.Role)
	if in.Username == "" || in.Email == "" || in.Password == "" ||
		in.FirstName == "" || in.LastName == "" || in.PhoneNumber == "" {
		return fmt.Errorf("%w: username, email, password, firstName, lastName and phoneNumber are required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}
	switch domain.Role(in.Role) {
	case "", domain.RoleUser, domain.RoleAuthor:
	default:
		return fmt.Errorf("%w: role must be User or Author", ErrInvalidInput)
	}
	return nil
}

// ProfileUpdate holds optional profile fields; blank fields are left unchanged
type ProfileUpdate struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}

// Users handles accounts and credentials
type Users struct {
	db     *gorm.DB            // Database handle
	tokens *utils.TokenManager // Token issuer
}

// NewUsers builds the account service
func NewUsers(db *gorm.DB, tokens *utils.TokenManager) *Users {
	return &Users{db: db, tokens: tokens}
}

// Register creates an account after checking email and username uniqueness
func (s *Users) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if err := in.normalize(); err != nil {
		return domain.User{}, err
	}
	db := s.db.WithContext(ctx)
	if taken, err := s.exists(db, "email = ?", in.Email); err != nil {
		return domain.User{}, err
	} else if taken {
		return domain.User{}, ErrEmailTaken
	}
	if taken, err := s.exists(db, "username = ?", in.Username); err != nil {
		return domain.User{}, err
	} else if taken {
		return domain.User{}, ErrUsernameTaken
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	role := domain.RoleUser // Default role
	if in.Role != "" {
		role = domain.Role(in.Role)
	}
	user := domain.User{
		Username:        in.Username,
		Email:           in.Email,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		PhoneNumber:     in.PhoneNumber,
		PasswordHash:    hash,
		ProfileImageURL: in.ProfileImageURL,
		Role:            role,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent registration
			if taken, _ := s.exists(db, "username = ?", in.Username); taken {
				return domain.User{}, ErrUsernameTaken
			}
			return domain.User{}, ErrEmailTaken
		}
		logrus.WithFields(logrus.Fields{
			"username": in.Username, // Username
			"error":    err.Error(), // Error message
		}).Error("Failed to register user")
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,   // User ID
		"role":    user.Role, // Role
	}).Info("User registered")
	return user, nil
}

// Login verifies credentials and issues a bearer token
func (s *Users) Login(ctx context.Context, username, password string) (string, error) {
	var user domain.User // Fetch user from database
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrInvalidCredentials // Same answer for unknown users and bad passwords
	}
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}
	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	logrus.WithField("user_id", user.ID).Info("User logged in")
	return token, nil
}

// Get loads one account
func (s *Users) Get(ctx context.Context, id uint) (domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, fmt.Errorf("user %w", ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateProfile overwrites only the non-blank fields of upd
func (s *Users) UpdateProfile(ctx context.Context, id uint, upd ProfileUpdate) (domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	changes := map[string]any{} // Columns to update
	if v := strings.TrimSpace(upd.FirstName); v != "" {
		changes["first_name"] = v
	}
	if v := strings.TrimSpace(upd.LastName); v != "" {
		changes["last_name"] = v
	}
	if v := strings.TrimSpace(upd.PhoneNumber); v != "" {
		changes["phone_number"] = v
	}
	if len(changes) == 0 {
		return user, nil
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(changes).Error; err != nil {
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}
	logrus.WithField("user_id", id).Info("Profile updated")
	return s.Get(ctx, id)
}

// SetProfileImage stores the relative avatar path of id
func (s *Users) SetProfileImage(ctx context.Context, id uint, path string) (domain.User, error) {
	res := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("profile_image_url", path)
	if res.Error != nil {
		return domain.User{}, fmt.Errorf("set profile image: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.User{}, fmt.Errorf("user %w", ErrNotFound)
	}
	logrus.WithFields(logrus.Fields{
		"user_id": id,   // User ID
		"path":    path, // Stored avatar path
	}).Info("Profile image updated")
	return s.Get(ctx, id)
}

func (s *Users) exists(db *gorm.DB, query string, arg any) (bool, error) {
	var count int64
	if err := db.Model(&domain.User{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return count > 0, nil
}
