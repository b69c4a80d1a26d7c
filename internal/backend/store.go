package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/customer-portal/internal/db"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username taken")
)

// Store wraps the backend tables.
type Store struct {
	db         *gorm.DB
	bcryptCost int
}

func NewStore(d *gorm.DB, bcryptCost int) *Store {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Store{db: d, bcryptCost: bcryptCost}
}

// Register creates a user with a hashed password.
func (s *Store) Register(ctx context.Context, username, password, email string) (*db.User, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&db.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &db.User{Username: username, Email: email, Password: string(hash)}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate checks username and password.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*db.User, error) {
	var u db.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// StartReset stores a reset token for the user with email. ok is false when
// no user has that address.
func (s *Store) StartReset(ctx context.Context, email string) (token string, ok bool, err error) {
	var u db.User
	err = s.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	r := db.PasswordReset{Token: uuid.NewString(), UserID: u.ID}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return "", false, err
	}
	return r.Token, true, nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]db.Customer, error) {
	var out []db.Customer
	err := s.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

// SearchCustomers matches value against name, email and mobile number, ignoring case.
func (s *Store) SearchCustomers(ctx context.Context, value string) ([]db.Customer, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.ListCustomers(ctx)
	}
	q := "%" + strings.ToLower(value) + "%"
	var out []db.Customer
	err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(mobile_no) LIKE ?", q, q, q).
		Order("id").Find(&out).Error
	return out, err
}

func (s *Store) GetCustomer(ctx context.Context, id uint) (*db.Customer, error) {
	var c db.Customer
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateCustomer(ctx context.Context, c *db.Customer) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *Store) SaveCustomer(ctx context.Context, c *db.Customer) error {
	return s.db.WithContext(ctx).Save(c).Error
}

func (s *Store) DeleteCustomer(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&db.Customer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
