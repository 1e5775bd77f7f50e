package models

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;type:varchar(150);not null" json:"email" validate:"required,max=150"`
	Password     string     `gorm:"type:text;not null" json:"-" validate:"required"`
	Subscribed   bool       `gorm:"not null;default:false" json:"subscribed"`
	SubscribedAt *time.Time `gorm:"default:null" json:"subscribed_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// registration mirrors the registration form for validation before hashing.
type registration struct {
	Email    string `validate:"required,max=150"`
	Password string `validate:"required"`
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned by NewUser for passwords over MaxPasswordBytes.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

var validate = validator.New()

func (u *User) Validate() error {
	return validate.Struct(u)
}

// NewUser validates the trimmed credentials and returns an unsaved,
// unsubscribed user with a hashed password.
func NewUser(email string, password string) (*User, error) {
	in := registration{
		Email:    strings.TrimSpace(email),
		Password: strings.TrimSpace(password),
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	// validator's max counts runes, bcrypt counts bytes.
	if len(in.Password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	pw, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:      in.Email,
		Password:   pw,
		Subscribed: false,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}
