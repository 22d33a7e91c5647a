// Package user provides lab user identities and roles.
package user

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sanjayfuloria/simulation-game/internal/id"
	apperrors "github.com/sanjayfuloria/simulation-game/internal/platform/errors"
)

// Role distinguishes students from instructors.
type Role string

const (
	// RoleStudent plays rounds as part of a team.
	RoleStudent Role = "student"
	// RoleInstructor controls rounds and inspects aggregate results.
	RoleInstructor Role = "instructor"
)

var (
	// ErrInvalidRole indicates an unknown role value.
	ErrInvalidRole = apperrors.New(apperrors.CodeAuthInvalidRole, "role must be student or instructor")
	// ErrInvalidEmail indicates an email that does not look like an address.
	ErrInvalidEmail = apperrors.New(apperrors.CodeAuthInvalidCredentials, "a valid email address is required")

	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// User represents an authenticated lab identity record.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// CreateUserInput describes the metadata needed to create a user.
type CreateUserInput struct {
	Email        string
	PasswordHash string
	Role         Role
}

// ParseRole validates a raw role string, defaulting empty input to student.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return RoleStudent, nil
	case RoleStudent:
		return RoleStudent, nil
	case RoleInstructor:
		return RoleInstructor, nil
	default:
		return "", ErrInvalidRole
	}
}

// ValidateEmail enforces the address shape used for login identities.
func ValidateEmail(s string) error {
	if !emailPattern.MatchString(s) {
		return ErrInvalidEmail
	}
	return nil
}

// CreateUser creates a durable user identity from validated input.
func CreateUser(input CreateUserInput, now func() time.Time, idGenerator func() (string, error)) (User, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateUserInput(input)
	if err != nil {
		return User{}, err
	}

	userID, err := idGenerator()
	if err != nil {
		return User{}, fmt.Errorf("generate user id: %w", err)
	}

	return User{
		ID:           userID,
		Email:        normalized.Email,
		PasswordHash: normalized.PasswordHash,
		Role:         normalized.Role,
		CreatedAt:    now().UTC(),
	}, nil
}

// NormalizeCreateUserInput trims and normalizes input before validation.
func NormalizeCreateUserInput(input CreateUserInput) (CreateUserInput, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := ValidateEmail(input.Email); err != nil {
		return CreateUserInput{}, err
	}
	role, err := ParseRole(string(input.Role))
	if err != nil {
		return CreateUserInput{}, err
	}
	input.Role = role
	return input, nil
}
