package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

var (
	ErrShortUsername = errors.New("username must be at least 3 characters")
	ErrWeakPassword  = errors.New("password must be at least 4 characters")
	ErrShortFullName = errors.New("full name must be at least 2 characters")
	ErrInvalidRole   = errors.New("role must be admin or cashier")
)

// Role restricts what a staff member may do at the till.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleCashier:
		return RoleCashier, nil
	default:
		return "", ErrInvalidRole
	}
}

// User is a staff account. Only the password hash is ever stored.
type User struct {
	ID           int64
	Username     string
	FullName     string
	Role         Role
	PasswordHash string
}

// NewUser builds a user, hashing the plaintext password.
func NewUser(id int64, username, password, fullName string, role Role) (*User, error) {
	user := &User{ID: id, Role: role}
	if err := user.SetUsername(username); err != nil {
		return nil, err
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := user.SetFullName(fullName); err != nil {
		return nil, err
	}
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}
	return user, nil
}

// SetUsername trims and validates the username.
func (u *User) SetUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return ErrShortUsername
	}
	u.Username = username
	return nil
}

// SetPassword validates the plaintext and stores its hash.
func (u *User) SetPassword(password string) error {
	if len(strings.TrimSpace(password)) < 4 {
		return ErrWeakPassword
	}
	u.PasswordHash = HashPassword(password)
	return nil
}

// SetFullName trims and validates the display name.
func (u *User) SetFullName(fullName string) error {
	fullName = strings.TrimSpace(fullName)
	if len(fullName) < 2 {
		return ErrShortFullName
	}
	u.FullName = fullName
	return nil
}

// SetRole validates and assigns the role.
func (u *User) SetRole(raw string) error {
	role, err := ParseRole(raw)
	if err != nil {
		return err
	}
	u.Role = role
	return nil
}

// CheckPassword compares the stored hash with the supplied credentials.
func (u *User) CheckPassword(password string) bool {
	return u.PasswordHash != "" && u.PasswordHash == HashPassword(password)
}

// IsAdmin reports whether the user may manage the catalog and staff.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if err := u.SetUsername(u.Username); err != nil {
		return err
	}
	if err := u.SetFullName(u.FullName); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return ErrWeakPassword
	}
	_, err := ParseRole(string(u.Role))
	return err
}

// HashPassword returns the hex-encoded SHA-256 digest of the plaintext.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
