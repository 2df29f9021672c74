package identity

import (
	"strings"
	"time"

	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Role represents a user's role in the platform
type Role string

const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsValid returns true if the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// IsStaff returns true for roles allowed to act on other users' resources
func (r Role) IsStaff() bool {
	return r == RoleModerator || r == RoleAdmin
}

const maxNicknameLength = 100

// User represents a platform account resolved from an external identity.
// It is the aggregate root for account state including the balance ledger total.
type User struct {
	shared.BaseAggregateRoot
	ExternalID       string
	Nickname         string
	Balance          decimal.Decimal
	Role             Role
	Banned           bool
	LastSubmissionAt *time.Time
}

// NewUser creates a new user for a freshly resolved external identity.
// When the provider supplies no display name, the nickname falls back to
// "User_" plus the last 8 characters of the external account id.
func NewUser(externalID, nickname string, role Role) (*User, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "External account id cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}

	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		nickname = placeholderNickname(externalID)
	}
	if len(nickname) > maxNicknameLength {
		return nil, shared.NewDomainError("INVALID_NICKNAME", "Nickname cannot exceed 100 characters")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ExternalID:        externalID,
		Nickname:          nickname,
		Balance:           decimal.Zero,
		Role:              role,
		Banned:            false,
	}, nil
}

// placeholderNickname derives a generated nickname from the external id suffix
func placeholderNickname(externalID string) string {
	suffix := externalID
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}
	return "User_" + suffix
}

// SetNickname overwrites the stored nickname with a provider-supplied value
func (u *User) SetNickname(nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return shared.NewDomainError("INVALID_NICKNAME", "Nickname cannot be empty")
	}
	if len(nickname) > maxNicknameLength {
		return shared.NewDomainError("INVALID_NICKNAME", "Nickname cannot exceed 100 characters")
	}

	u.Nickname = nickname
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// ChangeRole sets the user's role
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}

	u.Role = role
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// Ban marks the account as banned. Banned users cannot submit.
func (u *User) Ban() {
	u.Banned = true
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// Unban lifts a ban
func (u *User) Unban() {
	u.Banned = false
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// CreditBalance increments the balance by a positive amount. Automated flows
// can only ever increase the balance; decreases go through OverwriteBalance.
func (u *User) CreditBalance(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}

	u.Balance = u.Balance.Add(amount)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// OverwriteBalance sets the balance directly. This is the raw admin edit path;
// it bypasses the payout ledger and may set a negative balance.
func (u *User) OverwriteBalance(balance decimal.Decimal) {
	u.Balance = balance
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// RecordSubmission updates the last-submission timestamp
func (u *User) RecordSubmission(at time.Time) {
	u.LastSubmissionAt = &at
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// CanSubmit returns true if the user may create submissions
func (u *User) CanSubmit() bool {
	return !u.Banned
}
