package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/obiora789/My-Personal-Blog/models"
	"github.com/obiora789/My-Personal-Blog/utils"
)

var (
	ErrEmailNotFound     = errors.New("email not found")
	ErrNoResetInProgress = errors.New("no password reset in progress")
	ErrCodeMismatch      = errors.New("reset code incorrect")
	ErrNotVerified       = errors.New("reset code not verified")
	ErrWeakPassword      = errors.New("password must not appear in the email address")
)

// Notifier delivers an email synchronously. Delivery failures are returned
// to the caller, never swallowed.
type Notifier interface {
	Send(to []string, subject, body string) error
}

// FlowState is the carrier for the in-flight reset attempt. A fiber session
// satisfies it, which scopes each attempt to one browser: two visitors
// resetting at the same time cannot overwrite each other, while a second
// request from the same browser still replaces the first.
type FlowState interface {
	Get(key string) interface{}
	Set(key string, value interface{})
	Delete(key string)
}

// Session keys holding the reset slot. Primitive values only: the session
// payload goes through gob, which knows nothing about custom structs.
const (
	resetUserIDKey   = "reset_user_id"
	resetCodeKey     = "reset_code"
	resetIssuedAtKey = "reset_issued_at"
	resetVerifiedKey = "reset_verified"
)

// ResetService coordinates the password reset sequence: email lookup, code
// issuance and delivery, code verification, password replacement.
type ResetService struct {
	db       *gorm.DB
	notifier Notifier
	notify   []string
	owner    string
}

func NewResetService(db *gorm.DB, notifier Notifier, notify []string, owner string) *ResetService {
	return &ResetService{db: db, notifier: notifier, notify: notify, owner: owner}
}

// Request starts a reset attempt for the given email. On a hit the single
// slot is overwritten, discarding any earlier attempt in this state, and the
// fresh code is mailed to the user plus the operator notification list.
func (s *ResetService) Request(state FlowState, email string) error {
	email = utils.NormalizeEmail(email)

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmailNotFound
		}
		return err
	}

	code, err := NewResetCode()
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}

	state.Set(resetUserIDKey, user.ID)
	state.Set(resetCodeKey, code)
	state.Set(resetIssuedAtKey, time.Now().Unix())
	state.Set(resetVerifiedKey, false)

	subject := fmt.Sprintf("%s, did you request a password reset on %s's blog?", user.Name, s.owner)
	body := fmt.Sprintf(
		"Hello %s, someone tried to reset your password.\n"+
			"If you requested a password reset on %s's blog, copy the code below and paste it in the 'Verify Password' page.\n"+
			"\n%s\n\n"+
			"Otherwise, you can either ignore this email or notify the admin.\n",
		user.Name, s.owner, code)

	recipients := append([]string{user.Email}, s.notify...)
	if err := s.notifier.Send(recipients, subject, body); err != nil {
		return fmt.Errorf("send reset code: %w", err)
	}
	return nil
}

// Verify checks the submitted code against the stored one. A mismatch
// abandons the attempt entirely; it cannot be retried.
func (s *ResetService) Verify(state FlowState, code string) error {
	stored, _ := state.Get(resetCodeKey).(string)
	if stored == "" {
		return ErrNoResetInProgress
	}

	if code != stored {
		s.clear(state)
		return ErrCodeMismatch
	}

	state.Set(resetVerifiedKey, true)
	return nil
}

// ReplacePassword swaps in the new password for the verified account. The
// hash is updated in place inside a transaction, so the user id and every
// post and comment referencing it stay intact. On success the slot is
// cleared and the updated user returned for the caller to log in.
func (s *ResetService) ReplacePassword(state FlowState, newPassword string) (*models.User, error) {
	verified, _ := state.Get(resetVerifiedKey).(bool)
	userID, haveUser := state.Get(resetUserIDKey).(uint)
	if !verified || !haveUser {
		return nil, ErrNotVerified
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	if utils.PasswordInEmail(user.Email, newPassword) {
		return nil, ErrWeakPassword
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&user).Update("password_hash", hash).Error
	})
	if err != nil {
		return nil, err
	}

	s.clear(state)
	user.PasswordHash = hash
	return &user, nil
}

func (s *ResetService) clear(state FlowState) {
	state.Delete(resetUserIDKey)
	state.Delete(resetCodeKey)
	state.Delete(resetIssuedAtKey)
	state.Delete(resetVerifiedKey)
}

// NewResetCode returns an opaque one-time code: 24 random bytes, hex encoded.
func NewResetCode() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
