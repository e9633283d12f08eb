package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/urbe-dev/urbe-backend/internal/domain/entity"
	repo "github.com/urbe-dev/urbe-backend/internal/domain/repository"
	"github.com/urbe-dev/urbe-backend/pkg/helpers"
	"github.com/urbe-dev/urbe-backend/pkg/mailer"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrMailSend           = errors.New("cannot send mail")
)

const resetTokenTTL = time.Hour

// UserService covers signup, login, the password reset flow and avatar
// upload. Reset emails are sent inline: a mail failure surfaces to the
// caller, there is no queue and no retry on this path.
type UserService struct {
	Users     repo.UserRepository
	JWT       *helpers.JWTManager
	Mail      mailer.Sender
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger

	// Base URL embedded in reset emails, e.g. https://app.example/reset
	ResetURLBase string
}

func NewUserService(users repo.UserRepository, jwt *helpers.JWTManager, mail mailer.Sender, gcs *storage.Client, gcsBucket string, logger *logrus.Logger, resetURLBase string) *UserService {
	return &UserService{
		Users:        users,
		JWT:          jwt,
		Mail:         mail,
		GCS:          gcs,
		GCSBucket:    gcsBucket,
		Logger:       logger,
		ResetURLBase: resetURLBase,
	}
}

// Register creates a user with a gravatar avatar and returns a signed token.
func (s *UserService) Register(ctx context.Context, firstName, lastName, email, password string) (string, error) {
	if existing, _ := s.Users.GetByEmail(email); existing != nil {
		return "", ErrEmailTaken
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return "", err
	}
	u := &entity.User{
		ID:        uuid.NewString(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  hash,
		Avatar:    helpers.GravatarURL(email),
	}
	if err := s.Users.Create(u); err != nil {
		return "", err
	}

	token, _, err := s.JWT.GenerateToken(u.ID)
	return token, err
}

// Login validates email/password and returns a signed token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.Users.GetByEmail(email)
	if err != nil || u == nil {
		return "", ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return "", ErrInvalidCredentials
	}
	token, _, err := s.JWT.GenerateToken(u.ID)
	return token, err
}

func (s *UserService) GetByID(id string) (*entity.User, error) {
	u, err := s.Users.GetByID(id)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// InitReset issues a reset token valid for one hour and mails the reset link.
// The send is blocking; its error is the caller's error.
func (s *UserService) InitReset(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(email)
	if err != nil || u == nil {
		return ErrUserNotFound
	}

	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	token := hex.EncodeToString(b)
	expires := time.Now().Add(resetTokenTTL)

	u.ResetPasswordToken = token
	u.TokenExpires = &expires
	if err := s.Users.Update(u); err != nil {
		return err
	}

	body := "Bienvenue cher " + u.FirstName + ",\n\n" +
		" Nous avons appri que vous avez perdu votre mot de passe. \n" +
		"Mais c'est pas grave, vous pouvez réinitialiser un autre tout en laissant vos autres données et activités intactes et sécurisés.\n" +
		" Il suffit de cliquer le lien ci-dessous: \n\n " +
		s.ResetURLBase + "/" + token + "\n\n" +
		"Veuillez connaître que ce lien n'est valable q'une heure après l'envoi de cet email"
	if err := s.Mail.Send(ctx, u.Email, "Réinitialiser votre mot de passe", body, ""); err != nil {
		return fmt.Errorf("%w: %v", ErrMailSend, err)
	}
	return nil
}

// UserByResetToken resolves a pending, unexpired reset token.
func (s *UserService) UserByResetToken(token string) (*entity.User, error) {
	u, err := s.Users.GetByResetToken(token)
	if err != nil || u == nil {
		return nil, ErrInvalidResetToken
	}
	if u.TokenExpires == nil || u.TokenExpires.Before(time.Now()) {
		return nil, ErrInvalidResetToken
	}
	return u, nil
}

// ConfirmReset sets the new password, clears the token, and mails a
// confirmation. Again a blocking send.
func (s *UserService) ConfirmReset(ctx context.Context, token, password string) error {
	u, err := s.UserByResetToken(token)
	if err != nil {
		return err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hash
	u.ResetPasswordToken = ""
	u.TokenExpires = nil
	if err := s.Users.Update(u); err != nil {
		return err
	}

	body := "Bienvenue encore une fois, \n\n" +
		"Veuillez connaître que le mot de passe associé à " + u.Email + " a été réinitialisé avec succès \n\n" +
		"A très bientôt."
	if err := s.Mail.Send(ctx, u.Email, "Mot de passe changé avec succès", body, ""); err != nil {
		return fmt.Errorf("%w: %v", ErrMailSend, err)
	}
	return nil
}

// UploadAvatar stores a new avatar in GCS and points the user at it.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	u, err := s.Users.GetByID(userID)
	if err != nil || u == nil {
		return "", ErrUserNotFound
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}

	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, id+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}

	u.Avatar = url
	if err := s.Users.Update(u); err != nil {
		return "", err
	}
	return url, nil
}
