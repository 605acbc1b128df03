package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrInvalidToken   = errors.New("invalid or expired token")
)

// All repository interfaces in one file
type (
	UserRepository interface {
		GetByID(ctx context.Context, id string) (*model.AuthUser, error)
		GetByEmail(ctx context.Context, email string) (*model.AuthUser, error)
		// CreateWithProfile inserts the auth user and its profile atomically.
		CreateWithProfile(ctx context.Context, user *model.AuthUser, profile *model.Profile) error
		UpdatePassword(ctx context.Context, id, passwordHash string) error
	}

	ProfileRepository interface {
		GetByID(ctx context.Context, id string) (*model.Profile, error)
		Update(ctx context.Context, id string, patch model.ProfilePatch) (*model.Profile, error)
	}

	// TokenStore keeps short-lived auth state: revoked access tokens and
	// password reset tokens.
	TokenStore interface {
		Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
		IsRevoked(ctx context.Context, tokenID string) (bool, error)
		SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error
		ConsumeResetToken(ctx context.Context, token string) (string, error)
	}

	PatientRepository interface {
		listctl.Store[model.Patient]
		Get(ctx context.Context, id string) (*model.Patient, error)
	}

	AppointmentRepository interface {
		listctl.Store[model.Appointment]
	}

	MessageRepository interface {
		listctl.Store[model.Message]
		ListForConversation(ctx context.Context, conversationID string) ([]model.Message, error)
	}

	ConversationRepository interface {
		Create(ctx context.Context, c *model.Conversation) error
		Get(ctx context.Context, id string) (*model.Conversation, error)
		ListForParticipant(ctx context.Context, userID string) ([]model.Conversation, error)
	}

	MedicalNoteRepository interface {
		Create(ctx context.Context, note *model.MedicalNote) error
		ListForPatient(ctx context.Context, patientID string) ([]model.MedicalNote, error)
	}

	PatientFileRepository interface {
		Create(ctx context.Context, file *model.PatientFile) error
		ListForPatient(ctx context.Context, patientID string) ([]model.PatientFile, error)
	}
)
