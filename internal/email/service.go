package email

import (
	"context"
)

// Service delivers account mail. Implementations must honour ctx
// cancellation; a failed delivery never rolls back the account change that
// triggered it.
type Service interface {
	// SendPasswordReset mails a link that completes a reset with token.
	SendPasswordReset(ctx context.Context, email string, token string) error
	SendWelcome(ctx context.Context, email string, name string) error
}
