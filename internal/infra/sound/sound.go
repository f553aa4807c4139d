package sound

import "context"

//go:generate mockgen -source=sound.go -destination=mock.go -package=sound

// Controller stops the alarm tone on the user's devices. Stop is idempotent;
// calling it when nothing is ringing is safe.
type Controller interface {
	Stop(ctx context.Context, userID string, deviceTokens []string) error
}
