package systems

import "errors"

var (
	// ErrOutOfBounds reports pointer input outside the play field.
	ErrOutOfBounds = errors.New("pointer outside play field")
	// ErrAlreadyLaunched reports an aim attempt before the slingshot was reset.
	ErrAlreadyLaunched = errors.New("slingshot already launched")
	// ErrNotAiming reports a drag or release with no aim in progress.
	ErrNotAiming = errors.New("slingshot not aiming")
	// ErrDegenerateLaunch reports a release with a pull shorter than the minimum.
	ErrDegenerateLaunch = errors.New("pull below launch threshold")
	// ErrUnknownBody reports an id that is not (or no longer) in the world.
	ErrUnknownBody = errors.New("unknown body")
	// ErrInvariant reports a broken game invariant.
	ErrInvariant = errors.New("invariant violation")
)
