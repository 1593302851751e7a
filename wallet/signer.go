// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package wallet

import (
	"context"
	"errors"
)

// ErrSigningDeclined defines that the user refused to sign the transaction.
// Distinguished from transport or signer failures so callers can tell a
// cancelled attempt from a broken one.
var ErrSigningDeclined = errors.New("signing declined by user")

// Options defines signing request flags. Both must stay false for this
// application: finalization and broadcast are owned by the mint coordinator.
type Options struct {
	Finalize  bool
	Broadcast bool
}

// Signer is the external, user-mediated wallet collaborator. Given a
// serialized unsigned PSBT it returns the serialized signed PSBT, or
// ErrSigningDeclined when the user refuses.
type Signer interface {
	SignPSBT(ctx context.Context, serializedPSBT []byte, opts Options) ([]byte, error)
}
