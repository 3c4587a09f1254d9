package user

import (
	"context"
	"fmt"

	"github.com/dailyfarm/farmgate/client"
	"github.com/dailyfarm/farmgate/validate"
)

// Update changes the caller's own profile; nil fields are left
// untouched upstream.
func Update(ctx context.Context, api *client.Client, up Up) (User, error) {
	if err := validate.Check(up); err != nil {
		return User{}, err
	}

	var out User
	if err := api.Put(ctx, "/users/me", up, &out); err != nil {
		return User{}, fmt.Errorf("updating profile: %w", err)
	}
	return out, nil
}
