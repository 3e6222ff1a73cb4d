package cli

import (
	"errors"
	"fmt"

	"nugo/internal/nuget"
)

// describeError turns a registry error into the message shown to the user,
// branching on the error kind to pick remediation wording.
func describeError(err error) error {
	re, ok := nuget.AsRegistryError(err)
	if !ok {
		return err
	}

	switch {
	case errors.Is(err, nuget.ErrAuthRequired):
		if re.Hint != "" {
			return fmt.Errorf("%s\n  hint: %s", re.Message, re.Hint)
		}
		return err

	case errors.Is(err, nuget.ErrRateLimited):
		if re.RetryAfter > 0 {
			return fmt.Errorf("%s; retry in %d seconds", re.Message, re.RetryAfter)
		}
		return err

	case errors.Is(err, nuget.ErrNetwork):
		if len(re.Details) > 0 {
			msg := re.Message
			for id, reason := range re.Details {
				msg += fmt.Sprintf("\n  %s: %v", id, reason)
			}
			return errors.New(msg)
		}
		return err
	}
	return err
}
