// Package orchestrators implements the write-side flows: each
// operation validates its input locally, then coordinates the backend
// gateway and session store. Validation failures never reach the
// network.
package orchestrators

import "github.com/go-playground/validator/v10"

// validate checks struct tags on orchestrator inputs.
var validate = validator.New(validator.WithRequiredStructEnabled())
