package augment

import "errors"

var errUnavailable = errors.New("collaborator not configured")
