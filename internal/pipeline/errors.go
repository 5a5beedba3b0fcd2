package pipeline

import "errors"

// ErrNoPage is returned by extraction steps when no page has been fetched.
var ErrNoPage = errors.New("no page to extract from: fetch step did not run")
