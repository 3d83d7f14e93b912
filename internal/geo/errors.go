package geo

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// ErrNoProvider is returned when neither geo provider credential is
// configured.
var ErrNoProvider = eris.New("geo: no provider configured")

// UnresolvableLocationError indicates a textual place query could not be
// resolved to coordinates. It carries the attempted query for diagnosis and
// is distinct from a provider outage.
type UnresolvableLocationError struct {
	Query string
}

func (e *UnresolvableLocationError) Error() string {
	return fmt.Sprintf("geo: could not resolve %q to coordinates", e.Query)
}
