package query

import (
	"github.com/pkg/errors"

	"github.com/o0olele/svon-go/builder"
)

// LoadAndQuery loads the navigation data and creates the queryer (one-stop)
func LoadAndQuery(filename string, opts ...Option) (*NavigationQuery, error) {
	volume, err := builder.Load(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load navigation data")
	}

	nq, err := NewNavigationQuery(volume, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create navigation query")
	}
	return nq, nil
}
