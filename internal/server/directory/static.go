package directory

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/dmitrijs2005/collabsync/internal/common"
)

// StaticSource serves a fixed snapshot. It backs offline runs and tests.
type StaticSource struct {
	users []User
}

func NewStaticSource(users ...User) *StaticSource {
	return &StaticSource{users: slices.Clone(users)}
}

// LoadStaticSource reads a snapshot file in the upstream wire format.
func LoadStaticSource(path string) (*StaticSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open directory file: %w", err)
	}
	defer f.Close()

	users, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &StaticSource{users: users}, nil
}

func (s *StaticSource) Fetch(ctx context.Context) ([]User, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.NewError(common.ErrorUpstreamUnavailable, fetchFailedMessage, err)
	}
	return slices.Clone(s.users), nil
}
