package jsonplaceholder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/user/hx-chapters/internal/directory"
)

// ErrMalformedPayload is returned when the upstream answers 2xx with a body
// that is not a usable user list.
var ErrMalformedPayload = errors.New("malformed users payload")

type Adapter struct {
	client *Client
}

func New(base string, timeout time.Duration, logger zerolog.Logger) *Adapter {
	return &Adapter{client: NewClient(base, timeout, logger)}
}

func (a *Adapter) ID() string {
	return "jsonplaceholder"
}

func (a *Adapter) FetchUsers(ctx context.Context, limit int) ([]directory.User, error) {
	resp, err := a.client.GetUsers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	users := make([]directory.User, 0, len(resp))
	for i, r := range resp {
		if r.Name == "" || r.Email == "" || r.Username == "" {
			return nil, fmt.Errorf("%w: record %d is missing name, email or username", ErrMalformedPayload, i)
		}
		users = append(users, directory.User{
			ID:       r.ID,
			Name:     r.Name,
			Username: r.Username,
			Email:    r.Email,
			Phone:    r.Phone,
			Website:  r.Website,
			Address: directory.Address{
				Street:  r.Address.Street,
				Suite:   r.Address.Suite,
				City:    r.Address.City,
				Zipcode: r.Address.Zipcode,
			},
			Company: directory.Company{
				Name:        r.Company.Name,
				CatchPhrase: r.Company.CatchPhrase,
				BS:          r.Company.BS,
			},
		})
	}
	return users, nil
}
