package identities

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/librarydesk/internal/client/models"
	"github.com/dmitrijs2005/librarydesk/internal/common"
	"github.com/dmitrijs2005/librarydesk/internal/cryptox"
)

// DefaultIdentities are the accounts every fresh directory starts with.
var DefaultIdentities = []models.Identity{
	{ID: "1", Name: "Admin User", Email: "admin@library.com", Role: models.RoleAdmin},
	{ID: "2", Name: "Librarian", Email: "librarian@library.com", Role: models.RoleLibrarian},
	{ID: "3", Name: "Regular User", Email: "user@example.com", Role: models.RoleUser},
}

// Seed inserts each of seeds that is not yet in dir, giving it a verifier for
// password. It returns how many identities were added.
func Seed(ctx context.Context, dir Directory, seeds []models.Identity, password string) (int, error) {
	added := 0
	for _, seed := range seeds {
		_, err := dir.FindByEmail(ctx, seed.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return added, err
		}

		identity := seed
		identity.Salt, identity.Verifier = cryptox.NewVerifier([]byte(password))
		identity.CreatedAt = time.Now().UTC()

		if err := dir.Insert(ctx, &identity); err != nil {
			return added, fmt.Errorf("seed %s: %w", seed.Email, err)
		}
		added++
	}
	return added, nil
}
