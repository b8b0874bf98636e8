package recovery

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/vaultrecovery/internal/models"
)

// Catalog lists keys and vaults without decrypting them.
type Catalog interface {
	Keys(ctx context.Context, userUUID string) ([]*models.UserKey, error)
	Vaults(ctx context.Context, userUUID string, vaultUUIDs []string, withEntries bool) ([]*models.Vault, error)
}

type Info struct {
	Users  []UserInfo  `json:"users"`
	Vaults []VaultInfo `json:"vaults"`
}

type UserInfo struct {
	UUID        string `json:"uuid"`
	Login       string `json:"login"`
	Fingerprint string `json:"fingerprint"`
	Legacy      bool   `json:"legacy"`
	Iterations  int    `json:"iterations"`
}

type VaultInfo struct {
	UUID    string   `json:"uuid"`
	Name    string   `json:"name"`
	Owner   int64    `json:"owner_id"`
	Users   []string `json:"users"`
	Entries int      `json:"entries"`
	Fields  int      `json:"fields"`
	Files   int      `json:"files"`
}

// Info describes the users with a current key and the vaults they can reach,
// optionally narrowed to one user and a set of vaults.
func (s *Service) Info(ctx context.Context, cat Catalog, user string, vaultFilter []string) (*Info, error) {
	user = models.NormalizeUUID(user)
	vaultUUIDs := normalizeAll(vaultFilter)

	keys, err := cat.Keys(ctx, user)
	if err != nil {
		return nil, err
	}
	vaults, err := cat.Vaults(ctx, user, vaultUUIDs, true)
	if err != nil {
		return nil, err
	}

	info := &Info{Users: []UserInfo{}, Vaults: []VaultInfo{}}
	for _, k := range keys {
		info.Users = append(info.Users, UserInfo{
			UUID:        k.UUID,
			Login:       k.Login,
			Fingerprint: k.Fingerprint,
			Legacy:      k.Legacy(),
			Iterations:  k.Iterations,
		})
	}
	for _, v := range vaults {
		users := make([]string, 0, len(v.Rights))
		for u := range v.Rights {
			users = append(users, u)
		}
		sort.Strings(users)

		n, f, fl := models.Count(v.Entries)
		info.Vaults = append(info.Vaults, VaultInfo{
			UUID:    v.UUID,
			Name:    v.Name,
			Owner:   v.UserID,
			Users:   users,
			Entries: n,
			Fields:  f,
			Files:   fl,
		})
	}

	s.log.Debug(ctx, "info collected", "users", len(info.Users), "vaults", len(info.Vaults))
	return info, nil
}
