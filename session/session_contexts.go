package session

import (
	"strings"
	"time"

	"github.com/fundwit/go-commons/types"
)

const RoleManager = "manager"
const RoleMember = "member"

type Context struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`
	Perms    []string `json:"perms"`

	SigningTime time.Time `json:"-"`
}

type Identity struct {
	ID   types.ID `json:"id"`
	Name string   `json:"name"`
}

func (c *Context) HasRole(role string) bool {
	for _, v := range c.Perms {
		if strings.EqualFold(v, role) {
			return true
		}
	}
	return false
}

func (c *Context) HasRoleSuffix(suffix string) bool {
	for _, v := range c.Perms {
		if strings.HasSuffix(strings.ToLower(v), strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}

// HasDomainViewPerm reports whether any role of the context is scoped to the facility domain.
func (c *Context) HasDomainViewPerm(domainId types.ID) bool {
	return c.HasRoleSuffix("_" + domainId.String())
}

// VisibleDomains parse visible facility domain ids from Context.Perms
func (c *Context) VisibleDomains() []types.ID {
	var domainIds []types.ID
	for _, v := range c.Perms {
		pairs := strings.Split(v, "_")
		if len(pairs) == 2 {
			id, err := types.ParseID(pairs[1])
			if err != nil {
				continue
			}
			domainIds = append(domainIds, id)
		}
	}
	if domainIds == nil {
		return []types.ID{}
	}
	return domainIds
}
