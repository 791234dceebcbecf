package auth

import (
	user "github.com/tradzyhq/tradzy-backend/internal/users"
	"github.com/tradzyhq/tradzy-backend/pkg/enums"
)

// redirectByRole maps each role to its post-login landing page. The paths
// are consumed verbatim by the web clients.
var redirectByRole = map[enums.Role]string{
	enums.RoleAdmin:      "/admin_dashboard.html",
	enums.RoleRetailer:   "/retailer",
	enums.RoleWholesaler: "/wholesaler/dashboard",
}

// RedirectFor returns the landing page for a role.
func RedirectFor(role enums.Role) string {
	return redirectByRole[role]
}

// LoginResult is the payload returned after a successful login.
type LoginResult struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	RedirectURL  string        `json:"redirect_url"`
	User         *user.UserDTO `json:"user"`
}

// CheckAuthResult reports session validity along with a fresh user snapshot.
type CheckAuthResult struct {
	Authenticated bool          `json:"authenticated"`
	User          *user.UserDTO `json:"user,omitempty"`
}
