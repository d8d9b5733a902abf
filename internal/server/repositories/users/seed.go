package users

import "github.com/dmitrijs2005/userauth/internal/server/models"

// DevUsers is the development directory: "test"/"test" (User) and
// "admin"/"admin" (Admin). Never use it outside a development setup.
func DevUsers() []models.User {
	return []models.User{
		{
			ID:           1,
			FirstName:    "Test",
			LastName:     "User",
			Username:     "test",
			Role:         models.RoleUser,
			PasswordHash: "10000.uBD1WOTN8bBLbKsfHAf1jQ==.5iLbJ3ncC6aUMpaiZuMnHJrRn6cxWLurUR3+x+NYvAo=",
		},
		{
			ID:           2,
			FirstName:    "Test2",
			LastName:     "Admin",
			Username:     "admin",
			Role:         models.RoleAdmin,
			PasswordHash: "10000.A8ch5Fdbsw0C52wgwbW2pA==.I9SXFDxMyeAPa5sqtU6pnLsrXW5RYFhWYlHsbHeuwrQ=",
		},
	}
}
