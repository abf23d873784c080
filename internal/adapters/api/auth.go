package api

import "context"

// AuthGateway exposes the authentication endpoints. Login is the only call in
// the client that returns a credential; decoding it is the session store's job.
type AuthGateway struct {
	c *Client
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Credential string `json:"credential"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Login exchanges email/password for a compact credential string.
// PRE: email and password are non-empty
// POST: Returns the opaque credential on success
func (g *AuthGateway) Login(ctx context.Context, email, password string) (string, error) {
	var out loginResponse
	if err := g.c.post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return "", err
	}
	return out.Credential, nil
}

// Register creates a new account. An empty role defaults to ROLE_PROFESOR
// server-side; the client sends it explicitly so the form stays honest.
func (g *AuthGateway) Register(ctx context.Context, email, password, role string) error {
	return g.c.post(ctx, "/auth/register", registerRequest{Email: email, Password: password, Role: role}, nil)
}

// ChangePassword updates the current account's password.
func (g *AuthGateway) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return g.c.patch(ctx, "/auth/change-password", changePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	}, nil)
}
