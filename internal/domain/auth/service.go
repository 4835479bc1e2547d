package auth

import "context"

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, string, int64, error)
	Refresh(ctx context.Context, refreshToken string) (LoginResponse, string, int64, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
}
