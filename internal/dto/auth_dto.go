package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	ID       *int64 `json:"id"       validate:"required,employeeid"`
	Password string `json:"password" validate:"required,password"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoginResponse struct {
	ID    int64  `json:"id"`
	Token string `json:"token"`
}
