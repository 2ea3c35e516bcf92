package authsdk

import "time"

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	// Error is the stable error code (e.g., "invalid_credentials", "code_expired")
	Error string `json:"error"`

	// Message is a human-readable description of the error
	Message string `json:"message"`

	// Details carries per-field reasons for validation and conflict errors
	Details map[string]string `json:"details,omitempty"`

	// Detail is the internal error chain (non-production only)
	Detail string `json:"detail,omitempty"`

	// Stack is the server stack trace for unexpected failures (non-production only)
	Stack string `json:"stack,omitempty"`
}

// ============================================================================
// Registration
// ============================================================================

// RegisterRequest registers a hospital tenant. The account starts unapproved.
type RegisterRequest struct {
	HospitalName      string `json:"hospitalName"`
	Province          string `json:"province"`
	City              string `json:"city"`
	ContactPersonName string `json:"contactPersonName"`
	Email             string `json:"email"`

	// EmailID is the login identifier; the tenant namespace is derived from it
	EmailID     string `json:"emailId"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`

	DeviceFingerprint string `json:"deviceFingerprint"`

	// GPSCoordinates is optional, formatted "lat,lon"
	GPSCoordinates  string `json:"gpsCoordinates,omitempty"`
	LocationAddress string `json:"locationAddress,omitempty"`

	RecaptchaToken string `json:"recaptchaToken"`
}

// RegisterResponse is returned with 201 Created.
type RegisterResponse struct {
	Message string  `json:"message"`
	Account Account `json:"account"`
}

// ============================================================================
// Login and Two-Factor
// ============================================================================

// LoginRequest is the password step of the login handshake.
type LoginRequest struct {
	EmailID  string `json:"emailId"`
	Password string `json:"password"`
}

// LoginResponse carries the pending-2FA token.
type LoginResponse struct {
	Message string `json:"message"`

	// Token only authorizes POST /auth/verify-2fa
	Token string `json:"token"`

	// ExpiresIn is the lifetime in seconds of the pending token
	ExpiresIn int `json:"expiresIn"`

	TwoFactorRequired bool `json:"twoFactorRequired"`
}

// SendCodeRequest asks the service to email a fresh one-time code.
type SendCodeRequest struct {
	EmailID string `json:"emailId"`
}

// SendCodeResponse confirms dispatch. The code itself is never returned.
type SendCodeResponse struct {
	Message string `json:"message"`

	// ExpiresIn is the lifetime in seconds of the code
	ExpiresIn int `json:"expiresIn"`
}

// VerifyCodeRequest completes the login handshake. Token may be omitted when
// the pending token is sent as a bearer token instead.
type VerifyCodeRequest struct {
	EmailID string `json:"emailId"`
	Code    string `json:"code"`
	Token   string `json:"token,omitempty"`
}

// SessionResponse carries the full session token.
type SessionResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`

	// ExpiresIn is the lifetime in seconds of the session token
	ExpiresIn int `json:"expiresIn"`

	Account Account `json:"account"`
}

// ============================================================================
// Accounts
// ============================================================================

// Account is the public view of a tenant account.
type Account struct {
	ID                string     `json:"id"`
	HospitalName      string     `json:"hospitalName"`
	TenantDBName      string     `json:"tenantDbName"`
	Province          string     `json:"province,omitempty"`
	City              string     `json:"city,omitempty"`
	ContactPersonName string     `json:"contactPersonName"`
	Email             string     `json:"email"`
	EmailID           string     `json:"emailId"`
	PhoneNumber       string     `json:"phoneNumber"`
	GPSCoordinates    string     `json:"gpsCoordinates,omitempty"`
	LocationAddress   string     `json:"locationAddress,omitempty"`
	Role              string     `json:"role"`
	IsApproved        bool       `json:"isApproved"`
	Status            string     `json:"status"`
	LastLogin         *time.Time `json:"lastLogin,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// AccountListResponse is returned by the admin listing.
type AccountListResponse struct {
	Accounts []Account `json:"accounts"`
}

// ApprovalResponse is returned by the admin approve/reject/unapprove actions.
type ApprovalResponse struct {
	Message string  `json:"message"`
	Account Account `json:"account"`
}

// ============================================================================
// Dashboard
// ============================================================================

// ComplianceStats splits staff by certification validity.
type ComplianceStats struct {
	Valid   int64 `json:"valid"`
	Invalid int64 `json:"invalid"`
}

// DashboardStatsResponse holds the tenant-scoped aggregate counts.
type DashboardStatsResponse struct {
	TotalStaff       int64           `json:"totalStaff"`
	ActiveShifts     int64           `json:"activeShifts"`
	PendingApprovals int64           `json:"pendingApprovals"`
	Compliance       ComplianceStats `json:"compliance"`
	UnreadAlerts     int64           `json:"unreadAlerts"`
}

// AlertItem is one entry of the dashboard alert feed.
type AlertItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Level       string    `json:"level"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ShiftItem is one entry of the dashboard shift feed.
type ShiftItem struct {
	ID        string    `json:"id"`
	StaffID   string    `json:"staffId"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Status    string    `json:"status"`
}

// ============================================================================
// Geocoding
// ============================================================================

// GeocodeResponse is the reverse geocoding result for a coordinate pair.
type GeocodeResponse struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Address string  `json:"address"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the credential database status
	Database string `json:"database"`

	// Tenants indicates whether tenant storage can be opened
	Tenants string `json:"tenants"`

	// Cache indicates the stats cache status ("disabled" when not configured)
	Cache string `json:"cache"`
}
