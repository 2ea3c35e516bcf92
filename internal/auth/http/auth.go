package http

import (
	"net/http"

	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/hsshealth/hss/internal/auth/service"
	"github.com/hsshealth/hss/pkg/authsdk"
	"github.com/hsshealth/hss/pkg/httpx"
)

// AuthHandler serves registration and the two-step login.
type AuthHandler struct {
	Accounts *service.AccountService
	Sessions *service.SessionService
	Errors   ErrorWriter
}

// HandleRegister handles POST /auth/register
//
//	@Summary		Register a hospital
//	@Description	Creates a tenant account awaiting administrator approval. The tenant database name is derived from emailId.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest		true	"Registration form"
//	@Success		201		{object}	authsdk.RegisterResponse	"Account created, pending approval"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Validation, captcha or conflict error"
//	@Failure		503		{object}	authsdk.ErrorResponse		"reCAPTCHA unavailable"
//	@Router			/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	acc, err := h.Accounts.Register(r.Context(), domain.RegisterInput{
		HospitalName:      req.HospitalName,
		Province:          req.Province,
		City:              req.City,
		ContactPersonName: req.ContactPersonName,
		Email:             req.Email,
		EmailID:           req.EmailID,
		PhoneNumber:       req.PhoneNumber,
		Password:          req.Password,
		DeviceFingerprint: req.DeviceFingerprint,
		GPSCoordinates:    req.GPSCoordinates,
		LocationAddress:   req.LocationAddress,
		RecaptchaToken:    req.RecaptchaToken,
		RemoteIP:          httpx.IPKeyExtractor(r),
	})
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.RegisterResponse{
		Message: "registration received, awaiting administrator approval",
		Account: toAccount(acc),
	})
}

// HandleLogin handles POST /auth/login
//
//	@Summary		Password step
//	@Description	Verifies the password of an approved account and returns a short-lived pending token for the second factor.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.LoginResponse	"Pending token"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid credentials"
//	@Failure		403		{object}	authsdk.ErrorResponse	"Account not approved"
//	@Failure		429		{object}	authsdk.ErrorResponse	"Rate limit exceeded"
//	@Router			/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	pending, err := h.Sessions.Login(r.Context(), req.EmailID, req.Password)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		Message:           "password accepted, second factor required",
		Token:             pending.Token,
		ExpiresIn:         int(pending.ExpiresIn.Seconds()),
		TwoFactorRequired: true,
	})
}

// HandleSendCode handles POST /auth/send-2fa
//
//	@Summary		Send a one-time code
//	@Description	Emails a fresh six digit code to the account. Any previously sent code stops working.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.SendCodeRequest		true	"Login id"
//	@Success		200		{object}	authsdk.SendCodeResponse	"Code sent"
//	@Failure		403		{object}	authsdk.ErrorResponse		"Account not approved"
//	@Failure		404		{object}	authsdk.ErrorResponse		"Unknown login id"
//	@Failure		503		{object}	authsdk.ErrorResponse		"Mail provider unavailable"
//	@Router			/auth/send-2fa [post].
func (h *AuthHandler) HandleSendCode(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SendCodeRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	ttl, err := h.Sessions.SendCode(r.Context(), req.EmailID)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SendCodeResponse{
		Message:   "verification code sent",
		ExpiresIn: int(ttl.Seconds()),
	})
}

// HandleVerifyCode handles POST /auth/verify-2fa
//
//	@Summary		Second factor step
//	@Description	Exchanges the pending token and the emailed code for a full session token carrying role and tenant.
//	@Description	The pending token may be sent in the body or as a bearer token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.VerifyCodeRequest	true	"Code and pending token"
//	@Success		200		{object}	authsdk.SessionResponse		"Session token"
//	@Failure		400		{object}	authsdk.ErrorResponse		"No code, expired code or wrong code"
//	@Failure		401		{object}	authsdk.ErrorResponse		"Invalid pending token"
//	@Router			/auth/verify-2fa [post].
func (h *AuthHandler) HandleVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req authsdk.VerifyCodeRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	token := req.Token
	if token == "" {
		token, _ = httpx.BearerToken(r)
	}
	if token == "" {
		h.Errors.Write(w, r, service.ErrInvalidToken)
		return
	}

	res, err := h.Sessions.VerifyCode(r.Context(), token, req.EmailID, req.Code)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresIn: int(res.ExpiresIn.Seconds()),
		Account:   toAccount(res.Account),
	})
}

// HandleMe handles GET /auth/me
//
//	@Summary		Current account
//	@Description	Returns the profile of the account the session token belongs to.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.Account			"Account profile"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing session token"
//	@Router			/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	acc, err := h.Accounts.Get(r.Context(), httpx.AccountID(r.Context()))
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccount(acc))
}
