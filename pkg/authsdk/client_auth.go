package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Register creates an unapproved tenant account.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/register", req, "")
	if err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login performs the password step and returns the pending-2FA token.
func (c *SDKClient) Login(ctx context.Context, emailID, password string) (*LoginResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/login", LoginRequest{
		EmailID:  emailID,
		Password: password,
	}, "")
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendTwoFactorCode asks the service to email a fresh one-time code.
// Each call invalidates the previously sent code.
func (c *SDKClient) SendTwoFactorCode(ctx context.Context, emailID string) (*SendCodeResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/send-2fa", SendCodeRequest{EmailID: emailID}, "")
	if err != nil {
		return nil, err
	}

	var out SendCodeResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyTwoFactorCode exchanges the pending token and code for a full session.
func (c *SDKClient) VerifyTwoFactorCode(ctx context.Context, pendingToken, emailID, code string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/verify-2fa", VerifyCodeRequest{
		EmailID: emailID,
		Code:    code,
		Token:   pendingToken,
	}, "")
	if err != nil {
		return nil, err
	}

	var out SessionResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, &out), nil
}

// CodeSource fetches the one-time code delivered out of band (e.g. by
// reading a mailbox).
type CodeSource func(ctx context.Context) (string, error)

// AuthenticateWithCode runs the whole handshake: login, send-2fa, fetch the
// code from codes, verify-2fa.
func (c *SDKClient) AuthenticateWithCode(ctx context.Context, emailID, password string, codes CodeSource) (*Session, error) {
	login, err := c.Login(ctx, emailID, password)
	if err != nil {
		return nil, err
	}
	if _, err := c.SendTwoFactorCode(ctx, emailID); err != nil {
		return nil, err
	}
	code, err := codes(ctx)
	if err != nil {
		return nil, err
	}
	return c.VerifyTwoFactorCode(ctx, login.Token, emailID, code)
}

// ReverseGeocode resolves coordinates to a display address.
func (c *SDKClient) ReverseGeocode(ctx context.Context, lat, lon float64) (*GeocodeResponse, error) {
	q := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon": {strconv.FormatFloat(lon, 'f', -1, 64)},
	}
	resp, err := c.doRequest(ctx, http.MethodGet, "/auth/geocode?"+q.Encode(), nil, "")
	if err != nil {
		return nil, err
	}

	var out GeocodeResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
