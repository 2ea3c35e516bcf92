/*
Package authsdk provides a client SDK for the HSS authentication service and
the wire types shared with the server.

# SDKClient vs Session

  - SDKClient: unauthenticated operations (register, login, send-2fa,
    verify-2fa, geocoding, health)
  - Session: operations that need a full session token (profile, dashboard,
    admin approval)

# Login Handshake

Login is two-step. The password step returns a short-lived pending token that
is only accepted by verify-2fa:

	client := authsdk.NewSDKClient("https://auth.example.com")

	login, err := client.Login(ctx, "demo_user", "hss123demo")
	if err != nil {
		return err
	}
	if _, err := client.SendTwoFactorCode(ctx, "demo_user"); err != nil {
		return err
	}

	// code arrives by email
	session, err := client.VerifyTwoFactorCode(ctx, login.Token, "demo_user", code)

AuthenticateWithCode runs the same steps when the caller can fetch the code
programmatically (tests, tooling).

# Sessions

Session tokens last one hour by default and cannot be refreshed. Check
Expired and log in again when it reports true.

	stats, err := session.DashboardStats(ctx)
	pending, err := session.ListAccounts(ctx, authsdk.StatusPending)
	_, err = session.ApproveAccount(ctx, pending[0].ID)

# Error Handling

Every non-2xx response is returned as *APIError with a stable Code:

	_, err := client.Login(ctx, id, pw)
	switch {
	case authsdk.IsCode(err, authsdk.ErrorCodeInvalidCredentials):
		// wrong login id or password
	case authsdk.IsCode(err, authsdk.ErrorCodeAccountNotApproved):
		// waiting for an administrator
	}

# Thread Safety

Sessions are safe for concurrent use.
*/
package authsdk
