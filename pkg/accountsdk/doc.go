/*
Package accountsdk provides a client SDK for the AssignHub accounts service.

# Overview

The package is organized around two main types:

  - SDKClient: Provides unauthenticated operations and creates authenticated sessions
  - Session: Provides authenticated operations bound to a bearer token

Create an SDKClient to interact with public endpoints and sign in:

	client := accountsdk.NewSDKClient("https://accounts.example.com")

	// Check service health
	health, err := client.GetLiveness(ctx)

	// Register a new account
	reg, err := client.Register(ctx, accountsdk.RegisterRequest{
		Name:     "Alice Example",
		Email:    "alice@example.com",
		Password: "correct horse battery staple",
		Role:     "student",
	})

	// Sign in once the email is verified and the account approved
	session, err := client.Login(ctx, "alice@example.com", password)

# One-Time Codes

First-time sign-ins require a one-time code emailed to the account. Login
reports this with an *OTPRequiredError:

	session, err := client.Login(ctx, email, password)
	if otpErr, ok := err.(*accountsdk.OTPRequiredError); ok {
		// code was emailed to otpErr.Email
		session, err = client.VerifyOTP(ctx, otpErr.Email, code)
	}

# Sessions

Use a Session for authenticated operations:

	me, err := session.Me(ctx)
	err = session.ChangePassword(ctx, current, next)

	// Admin operations
	pending, err := session.ListPendingUsers(ctx)
	user, err := session.ApproveUser(ctx, userID)
	stats, err := session.GetStats(ctx)

# Errors

API failures are returned as *APIError with a machine-readable Code, so
callers can branch on conditions like account_locked or approval_pending:

	_, err := client.Login(ctx, email, password)
	var apiErr *accountsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == accountsdk.ErrorCodeAccountLocked {
		// tell the user to contact an administrator
	}
*/
package accountsdk
