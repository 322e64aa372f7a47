package googleauth

import "fmt"

// AuthError means the credential lifecycle cannot produce a usable token
// without user action (authorize or re-authorize). It is never retried.
type AuthError struct {
	Msg string
	Err error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// CredentialsMissingError means the OAuth client configuration file is absent.
// Distinct from AuthError because the fix is different: the operator has to
// download Desktop credentials, not just re-run the authorization flow.
type CredentialsMissingError struct {
	Path string
}

func (e *CredentialsMissingError) Error() string {
	return fmt.Sprintf("OAuth client credentials not found at %s", e.Path)
}
