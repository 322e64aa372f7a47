// Package googleauth owns the Google OAuth credential lifecycle: loading a
// stored token, validating its granted scopes, refreshing it when expired,
// and running the authorization flow when nothing usable remains. Tokens are
// persisted either as a 0600 JSON file or in the OS keychain.
package googleauth
