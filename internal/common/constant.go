// Package common contains shared constants, sentinel errors and small helpers
// used across HerbScan components.
package common

// AuthorizationHeaderName is the HTTP header used to carry the bearer token
// on outbound requests to the HerbScan backend.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the access token in AuthorizationHeaderName.
const BearerScheme = "Bearer "

// DefaultConfidence is reported when the identification service omits a
// confidence label.
const DefaultConfidence = "low"
