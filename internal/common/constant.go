package common

// AuthorizationHeader is the HTTP header that carries the bearer credential
// on outbound requests.
const AuthorizationHeader = "Authorization"

// BearerScheme is the authorization scheme prefix, including the trailing
// space, as sent on the wire.
const BearerScheme = "Bearer "

// TokenQueryParam is the query parameter the backend appends to the callback
// URL after a completed provider handshake.
const TokenQueryParam = "token"
