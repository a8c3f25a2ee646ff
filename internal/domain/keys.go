package domain

// KeyPrefix namespaces every storage key written by the service.
// Overridden once at startup from storage.key_prefix.
var KeyPrefix = "caskbook:"
