// Package secrets holds the credential bundle produced by a base-resource
// deployment and reads and writes its local key=value file.
//
// The file may instead be sealed with age to one or more X25519 recipients,
// in which case it is written ASCII-armored and only the holder of a matching
// identity can read it back.
package secrets
