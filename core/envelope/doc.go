// Package envelope seals arbitrary JSON-serializable values into opaque,
// URL-safe strings using AES-256-GCM with a per-envelope key derived from a
// server-held password (HKDF-SHA256 over a random salt).
//
// Envelopes carry an optional time-to-live inside the authenticated plaintext,
// so an expired envelope cannot be revived by editing cookie attributes.
//
// # Password Rotation
//
// The first password seals. Every configured password is tried when opening,
// so a new password can be rolled out while old cookies keep working:
//
//	codec, err := envelope.New([]string{newPassword, oldPassword})
//	if err != nil {
//		log.Fatal(err) // ErrPasswordTooShort when a password has < 32 chars
//	}
//
//	sealed, err := codec.Seal(sess, 0)
//
//	var out session.Session
//	if err := codec.Unseal(sealed, &out); err != nil {
//		// *DecryptError: tampered, foreign password, malformed or expired
//	}
package envelope
