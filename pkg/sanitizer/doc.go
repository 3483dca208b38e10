// Package sanitizer normalises free-form input before validation and storage.
//
// Every function is idempotent. Invalid input produces an empty value rather
// than an error; the validators reject empty required fields afterwards.
//
// Normalisation includes:
//   - Phone numbers: E.164 via libphonenumber, empty when not a valid number
//   - URLs: scheme enforced, host lower-cased, tracking parameters dropped
//   - Strings: whitespace collapsed and trimmed
//   - Emails and usernames: trimmed and lower-cased
//   - Amenities: lower-cased, de-duplicated, empties removed
package sanitizer
