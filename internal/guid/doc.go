// Package guid owns the 128-bit protocol identifier and its text codec.
//
// Ownership boundary:
// - structured identifier shape (Data1/Data2/Data3/Data4)
// - strict 36-character text parsing
// - canonical uppercase formatting
package guid
