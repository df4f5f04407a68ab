// Package utils provides small conversion helpers shared by the HTTP handlers and the CLI:
// identifier parsing for loosely typed event payloads and splitting of delimited email lists.
package utils
