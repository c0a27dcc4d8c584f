// Package capability issues and verifies signed resource URLs.
//
// A capability is the pair (path, signature): holding it grants the bearer
// exactly one file through exactly one endpoint. Signatures are HMAC-SHA256
// under a key generated when the Signer is constructed, so URLs issued by a
// previous process cannot be replayed after a restart.
//
// Wire format (HTML attribute form):
//
//	image?file=%2Fdocs%2Flogo.png&amp;mac=<hex>&amp;hash=<fingerprint>
//	source?file=%2Fdocs%2Fguide.md&amp;mac=<hex>&amp;projectName=guide
//
// The kind is part of the signed payload; hash and project parameters are not.
package capability
