// Package changelog is the durable, append-only log of tree change events.
//
// Records are framed as
//
//	[kind:1][seq:8][time:8][len:4][payload][crc:4]
//
// in big-endian order, with the CRC-32 (IEEE) covering header and payload.
// Frames are appended to numbered segment files that roll over once they
// reach the configured size. Replay walks segments in order and rejects
// corrupted frames and non-increasing sequence numbers.
package changelog
