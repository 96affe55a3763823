// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package vectorstore persists support content in Weaviate with
// deterministic identities, so re-ingesting the same source record is
// always a no-op.
package vectorstore

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
)

// StoreKeyFor maps a source identifier to a fixed-width store key.
// The key is the first 32 bits of the MD5 digest of the id, so the same
// source record always lands on the same key across runs and restarts.
// MD5 is used as a stable hash here, not for any security property.
func StoreKeyFor(sourceID string) uint32 {
	sum := md5.Sum([]byte(sourceID))
	return binary.BigEndian.Uint32(sum[:4])
}

// KeyToUUID embeds a store key into a syntactically valid UUID so it can be
// used as a Weaviate object id. The mapping is injective: two distinct keys
// never produce the same UUID.
func KeyToUUID(key uint32) string {
	return fmt.Sprintf("%08x-0000-4000-8000-%012x", key, uint64(key))
}

// UUIDFor is the composed identity mapping used for object writes.
func UUIDFor(sourceID string) string {
	return KeyToUUID(StoreKeyFor(sourceID))
}
