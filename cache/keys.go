// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package cache

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/docpipe/core"
)

// ContentKey derives a cache key from tenant, model and content text.
//
// The tenant id is always folded into the key. Two tenants holding
// byte-identical text therefore never share an entry; a cross-tenant hit
// would be an integrity fault, and the lost dedup opportunity has no
// security value.
func ContentKey(tenant core.TenantID, model, text string) string {
	h, _ := blake2b.New(16, nil)

	var tenantBytes [8]byte
	binary.LittleEndian.PutUint64(tenantBytes[:], uint64(tenant))
	h.Write(tenantBytes[:])
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))

	return hex.EncodeToString(h.Sum(nil))
}
