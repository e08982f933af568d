// Package hooks implements the document lifecycle pipeline: pre-persist
// enrichment, post-insert fanout, pre-query filter augmentation and
// post-fetch response reshaping. Each hook receives only the storage
// capability it needs, so tests can exercise one hook against an
// in-memory store without standing up the whole service.
//
// Pre-persist hooks accept batches. A request that submits an array of
// documents runs the hook once over the whole batch, matching the
// batch-insert semantics of the resource endpoints.
package hooks

import "errors"

// ErrNotSingleton is returned by CollapseSingleton when the envelope does
// not hold exactly one item.
var ErrNotSingleton = errors.New("hooks: envelope is not a singleton")
