// Package chat orchestrates retrieval-augmented answers over a tenant's
// documents.
//
// Each question is embedded, matched against the tenant's vector
// partition, and answered by the generation model with the retrieved
// chunks as numbered excerpts. Answers carry citations pointing back at
// the chunks that ground them; when retrieval finds nothing, the turn is
// marked ungrounded and the model is told to say so. Retrieval failures
// degrade a turn instead of failing it, with one exception: an integrity
// fault in the index aborts the turn unconditionally.
package chat
