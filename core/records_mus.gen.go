// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	sliceGTcZrMW99XFSGEy8Sm9aCgΞΞ = ord.NewSliceSer[float32](varint.Float32)
	slicea26xFhZg4L2BdΔY3qΔINeAΞΞ = ord.NewSliceSer[Citation](CitationMUS)
	slicexRhH3OCyUUKzB0Vpfd9QMQΞΞ = ord.NewSliceSer[string](ord.String)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var TenantIDMUS = tenantIDMUS{}

type tenantIDMUS struct{}

func (s tenantIDMUS) Marshal(v TenantID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s tenantIDMUS) Unmarshal(bs []byte) (v TenantID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = TenantID(tmp)
	return
}

func (s tenantIDMUS) Size(v TenantID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s tenantIDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var DocumentStatusMUS = documentStatusMUS{}

type documentStatusMUS struct{}

func (s documentStatusMUS) Marshal(v DocumentStatus, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s documentStatusMUS) Unmarshal(bs []byte) (v DocumentStatus, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = DocumentStatus(tmp)
	return
}

func (s documentStatusMUS) Size(v DocumentStatus) (size int) {
	return varint.Int.Size(int(v))
}

func (s documentStatusMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var TurnRoleMUS = turnRoleMUS{}

type turnRoleMUS struct{}

func (s turnRoleMUS) Marshal(v TurnRole, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s turnRoleMUS) Unmarshal(bs []byte) (v TurnRole, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = TurnRole(tmp)
	return
}

func (s turnRoleMUS) Size(v TurnRole) (size int) {
	return varint.Int.Size(int(v))
}

func (s turnRoleMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var DurationMUS = durationMUS{}

type durationMUS struct{}

func (s durationMUS) Marshal(v time.Duration, bs []byte) (n int) {
	return varint.Int64.Marshal(int64(v), bs)
}

func (s durationMUS) Unmarshal(bs []byte) (v time.Duration, n int, err error) {
	tmp, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = time.Duration(tmp)
	return
}

func (s durationMUS) Size(v time.Duration) (size int) {
	return varint.Int64.Size(int64(v))
}

func (s durationMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int64.Skip(bs)
}

var DocumentMUS = documentMUS{}

type documentMUS struct{}

func (s documentMUS) Marshal(v Document, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += TenantIDMUS.Marshal(v.Tenant, bs[n:])
	n += ord.String.Marshal(v.Name, bs[n:])
	n += varint.Int.Marshal(v.PageCount, bs[n:])
	n += DocumentStatusMUS.Marshal(v.Status, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += varint.Float32.Marshal(v.OCRConfidence, bs[n:])
	n += ord.Bool.Marshal(v.OCRPartial, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s documentMUS) Unmarshal(bs []byte) (v Document, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Tenant, n1, err = TenantIDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.PageCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status, n1, err = DocumentStatusMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.OCRConfidence, n1, err = varint.Float32.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.OCRPartial, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s documentMUS) Size(v Document) (size int) {
	size = IDMUS.Size(v.Id)
	size += TenantIDMUS.Size(v.Tenant)
	size += ord.String.Size(v.Name)
	size += varint.Int.Size(v.PageCount)
	size += DocumentStatusMUS.Size(v.Status)
	size += ord.String.Size(v.Text)
	size += varint.Float32.Size(v.OCRConfidence)
	size += ord.Bool.Size(v.OCRPartial)
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s documentMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = TenantIDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = DocumentStatusMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Float32.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.Bool.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var ChunkMUS = chunkMUS{}

type chunkMUS struct{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(v.DocumentId, bs)
	n += TenantIDMUS.Marshal(v.Tenant, bs[n:])
	n += varint.Int.Marshal(v.Index, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	return n + varint.Int.Marshal(v.TokenCount, bs[n:])
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	v.DocumentId, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Tenant, n1, err = TenantIDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Index, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.TokenCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = IDMUS.Size(v.DocumentId)
	size += TenantIDMUS.Size(v.Tenant)
	size += varint.Int.Size(v.Index)
	size += ord.String.Size(v.Text)
	return size + varint.Int.Size(v.TokenCount)
}

func (s chunkMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = TenantIDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	return
}

var ClassificationResultMUS = classificationResultMUS{}

type classificationResultMUS struct{}

func (s classificationResultMUS) Marshal(v ClassificationResult, bs []byte) (n int) {
	n = IDMUS.Marshal(v.DocumentId, bs)
	n += TenantIDMUS.Marshal(v.Tenant, bs[n:])
	n += ord.String.Marshal(v.DocumentType, bs[n:])
	n += ord.String.Marshal(v.LegalArea, bs[n:])
	n += slicexRhH3OCyUUKzB0Vpfd9QMQΞΞ.Marshal(v.Parties, bs[n:])
	n += slicexRhH3OCyUUKzB0Vpfd9QMQΞΞ.Marshal(v.ImportantDates, bs[n:])
	n += ord.String.Marshal(v.Urgency, bs[n:])
	n += ord.String.Marshal(v.Summary, bs[n:])
	n += slicexRhH3OCyUUKzB0Vpfd9QMQΞΞ.Marshal(v.Keywords, bs[n:])
	n += varint.Float32.Marshal(v.Confidence, bs[n:])
	n += ord.String.Marshal(v.Model, bs[n:])
	n += DurationMUS.Marshal(v.Elapsed, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.ClassifiedAt, bs[n:])
}

func (s classificationResultMUS) Unmarshal(bs []byte) (v ClassificationResult, n int, err error) {
	v.DocumentId, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Tenant, n1, err = TenantIDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.DocumentType, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.LegalArea, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Parties, n1, err = slicexRhH3OCyUUKzB0Vpfd9QMQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ImportantDates, n1, err = slicexRhH3OCyUUKzB0Vpfd9QMQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Urgency, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Summary, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Keywords, n1, err = slicexRhH3OCyUUKzB0Vpfd9QMQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Confidence, n1, err = varint.Float32.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Model, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Elapsed, n1, err = DurationMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ClassifiedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s classificationResultMUS) Size(v ClassificationResult) (size int) {
	size = IDMUS.Size(v.DocumentId)
	size += TenantIDMUS.Size(v.Tenant)
	size += ord.String.Size(v.DocumentType)
	size += ord.String.Size(v.LegalArea)
	size += slicexRhH3OCyUUKzB0Vpfd9QMQΞΞ.Size(v.Parties)
	size += slicexRhH3OCyUUKzB0Vpfd9QMQΞΞ.Size(v.ImportantDates)
	size += ord.String.Size(v.Urgency)
	size += ord.String.Size(v.Summary)
	size += slicexRhH3OCyUUKzB0Vpfd9QMQΞΞ.Size(v.Keywords)
	size += varint.Float32.Size(v.Confidence)
	size += ord.String.Size(v.Model)
	size += DurationMUS.Size(v.Elapsed)
	return size + raw.TimeUnixMicro.Size(v.ClassifiedAt)
}

func (s classificationResultMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = TenantIDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicexRhH3OCyUUKzB0Vpfd9QMQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicexRhH3OCyUUKzB0Vpfd9QMQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicexRhH3OCyUUKzB0Vpfd9QMQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Float32.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = DurationMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var CitationMUS = citationMUS{}

type citationMUS struct{}

func (s citationMUS) Marshal(v Citation, bs []byte) (n int) {
	n = IDMUS.Marshal(v.DocumentId, bs)
	n += varint.Int.Marshal(v.ChunkIndex, bs[n:])
	return n + varint.Float32.Marshal(v.Score, bs[n:])
}

func (s citationMUS) Unmarshal(bs []byte) (v Citation, n int, err error) {
	v.DocumentId, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.ChunkIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Score, n1, err = varint.Float32.Unmarshal(bs[n:])
	n += n1
	return
}

func (s citationMUS) Size(v Citation) (size int) {
	size = IDMUS.Size(v.DocumentId)
	size += varint.Int.Size(v.ChunkIndex)
	return size + varint.Float32.Size(v.Score)
}

func (s citationMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Float32.Skip(bs[n:])
	n += n1
	return
}

var ConversationTurnMUS = conversationTurnMUS{}

type conversationTurnMUS struct{}

func (s conversationTurnMUS) Marshal(v ConversationTurn, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.ConversationId, bs[n:])
	n += TenantIDMUS.Marshal(v.Tenant, bs[n:])
	n += TurnRoleMUS.Marshal(v.Role, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += slicea26xFhZg4L2BdΔY3qΔINeAΞΞ.Marshal(v.Citations, bs[n:])
	n += ord.Bool.Marshal(v.Grounded, bs[n:])
	n += ord.Bool.Marshal(v.Degraded, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
}

func (s conversationTurnMUS) Unmarshal(bs []byte) (v ConversationTurn, n int, err error) {
	v.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.ConversationId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Tenant, n1, err = TenantIDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Role, n1, err = TurnRoleMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Citations, n1, err = slicea26xFhZg4L2BdΔY3qΔINeAΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Grounded, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Degraded, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s conversationTurnMUS) Size(v ConversationTurn) (size int) {
	size = ord.String.Size(v.Id)
	size += IDMUS.Size(v.ConversationId)
	size += TenantIDMUS.Size(v.Tenant)
	size += TurnRoleMUS.Size(v.Role)
	size += ord.String.Size(v.Text)
	size += slicea26xFhZg4L2BdΔY3qΔINeAΞΞ.Size(v.Citations)
	size += ord.Bool.Size(v.Grounded)
	size += ord.Bool.Size(v.Degraded)
	return size + raw.TimeUnixMicro.Size(v.CreatedAt)
}

func (s conversationTurnMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = TenantIDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = TurnRoleMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicea26xFhZg4L2BdΔY3qΔINeAΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.Bool.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.Bool.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var VectorEntryMUS = vectorEntryMUS{}

type vectorEntryMUS struct{}

func (s vectorEntryMUS) Marshal(v VectorEntry, bs []byte) (n int) {
	n = TenantIDMUS.Marshal(v.Tenant, bs)
	n += IDMUS.Marshal(v.DocumentId, bs[n:])
	n += varint.Int.Marshal(v.ChunkIndex, bs[n:])
	n += sliceGTcZrMW99XFSGEy8Sm9aCgΞΞ.Marshal(v.Vector, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.DocCreatedAt, bs[n:])
}

func (s vectorEntryMUS) Unmarshal(bs []byte) (v VectorEntry, n int, err error) {
	v.Tenant, n, err = TenantIDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.DocumentId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ChunkIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = sliceGTcZrMW99XFSGEy8Sm9aCgΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.DocCreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s vectorEntryMUS) Size(v VectorEntry) (size int) {
	size = TenantIDMUS.Size(v.Tenant)
	size += IDMUS.Size(v.DocumentId)
	size += varint.Int.Size(v.ChunkIndex)
	size += sliceGTcZrMW99XFSGEy8Sm9aCgΞΞ.Size(v.Vector)
	return size + raw.TimeUnixMicro.Size(v.DocCreatedAt)
}

func (s vectorEntryMUS) Skip(bs []byte) (n int, err error) {
	n, err = TenantIDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceGTcZrMW99XFSGEy8Sm9aCgΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
